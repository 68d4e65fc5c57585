package db_models

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"healthybychoice/internal/plans"
	"healthybychoice/internal/quiz"
	"healthybychoice/pkg/i18n"
	"healthybychoice/pkg/utils"
)

type QuizSession struct {
	BaseModel
	Locale          string `gorm:"size:8"`
	Phase           string `gorm:"size:16;index"`
	Step            int
	Welcome         string `gorm:"type:text"`
	Concern         string `gorm:"type:text"`
	ConcernResponse string `gorm:"type:text"`
	Commentary      string `gorm:"type:text"`

	Answers        datatypes.JSON `gorm:"type:jsonb;default:'{}'"`
	Score          int
	FinalAnalysis  datatypes.JSON `gorm:"type:jsonb"`
	ReportAnalysis datatypes.JSON `gorm:"type:jsonb"`

	ReportPaid    bool
	PurchasedPlan string `gorm:"size:16;default:'none'"`

	// unix milliseconds; zero when unset
	AdvanceAt   int64
	LockedUntil int64
}

// QuizSessionFromDomain flattens a flow session into its row.
func QuizSessionFromDomain(s *quiz.Session) (*QuizSession, error) {
	id, err := uuid.Parse(s.ID)
	if err != nil {
		return nil, fmt.Errorf("session id: %w", err)
	}
	answers, err := json.Marshal(s.Answers)
	if err != nil {
		return nil, err
	}

	row := &QuizSession{
		BaseModel: BaseModel{
			ID:        id,
			CreatedAt: s.CreatedAt.Unix(),
			UpdatedAt: s.UpdatedAt.Unix(),
		},
		Locale:          string(s.Locale),
		Phase:           string(s.Phase),
		Step:            s.Step,
		Welcome:         s.Welcome,
		Concern:         s.Concern,
		ConcernResponse: s.ConcernResponse,
		Commentary:      s.Commentary,
		Answers:         answers,
		Score:           s.Score,
		ReportPaid:      s.ReportPaid,
		PurchasedPlan:   string(s.PurchasedPlan),
		AdvanceAt:       utils.UnixMillisOrZero(s.AdvanceAt),
		LockedUntil:     utils.UnixMillisOrZero(s.LockedUntil),
	}
	if s.FinalAnalysis != nil {
		if row.FinalAnalysis, err = json.Marshal(s.FinalAnalysis); err != nil {
			return nil, err
		}
	}
	if s.ReportAnalysis != nil {
		if row.ReportAnalysis, err = json.Marshal(s.ReportAnalysis); err != nil {
			return nil, err
		}
	}
	return row, nil
}

func (q *QuizSession) ToDomain() (*quiz.Session, error) {
	s := &quiz.Session{
		ID:              q.ID.String(),
		Locale:          i18n.Locale(q.Locale),
		Phase:           quiz.Phase(q.Phase),
		Step:            q.Step,
		Welcome:         q.Welcome,
		Concern:         q.Concern,
		ConcernResponse: q.ConcernResponse,
		Commentary:      q.Commentary,
		Answers:         quiz.Answers{},
		Score:           q.Score,
		ReportPaid:      q.ReportPaid,
		PurchasedPlan:   plans.Tier(q.PurchasedPlan),
		AdvanceAt:       utils.FromUnixMillis(q.AdvanceAt),
		LockedUntil:     utils.FromUnixMillis(q.LockedUntil),
		CreatedAt:       utils.FromUnixSeconds(q.CreatedAt),
		UpdatedAt:       utils.FromUnixSeconds(q.UpdatedAt),
	}
	if s.PurchasedPlan == "" {
		s.PurchasedPlan = plans.TierNone
	}
	if len(q.Answers) > 0 {
		if err := json.Unmarshal(q.Answers, &s.Answers); err != nil {
			return nil, fmt.Errorf("answers: %w", err)
		}
	}
	if len(q.FinalAnalysis) > 0 && string(q.FinalAnalysis) != "null" {
		s.FinalAnalysis = &quiz.FinalAnalysis{}
		if err := json.Unmarshal(q.FinalAnalysis, s.FinalAnalysis); err != nil {
			return nil, fmt.Errorf("final analysis: %w", err)
		}
	}
	if len(q.ReportAnalysis) > 0 && string(q.ReportAnalysis) != "null" {
		s.ReportAnalysis = &quiz.ReportAnalysis{}
		if err := json.Unmarshal(q.ReportAnalysis, s.ReportAnalysis); err != nil {
			return nil, fmt.Errorf("report analysis: %w", err)
		}
	}
	return s, nil
}
