package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"healthybychoice/internal/models/db_models"
	"healthybychoice/internal/quiz"
	"healthybychoice/pkg/utils"
)

// sessionColumns are rewritten on every save; created_at is left alone.
var sessionColumns = []string{
	"updated_at", "locale", "phase", "step", "welcome", "concern", "concern_response",
	"commentary", "answers", "score", "final_analysis", "report_analysis", "report_paid",
	"purchased_plan", "advance_at", "locked_until",
}

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Load(ctx context.Context, id string) (*quiz.Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, utils.ErrSessionNotFound
	}
	var row db_models.QuizSession
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrSessionNotFound
		}
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return row.ToDomain()
}

func (r *SessionRepository) Save(ctx context.Context, s *quiz.Session) error {
	row, err := db_models.QuizSessionFromDomain(s)
	if err != nil {
		return err
	}
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns(sessionColumns),
		}).
		Create(row).Error
	if err != nil {
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return nil
}

func (r *SessionRepository) Clear(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Delete(&db_models.QuizSession{}, "id = ?", id).Error
	if err != nil {
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return nil
}
