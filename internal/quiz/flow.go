package quiz

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"healthybychoice/internal/plans"
	"healthybychoice/pkg/i18n"
)

type Phase string

const (
	PhaseWelcome   Phase = "welcome"
	PhaseConcern   Phase = "concern"
	PhaseQuestions Phase = "questions"
	PhaseAnalyzing Phase = "analyzing"
	PhaseResults   Phase = "results"
)

var (
	ErrBusy               = errors.New("session is busy")
	ErrWrongPhase         = errors.New("operation not allowed in current phase")
	ErrEmptyConcern       = errors.New("concern must not be empty")
	ErrInvalidOption      = errors.New("invalid option for current question")
	ErrNoPreviousQuestion = errors.New("no previous question")
)

// Timing controls how long a delivered message keeps the session locked.
type Timing struct {
	// AdvanceDelay is the pause after a reply is revealed before the next step.
	AdvanceDelay time.Duration
	// TypingInterval is the reveal time per character.
	TypingInterval time.Duration
}

var DefaultTiming = Timing{
	AdvanceDelay:   2 * time.Second,
	TypingInterval: 25 * time.Millisecond,
}

func (t Timing) RevealDuration(text string) time.Duration {
	return time.Duration(utf8.RuneCountInString(text)) * t.TypingInterval
}

// Session is the persisted state of one funnel visitor.
type Session struct {
	ID     string      `json:"id"`
	Locale i18n.Locale `json:"locale"`

	Phase           Phase  `json:"phase"`
	Step            int    `json:"step"`
	Welcome         string `json:"welcome"`
	Concern         string `json:"concern"`
	ConcernResponse string `json:"concern_response"`
	Commentary      string `json:"commentary"`

	Answers        Answers         `json:"answers"`
	Score          int             `json:"score"`
	FinalAnalysis  *FinalAnalysis  `json:"final_analysis,omitempty"`
	ReportAnalysis *ReportAnalysis `json:"report_analysis,omitempty"`

	ReportPaid    bool       `json:"report_paid"`
	PurchasedPlan plans.Tier `json:"purchased_plan"`

	// AdvanceAt is when the pending automatic transition fires; zero when none.
	AdvanceAt   time.Time `json:"advance_at"`
	LockedUntil time.Time `json:"locked_until"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	pending bool
}

// NewSession starts at the welcome phase. The welcome message locks the
// session until it has been revealed, then Settle moves on to the concern.
func NewSession(id string, locale i18n.Locale, welcome string, timing Timing, now time.Time) *Session {
	done := now.Add(timing.RevealDuration(welcome))
	return &Session{
		ID:            id,
		Locale:        locale,
		Phase:         PhaseWelcome,
		Welcome:       welcome,
		Answers:       Answers{},
		PurchasedPlan: plans.TierNone,
		AdvanceAt:     done,
		LockedUntil:   done,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func (s *Session) Busy(now time.Time) bool {
	return s.pending || now.Before(s.LockedUntil)
}

// Settle applies automatic transitions that are due. It reports whether the
// session changed.
func (s *Session) Settle(now time.Time) bool {
	if s.AdvanceAt.IsZero() || now.Before(s.AdvanceAt) {
		return false
	}

	switch s.Phase {
	case PhaseWelcome:
		s.Phase = PhaseConcern
	case PhaseConcern:
		s.Phase = PhaseQuestions
		s.Step = 0
	case PhaseQuestions:
		if s.Step < QuestionCount-1 {
			s.Step++
		}
		s.Commentary = ""
	}
	s.AdvanceAt = time.Time{}
	s.UpdatedAt = now
	return true
}

// CurrentQuestion is the question awaiting an answer, if any.
func (s *Session) CurrentQuestion() (Question, bool) {
	if s.Phase != PhaseQuestions {
		return Question{}, false
	}
	return QuestionAt(s.Step)
}

// BeginConcern validates and records the visitor's concern. The caller asks
// for a reply and hands it to CompleteConcern.
func (s *Session) BeginConcern(text string, now time.Time) error {
	if s.Phase != PhaseConcern {
		return ErrWrongPhase
	}
	if s.Busy(now) {
		return ErrBusy
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyConcern
	}
	s.Concern = text
	s.pending = true
	s.UpdatedAt = now
	return nil
}

func (s *Session) CompleteConcern(response string, timing Timing, now time.Time) {
	s.pending = false
	s.ConcernResponse = response
	s.scheduleAdvance(response, timing, now)
}

// BeginAnswer records the option for the current question.
func (s *Session) BeginAnswer(option string, now time.Time) (Question, error) {
	q, ok := s.CurrentQuestion()
	if !ok {
		return Question{}, ErrWrongPhase
	}
	if s.Busy(now) {
		return Question{}, ErrBusy
	}
	if !ValidOption(q.Key, option) {
		return Question{}, ErrInvalidOption
	}
	if s.Answers == nil {
		s.Answers = Answers{}
	}
	s.Answers[q.Key] = option
	s.pending = true
	s.UpdatedAt = now
	return q, nil
}

// CompleteAnswer stores the commentary for the answered question. On the last
// question the session moves to analyzing and the score is cached.
func (s *Session) CompleteAnswer(commentary string, timing Timing, now time.Time) {
	s.pending = false
	s.Commentary = commentary
	if s.Step < QuestionCount-1 {
		s.scheduleAdvance(commentary, timing, now)
		return
	}
	s.Phase = PhaseAnalyzing
	s.Score = ComputeScore(s.Answers)
	s.AdvanceAt = time.Time{}
	s.LockedUntil = now.Add(timing.RevealDuration(commentary))
	s.UpdatedAt = now
}

func (s *Session) CompleteAnalysis(analysis *FinalAnalysis, now time.Time) error {
	if s.Phase != PhaseAnalyzing {
		return ErrWrongPhase
	}
	s.FinalAnalysis = analysis
	s.Phase = PhaseResults
	s.UpdatedAt = now
	return nil
}

// Back returns to the previous question. The earlier answer is kept.
func (s *Session) Back(now time.Time) error {
	if s.Phase != PhaseQuestions {
		return ErrWrongPhase
	}
	if s.Busy(now) {
		return ErrBusy
	}
	if s.Step == 0 {
		return ErrNoPreviousQuestion
	}
	s.Step--
	s.Commentary = ""
	s.UpdatedAt = now
	return nil
}

// HasResults reports whether the report stage has what it needs.
func (s *Session) HasResults() bool {
	return len(s.Answers) > 0 && (s.Phase == PhaseAnalyzing || s.Phase == PhaseResults)
}

// Plan is the effective purchased tier. Sessions paid before tiers existed
// read as standard.
func (s *Session) Plan() plans.Tier {
	if s.ReportPaid && s.PurchasedPlan == plans.TierNone {
		return plans.TierStandard
	}
	return s.PurchasedPlan
}

// Purchase advances the plan after a successful charge.
func (s *Session) Purchase(tier plans.Tier, now time.Time) error {
	next, err := plans.Advance(s.Plan(), tier)
	if err != nil {
		return err
	}
	s.PurchasedPlan = next
	s.ReportPaid = true
	s.UpdatedAt = now
	return nil
}

// CurrentScore recomputes the score from the recorded answers.
func (s *Session) CurrentScore() int {
	return ComputeScore(s.Answers)
}

func (s *Session) scheduleAdvance(text string, timing Timing, now time.Time) {
	s.AdvanceAt = now.Add(timing.RevealDuration(text) + timing.AdvanceDelay)
	s.LockedUntil = s.AdvanceAt
	s.UpdatedAt = now
}
