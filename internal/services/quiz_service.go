package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"healthybychoice/internal/models/response_models"
	"healthybychoice/internal/plans"
	"healthybychoice/internal/quiz"
	"healthybychoice/internal/repositories"
	"healthybychoice/pkg/i18n"
	mem "healthybychoice/pkg/memcache"
	"healthybychoice/pkg/utils"
)

type QuizServiceInterface interface {
	Start(ctx context.Context, locale i18n.Locale) (*response_models.SessionStartResponse, error)
	Current(ctx context.Context, sessionID string) (*response_models.SessionView, error)
	SubmitConcern(ctx context.Context, sessionID, concern string) (*response_models.SessionView, error)
	Answer(ctx context.Context, sessionID, option string) (*response_models.SessionView, error)
	Back(ctx context.Context, sessionID string) (*response_models.SessionView, error)
	Restart(ctx context.Context, sessionID string) (*response_models.SessionStartResponse, error)
	SetLocale(ctx context.Context, sessionID string, locale string) (i18n.Locale, error)
}

type QuizConfig struct {
	Timing    quiz.Timing
	AITimeout time.Duration
}

type QuizService struct {
	store      repositories.SessionStore
	commentary CommentaryServiceInterface
	tr         *i18n.Translator
	tokens     *utils.SessionTokens
	guard      mem.InflightStore
	cfg        QuizConfig
	logger     *zap.Logger
	now        func() time.Time
}

func NewQuizService(
	store repositories.SessionStore,
	commentary CommentaryServiceInterface,
	tr *i18n.Translator,
	tokens *utils.SessionTokens,
	guard mem.InflightStore,
	cfg QuizConfig,
	logger *zap.Logger,
) QuizServiceInterface {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuizService{
		store:      store,
		commentary: commentary,
		tr:         tr,
		tokens:     tokens,
		guard:      guard,
		cfg:        cfg,
		logger:     logger.Named("quiz"),
		now:        time.Now,
	}
}

func (q *QuizService) Start(ctx context.Context, locale i18n.Locale) (*response_models.SessionStartResponse, error) {
	if !locale.Valid() {
		locale = q.tr.Fallback()
	}
	now := q.now()
	s := quiz.NewSession(uuid.NewString(), locale, q.tr.T(locale, "chat.welcome", nil), q.cfg.Timing, now)
	if err := q.store.Save(ctx, s); err != nil {
		return nil, err
	}

	token, err := q.tokens.CreateSessionToken(s.ID)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}
	q.logger.Info("session started", zap.String("session_id", s.ID), zap.String("locale", string(locale)))

	return &response_models.SessionStartResponse{
		Token:   token,
		Session: sessionView(q.tr, s, q.cfg.Timing, now),
	}, nil
}

func (q *QuizService) Current(ctx context.Context, sessionID string) (*response_models.SessionView, error) {
	s, now, err := q.loadSettled(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return sessionView(q.tr, s, q.cfg.Timing, now), nil
}

func (q *QuizService) SubmitConcern(ctx context.Context, sessionID, concern string) (*response_models.SessionView, error) {
	return q.mutate(ctx, sessionID, q.cfg.AITimeout, func(s *quiz.Session, now time.Time) error {
		if err := s.BeginConcern(concern, now); err != nil {
			return err
		}
		reply := q.commentary.ConcernResponse(ctx, s.Locale, s.Concern)
		s.CompleteConcern(reply, q.cfg.Timing, q.now())
		return nil
	})
}

func (q *QuizService) Answer(ctx context.Context, sessionID, option string) (*response_models.SessionView, error) {
	// The last answer also waits for the final analysis.
	return q.mutate(ctx, sessionID, 2*q.cfg.AITimeout, func(s *quiz.Session, now time.Time) error {
		question, err := s.BeginAnswer(option, now)
		if err != nil {
			return err
		}
		reply := q.commentary.QuestionResponse(ctx, s.Locale, question.Key, option, s.Answers.Clone(), s.Concern)
		s.CompleteAnswer(reply, q.cfg.Timing, q.now())

		if s.Phase != quiz.PhaseAnalyzing {
			return nil
		}
		q.logger.Info("quiz completed",
			zap.String("session_id", s.ID),
			zap.Int("score", s.Score))
		analysis := q.commentary.FinalAnalysis(ctx, s.Locale, s.Answers.Clone(), s.Score, s.Concern)
		return s.CompleteAnalysis(analysis, q.now())
	})
}

func (q *QuizService) Back(ctx context.Context, sessionID string) (*response_models.SessionView, error) {
	return q.mutate(ctx, sessionID, time.Second, func(s *quiz.Session, now time.Time) error {
		return s.Back(now)
	})
}

// Restart drops the session and starts a fresh one in the same locale.
func (q *QuizService) Restart(ctx context.Context, sessionID string) (*response_models.SessionStartResponse, error) {
	locale := q.tr.Fallback()
	if s, err := q.store.Load(ctx, sessionID); err == nil {
		locale = s.Locale
	} else if !errors.Is(err, utils.ErrSessionNotFound) {
		return nil, err
	}
	if err := q.store.Clear(ctx, sessionID); err != nil {
		return nil, err
	}
	return q.Start(ctx, locale)
}

// SetLocale validates locale and stores it on the session when there is one.
func (q *QuizService) SetLocale(ctx context.Context, sessionID string, locale string) (i18n.Locale, error) {
	l, ok := i18n.ParseLocale(locale)
	if !ok {
		return "", fmt.Errorf("%w: %q", utils.ErrUnsupportedLocale, locale)
	}
	if sessionID == "" {
		return l, nil
	}

	_, err := q.mutate(ctx, sessionID, time.Second, func(s *quiz.Session, now time.Time) error {
		s.Locale = l
		s.UpdatedAt = now
		return nil
	})
	if err != nil && !errors.Is(err, utils.ErrSessionNotFound) {
		return "", err
	}
	return l, nil
}

func (q *QuizService) loadSettled(ctx context.Context, sessionID string) (*quiz.Session, time.Time, error) {
	s, err := q.store.Load(ctx, sessionID)
	if err != nil {
		return nil, time.Time{}, err
	}
	now := q.now()
	if s.Settle(now) {
		if err := q.store.Save(ctx, s); err != nil {
			return nil, time.Time{}, err
		}
	}
	return s, now, nil
}

// mutate runs fn on the settled session while holding the session's in-flight
// flag, then persists the result.
func (q *QuizService) mutate(ctx context.Context, sessionID string, hold time.Duration, fn func(s *quiz.Session, now time.Time) error) (*response_models.SessionView, error) {
	if !q.guard.Acquire(sessionID, hold+5*time.Second) {
		return nil, utils.ErrSessionBusy
	}
	defer q.guard.Release(sessionID)

	s, now, err := q.loadSettled(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := fn(s, now); err != nil {
		return nil, flowError(err)
	}
	if err := q.store.Save(ctx, s); err != nil {
		return nil, err
	}
	return sessionView(q.tr, s, q.cfg.Timing, q.now()), nil
}

// flowError maps state machine errors onto service errors.
func flowError(err error) error {
	switch {
	case errors.Is(err, quiz.ErrBusy):
		return fmt.Errorf("%w: %v", utils.ErrSessionBusy, err)
	case errors.Is(err, quiz.ErrWrongPhase):
		return fmt.Errorf("%w: %v", utils.ErrWrongPhase, err)
	case errors.Is(err, quiz.ErrEmptyConcern):
		return fmt.Errorf("%w: %v", utils.ErrEmptyConcern, err)
	case errors.Is(err, quiz.ErrInvalidOption):
		return fmt.Errorf("%w: %v", utils.ErrInvalidOption, err)
	case errors.Is(err, quiz.ErrNoPreviousQuestion):
		return fmt.Errorf("%w: %v", utils.ErrNoPreviousQuestion, err)
	case errors.Is(err, plans.ErrPlanDowngrade):
		return fmt.Errorf("%w: %v", utils.ErrPlanDowngrade, err)
	case errors.Is(err, plans.ErrNoUpgradeAvailable):
		return fmt.Errorf("%w: %v", utils.ErrNoUpgradeAvailable, err)
	case errors.Is(err, plans.ErrUnknownTier):
		return fmt.Errorf("%w: %v", utils.ErrInvalidInput, err)
	default:
		return err
	}
}
