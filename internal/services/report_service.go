package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"healthybychoice/internal/models/response_models"
	"healthybychoice/internal/plans"
	"healthybychoice/internal/quiz"
	"healthybychoice/internal/repositories"
	"healthybychoice/pkg/i18n"
	mem "healthybychoice/pkg/memcache"
	"healthybychoice/pkg/utils"
)

type ReportServiceInterface interface {
	Report(ctx context.Context, sessionID string) (*response_models.ReportView, error)
}

type ReportService struct {
	store      repositories.SessionStore
	commentary CommentaryServiceInterface
	tr         *i18n.Translator
	guard      mem.InflightStore
	aiTimeout  time.Duration
	logger     *zap.Logger
}

func NewReportService(
	store repositories.SessionStore,
	commentary CommentaryServiceInterface,
	tr *i18n.Translator,
	guard mem.InflightStore,
	aiTimeout time.Duration,
	logger *zap.Logger,
) ReportServiceInterface {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		store:      store,
		commentary: commentary,
		tr:         tr,
		guard:      guard,
		aiTimeout:  aiTimeout,
		logger:     logger.Named("report"),
	}
}

// Report builds the results page for the session's plan. Sections the plan
// does not unlock are left out entirely.
func (r *ReportService) Report(ctx context.Context, sessionID string) (*response_models.ReportView, error) {
	s, err := r.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !s.HasResults() {
		return nil, utils.ErrNoQuizResults
	}

	locale := s.Locale
	tier := s.Plan()
	score := s.CurrentScore()
	sections := plans.Sections(tier)

	view := &response_models.ReportView{
		Locale:     string(locale),
		Plan:       string(tier),
		Sections:   make([]string, 0, len(sections)),
		Score:      score,
		ScoreTitle: r.tr.T(locale, "results.score.label", nil),
		ScoreLabel: r.tr.T(locale, quiz.LabelKey(score), nil),
		Teaser:     s.FinalAnalysis,
		Disclaimer: r.tr.T(locale, "results.disclaimer", nil),
	}
	view.Goal, view.GoalLabel, view.GoalConnection = r.goalConnection(locale, s.Answers)

	for _, section := range sections {
		view.Sections = append(view.Sections, string(section))
		switch section {
		case plans.SectionPaywall:
			view.Paywall = &response_models.PaywallView{
				Title:    r.tr.T(locale, "results.unlock.title", nil),
				Subtitle: r.tr.T(locale, "results.unlock.subtitle", nil),
				Plans:    PlanCatalog(r.tr, locale),
			}
		case plans.SectionAIAnalysis:
			view.Analysis = r.reportAnalysis(ctx, s)
		case plans.SectionResetProtocol:
			view.ResetProtocol = r.resetProtocol(locale)
		case plans.SectionProbioticGuide:
			view.ProbioticGuide = &response_models.ProbioticGuideView{
				Title:   r.tr.T(locale, "results.probiotics.title", nil),
				Strains: r.tr.List(locale, "results.probiotics.strains"),
			}
		case plans.SectionFastingProtocol:
			view.FastingProtocol = r.fastingProtocol(locale)
		case plans.SectionUpgradeOffer:
			view.UpgradeOffer, _ = upgradeOffer(r.tr, locale, tier)
		}
	}
	return view, nil
}

func (r *ReportService) goalConnection(locale i18n.Locale, answers quiz.Answers) (goal, label, text string) {
	goal = answers["goal"]
	if goal == "" {
		return "", "", r.tr.T(locale, "report.fallback.goalConnection", nil)
	}
	label = r.tr.T(locale, "goals."+goal, nil)
	return goal, label, r.tr.T(locale, "results.goal.connection", map[string]any{"goal": label})
}

// reportAnalysis returns the cached analysis or generates and caches one.
func (r *ReportService) reportAnalysis(ctx context.Context, s *quiz.Session) *quiz.ReportAnalysis {
	if s.ReportAnalysis != nil {
		return s.ReportAnalysis
	}
	analysis := r.commentary.ReportAnalysis(ctx, s.Locale, s.Answers.Clone(), s.Concern)

	// Skip caching when another request holds the session; it will be
	// generated again next time.
	if !r.guard.Acquire(s.ID, r.aiTimeout+5*time.Second) {
		return analysis
	}
	defer r.guard.Release(s.ID)

	latest, err := r.store.Load(ctx, s.ID)
	if err != nil {
		r.logger.Warn("report analysis not cached", zap.String("session_id", s.ID), zap.Error(err))
		return analysis
	}
	latest.ReportAnalysis = analysis
	if err := r.store.Save(ctx, latest); err != nil {
		r.logger.Warn("report analysis not cached", zap.String("session_id", s.ID), zap.Error(err))
	}
	return analysis
}

func (r *ReportService) resetProtocol(locale i18n.Locale) *response_models.ResetProtocolView {
	t := func(key string) string { return r.tr.T(locale, "results.resetProtocol."+key, nil) }
	return &response_models.ResetProtocolView{
		Title:      t("title"),
		Remove:     t("remove"),
		RemoveList: t("removeList"),
		Cooking:    t("cooking"),
		CookingTip: t("cookingTip"),
		Focus:      t("focus"),
		FocusList:  t("focusList"),
	}
}

func (r *ReportService) fastingProtocol(locale i18n.Locale) *response_models.FastingProtocolView {
	t := func(key string) string { return r.tr.T(locale, "results.fasting."+key, nil) }
	return &response_models.FastingProtocolView{
		Title:     t("title"),
		Exclusive: t("exclusive"),
		Heading:   t("twoMeal"),
		Steps:     []string{t("firstMeal"), t("secondMeal"), t("noEating"), t("betweenMeals")},
		Habit:     t("habit"),
	}
}
