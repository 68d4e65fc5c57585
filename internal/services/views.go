package services

import (
	"time"

	"healthybychoice/internal/models/response_models"
	"healthybychoice/internal/plans"
	"healthybychoice/internal/quiz"
	"healthybychoice/pkg/i18n"
)

func questionView(tr *i18n.Translator, locale i18n.Locale, index int, q quiz.Question, selected string) *response_models.QuestionView {
	options := make([]response_models.OptionView, 0, len(q.Options))
	for _, o := range q.Options {
		options = append(options, response_models.OptionView{
			Key:   o,
			Label: tr.T(locale, "quiz.questions."+q.Key+".options."+o, nil),
		})
	}
	return &response_models.QuestionView{
		Index:    index,
		Key:      q.Key,
		Title:    tr.T(locale, "quiz.questions."+q.Key+".title", nil),
		Options:  options,
		Selected: selected,
	}
}

// QuestionCatalog is the localized questionnaire in presentation order.
func QuestionCatalog(tr *i18n.Translator, locale i18n.Locale) []*response_models.QuestionView {
	out := make([]*response_models.QuestionView, 0, len(quiz.Questions))
	for i, q := range quiz.Questions {
		out = append(out, questionView(tr, locale, i, q, ""))
	}
	return out
}

func sessionView(tr *i18n.Translator, s *quiz.Session, timing quiz.Timing, now time.Time) *response_models.SessionView {
	view := &response_models.SessionView{
		SessionID:        s.ID,
		Locale:           string(s.Locale),
		Phase:            string(s.Phase),
		Step:             s.Step,
		TotalSteps:       quiz.QuestionCount,
		Busy:             s.Busy(now),
		TypingIntervalMS: timing.TypingInterval.Milliseconds(),
		Welcome:          s.Welcome,
		Concern:          s.Concern,
		ConcernResponse:  s.ConcernResponse,
		Commentary:       s.Commentary,
		CanGoBack:        s.Phase == quiz.PhaseQuestions && s.Step > 0 && !s.Busy(now),
		Answers:          s.Answers.Clone(),
	}
	if view.Busy {
		until := s.LockedUntil
		view.BusyUntil = &until
	}
	if q, ok := s.CurrentQuestion(); ok {
		view.Question = questionView(tr, s.Locale, s.Step, q, s.Answers[q.Key])
	}
	if s.Phase == quiz.PhaseAnalyzing || s.Phase == quiz.PhaseResults {
		score := s.CurrentScore()
		view.Score = &score
		view.ScoreLabel = tr.T(s.Locale, quiz.LabelKey(score), nil)
		view.Analysis = s.FinalAnalysis
	}
	return view
}

func planView(tr *i18n.Translator, locale i18n.Locale, t plans.Tier) response_models.PlanView {
	price, _ := plans.Price(t)
	amount, _ := plans.Amount(t)
	return response_models.PlanView{
		Tier:        string(t),
		Name:        tr.T(locale, plans.NameKey(t), nil),
		Price:       price,
		AmountMinor: amount,
		Currency:    plans.Currency,
		Features:    tr.List(locale, plans.FeaturesKey(t)),
	}
}

// PlanCatalog lists the purchasable tiers with localized names and features.
func PlanCatalog(tr *i18n.Translator, locale i18n.Locale) []response_models.PlanView {
	out := make([]response_models.PlanView, 0, len(plans.Purchasable))
	for _, t := range plans.Purchasable {
		out = append(out, planView(tr, locale, t))
	}
	return out
}

func upgradeOffer(tr *i18n.Translator, locale i18n.Locale, from plans.Tier) (*response_models.UpgradeOfferView, bool) {
	amount, err := plans.UpgradeAmount(from)
	if err != nil {
		return nil, false
	}
	price := plans.FormatMinor(amount)
	return &response_models.UpgradeOfferView{
		From:        string(from),
		To:          string(plans.TierComplete),
		Title:       tr.T(locale, "results.upsell.title", nil),
		Description: tr.T(locale, "results.upsell.description", nil),
		Price:       price,
		PriceLabel:  tr.T(locale, "results.upsell.price", map[string]any{"price": price}),
		AmountMinor: amount,
		Currency:    plans.Currency,
	}, true
}

// UpgradeOffers lists the upgrade price from every tier that has one.
func UpgradeOffers(tr *i18n.Translator, locale i18n.Locale) []response_models.UpgradeOfferView {
	var out []response_models.UpgradeOfferView
	for _, t := range plans.Purchasable {
		if offer, ok := upgradeOffer(tr, locale, t); ok {
			out = append(out, *offer)
		}
	}
	return out
}
