package response_models

import "healthybychoice/internal/quiz"

type PlanView struct {
	Tier        string   `json:"tier"`
	Name        string   `json:"name"`
	Price       string   `json:"price"`
	AmountMinor int64    `json:"amount_minor"`
	Currency    string   `json:"currency"`
	Features    []string `json:"features"`
}

type UpgradeOfferView struct {
	From        string `json:"from"`
	To          string `json:"to"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       string `json:"price"`
	PriceLabel  string `json:"price_label"`
	AmountMinor int64  `json:"amount_minor"`
	Currency    string `json:"currency"`
}

type PlanCatalogResponse struct {
	Currency string             `json:"currency"`
	Plans    []PlanView         `json:"plans"`
	Upgrades []UpgradeOfferView `json:"upgrades"`
}

type PaywallView struct {
	Title    string     `json:"title"`
	Subtitle string     `json:"subtitle"`
	Plans    []PlanView `json:"plans"`
}

type ResetProtocolView struct {
	Title      string `json:"title"`
	Remove     string `json:"remove"`
	RemoveList string `json:"remove_list"`
	Cooking    string `json:"cooking"`
	CookingTip string `json:"cooking_tip"`
	Focus      string `json:"focus"`
	FocusList  string `json:"focus_list"`
}

type ProbioticGuideView struct {
	Title   string   `json:"title"`
	Strains []string `json:"strains"`
}

type FastingProtocolView struct {
	Title     string   `json:"title"`
	Exclusive string   `json:"exclusive"`
	Heading   string   `json:"heading"`
	Steps     []string `json:"steps"`
	Habit     string   `json:"habit"`
}

type ReportView struct {
	Locale          string               `json:"locale"`
	Plan            string               `json:"plan"`
	Sections        []string             `json:"sections"`
	Score           int                  `json:"score"`
	ScoreTitle      string               `json:"score_title"`
	ScoreLabel      string               `json:"score_label"`
	Goal            string               `json:"goal,omitempty"`
	GoalLabel       string               `json:"goal_label,omitempty"`
	GoalConnection  string               `json:"goal_connection"`
	Teaser          *quiz.FinalAnalysis  `json:"teaser,omitempty"`
	Paywall         *PaywallView         `json:"paywall,omitempty"`
	Analysis        *quiz.ReportAnalysis `json:"analysis,omitempty"`
	ResetProtocol   *ResetProtocolView   `json:"reset_protocol,omitempty"`
	ProbioticGuide  *ProbioticGuideView  `json:"probiotic_guide,omitempty"`
	FastingProtocol *FastingProtocolView `json:"fasting_protocol,omitempty"`
	UpgradeOffer    *UpgradeOfferView    `json:"upgrade_offer,omitempty"`
	Disclaimer      string               `json:"disclaimer"`
}

type PaymentResult struct {
	ChargeID      string `json:"charge_id"`
	Status        string `json:"status"`
	Plan          string `json:"plan"`
	AmountMinor   int64  `json:"amount_minor"`
	Currency      string `json:"currency"`
	TransactionID string `json:"transaction_id"`
}
