package quiz

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"healthybychoice/pkg/llm"
)

var ErrMalformedAnalysis = errors.New("malformed analysis")

var validate = validator.New(validator.WithRequiredStructEnabled())

type Insight struct {
	Title  string `json:"title" validate:"required"`
	Detail string `json:"detail" validate:"required"`
	Icon   string `json:"icon"`
}

// FinalAnalysis is the teaser shown right after the quiz, before the paywall.
type FinalAnalysis struct {
	Greeting             string    `json:"greeting" validate:"required"`
	Insights             []Insight `json:"insights" validate:"required,min=1,dive"`
	CuriosityHook        string    `json:"curiosityHook" validate:"required"`
	Encouragement        string    `json:"encouragement" validate:"required"`
	ImprovementPotential string    `json:"improvementPotential"`
}

type KeyFinding struct {
	Type        string `json:"type"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
}

// ReportAnalysis is the paid report body.
type ReportAnalysis struct {
	MicrobiomeSnapshot string       `json:"microbiomeSnapshot" validate:"required"`
	GoalConnection     string       `json:"goalConnection" validate:"required"`
	KeyFindings        []KeyFinding `json:"keyFindings,omitempty" validate:"omitempty,dive"`
	TopRecommendations []string     `json:"topRecommendations" validate:"required,min=1,dive,required"`
	FoodsToAdd         []string     `json:"foodsToAdd" validate:"required,min=1,dive,required"`
	FoodsToAvoid       []string     `json:"foodsToAvoid" validate:"required,min=1,dive,required"`
	PersonalizedTips   string       `json:"personalizedTips" validate:"required"`
}

func (a *FinalAnalysis) Validate() error {
	if err := validate.Struct(a); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedAnalysis, err)
	}
	return nil
}

func (a *ReportAnalysis) Validate() error {
	if err := validate.Struct(a); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedAnalysis, err)
	}
	return nil
}

// DecodeFinalAnalysis extracts the JSON object from model output and checks
// its shape. Any failure wraps ErrMalformedAnalysis.
func DecodeFinalAnalysis(raw string) (*FinalAnalysis, error) {
	var a FinalAnalysis
	if err := decodeJSON(raw, &a); err != nil {
		return nil, err
	}
	a.ImprovementPotential = strings.ToLower(strings.TrimSpace(a.ImprovementPotential))
	if a.ImprovementPotential == "" {
		a.ImprovementPotential = "high"
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return &a, nil
}

func DecodeReportAnalysis(raw string) (*ReportAnalysis, error) {
	var a ReportAnalysis
	if err := decodeJSON(raw, &a); err != nil {
		return nil, err
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return &a, nil
}

func decodeJSON(raw string, dst any) error {
	cleaned := llm.CleanJSON(raw)
	if cleaned == "" || !json.Valid([]byte(cleaned)) {
		return fmt.Errorf("%w: not valid json", ErrMalformedAnalysis)
	}
	if err := json.Unmarshal([]byte(cleaned), dst); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedAnalysis, err)
	}
	return nil
}
