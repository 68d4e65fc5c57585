package services

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"healthybychoice/internal/quiz"
	"healthybychoice/pkg/i18n"
	"healthybychoice/pkg/llm"
)

//go:embed prompts.yaml
var promptsYAML []byte

// proseGreetingRunes is how much of a non-JSON final analysis is kept as the
// greeting.
const proseGreetingRunes = 100

// CommentaryServiceInterface produces the conversational copy of the funnel.
// Every method returns usable copy; generation failures fall back to the
// localized defaults.
type CommentaryServiceInterface interface {
	ConcernResponse(ctx context.Context, locale i18n.Locale, concern string) string
	QuestionResponse(ctx context.Context, locale i18n.Locale, questionKey, option string, answers quiz.Answers, concern string) string
	FinalAnalysis(ctx context.Context, locale i18n.Locale, answers quiz.Answers, score int, concern string) *quiz.FinalAnalysis
	ReportAnalysis(ctx context.Context, locale i18n.Locale, answers quiz.Answers, concern string) *quiz.ReportAnalysis
}

type promptSpec struct {
	MaxTokens int    `yaml:"max_tokens"`
	JSON      bool   `yaml:"json"`
	Template  string `yaml:"template"`

	tmpl *template.Template
}

type promptBook struct {
	System           string      `yaml:"system"`
	ConcernResponse  *promptSpec `yaml:"concern_response"`
	QuestionResponse *promptSpec `yaml:"question_response"`
	FinalAnalysis    *promptSpec `yaml:"final_analysis"`
	Report           *promptSpec `yaml:"report"`
}

type promptData struct {
	Language    string
	Concern     string
	QuestionKey string
	Answer      string
	AnswersJSON string
	AnswerLines []string
	Score       int
}

type CommentaryService struct {
	client  llm.Client
	tr      *i18n.Translator
	prompts promptBook
	timeout time.Duration
	logger  *zap.Logger
}

func NewCommentaryService(client llm.Client, tr *i18n.Translator, timeout time.Duration, logger *zap.Logger) (CommentaryServiceInterface, error) {
	book, err := loadPrompts(promptsYAML)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommentaryService{
		client:  client,
		tr:      tr,
		prompts: book,
		timeout: timeout,
		logger:  logger.Named("commentary"),
	}, nil
}

func loadPrompts(raw []byte) (promptBook, error) {
	var book promptBook
	if err := yaml.Unmarshal(raw, &book); err != nil {
		return book, fmt.Errorf("parse prompts: %w", err)
	}
	specs := map[string]*promptSpec{
		"concern_response":  book.ConcernResponse,
		"question_response": book.QuestionResponse,
		"final_analysis":    book.FinalAnalysis,
		"report":            book.Report,
	}
	for name, spec := range specs {
		if spec == nil || strings.TrimSpace(spec.Template) == "" {
			return book, fmt.Errorf("prompt %q is missing", name)
		}
		tmpl, err := template.New(name).Option("missingkey=error").Parse(spec.Template)
		if err != nil {
			return book, fmt.Errorf("prompt %q: %w", name, err)
		}
		spec.tmpl = tmpl
	}
	return book, nil
}

func (s *CommentaryService) ConcernResponse(ctx context.Context, locale i18n.Locale, concern string) string {
	text, err := s.generate(ctx, s.prompts.ConcernResponse, promptData{
		Language: locale.LanguageName(),
		Concern:  concern,
	})
	if err != nil {
		s.logger.Warn("concern response fallback", zap.String("locale", string(locale)), zap.Error(err))
		return s.concernFallback(locale, concern)
	}
	return text
}

func (s *CommentaryService) QuestionResponse(ctx context.Context, locale i18n.Locale, questionKey, option string, answers quiz.Answers, concern string) string {
	prior, _ := json.Marshal(answers)
	text, err := s.generate(ctx, s.prompts.QuestionResponse, promptData{
		Language:    locale.LanguageName(),
		Concern:     concern,
		QuestionKey: questionKey,
		Answer:      s.optionLabel(locale, questionKey, option),
		AnswersJSON: string(prior),
	})
	if err != nil {
		s.logger.Warn("question response fallback",
			zap.String("locale", string(locale)),
			zap.String("question", questionKey),
			zap.Error(err))
		return s.tr.T(locale, "chat.questionFallback", nil)
	}
	return text
}

func (s *CommentaryService) FinalAnalysis(ctx context.Context, locale i18n.Locale, answers quiz.Answers, score int, concern string) *quiz.FinalAnalysis {
	raw, err := s.generate(ctx, s.prompts.FinalAnalysis, promptData{
		Language:    locale.LanguageName(),
		Concern:     concern,
		AnswerLines: answerLines(answers),
		Score:       score,
	})
	if err != nil {
		s.logger.Warn("final analysis fallback", zap.String("locale", string(locale)), zap.Error(err))
		return s.finalFallback(locale, concern)
	}

	analysis, err := quiz.DecodeFinalAnalysis(raw)
	if err == nil {
		return analysis
	}

	fallback := s.finalFallback(locale, concern)
	if llm.CleanJSON(raw) == "" {
		// Prose instead of JSON: keep the opening as the greeting.
		fallback.Greeting = truncateRunes(raw, proseGreetingRunes)
	}
	s.logger.Warn("final analysis malformed", zap.String("locale", string(locale)), zap.Error(err))
	return fallback
}

func (s *CommentaryService) ReportAnalysis(ctx context.Context, locale i18n.Locale, answers quiz.Answers, concern string) *quiz.ReportAnalysis {
	raw, err := s.generate(ctx, s.prompts.Report, promptData{
		Language:    locale.LanguageName(),
		Concern:     concern,
		AnswerLines: answerLines(answers),
	})
	if err == nil {
		var analysis *quiz.ReportAnalysis
		if analysis, err = quiz.DecodeReportAnalysis(raw); err == nil {
			return analysis
		}
	}
	s.logger.Warn("report analysis fallback", zap.String("locale", string(locale)), zap.Error(err))
	return s.reportFallback(locale)
}

func (s *CommentaryService) generate(ctx context.Context, spec *promptSpec, data promptData) (string, error) {
	var buf bytes.Buffer
	if err := spec.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.client.Generate(ctx, llm.Prompt{
		System:    s.prompts.System,
		User:      buf.String(),
		JSON:      spec.JSON,
		MaxTokens: spec.MaxTokens,
	})
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", llm.ErrEmptyResponse
	}
	return text, nil
}

// concernTopics maps a catalogue topic to the words that select it.
var concernTopics = []struct {
	topic    string
	keywords []string
}{
	{"weight", []string{"weight", "peso"}},
	{"energy", []string{"energy", "energía", "energia"}},
	{"skin", []string{"skin", "piel"}},
	{"digestion", []string{"digest"}},
}

func (s *CommentaryService) concernFallback(locale i18n.Locale, concern string) string {
	lower := strings.ToLower(concern)
	for _, t := range concernTopics {
		for _, kw := range t.keywords {
			if strings.Contains(lower, kw) {
				topic := s.tr.T(locale, "chat.topics."+t.topic, nil)
				return s.tr.T(locale, "chat.concernFallback", map[string]any{"topic": topic})
			}
		}
	}
	return s.tr.T(locale, "chat.concernFallbackGeneric", nil)
}

func (s *CommentaryService) finalFallback(locale i18n.Locale, concern string) *quiz.FinalAnalysis {
	greeting := s.tr.T(locale, "analysis.fallback.greeting", nil)
	if strings.TrimSpace(concern) != "" {
		greeting = s.tr.T(locale, "analysis.fallback.greetingWithConcern", map[string]any{"concern": concern})
	}
	return &quiz.FinalAnalysis{
		Greeting: greeting,
		Insights: []quiz.Insight{{
			Title:  s.tr.T(locale, "analysis.fallback.insightTitle", nil),
			Detail: s.tr.T(locale, "analysis.fallback.insightDetail", nil),
			Icon:   "🔍",
		}},
		CuriosityHook:        s.tr.T(locale, "analysis.fallback.curiosityHook", nil),
		Encouragement:        s.tr.T(locale, "analysis.fallback.encouragement", nil),
		ImprovementPotential: "high",
	}
}

func (s *CommentaryService) reportFallback(locale i18n.Locale) *quiz.ReportAnalysis {
	return &quiz.ReportAnalysis{
		MicrobiomeSnapshot: s.tr.T(locale, "report.fallback.snapshot", nil),
		GoalConnection:     s.tr.T(locale, "report.fallback.goalConnection", nil),
		TopRecommendations: s.tr.List(locale, "report.fallback.recommendations"),
		FoodsToAdd:         s.tr.List(locale, "report.fallback.foodsToAdd"),
		FoodsToAvoid:       s.tr.List(locale, "report.fallback.foodsToAvoid"),
		PersonalizedTips:   s.tr.T(locale, "report.fallback.tips", nil),
	}
}

func (s *CommentaryService) optionLabel(locale i18n.Locale, questionKey, option string) string {
	key := "quiz.questions." + questionKey + ".options." + option
	if label, ok := s.tr.Lookup(locale, key); ok {
		return label
	}
	return option
}

// answerLines renders answers in questionnaire order for prompts.
func answerLines(answers quiz.Answers) []string {
	lines := make([]string, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		if v, ok := answers[q.Key]; ok {
			lines = append(lines, q.Key+": "+v)
		}
	}
	return lines
}

func truncateRunes(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n])
}
