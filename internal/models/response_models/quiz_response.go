package response_models

import (
	"time"

	"healthybychoice/internal/quiz"
)

type OptionView struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

type QuestionView struct {
	Index    int          `json:"index"`
	Key      string       `json:"key"`
	Title    string       `json:"title"`
	Options  []OptionView `json:"options"`
	Selected string       `json:"selected,omitempty"`
}

type SessionView struct {
	SessionID        string              `json:"session_id"`
	Locale           string              `json:"locale"`
	Phase            string              `json:"phase"`
	Step             int                 `json:"step"`
	TotalSteps       int                 `json:"total_steps"`
	Busy             bool                `json:"busy"`
	BusyUntil        *time.Time          `json:"busy_until,omitempty"`
	TypingIntervalMS int64               `json:"typing_interval_ms"`
	Welcome          string              `json:"welcome,omitempty"`
	Concern          string              `json:"concern,omitempty"`
	ConcernResponse  string              `json:"concern_response,omitempty"`
	Commentary       string              `json:"commentary,omitempty"`
	Question         *QuestionView       `json:"question,omitempty"`
	CanGoBack        bool                `json:"can_go_back"`
	Answers          map[string]string   `json:"answers"`
	Score            *int                `json:"score,omitempty"`
	ScoreLabel       string              `json:"score_label,omitempty"`
	Analysis         *quiz.FinalAnalysis `json:"analysis,omitempty"`
}

type SessionStartResponse struct {
	Token   string       `json:"token"`
	Session *SessionView `json:"session"`
}

type LocaleView struct {
	Locale    string   `json:"locale"`
	Supported []string `json:"supported"`
}
