package quiz

import (
	"fmt"
	"strings"
)

type Question struct {
	Key     string
	Options []string
}

// Questions is the fixed questionnaire in presentation order.
var Questions = []Question{
	{Key: "goal", Options: []string{"weight", "skin", "digestion", "energy", "mood"}},
	{Key: "diet", Options: []string{"whole", "mixed", "processed", "plant"}},
	{Key: "sugar", Options: []string{"rarely", "sometimes", "daily", "daily-multiple"}},
	{Key: "fiber", Options: []string{"rarely", "one-two", "three-four", "multiple"}},
	{Key: "fermented", Options: []string{"never", "rarely", "weekly", "daily"}},
	{Key: "bloating", Options: []string{"daily", "often", "sometimes", "rarely"}},
	{Key: "stress", Options: []string{"high", "moderate", "low", "minimal"}},
	{Key: "sleep", Options: []string{"less-5", "5-6", "6-7", "7-plus"}},
	{Key: "antibiotics", Options: []string{"none", "once", "twice", "multiple"}},
	{Key: "meals", Options: []string{"one-two", "three", "three-snacks", "grazing"}},
}

// QuestionCount is the number of fixed questions.
var QuestionCount = len(Questions)

// Answers maps a question key to the chosen option key.
type Answers map[string]string

func (a Answers) Clone() Answers {
	out := make(Answers, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Complete reports whether every question has a valid answer.
func (a Answers) Complete() bool {
	for _, q := range Questions {
		if !ValidOption(q.Key, a[q.Key]) {
			return false
		}
	}
	return true
}

func QuestionAt(step int) (Question, bool) {
	if step < 0 || step >= len(Questions) {
		return Question{}, false
	}
	return Questions[step], true
}

func FindQuestion(key string) (Question, bool) {
	for _, q := range Questions {
		if q.Key == key {
			return q, true
		}
	}
	return Question{}, false
}

func ValidOption(questionKey, option string) bool {
	q, ok := FindQuestion(questionKey)
	if !ok {
		return false
	}
	for _, o := range q.Options {
		if o == option {
			return true
		}
	}
	return false
}

// ParseAnswers reads "question=option" pairs. Unknown questions or options
// are rejected so a typo never silently scores as zero.
func ParseAnswers(pairs []string) (Answers, error) {
	answers := make(Answers, len(pairs))
	for _, pair := range pairs {
		key, option, ok := strings.Cut(pair, "=")
		key, option = strings.TrimSpace(key), strings.TrimSpace(option)
		if !ok || key == "" {
			return nil, fmt.Errorf("answer %q: expected question=option", pair)
		}
		if _, found := FindQuestion(key); !found {
			return nil, fmt.Errorf("answer %q: unknown question %q", pair, key)
		}
		if !ValidOption(key, option) {
			return nil, fmt.Errorf("answer %q: unknown option %q", pair, option)
		}
		answers[key] = option
	}
	return answers, nil
}
