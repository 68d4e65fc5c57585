package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"healthybychoice/internal/quiz"
	"healthybychoice/pkg/i18n"
	"healthybychoice/pkg/llm"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newCommentary(t *testing.T, client llm.Client) CommentaryServiceInterface {
	t.Helper()
	svc, err := NewCommentaryService(client, testTranslator(t), 50*time.Millisecond, nil)
	require.NoError(t, err)
	return svc
}

func TestLoadPrompts_EmbeddedBookParses(t *testing.T) {
	book, err := loadPrompts(promptsYAML)
	require.NoError(t, err)
	assert.True(t, book.FinalAnalysis.JSON)
	assert.True(t, book.Report.JSON)
	assert.False(t, book.QuestionResponse.JSON)

	_, err = loadPrompts([]byte("system: hi\n"))
	assert.Error(t, err)
}

func TestConcernResponse(t *testing.T) {
	client := &scriptedClient{replies: []reply{{text: "  I hear you.  "}}}
	svc := newCommentary(t, client)

	got := svc.ConcernResponse(context.Background(), i18n.Spanish, "bloating")
	assert.Equal(t, "I hear you.", got)
	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0].User, `"bloating"`)
	assert.Contains(t, client.prompts[0].User, "Spanish")
	assert.False(t, client.prompts[0].JSON)
}

func TestConcernResponse_FallbackTopics(t *testing.T) {
	svc := newCommentary(t, llm.StaticClient{})
	ctx := context.Background()

	tests := []struct {
		locale  i18n.Locale
		concern string
		want    string
	}{
		{i18n.English, "I can't lose WEIGHT", "Weight management"},
		{i18n.English, "low energy all day", "Energy levels"},
		{i18n.English, "my skin breaks out", "Skin health"},
		{i18n.English, "poor digestion", "Digestive comfort"},
		{i18n.Spanish, "quiero bajar de peso", "El control del peso"},
	}
	for _, tt := range tests {
		got := svc.ConcernResponse(ctx, tt.locale, tt.concern)
		assert.Contains(t, got, tt.want, tt.concern)
	}

	generic := svc.ConcernResponse(ctx, i18n.English, "headaches")
	assert.Contains(t, generic, "I can see this is important to you")
}

func TestQuestionResponse(t *testing.T) {
	client := &scriptedClient{replies: []reply{{text: "Nice choice 🌱"}}}
	svc := newCommentary(t, client)
	ctx := context.Background()

	got := svc.QuestionResponse(ctx, i18n.English, "diet", "plant", quiz.Answers{"goal": "energy", "diet": "plant"}, "tired")
	assert.Equal(t, "Nice choice 🌱", got)
	assert.Contains(t, client.prompts[0].User, `"Plant-based"`)
	assert.Contains(t, client.prompts[0].User, `"goal":"energy"`)

	got = svc.QuestionResponse(ctx, i18n.English, "diet", "plant", nil, "")
	assert.Equal(t, "Got it! This helps me create a better plan for you.", got)
}

func TestQuestionResponse_TimeoutFallsBack(t *testing.T) {
	svc := newCommentary(t, blockingClient{})

	start := time.Now()
	got := svc.QuestionResponse(context.Background(), i18n.English, "sleep", "7-plus", nil, "")
	assert.Less(t, time.Since(start), time.Second)
	assert.NotEmpty(t, got)
}

func TestFinalAnalysis(t *testing.T) {
	ctx := context.Background()
	answers := quiz.Answers{"goal": "skin", "diet": "whole"}

	t.Run("valid json", func(t *testing.T) {
		client := &scriptedClient{replies: []reply{{text: "```json\n" + `{"greeting":"Hi","insights":[{"title":"A","detail":"B","icon":"✨"}],"curiosityHook":"C","encouragement":"D","improvementPotential":"HIGH"}` + "\n```"}}}
		got := newCommentary(t, client).FinalAnalysis(ctx, i18n.English, answers, 70, "")
		assert.Equal(t, "Hi", got.Greeting)
		assert.Equal(t, "high", got.ImprovementPotential)
		assert.True(t, client.prompts[0].JSON)
		assert.Contains(t, client.prompts[0].User, "70/100")
		assert.Contains(t, client.prompts[0].User, "- goal: skin")
	})

	t.Run("prose keeps opening as greeting", func(t *testing.T) {
		prose := "Wow, your habits show real promise for clearer skin and I'd love to explain why in much more detail than fits here."
		client := &scriptedClient{replies: []reply{{text: prose}}}
		got := newCommentary(t, client).FinalAnalysis(ctx, i18n.English, answers, 70, "")
		assert.Equal(t, []rune(prose)[:100], []rune(got.Greeting))
		assert.NoError(t, got.Validate())
	})

	t.Run("malformed json uses localized default", func(t *testing.T) {
		client := &scriptedClient{replies: []reply{{text: `{"greeting":"only"}`}}}
		got := newCommentary(t, client).FinalAnalysis(ctx, i18n.Spanish, answers, 70, "")
		assert.NoError(t, got.Validate())
		assert.Equal(t, "high", got.ImprovementPotential)
		assert.NotEqual(t, "only", got.Greeting)
	})

	t.Run("error mentions concern", func(t *testing.T) {
		client := &scriptedClient{replies: []reply{{err: errors.New("boom")}}}
		got := newCommentary(t, client).FinalAnalysis(ctx, i18n.English, answers, 70, "acne")
		assert.Contains(t, got.Greeting, `"acne"`)
		assert.NoError(t, got.Validate())
	})
}

func TestReportAnalysis(t *testing.T) {
	ctx := context.Background()

	client := &scriptedClient{replies: []reply{{text: `{"microbiomeSnapshot":"S","goalConnection":"G","topRecommendations":["r"],"foodsToAdd":["a"],"foodsToAvoid":["b"],"personalizedTips":"T"}`}}}
	got := newCommentary(t, client).ReportAnalysis(ctx, i18n.English, quiz.Answers{"goal": "mood"}, "")
	assert.Equal(t, "S", got.MicrobiomeSnapshot)

	fallback := newCommentary(t, llm.StaticClient{}).ReportAnalysis(ctx, i18n.Spanish, quiz.Answers{}, "")
	assert.NoError(t, fallback.Validate())
	assert.Len(t, fallback.TopRecommendations, 4)
	assert.Len(t, fallback.FoodsToAdd, 5)
	assert.Len(t, fallback.FoodsToAvoid, 3)
}
