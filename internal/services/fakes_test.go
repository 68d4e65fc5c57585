package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"healthybychoice/internal/quiz"
	"healthybychoice/internal/repositories"
	"healthybychoice/pkg/i18n"
	"healthybychoice/pkg/llm"
	mem "healthybychoice/pkg/memcache"
	"healthybychoice/pkg/utils"
)

// scriptedClient answers prompts in order and records them.
type scriptedClient struct {
	mu      sync.Mutex
	replies []reply
	prompts []llm.Prompt
}

type reply struct {
	text string
	err  error
}

func (c *scriptedClient) Generate(ctx context.Context, p llm.Prompt) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prompts = append(c.prompts, p)
	if len(c.replies) == 0 {
		return "", llm.ErrGenerationDisabled
	}
	r := c.replies[0]
	c.replies = c.replies[1:]
	return r.text, r.err
}

// blockingClient waits for the context to end.
type blockingClient struct{}

func (blockingClient) Generate(ctx context.Context, _ llm.Prompt) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

// clock is a settable time source.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *clock {
	return &clock{now: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

var testQuizTiming = quiz.Timing{AdvanceDelay: 2 * time.Second, TypingInterval: 25 * time.Millisecond}

func testTranslator(t *testing.T) *i18n.Translator {
	t.Helper()
	tr, err := i18n.NewTranslator(i18n.English)
	require.NoError(t, err)
	return tr
}

func testTokens(t *testing.T) *utils.SessionTokens {
	t.Helper()
	tokens, err := utils.NewSessionTokens("test-secret", time.Hour)
	require.NoError(t, err)
	return tokens
}

type quizFixture struct {
	svc        *QuizService
	store      *repositories.MemorySessionStore
	guard      *mem.InflightGuard
	clock      *clock
	client     *scriptedClient
	tr         *i18n.Translator
	commentary CommentaryServiceInterface
}

func newQuizFixture(t *testing.T, replies ...reply) *quizFixture {
	t.Helper()
	tr := testTranslator(t)
	client := &scriptedClient{replies: replies}
	commentary, err := NewCommentaryService(client, tr, time.Second, nil)
	require.NoError(t, err)

	store := repositories.NewMemorySessionStore()
	guard := mem.NewInflightGuard()
	clk := newClock()
	svc := NewQuizService(store, commentary, tr, testTokens(t), guard, QuizConfig{
		Timing:    testQuizTiming,
		AITimeout: time.Second,
	}, nil).(*QuizService)
	svc.now = clk.Now

	return &quizFixture{svc: svc, store: store, guard: guard, clock: clk, client: client, tr: tr, commentary: commentary}
}

// completeQuiz drives a fresh session to results and returns its id.
func (f *quizFixture) completeQuiz(t *testing.T, ctx context.Context, locale i18n.Locale, options map[string]string) string {
	t.Helper()
	started, err := f.svc.Start(ctx, locale)
	require.NoError(t, err)
	id := started.Session.SessionID

	f.clock.Advance(time.Minute)
	_, err = f.svc.SubmitConcern(ctx, id, "always tired after lunch")
	require.NoError(t, err)

	for _, q := range quiz.Questions {
		f.clock.Advance(time.Minute)
		opt := options[q.Key]
		if opt == "" {
			opt = q.Options[0]
		}
		_, err := f.svc.Answer(ctx, id, opt)
		require.NoError(t, err, q.Key)
	}
	return id
}
