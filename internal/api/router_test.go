package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"healthybychoice/internal/api/controllers"
	"healthybychoice/internal/config"
	"healthybychoice/internal/quiz"
	"healthybychoice/internal/repositories"
	"healthybychoice/internal/services"
	"healthybychoice/pkg/i18n"
	"healthybychoice/pkg/llm"
	mem "healthybychoice/pkg/memcache"
	"healthybychoice/pkg/middleware"
	"healthybychoice/pkg/payments"
	"healthybychoice/pkg/utils"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	goleak.VerifyTestMain(m)
}

type envelope struct {
	Status  string          `json:"status"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	TraceID string          `json:"trace_id"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	t      *testing.T
	engine *gin.Engine
}

// newTestServer wires the API against in-memory ports. Timing is zero so
// every automatic transition is due by the next request.
func newTestServer(t *testing.T, rpm int) *testServer {
	t.Helper()
	return newTestServerWithConfig(t, rpm, &config.Config{DefaultLocale: i18n.English})
}

func newTestServerWithConfig(t *testing.T, rpm int, cfg *config.Config) *testServer {
	t.Helper()
	tr, err := i18n.NewTranslator(i18n.English)
	require.NoError(t, err)
	tokens, err := utils.NewSessionTokens("router-secret", time.Hour)
	require.NoError(t, err)

	store := repositories.NewMemorySessionStore()
	guard := mem.NewInflightGuard()
	commentary, err := services.NewCommentaryService(llm.StaticClient{}, tr, time.Second, nil)
	require.NoError(t, err)

	quizSvc := services.NewQuizService(store, commentary, tr, tokens, guard, services.QuizConfig{
		Timing:    quiz.Timing{},
		AITimeout: time.Second,
	}, nil)
	reportSvc := services.NewReportService(store, commentary, tr, guard, time.Second, nil)
	paymentSvc := services.NewPaymentService(store, repositories.NewMemoryTransactionRepository(),
		payments.NewFakeGateway(), guard, time.Second, nil)

	limiter := middleware.NewRateLimiter(rpm)
	t.Cleanup(limiter.Stop)

	engine := NewRouter(RouterParams{
		Logger:            zap.NewNop(),
		Tokens:            tokens,
		Limiter:           limiter,
		Config:            cfg,
		QuizController:    controllers.NewQuizController(quizSvc, tr),
		LocaleController:  controllers.NewLocaleController(quizSvc),
		PlansController:   controllers.NewPlansController(tr),
		ReportController:  controllers.NewReportController(reportSvc),
		PaymentController: controllers.NewPaymentController(paymentSvc),
	})
	return &testServer{t: t, engine: engine}
}

func (s *testServer) do(method, path, token string, body any, headers ...string) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var env envelope
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func decodeData(t *testing.T, env envelope, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, dst), string(env.Data))
}

// start opens a session and returns its token.
func (s *testServer) start() string {
	s.t.Helper()
	w, env := s.do(http.MethodPost, "/quiz/sessions", "", nil)
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	var started struct {
		Token string `json:"token"`
	}
	decodeData(s.t, env, &started)
	require.NotEmpty(s.t, started.Token)
	return started.Token
}

func (s *testServer) finishQuiz(token string) {
	s.t.Helper()
	w, _ := s.do(http.MethodPost, "/quiz/concern", token, gin.H{"concern": "low energy"})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	for _, q := range quiz.Questions {
		w, _ := s.do(http.MethodPost, "/quiz/answers", token, gin.H{"option": q.Options[0]})
		require.Equal(s.t, http.StatusOK, w.Code, "%s: %s", q.Key, w.Body.String())
	}
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, 100)
	w, env := s.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", env.Status)
	assert.NotEmpty(t, env.TraceID)
	assert.Equal(t, env.TraceID, w.Header().Get(middleware.TraceIDHeader))
}

func TestQuestions_Localized(t *testing.T) {
	s := newTestServer(t, 100)
	_, env := s.do(http.MethodGet, "/quiz/questions", "", nil, "Accept-Language", "es-ES,es;q=0.9")

	var questions []struct {
		Key   string `json:"key"`
		Title string `json:"title"`
	}
	decodeData(t, env, &questions)
	require.Len(t, questions, quiz.QuestionCount)
	assert.Equal(t, "goal", questions[0].Key)

	tr, err := i18n.NewTranslator(i18n.English)
	require.NoError(t, err)
	assert.Equal(t, tr.T(i18n.Spanish, "quiz.questions.goal.title", nil), questions[0].Title)
}

func TestQuizRoutes_RequireToken(t *testing.T) {
	s := newTestServer(t, 100)
	for _, path := range []string{"/quiz/session", "/report"} {
		w, env := s.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
		assert.Equal(t, "error", env.Status)
	}
	w, _ := s.do(http.MethodPost, "/quiz/answers", "not-a-token", gin.H{"option": "skin"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestQuizFlow_ToPaidReport(t *testing.T) {
	s := newTestServer(t, 100)
	token := s.start()

	w, env := s.do(http.MethodGet, "/report", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"restart_url":"/quiz"}`, string(env.Data))

	w, _ = s.do(http.MethodPost, "/quiz/concern", token, gin.H{"concern": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	s.finishQuiz(token)

	w, env = s.do(http.MethodGet, "/quiz/session", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var session struct {
		Phase string `json:"phase"`
		Score *int   `json:"score"`
	}
	decodeData(t, env, &session)
	assert.Equal(t, string(quiz.PhaseResults), session.Phase)
	require.NotNil(t, session.Score)

	var report struct {
		Plan     string          `json:"plan"`
		Sections []string        `json:"sections"`
		Paywall  json.RawMessage `json:"paywall"`
		Analysis json.RawMessage `json:"analysis"`
	}
	w, env = s.do(http.MethodGet, "/report", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, env, &report)
	assert.Equal(t, "none", report.Plan)
	assert.NotEmpty(t, report.Paywall)
	assert.Empty(t, report.Analysis)

	w, env = s.do(http.MethodPost, "/payments/charge", token, gin.H{"plan": "standard", "source_id": payments.DeclinedSourceID})
	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.JSONEq(t, `{"reason":"Card declined."}`, string(env.Data))

	w, _ = s.do(http.MethodPost, "/payments/charge", token, gin.H{"plan": "gold", "source_id": "cnon:card-ok"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = s.do(http.MethodPost, "/payments/charge", token, gin.H{"plan": "standard", "source_id": "cnon:card-ok"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var paid struct {
		Plan        string `json:"plan"`
		AmountMinor int64  `json:"amount_minor"`
	}
	decodeData(t, env, &paid)
	assert.Equal(t, "standard", paid.Plan)
	assert.Equal(t, int64(999), paid.AmountMinor)

	w, _ = s.do(http.MethodPost, "/payments/charge", token, gin.H{"plan": "starter", "source_id": "cnon:card-ok"})
	assert.Equal(t, http.StatusConflict, w.Code)
	w, env = s.do(http.MethodPost, "/payments/charge", token, gin.H{"plan": "complete", "source_id": "cnon:card-ok"})
	assert.Equal(t, http.StatusConflict, w.Code, "paid sessions only upgrade")
	var conflict struct {
		UpgradeURL string `json:"upgrade_url"`
	}
	decodeData(t, env, &conflict)
	assert.Equal(t, "/payments/upgrade", conflict.UpgradeURL)

	report.Paywall, report.Analysis = nil, nil
	_, env = s.do(http.MethodGet, "/report", token, nil)
	decodeData(t, env, &report)
	assert.Equal(t, "standard", report.Plan)
	assert.Empty(t, report.Paywall)
	assert.NotEmpty(t, report.Analysis)
	assert.Contains(t, report.Sections, "upgrade_offer")

	w, env = s.do(http.MethodPost, "/payments/upgrade", token, gin.H{"source_id": "cnon:card-ok"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decodeData(t, env, &paid)
	assert.Equal(t, "complete", paid.Plan)
	assert.Equal(t, int64(1000), paid.AmountMinor)
}

func TestQuizFlow_BackAndRestart(t *testing.T) {
	s := newTestServer(t, 100)
	token := s.start()

	w, _ := s.do(http.MethodPost, "/quiz/answers", token, gin.H{"option": "skin"})
	assert.Equal(t, http.StatusConflict, w.Code, "questions have not started")

	w, _ = s.do(http.MethodPost, "/quiz/concern", token, gin.H{"concern": "acne"})
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(http.MethodPost, "/quiz/answers", token, gin.H{"option": "bogus"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(http.MethodPost, "/quiz/answers", token, gin.H{"option": "skin"})
	require.Equal(t, http.StatusOK, w.Code)

	w, env := s.do(http.MethodPost, "/quiz/back", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var view struct {
		Step     int `json:"step"`
		Question struct {
			Key      string `json:"key"`
			Selected string `json:"selected"`
		} `json:"question"`
	}
	decodeData(t, env, &view)
	assert.Equal(t, 0, view.Step)
	assert.Equal(t, "skin", view.Question.Selected)

	w, _ = s.do(http.MethodPost, "/quiz/back", token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, env = s.do(http.MethodDelete, "/quiz/session", token, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var restarted struct {
		Token string `json:"token"`
	}
	decodeData(t, env, &restarted)
	assert.NotEqual(t, token, restarted.Token)

	w, _ = s.do(http.MethodGet, "/quiz/session", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "old session is gone")
}

func TestLocale(t *testing.T) {
	s := newTestServer(t, 100)

	_, env := s.do(http.MethodGet, "/locale", "", nil, "Accept-Language", "es")
	assert.JSONEq(t, `{"locale":"es","supported":["en","es"]}`, string(env.Data))

	w, _ := s.do(http.MethodPut, "/locale", "", gin.H{"locale": "fr"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	token := s.start()
	w, _ = s.do(http.MethodPut, "/locale", token, gin.H{"locale": "es"})
	require.Equal(t, http.StatusOK, w.Code)

	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.LocaleCookie {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.Equal(t, "es", cookie.Value)

	_, env = s.do(http.MethodGet, "/quiz/session", token, nil)
	var session struct {
		Locale string `json:"locale"`
	}
	decodeData(t, env, &session)
	assert.Equal(t, "es", session.Locale)

	_, env = s.do(http.MethodGet, "/locale", "", nil, "Cookie", middleware.LocaleCookie+"=es", "Accept-Language", "en")
	assert.Contains(t, string(env.Data), `"locale":"es"`)
}

func TestPlans(t *testing.T) {
	s := newTestServer(t, 100)
	_, env := s.do(http.MethodGet, "/plans", "", nil)

	var catalog struct {
		Currency string `json:"currency"`
		Plans    []struct {
			Tier     string   `json:"tier"`
			Price    string   `json:"price"`
			Features []string `json:"features"`
		} `json:"plans"`
		Upgrades []struct {
			From  string `json:"from"`
			Price string `json:"price"`
		} `json:"upgrades"`
	}
	decodeData(t, env, &catalog)
	assert.Equal(t, "USD", catalog.Currency)
	require.Len(t, catalog.Plans, 4)
	assert.Equal(t, "starter", catalog.Plans[0].Tier)
	assert.Equal(t, "5.99", catalog.Plans[0].Price)
	for _, p := range catalog.Plans {
		assert.NotEmpty(t, p.Features, p.Tier)
	}
	require.Len(t, catalog.Upgrades, 3)
	assert.Equal(t, "14.00", catalog.Upgrades[0].Price)
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, 2)
	s.start()
	s.start()
	w, env := s.do(http.MethodPost, "/quiz/sessions", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "error", env.Status)

	w, _ = s.do(http.MethodGet, "/plans", "", nil)
	assert.Equal(t, http.StatusOK, w.Code, "catalogue is not limited")
}

func TestNewRouter_ModeSetBeforeRoutesRegister(t *testing.T) {
	var logged []string
	gin.SetMode(gin.DebugMode)
	gin.DebugPrintRouteFunc = func(method, path, _ string, _ int) {
		logged = append(logged, method+" "+path)
	}
	t.Cleanup(func() {
		gin.DebugPrintRouteFunc = nil
		gin.SetMode(gin.TestMode)
	})

	s := newTestServerWithConfig(t, 10, &config.Config{DefaultLocale: i18n.English, GinMode: gin.ReleaseMode})

	assert.Equal(t, gin.ReleaseMode, gin.Mode())
	assert.Empty(t, logged, "no debug route dump in release mode")

	w, _ := s.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
