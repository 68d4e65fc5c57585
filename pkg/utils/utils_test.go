package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokens_RoundTrip(t *testing.T) {
	tokens, err := NewSessionTokens("secret", time.Hour)
	require.NoError(t, err)

	raw, err := tokens.CreateSessionToken("sess-1")
	require.NoError(t, err)

	id, err := tokens.ValidateSessionToken(raw)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", id)
}

func TestSessionTokens_Rejects(t *testing.T) {
	tokens, err := NewSessionTokens("secret", time.Hour)
	require.NoError(t, err)
	other, err := NewSessionTokens("other", time.Hour)
	require.NoError(t, err)

	raw, err := other.CreateSessionToken("sess-1")
	require.NoError(t, err)
	_, err = tokens.ValidateSessionToken(raw)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = tokens.ValidateSessionToken("not-a-token")
	assert.ErrorIs(t, err, ErrUnauthorized)

	expired, err := NewSessionTokens("secret", time.Hour)
	require.NoError(t, err)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	raw, err = expired.CreateSessionToken("sess-1")
	require.NoError(t, err)
	_, err = tokens.ValidateSessionToken(raw)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = NewSessionTokens("", time.Hour)
	assert.Error(t, err)
}

func TestHandleServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		err  error
		code int
		data map[string]any
	}{
		{"payment declined", fmt.Errorf("charge: %w", &PaymentError{Reason: "Card declined"}), http.StatusPaymentRequired, map[string]any{"reason": "Card declined"}},
		{"no results", ErrNoQuizResults, http.StatusNotFound, map[string]any{"restart_url": "/quiz"}},
		{"not found", ErrSessionNotFound, http.StatusNotFound, nil},
		{"invalid option", fmt.Errorf("answer: %w", ErrInvalidOption), http.StatusBadRequest, nil},
		{"busy", ErrSessionBusy, http.StatusConflict, nil},
		{"downgrade", ErrPlanDowngrade, http.StatusConflict, nil},
		{"already purchased", fmt.Errorf("purchase: %w", ErrAlreadyPurchased), http.StatusConflict, map[string]any{"upgrade_url": "/payments/upgrade"}},
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized, nil},
		{"rate limited", ErrRateLimited, http.StatusTooManyRequests, nil},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Set("trace_id", "trace-1")

			HandleServiceError(c, tt.err)

			assert.Equal(t, tt.code, w.Code)
			var body struct {
				Status  string         `json:"status"`
				Code    int            `json:"code"`
				TraceID string         `json:"trace_id"`
				Data    map[string]any `json:"data"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "error", body.Status)
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, "trace-1", body.TraceID)
			assert.Equal(t, tt.data, body.Data)
		})
	}
}

func TestUnixMillis(t *testing.T) {
	assert.Zero(t, UnixMillisOrZero(time.Time{}))
	assert.True(t, FromUnixMillis(0).IsZero())
	assert.True(t, FromUnixSeconds(-1).IsZero())

	ts := time.Date(2025, 5, 4, 3, 2, 1, 123_000_000, time.UTC)
	assert.True(t, ts.Equal(FromUnixMillis(UnixMillisOrZero(ts))))
	assert.Equal(t, time.Unix(1_700_000_000, 0).UTC(), FromUnixSeconds(1_700_000_000))
}
