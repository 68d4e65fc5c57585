package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	square "github.com/square/square-go-sdk"
	squareclient "github.com/square/square-go-sdk/client"
	"github.com/square/square-go-sdk/core"
	"github.com/square/square-go-sdk/option"
)

var (
	SquareSandboxURL    = square.Environments.Sandbox
	SquareProductionURL = square.Environments.Production
)

type SquareConfig struct {
	AccessToken string
	LocationID  string
	// Environment is "sandbox" or "production". Ignored when BaseURL is set.
	Environment string
	BaseURL     string
	// MaxAttempts caps SDK retries on 5xx and 429; zero keeps the SDK default.
	// Retries reuse the idempotency key so they cannot double charge.
	MaxAttempts uint
}

// SquareGateway charges card nonces through the Square Payments API.
type SquareGateway struct {
	cfg    SquareConfig
	base   string
	client *squareclient.Client
}

func NewSquareGateway(cfg SquareConfig, httpClient *http.Client) *SquareGateway {
	base := cfg.BaseURL
	if base == "" {
		base = SquareSandboxURL
		if strings.EqualFold(cfg.Environment, "production") {
			base = SquareProductionURL
		}
	}
	base = strings.TrimRight(base, "/")

	opts := []option.RequestOption{
		option.WithToken(cfg.AccessToken),
		option.WithBaseURL(base),
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	if cfg.MaxAttempts > 0 {
		opts = append(opts, option.WithMaxAttempts(cfg.MaxAttempts))
	}

	return &SquareGateway{
		cfg:    cfg,
		base:   base,
		client: squareclient.NewClient(opts...),
	}
}

func (g *SquareGateway) Name() string { return "square" }

func (g *SquareGateway) Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error) {
	currency := square.Currency(strings.ToUpper(req.Currency))
	body := &square.CreatePaymentRequest{
		SourceID:       req.SourceID,
		IdempotencyKey: req.IdempotencyKey,
		AmountMoney: &square.Money{
			Amount:   square.Int64(req.AmountMinor),
			Currency: &currency,
		},
		LocationID: square.String(g.cfg.LocationID),
	}
	if req.Note != "" {
		body.Note = square.String(req.Note)
	}

	resp, err := g.client.Payments.Create(ctx, body)
	if err != nil {
		return declineFromError(err)
	}
	receipt, _ := json.Marshal(resp)

	if len(resp.Errors) > 0 || resp.Payment == nil {
		return ChargeResult{Status: "FAILED", Reason: squareReason(resp.Errors), Receipt: receipt}, nil
	}
	id, status := deref(resp.Payment.ID), deref(resp.Payment.Status)
	if status == "FAILED" || status == "CANCELED" {
		return ChargeResult{ChargeID: id, Status: status, Reason: "Payment " + strings.ToLower(status), Receipt: receipt}, nil
	}
	return ChargeResult{Success: true, ChargeID: id, Status: status, Receipt: receipt}, nil
}

// declineFromError turns a 4xx answer into a decline. Transport failures and
// 5xx answers stay errors: the provider never decided.
func declineFromError(err error) (ChargeResult, error) {
	var apiErr *core.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode >= http.StatusInternalServerError {
		return ChargeResult{}, fmt.Errorf("square: %w", err)
	}

	var raw string
	if inner := apiErr.Unwrap(); inner != nil {
		raw = inner.Error()
	}
	var parsed square.CreatePaymentResponse
	if jsonErr := json.Unmarshal([]byte(raw), &parsed); jsonErr != nil {
		return ChargeResult{Status: "FAILED", Reason: "Payment failed"}, nil
	}

	result := ChargeResult{Status: "FAILED", Reason: squareReason(parsed.Errors), Receipt: []byte(raw)}
	if parsed.Payment != nil {
		result.ChargeID = deref(parsed.Payment.ID)
	}
	return result, nil
}

func squareReason(errs []*square.Error) string {
	for _, e := range errs {
		if e == nil {
			continue
		}
		if d := deref(e.Detail); d != "" {
			return d
		}
		if e.Code != "" {
			return string(e.Code)
		}
	}
	return "Payment failed"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
