package payments

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// ChargeRequest is a one-off card charge. AmountMinor is in the currency's
// smallest unit.
type ChargeRequest struct {
	SourceID       string
	AmountMinor    int64
	Currency       string
	IdempotencyKey string
	Note           string
}

// ChargeResult reports the provider's decision. A decline is a result with
// Success false, not an error; errors mean the provider could not be asked.
type ChargeResult struct {
	Success  bool
	ChargeID string
	Status   string
	Reason   string
	Receipt  []byte
}

type Gateway interface {
	Name() string
	Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error)
}

// DeclinedSourceID is declined by FakeGateway, matching the Square sandbox
// test nonce.
const DeclinedSourceID = "cnon:card-declined"

// FakeGateway approves every charge except DeclinedSourceID. It records the
// requests it sees.
type FakeGateway struct {
	mu       sync.Mutex
	requests []ChargeRequest
	err      error
}

func NewFakeGateway() *FakeGateway {
	return &FakeGateway{}
}

func (f *FakeGateway) Name() string { return "fake" }

// FailWith makes subsequent charges fail with err.
func (f *FakeGateway) FailWith(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *FakeGateway) Requests() []ChargeRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ChargeRequest(nil), f.requests...)
}

func (f *FakeGateway) Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	err := f.err
	f.mu.Unlock()

	if err != nil {
		return ChargeResult{}, err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ChargeResult{}, ctxErr
	}
	if strings.EqualFold(req.SourceID, DeclinedSourceID) {
		return ChargeResult{
			Status:  "FAILED",
			Reason:  "Card declined.",
			Receipt: []byte(`{"errors":[{"code":"GENERIC_DECLINE"}]}`),
		}, nil
	}
	id := uuid.NewString()
	return ChargeResult{
		Success:  true,
		ChargeID: id,
		Status:   "COMPLETED",
		Receipt:  []byte(`{"payment":{"id":"` + id + `","status":"COMPLETED"}}`),
	}, nil
}
