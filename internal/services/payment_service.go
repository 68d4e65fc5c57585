package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	dbm "healthybychoice/internal/models/db_models"
	"healthybychoice/internal/models/response_models"
	"healthybychoice/internal/plans"
	"healthybychoice/internal/quiz"
	"healthybychoice/internal/repositories"
	mem "healthybychoice/pkg/memcache"
	"healthybychoice/pkg/payments"
	"healthybychoice/pkg/utils"
)

// genericPaymentFailure is shown when the provider could not be reached.
const genericPaymentFailure = "We couldn't process your payment. Please try again."

type PaymentService interface {
	Purchase(ctx context.Context, sessionID string, tier string, sourceID string) (*response_models.PaymentResult, error)
	Upgrade(ctx context.Context, sessionID string, sourceID string) (*response_models.PaymentResult, error)
}

type paymentService struct {
	store   repositories.SessionStore
	txns    repositories.ITransactionRepository
	gateway payments.Gateway
	guard   mem.InflightStore
	timeout time.Duration
	logger  *zap.Logger
	newKey  func() string
}

func NewPaymentService(
	store repositories.SessionStore,
	txns repositories.ITransactionRepository,
	gateway payments.Gateway,
	guard mem.InflightStore,
	timeout time.Duration,
	logger *zap.Logger,
) PaymentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &paymentService{
		store:   store,
		txns:    txns,
		gateway: gateway,
		guard:   guard,
		timeout: timeout,
		logger:  logger.Named("payment"),
		newKey:  uuid.NewString,
	}
}

func (p *paymentService) Purchase(ctx context.Context, sessionID string, tier string, sourceID string) (*response_models.PaymentResult, error) {
	target, err := plans.ParseTier(tier)
	if err != nil || target == plans.TierNone {
		return nil, fmt.Errorf("%w: unknown plan %q", utils.ErrInvalidInput, tier)
	}
	return p.charge(ctx, sessionID, sourceID, dbm.TxnKindPurchase, func(s *quiz.Session) (plans.Tier, int64, error) {
		// Paid sessions move up only through Upgrade, priced as the difference.
		if current := s.Plan(); current != plans.TierNone {
			return "", 0, fmt.Errorf("%w: current plan %s", utils.ErrAlreadyPurchased, current)
		}
		if _, err := plans.Advance(s.Plan(), target); err != nil {
			return "", 0, err
		}
		amount, _ := plans.Amount(target)
		return target, amount, nil
	})
}

// Upgrade charges the difference between the current plan and complete.
func (p *paymentService) Upgrade(ctx context.Context, sessionID string, sourceID string) (*response_models.PaymentResult, error) {
	return p.charge(ctx, sessionID, sourceID, dbm.TxnKindUpgrade, func(s *quiz.Session) (plans.Tier, int64, error) {
		amount, err := plans.UpgradeAmount(s.Plan())
		if err != nil {
			return "", 0, err
		}
		return plans.TierComplete, amount, nil
	})
}

type pricer func(s *quiz.Session) (plans.Tier, int64, error)

func (p *paymentService) charge(ctx context.Context, sessionID, sourceID string, kind dbm.TransactionKind, price pricer) (*response_models.PaymentResult, error) {
	if sourceID == "" {
		return nil, fmt.Errorf("%w: source_id is required", utils.ErrInvalidInput)
	}
	sessionUUID, err := uuid.Parse(sessionID)
	if err != nil {
		return nil, utils.ErrSessionNotFound
	}

	if !p.guard.Acquire(sessionID, p.timeout+5*time.Second) {
		return nil, utils.ErrSessionBusy
	}
	defer p.guard.Release(sessionID)

	s, err := p.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !s.HasResults() {
		return nil, utils.ErrNoQuizResults
	}

	target, amount, err := price(s)
	if err != nil {
		return nil, flowError(err)
	}

	// A fresh key per attempt lets a declined card be retried.
	txn := &dbm.Transaction{
		SessionID:      sessionUUID,
		Kind:           kind,
		Plan:           string(target),
		AmountMinor:    amount,
		Currency:       plans.Currency,
		Status:         dbm.TxnStatusPending,
		Provider:       p.gateway.Name(),
		IdempotencyKey: p.newKey(),
	}
	if err := p.txns.Create(ctx, txn); err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}

	chargeCtx, cancel := context.WithTimeout(ctx, p.timeout)
	result, err := p.gateway.Charge(chargeCtx, payments.ChargeRequest{
		SourceID:       sourceID,
		AmountMinor:    amount,
		Currency:       plans.Currency,
		IdempotencyKey: txn.IdempotencyKey,
		Note:           fmt.Sprintf("%s %s plan", kind, target),
	})
	cancel()

	if err != nil {
		p.logger.Warn("charge failed",
			zap.String("session_id", sessionID),
			zap.String("idempotency_key", txn.IdempotencyKey),
			zap.Error(err))
		p.markFailed(ctx, txn, err.Error(), nil)
		return nil, &utils.PaymentError{Reason: genericPaymentFailure}
	}
	if !result.Success {
		p.logger.Info("charge declined",
			zap.String("session_id", sessionID),
			zap.String("reason", result.Reason))
		p.markFailed(ctx, txn, result.Reason, result.Receipt)
		reason := result.Reason
		if reason == "" {
			reason = genericPaymentFailure
		}
		return nil, &utils.PaymentError{Reason: reason}
	}

	now := time.Now()
	paidAt := now.Unix()
	txn.Status = dbm.TxnStatusPaid
	txn.ProviderTxnID = result.ChargeID
	txn.PaidAt = &paidAt
	txn.Receipt = receiptJSON(result.Receipt)
	if err := p.txns.Update(ctx, txn); err != nil {
		// The charge went through; keep going so the plan is granted.
		p.logger.Error("transaction not marked paid", zap.String("transaction_id", txn.ID.String()), zap.Error(err))
	}

	// Reload so writes made while the charge was in flight are kept.
	latest, err := p.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := latest.Purchase(target, now); err != nil {
		p.logger.Error("plan not advanced after paid charge",
			zap.String("session_id", sessionID),
			zap.String("charge_id", result.ChargeID),
			zap.Error(err))
		return nil, flowError(err)
	}
	if err := p.store.Save(ctx, latest); err != nil {
		return nil, err
	}

	p.logger.Info("plan purchased",
		zap.String("session_id", sessionID),
		zap.String("plan", string(target)),
		zap.Int64("amount_minor", amount))

	return &response_models.PaymentResult{
		ChargeID:      result.ChargeID,
		Status:        result.Status,
		Plan:          string(latest.Plan()),
		AmountMinor:   amount,
		Currency:      plans.Currency,
		TransactionID: txn.ID.String(),
	}, nil
}

func (p *paymentService) markFailed(ctx context.Context, txn *dbm.Transaction, reason string, receipt []byte) {
	txn.Status = dbm.TxnStatusFailed
	txn.FailureReason = reason
	txn.Receipt = receiptJSON(receipt)
	if err := p.txns.Update(ctx, txn); err != nil {
		p.logger.Error("transaction not marked failed", zap.String("transaction_id", txn.ID.String()), zap.Error(err))
	}
}

// receiptJSON keeps the provider payload when it is JSON and wraps it
// otherwise.
func receiptJSON(raw []byte) []byte {
	if len(raw) == 0 {
		return []byte("{}")
	}
	if json.Valid(raw) {
		return raw
	}
	return jsonRaw(map[string]any{"raw": string(raw)})
}

func jsonRaw(v any) []byte {
	b, _ := json.Marshal(v)
	return b
}
