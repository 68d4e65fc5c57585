package repositories

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"healthybychoice/internal/models/db_models"
	"healthybychoice/pkg/utils"
)

var ErrTransactionNotFound = errors.New("transaction not found")

type ITransactionRepository interface {
	Create(ctx context.Context, txn *db_models.Transaction) error
	Update(ctx context.Context, txn *db_models.Transaction) error
	GetByIdempotencyKey(ctx context.Context, key string) (*db_models.Transaction, error)
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]db_models.Transaction, error)
}

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) ITransactionRepository {
	return &TransactionRepository{db: db}
}

func (t *TransactionRepository) Create(ctx context.Context, txn *db_models.Transaction) error {
	if err := t.db.WithContext(ctx).Create(txn).Error; err != nil {
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return nil
}

func (t *TransactionRepository) Update(ctx context.Context, txn *db_models.Transaction) error {
	if err := t.db.WithContext(ctx).Save(txn).Error; err != nil {
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return nil
}

func (t *TransactionRepository) GetByIdempotencyKey(ctx context.Context, key string) (*db_models.Transaction, error) {
	var txn db_models.Transaction
	err := t.db.WithContext(ctx).Where("idempotency_key = ?", key).First(&txn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return &txn, nil
}

func (t *TransactionRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]db_models.Transaction, error) {
	var txns []db_models.Transaction
	err := t.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&txns).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return txns, nil
}

// MemoryTransactionRepository backs dev mode and tests.
type MemoryTransactionRepository struct {
	mu   sync.Mutex
	txns []db_models.Transaction
}

func NewMemoryTransactionRepository() *MemoryTransactionRepository {
	return &MemoryTransactionRepository{}
}

func (m *MemoryTransactionRepository) Create(_ context.Context, txn *db_models.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := txn.BeforeCreate(nil); err != nil {
		return err
	}
	for _, existing := range m.txns {
		if existing.IdempotencyKey == txn.IdempotencyKey {
			return fmt.Errorf("%w: duplicate idempotency key", utils.ErrDatabaseError)
		}
	}
	m.txns = append(m.txns, *txn)
	return nil
}

func (m *MemoryTransactionRepository) Update(_ context.Context, txn *db_models.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := txn.BeforeUpdate(nil); err != nil {
		return err
	}
	for i := range m.txns {
		if m.txns[i].ID == txn.ID {
			m.txns[i] = *txn
			return nil
		}
	}
	return ErrTransactionNotFound
}

func (m *MemoryTransactionRepository) GetByIdempotencyKey(_ context.Context, key string) (*db_models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, txn := range m.txns {
		if txn.IdempotencyKey == key {
			found := txn
			return &found, nil
		}
	}
	return nil, ErrTransactionNotFound
}

func (m *MemoryTransactionRepository) ListBySession(_ context.Context, sessionID uuid.UUID) ([]db_models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []db_models.Transaction
	for _, txn := range m.txns {
		if txn.SessionID == sessionID {
			out = append(out, txn)
		}
	}
	return out, nil
}
