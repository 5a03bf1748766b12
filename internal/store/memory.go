package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fintrack-app/backend/internal/model"
)

// MemoryStore implements Store interface with in-memory storage
type MemoryStore struct {
	mu sync.RWMutex

	transactions map[string]*model.Transaction
	reminders    map[string]*model.Reminder
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		transactions: make(map[string]*model.Transaction),
		reminders:    make(map[string]*model.Reminder),
	}
}

func (m *MemoryStore) CreateTransaction(ctx context.Context, txn *model.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if txn.ID == "" {
		txn.ID = uuid.New().String()
	}
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now()
	}

	m.transactions[txn.ID] = txn
	return nil
}

func (m *MemoryStore) ListTransactions(ctx context.Context, userID string, start, end time.Time) ([]*model.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*model.Transaction
	for _, txn := range m.transactions {
		if txn.UserID != userID {
			continue
		}
		if txn.Date.Before(start) || txn.Date.After(end) {
			continue
		}
		result = append(result, txn)
	}
	return result, nil
}

func (m *MemoryStore) GetTransactionTotals(ctx context.Context, userID string, start, end time.Time) (int64, int64, error) {
	txns, err := m.ListTransactions(ctx, userID, start, end)
	if err != nil {
		return 0, 0, err
	}

	var income, expense int64
	for _, txn := range txns {
		switch txn.Type {
		case model.TransactionTypeIncome:
			income += txn.Amount
		case model.TransactionTypeExpense:
			expense += txn.Amount
		}
	}
	return income, expense, nil
}

func (m *MemoryStore) ListReminders(ctx context.Context, userID, financialYear string) ([]*model.Reminder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*model.Reminder
	for _, r := range m.reminders {
		if r.UserID == userID && r.FinancialYear == financialYear {
			result = append(result, r)
		}
	}
	return result, nil
}

func (m *MemoryStore) GetReminder(ctx context.Context, userID, reminderID string) (*model.Reminder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.reminders[reminderID]
	if !ok || r.UserID != userID {
		return nil, ErrNotFound
	}
	return r, nil
}

func (m *MemoryStore) ReplaceUnpaidReminders(ctx context.Context, userID, financialYear string, reminders []*model.Reminder) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Composite-key uniqueness: (user, fiscal year, quarter, generation)
	// must not collide with surviving paid rows or within the new batch.
	// Validated before any deletion so a rejected batch leaves the store
	// unchanged.
	seen := make(map[string]bool)
	for _, r := range m.reminders {
		if r.UserID == userID && r.FinancialYear == financialYear && r.IsPaid {
			seen[reminderKey(r)] = true
		}
	}
	for _, r := range reminders {
		key := reminderKey(r)
		if seen[key] {
			return fmt.Errorf("duplicate reminder for %s", key)
		}
		seen[key] = true
	}

	for id, r := range m.reminders {
		if r.UserID == userID && r.FinancialYear == financialYear && !r.IsPaid {
			delete(m.reminders, id)
		}
	}

	now := time.Now()
	for _, r := range reminders {
		if r.ID == "" {
			r.ID = uuid.New().String()
		}
		if r.CreatedAt.IsZero() {
			r.CreatedAt = now
		}
		if r.UpdatedAt.IsZero() {
			r.UpdatedAt = now
		}
		m.reminders[r.ID] = r
	}
	return nil
}

func reminderKey(r *model.Reminder) string {
	return fmt.Sprintf("%s/%s/Q%d/gen%d", r.UserID, r.FinancialYear, r.Quarter, r.Generation)
}

func (m *MemoryStore) DeleteUnpaidReminders(ctx context.Context, userID, financialYear string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, r := range m.reminders {
		if r.UserID == userID && r.FinancialYear == financialYear && !r.IsPaid {
			delete(m.reminders, id)
		}
	}
	return nil
}

func (m *MemoryStore) MarkReminderPaid(ctx context.Context, userID, reminderID string) (*model.Reminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.reminders[reminderID]
	if !ok || r.UserID != userID {
		return nil, ErrNotFound
	}
	if !r.IsPaid {
		r.IsPaid = true
		r.UpdatedAt = time.Now()
	}
	return r, nil
}
