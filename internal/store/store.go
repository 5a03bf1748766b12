package store

import (
	"context"
	"errors"
	"time"

	"github.com/fintrack-app/backend/internal/model"
)

// ErrNotFound is returned when a requested document does not exist or is
// not owned by the requesting user. Callers must not be able to tell the
// two cases apart.
var ErrNotFound = errors.New("not found")

// Store defines the interface for all database operations used by the service
type Store interface {
	// Transaction operations. The ledger proper is maintained by the main
	// app; this service only reads aggregates and creates rows for seeding.
	CreateTransaction(ctx context.Context, txn *model.Transaction) error
	ListTransactions(ctx context.Context, userID string, start, end time.Time) ([]*model.Transaction, error)
	// GetTransactionTotals sums income and expense amounts for the user
	// inside [start, end]. Both totals are zero when no rows match.
	GetTransactionTotals(ctx context.Context, userID string, start, end time.Time) (income, expense int64, err error)

	// Tax reminder operations
	ListReminders(ctx context.Context, userID, financialYear string) ([]*model.Reminder, error)
	GetReminder(ctx context.Context, userID, reminderID string) (*model.Reminder, error)
	// ReplaceUnpaidReminders atomically deletes every unpaid reminder for
	// (userID, financialYear) and inserts the given replacements. Paid
	// reminders are never touched.
	ReplaceUnpaidReminders(ctx context.Context, userID, financialYear string, reminders []*model.Reminder) error
	DeleteUnpaidReminders(ctx context.Context, userID, financialYear string) error
	// MarkReminderPaid flips the reminder to paid if it exists and belongs
	// to the user. Marking an already-paid reminder again is a no-op.
	MarkReminderPaid(ctx context.Context, userID, reminderID string) (*model.Reminder, error)
}
