package store

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/fintrack-app/backend/internal/model"
)

// docGetError normalizes a reminder document lookup failure: only a missing
// document maps to ErrNotFound; timeouts, Unavailable and the rest surface
// as internal failures so callers never mistake an outage for a 404.
func docGetError(err error) error {
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	return fmt.Errorf("failed to load reminder: %w", err)
}

const (
	transactionsCollection = "transactions"
	remindersCollection    = "taxReminders"
)

// FirestoreStore implements the Store interface using Firestore
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore creates a new Firestore-backed store
func NewFirestoreStore(client *firestore.Client) Store {
	return &FirestoreStore{
		client: client,
	}
}

func (s *FirestoreStore) CreateTransaction(ctx context.Context, txn *model.Transaction) error {
	if txn.ID == "" {
		txn.ID = uuid.New().String()
	}
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now()
	}
	_, err := s.client.Collection(transactionsCollection).Doc(txn.ID).Set(ctx, txn)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (s *FirestoreStore) ListTransactions(ctx context.Context, userID string, start, end time.Time) ([]*model.Transaction, error) {
	query := s.client.Collection(transactionsCollection).
		Where("UserId", "==", userID).
		Where("Date", ">=", start).
		Where("Date", "<=", end)

	iter := query.Documents(ctx)
	defer iter.Stop()

	var result []*model.Transaction
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list transactions: %w", err)
		}
		var txn model.Transaction
		if err := doc.DataTo(&txn); err != nil {
			return nil, fmt.Errorf("failed to parse transaction: %w", err)
		}
		result = append(result, &txn)
	}
	return result, nil
}

func (s *FirestoreStore) GetTransactionTotals(ctx context.Context, userID string, start, end time.Time) (int64, int64, error) {
	txns, err := s.ListTransactions(ctx, userID, start, end)
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

func (s *FirestoreStore) ListReminders(ctx context.Context, userID, financialYear string) ([]*model.Reminder, error) {
	query := s.client.Collection(remindersCollection).
		Where("UserId", "==", userID).
		Where("FinancialYear", "==", financialYear)

	iter := query.Documents(ctx)
	defer iter.Stop()

	var result []*model.Reminder
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list reminders: %w", err)
		}
		var r model.Reminder
		if err := doc.DataTo(&r); err != nil {
			return nil, fmt.Errorf("failed to parse reminder: %w", err)
		}
		result = append(result, &r)
	}
	return result, nil
}

func (s *FirestoreStore) GetReminder(ctx context.Context, userID, reminderID string) (*model.Reminder, error) {
	doc, err := s.client.Collection(remindersCollection).Doc(reminderID).Get(ctx)
	if err != nil {
		return nil, docGetError(err)
	}

	var r model.Reminder
	if err := doc.DataTo(&r); err != nil {
		return nil, fmt.Errorf("failed to parse reminder: %w", err)
	}
	if r.UserID != userID {
		return nil, ErrNotFound
	}
	return &r, nil
}

// ReplaceUnpaidReminders deletes the unpaid reminders and writes the new set
// inside a single Firestore transaction, so two racing reconciliations for
// the same user and fiscal year cannot leave overlapping installments.
func (s *FirestoreStore) ReplaceUnpaidReminders(ctx context.Context, userID, financialYear string, reminders []*model.Reminder) error {
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		query := s.client.Collection(remindersCollection).
			Where("UserId", "==", userID).
			Where("FinancialYear", "==", financialYear).
			Where("IsPaid", "==", false)

		docs, err := tx.Documents(query).GetAll()
		if err != nil {
			return fmt.Errorf("failed to load unpaid reminders: %w", err)
		}
		for _, doc := range docs {
			if err := tx.Delete(doc.Ref); err != nil {
				return err
			}
		}
		for _, r := range reminders {
			if err := tx.Set(s.client.Collection(remindersCollection).Doc(r.ID), r); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to replace unpaid reminders: %w", err)
	}
	return nil
}

func (s *FirestoreStore) DeleteUnpaidReminders(ctx context.Context, userID, financialYear string) error {
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		query := s.client.Collection(remindersCollection).
			Where("UserId", "==", userID).
			Where("FinancialYear", "==", financialYear).
			Where("IsPaid", "==", false)

		docs, err := tx.Documents(query).GetAll()
		if err != nil {
			return fmt.Errorf("failed to load unpaid reminders: %w", err)
		}
		for _, doc := range docs {
			if err := tx.Delete(doc.Ref); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete unpaid reminders: %w", err)
	}
	return nil
}

func (s *FirestoreStore) MarkReminderPaid(ctx context.Context, userID, reminderID string) (*model.Reminder, error) {
	ref := s.client.Collection(remindersCollection).Doc(reminderID)

	var reminder model.Reminder
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			return docGetError(err)
		}
		if err := doc.DataTo(&reminder); err != nil {
			return fmt.Errorf("failed to parse reminder: %w", err)
		}
		if reminder.UserID != userID {
			return ErrNotFound
		}
		if reminder.IsPaid {
			return nil
		}
		reminder.IsPaid = true
		reminder.UpdatedAt = time.Now()
		return tx.Update(ref, []firestore.Update{
			{Path: "IsPaid", Value: true},
			{Path: "UpdatedAt", Value: reminder.UpdatedAt},
		})
	})
	if err != nil {
		return nil, err
	}
	return &reminder, nil
}
