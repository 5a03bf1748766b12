package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fintrack-app/backend/internal/model"
	"github.com/fintrack-app/backend/internal/store"
	"github.com/fintrack-app/backend/internal/tax"
)

// Validation and lookup failures the HTTP layer maps to 4xx responses.
// Anything else coming out of this package is an internal failure.
var (
	ErrInvalidUserID     = errors.New("invalid user id")
	ErrInvalidReminderID = errors.New("invalid reminder id")
	ErrReminderNotFound  = errors.New("reminder not found")
)

// TaxService computes the automatic tax summary and keeps the quarterly
// payment reminders reconciled against the current liability.
type TaxService struct {
	store store.Store
	now   func() time.Time

	// Reconciliation is serialized per (user, fiscal year) so two summary
	// requests racing for the same pair cannot interleave their
	// delete-and-rebuild sequences. The store-level transactional replace
	// protects cross-process races; this protects in-process ones.
	mu      sync.Mutex
	fyLocks map[string]*sync.Mutex
}

// NewTaxService creates the service on top of the given store.
func NewTaxService(s store.Store) *TaxService {
	return &TaxService{
		store:   s,
		now:     time.Now,
		fyLocks: make(map[string]*sync.Mutex),
	}
}

// GetSummary computes the caller's tax position for the current fiscal
// year: ledger totals, slab breakdown (or the no-tax short circuit) and the
// reconciled unpaid installment schedule.
func (s *TaxService) GetSummary(ctx context.Context, userID string) (*model.TaxSummary, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, ErrInvalidUserID
	}

	fy := tax.CurrentFinancialYear(s.now())

	income, expenses, err := s.store.GetTransactionTotals(ctx, userID, fy.Start, fy.End)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate transactions: %w", err)
	}

	taxableIncome := income - expenses
	if taxableIncome < 0 {
		taxableIncome = 0
	}

	summary := &model.TaxSummary{
		TotalIncome:   income,
		TotalExpenses: expenses,
		TaxableIncome: taxableIncome,
		Slabs:         []model.TaxSlabLine{},
		Schedule:      []model.TaxScheduleItem{},
		FinancialYear: fy.Label,
	}

	if taxableIncome < tax.TaxFreeThreshold {
		summary.NoTax = true
		summary.NoTaxMessage = tax.NoTaxMessage(taxableIncome)
		// Liability is gone; drop any scheduled installments. Paid history
		// is preserved.
		if _, err := s.reconcileReminders(ctx, userID, fy, 0); err != nil {
			return nil, err
		}
		return summary, nil
	}

	taxPayable, slabs := tax.ComputeBreakdown(taxableIncome)
	summary.TaxPayable = taxPayable
	summary.Slabs = slabs

	unpaid, err := s.reconcileReminders(ctx, userID, fy, taxPayable)
	if err != nil {
		return nil, err
	}
	for _, r := range unpaid {
		summary.Schedule = append(summary.Schedule, model.TaxScheduleItem{
			ID:      r.ID,
			Label:   r.Label,
			Period:  r.Period,
			DueDate: r.DueDate,
			Amount:  r.Amount,
		})
	}
	return summary, nil
}

// reconcileReminders makes the persisted unpaid installments for the fiscal
// year reflect taxPayable minus what has already been paid.
//
// Paid reminders are never modified or deleted, including when the
// liability drops to zero; only stale unpaid rows are removed. When
// something remains owed, the unpaid set is rebuilt from scratch at the
// next generation, which keeps the composite key
// (user, fiscal year, quarter, generation) unique across rebuilds.
// The rebuild is idempotent amount-for-amount: re-running it with the same
// taxPayable and paid total produces an equivalent schedule.
func (s *TaxService) reconcileReminders(ctx context.Context, userID string, fy tax.FinancialYear, taxPayable int64) ([]*model.Reminder, error) {
	unlock := s.lockFiscalYear(userID, fy.Label)
	defer unlock()

	existing, err := s.store.ListReminders(ctx, userID, fy.Label)
	if err != nil {
		return nil, fmt.Errorf("failed to load reminders: %w", err)
	}

	var paidTotal, maxGeneration int64
	for _, r := range existing {
		if r.IsPaid {
			paidTotal += r.Amount
		}
		if r.Generation > maxGeneration {
			maxGeneration = r.Generation
		}
	}

	remaining := taxPayable - paidTotal
	if taxPayable <= 0 || remaining <= 0 {
		if err := s.store.DeleteUnpaidReminders(ctx, userID, fy.Label); err != nil {
			return nil, fmt.Errorf("failed to delete stale reminders: %w", err)
		}
		return nil, nil
	}

	now := s.now()
	plan := tax.PlanInstallments(remaining, fy.StartYear)
	reminders := make([]*model.Reminder, 0, len(plan))
	for _, inst := range plan {
		reminders = append(reminders, &model.Reminder{
			ID:            uuid.New().String(),
			UserID:        userID,
			FinancialYear: fy.Label,
			Quarter:       inst.Quarter,
			Generation:    maxGeneration + 1,
			Label:         inst.Label,
			Period:        inst.Period,
			DueDate:       inst.DueDate,
			Amount:        inst.Amount,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}

	if err := s.store.ReplaceUnpaidReminders(ctx, userID, fy.Label, reminders); err != nil {
		return nil, fmt.Errorf("failed to rebuild reminders: %w", err)
	}
	log.Printf("[TaxService] rebuilt %d installments for user %s %s (remaining %d, generation %d)",
		len(reminders), userID, fy.Label, remaining, maxGeneration+1)

	sort.Slice(reminders, func(i, j int) bool {
		return reminders[i].DueDate.Before(reminders[j].DueDate)
	})
	return reminders, nil
}

// MarkReminderPaid flips one reminder to paid for the calling user. It does
// not trigger reconciliation; the next summary request picks up the larger
// paid total on its own.
func (s *TaxService) MarkReminderPaid(ctx context.Context, userID, reminderID string) (*model.MarkPaidResult, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, ErrInvalidUserID
	}
	if _, err := uuid.Parse(reminderID); err != nil {
		return nil, ErrInvalidReminderID
	}

	if _, err := s.store.MarkReminderPaid(ctx, userID, reminderID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrReminderNotFound
		}
		return nil, fmt.Errorf("failed to mark reminder as paid: %w", err)
	}

	return &model.MarkPaidResult{Message: "Marked as paid", ID: reminderID}, nil
}

// EstimateTax is the stateless what-if calculation: same threshold and slab
// walk as the summary, no ledger reads and no reminder writes.
func (s *TaxService) EstimateTax(totalIncome, totalExpenses int64) *model.TaxEstimate {
	taxableIncome := totalIncome - totalExpenses
	if taxableIncome < 0 {
		taxableIncome = 0
	}

	estimate := &model.TaxEstimate{
		TaxableIncome: taxableIncome,
		Slabs:         []model.TaxSlabLine{},
	}
	if taxableIncome < tax.TaxFreeThreshold {
		estimate.NoTax = true
		estimate.NoTaxMessage = tax.NoTaxMessage(taxableIncome)
		return estimate
	}

	estimate.TaxPayable, estimate.Slabs = tax.ComputeBreakdown(taxableIncome)
	return estimate
}

// lockFiscalYear acquires the per-(user, fiscal year) mutex and returns the
// unlock function. Entries are never evicted; the map stays bounded by
// active users times fiscal years.
func (s *TaxService) lockFiscalYear(userID, fyLabel string) func() {
	key := userID + "/" + fyLabel

	s.mu.Lock()
	l, ok := s.fyLocks[key]
	if !ok {
		l = &sync.Mutex{}
		s.fyLocks[key] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}
