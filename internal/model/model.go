package model

import "time"

// TransactionType distinguishes ledger entries. Only two kinds exist.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Transaction is a single ledger entry. The full ledger CRUD surface lives
// in the main app; this backend only needs enough of the shape to aggregate
// income/expense totals inside a fiscal-year window.
type Transaction struct {
	ID        string          `json:"id" firestore:"Id"`
	UserID    string          `json:"userId" firestore:"UserId"`
	Type      TransactionType `json:"type" firestore:"Type"`
	Category  string          `json:"category" firestore:"Category"`
	Note      string          `json:"note,omitempty" firestore:"Note"`
	Amount    int64           `json:"amount" firestore:"Amount"`
	Date      time.Time       `json:"date" firestore:"Date"`
	CreatedAt time.Time       `json:"createdAt" firestore:"CreatedAt"`
}

// Reminder is a persisted quarterly tax installment obligation.
//
// A reminder is only ever created by the reconciliation engine and only
// ever flipped to paid by the mark-paid command. Once IsPaid is true the
// record is immutable. Uniqueness among live records is the composite key
// (UserID, FinancialYear, Quarter, Generation): every successful rebuild of
// the unpaid set bumps Generation, which is how stale rows from a previous
// rebuild are invalidated without timestamp-suffix tricks.
type Reminder struct {
	ID            string    `json:"id" firestore:"Id"`
	UserID        string    `json:"userId" firestore:"UserId"`
	FinancialYear string    `json:"financialYear" firestore:"FinancialYear"`
	Quarter       int       `json:"quarter" firestore:"Quarter"`
	Generation    int64     `json:"generation" firestore:"Generation"`
	Label         string    `json:"label" firestore:"Label"`
	Period        string    `json:"period" firestore:"Period"`
	DueDate       time.Time `json:"dueDate" firestore:"DueDate"`
	Amount        int64     `json:"amount" firestore:"Amount"`
	IsPaid        bool      `json:"isPaid" firestore:"IsPaid"`
	CreatedAt     time.Time `json:"createdAt" firestore:"CreatedAt"`
	UpdatedAt     time.Time `json:"updatedAt" firestore:"UpdatedAt"`
}

// TaxSlabLine is one row of the progressive bracket breakdown.
// To is nil for the open-ended top slab.
type TaxSlabLine struct {
	From           int64   `json:"from"`
	To             *int64  `json:"to"`
	Rate           float64 `json:"rate"`
	TaxablePortion int64   `json:"taxablePortion"`
	Tax            int64   `json:"tax"`
}

// TaxScheduleItem is one unpaid installment as presented to the caller.
type TaxScheduleItem struct {
	ID      string    `json:"id"`
	Label   string    `json:"label"`
	Period  string    `json:"period"`
	DueDate time.Time `json:"dueDate"`
	Amount  int64     `json:"amount"`
}

// TaxSummary is the full response of the summary operation.
type TaxSummary struct {
	TotalIncome   int64             `json:"totalIncome"`
	TotalExpenses int64             `json:"totalExpenses"`
	TaxableIncome int64             `json:"taxableIncome"`
	TaxPayable    int64             `json:"taxPayable"`
	NoTax         bool              `json:"noTax"`
	NoTaxMessage  string            `json:"noTaxMessage,omitempty"`
	Slabs         []TaxSlabLine     `json:"slabs"`
	Schedule      []TaxScheduleItem `json:"schedule"`
	FinancialYear string            `json:"financialYear"`
}

// TaxEstimate is the response of the stateless what-if estimator.
type TaxEstimate struct {
	TaxableIncome int64         `json:"taxableIncome"`
	TaxPayable    int64         `json:"taxPayable"`
	NoTax         bool          `json:"noTax"`
	NoTaxMessage  string        `json:"noTaxMessage,omitempty"`
	Slabs         []TaxSlabLine `json:"slabs"`
}

// MarkPaidResult acknowledges a successful mark-paid command.
type MarkPaidResult struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}
