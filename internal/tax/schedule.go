package tax

import (
	"fmt"
	"time"
)

// Installment is one planned quarterly payment slot for a fiscal year.
type Installment struct {
	Quarter int
	Label   string
	Period  string
	DueDate time.Time
	Amount  int64
}

// PlanInstallments splits the remaining liability across the four advance
// tax quarters of the fiscal year starting in startYear. The first three
// quarters each get an equal floor share and the fourth absorbs the
// rounding remainder, so the returned amounts always sum exactly to
// remaining. Slots whose share comes out to zero are dropped. Returns nil
// when remaining <= 0.
func PlanInstallments(remaining int64, startYear int) []Installment {
	if remaining <= 0 {
		return nil
	}

	base := remaining / 4
	amounts := [4]int64{base, base, base, remaining - 3*base}

	defs := [4]struct {
		label   string
		period  string
		dueDate time.Time
	}{
		{
			label:   fmt.Sprintf("Q1 %d", startYear),
			period:  fmt.Sprintf("Apr - Jun %d", startYear),
			dueDate: time.Date(startYear, time.July, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			label:   fmt.Sprintf("Q2 %d", startYear),
			period:  fmt.Sprintf("Jul - Sep %d", startYear),
			dueDate: time.Date(startYear, time.September, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			label:   fmt.Sprintf("Q3 %d", startYear),
			period:  fmt.Sprintf("Oct - Dec %d", startYear),
			dueDate: time.Date(startYear+1, time.January, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			label:   fmt.Sprintf("Q4 %d", startYear),
			period:  fmt.Sprintf("Jan - Mar %d", startYear+1),
			dueDate: time.Date(startYear+1, time.March, 15, 0, 0, 0, 0, time.UTC),
		},
	}

	plan := make([]Installment, 0, len(defs))
	for i, d := range defs {
		if amounts[i] <= 0 {
			continue
		}
		plan = append(plan, Installment{
			Quarter: i + 1,
			Label:   d.label,
			Period:  d.period,
			DueDate: d.dueDate,
			Amount:  amounts[i],
		})
	}
	return plan
}
