package tax

import (
	"fmt"
	"time"
)

// FinancialYear describes the Apr 1 - Mar 31 accounting window that
// encloses a given instant.
type FinancialYear struct {
	Start     time.Time
	End       time.Time
	Label     string // e.g. "FY 2025-26"
	StartYear int
}

// CurrentFinancialYear resolves the fiscal year enclosing now.
// January through March belong to the fiscal year that started the
// previous calendar year.
func CurrentFinancialYear(now time.Time) FinancialYear {
	startYear := now.Year()
	if now.Month() < time.April {
		startYear--
	}
	endYear := startYear + 1

	return FinancialYear{
		Start:     time.Date(startYear, time.April, 1, 0, 0, 0, 0, now.Location()),
		End:       time.Date(endYear, time.March, 31, 23, 59, 59, 999000000, now.Location()),
		Label:     fmt.Sprintf("FY %d-%02d", startYear, endYear%100),
		StartYear: startYear,
	}
}
