package service

import (
	"time"

	"librarium/internal/http-api/models"
)

// LoanPath distinguishes how a loan came to be: issued directly at the desk
// or spawned by approving a reservation. The two paths carry different loan
// periods on purpose; keeping them in one table makes the asymmetry explicit.
type LoanPath int

const (
	PathIssue LoanPath = iota
	PathReservation
)

// MaxRenewals caps how often a single loan can be extended.
const MaxRenewals = 2

// loanDays maps (path, role) to the base loan period in days.
// Roles other than Teacher get the default period.
var loanDays = map[LoanPath]map[string]int{
	PathIssue:       {models.RoleTeacher: 3, "": 1},
	PathReservation: {models.RoleTeacher: 5, "": 3},
}

// renewalDays maps role to the renewal extension in days.
var renewalDays = map[string]int{
	models.RoleTeacher: 14,
	"":                 7,
}

// LoanPolicy computes due dates, fines and renewal effects. It is pure:
// callers persist whatever it returns.
type LoanPolicy struct {
	FinePerDay float64
}

// DueDate returns the due date for a loan created now on the given path,
// normalized to the last instant of that calendar day so that time-of-day
// never affects overdue comparisons.
func (p LoanPolicy) DueDate(path LoanPath, role string, now time.Time) time.Time {
	days, ok := loanDays[path][role]
	if !ok {
		days = loanDays[path][""]
	}
	return endOfDay(now.AddDate(0, 0, days))
}

// Fine returns the fine owed when a loan due at dueDate is returned at
// returnedAt. Overdue days are counted by calendar-date difference, not
// full 24h intervals; non-positive differences owe nothing.
func (p LoanPolicy) Fine(dueDate, returnedAt time.Time) float64 {
	days := daysBetween(dueDate, returnedAt)
	if days <= 0 {
		return 0
	}
	return float64(days) * p.FinePerDay
}

// CanRenew reports whether the loan may be renewed at all.
func (p LoanPolicy) CanRenew(loan *models.Loan) bool {
	return !loan.Returned() && loan.RenewalCount < MaxRenewals
}

// RenewedDueDate extends the due date from its current value (compounding),
// by the role-specific renewal period.
func (p LoanPolicy) RenewedDueDate(current time.Time, role string) time.Time {
	days, ok := renewalDays[role]
	if !ok {
		days = renewalDays[""]
	}
	return current.AddDate(0, 0, days)
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// daysBetween counts whole calendar days from a's date to b's date.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	start := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	end := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours() / 24)
}
