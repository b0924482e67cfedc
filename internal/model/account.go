package model

import "time"

// Account is a bank account with a persisted running balance.
//
// Balance is a cached aggregate: it must always equal InitialBalance plus the
// signed sum of all completed transactions referencing the account. Every
// mutation path goes through the storage layer's balance-delta discipline to
// keep that invariant.
type Account struct {
	CreatedAt      time.Time
	ID             string
	Name           string
	Type           string
	Color          string
	Balance        float64
	InitialBalance float64
}

// CreditCard is a credit card. It carries no running balance; the balance of
// a given invoice cycle is computed on demand from the transactions dated
// inside the cycle window.
type CreditCard struct {
	CreatedAt  time.Time
	ID         string
	Name       string
	Color      string
	Limit      float64
	ClosingDay int
	DueDay     int
}

// CycleStatus is the presentational state of an invoice cycle.
type CycleStatus string

const (
	// CycleOpen is the current, still-accumulating cycle.
	CycleOpen CycleStatus = "aberta"
	// CycleClosed is a past cycle that has not reached its due date.
	CycleClosed CycleStatus = "fechada"
	// CyclePaid is a past cycle whose due date has passed.
	CyclePaid CycleStatus = "paga"
)

// InvoiceCycle is the derived date window of one credit-card invoice.
type InvoiceCycle struct {
	Start   time.Time
	End     time.Time
	DueDate time.Time
	Status  CycleStatus
}

// Cycle returns the invoice cycle at the given index for this card, where 0
// is the current cycle, 1 the previous one, and so on. The transaction window
// is the half-open interval [closing day of month M-1, closing day of month M)
// with M chosen so that cycle 0's window ends after today.
func (c *CreditCard) Cycle(index int, today time.Time) InvoiceCycle {
	today = dateOnly(today)

	// Month M for cycle 0: the month whose closing day is still ahead of (or
	// is) today. If today's day has reached the closing day, the current
	// cycle already rolled into next month.
	year, month, _ := today.Date()
	m := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	if today.Day() >= c.ClosingDay {
		m = m.AddDate(0, 1, 0)
	}
	m = m.AddDate(0, -index, 0)

	start := clampedDate(m.AddDate(0, -1, 0), c.ClosingDay)
	end := clampedDate(m, c.ClosingDay)
	due := clampedDate(m, c.DueDay)

	status := CycleOpen
	if index > 0 {
		status = CycleClosed
		if today.After(due) {
			status = CyclePaid
		}
	}

	return InvoiceCycle{Start: start, End: end, DueDate: due, Status: status}
}

// Contains reports whether a transaction date falls inside the cycle window.
func (ic InvoiceCycle) Contains(date time.Time) bool {
	d := dateOnly(date)
	return !d.Before(ic.Start) && d.Before(ic.End)
}

// clampedDate builds a date in the month of ref with the requested day,
// clamped to the last day of that month (a day-31 closing on February yields
// February 28/29, not March).
func clampedDate(ref time.Time, day int) time.Time {
	year, month, _ := ref.Date()
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day > last {
		day = last
	}
	if day < 1 {
		day = 1
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
