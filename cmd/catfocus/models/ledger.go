package models

// ResourceLedger is the externally owned treats/toys balance. Spend methods
// never drive a balance negative and report whether the spend happened.
type ResourceLedger interface {
	Treats() int
	Toys() int
	SpendTreats(n int) bool
	SpendToys(n int) bool
}

const (
	FocusTreatReward = 2
	FocusToyReward   = 1
)

type Ledger struct {
	treats, toys int
}

func NewLedger(treats, toys int) *Ledger {
	return &Ledger{
		treats: max(0, treats),
		toys:   max(0, toys),
	}
}

func (l *Ledger) Treats() int { return l.treats }
func (l *Ledger) Toys() int   { return l.toys }

func (l *Ledger) SpendTreats(n int) bool {
	if n <= 0 || l.treats < n {
		return false
	}
	l.treats -= n
	return true
}

func (l *Ledger) SpendToys(n int) bool {
	if n <= 0 || l.toys < n {
		return false
	}
	l.toys -= n
	return true
}

func (l *Ledger) Earn(treats, toys int) {
	l.treats += max(0, treats)
	l.toys += max(0, toys)
}
