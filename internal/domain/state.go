package domain

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Collection names one persisted blob of the workspace.
type Collection string

const (
	CollectionDebts             Collection = "debts"
	CollectionExpenses          Collection = "expenses"
	CollectionSalary            Collection = "salary"
	CollectionAdditionalIncomes Collection = "additionalIncomes"
	CollectionInvestments       Collection = "investments"
	CollectionDebtPayments      Collection = "debtPayments"
	CollectionNotifications     Collection = "notifications"
	CollectionNetWorthHistory   Collection = "netWorthHistory"
	CollectionPendingChanges    Collection = "pendingChanges"
)

// Collections lists every collection in load/save order.
var Collections = []Collection{
	CollectionDebts,
	CollectionExpenses,
	CollectionSalary,
	CollectionAdditionalIncomes,
	CollectionInvestments,
	CollectionDebtPayments,
	CollectionNotifications,
	CollectionNetWorthHistory,
	CollectionPendingChanges,
}

// PendingChangeRetention is how long queued offline snapshots are kept.
const PendingChangeRetention = 1825 * 24 * time.Hour

var ErrPendingChangeInvalid = errors.New("pending change requires a timestamp and data")

// PendingChange is a full-state snapshot queued while the workspace is offline.
type PendingChange struct {
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
	Synced    bool            `json:"synced"`
}

func (p *PendingChange) Validate() error {
	if p.Timestamp.IsZero() || len(p.Data) == 0 {
		return ErrPendingChangeInvalid
	}
	return nil
}

// State is the whole working set of a single user. It is owned by the
// workspace store and only touched while the store lock is held.
type State struct {
	Loans             []Loan
	Payments          PaymentLedger
	Expenses          []Expense
	Salary            decimal.Decimal
	AdditionalIncomes []AdditionalIncome
	Investments       []Investment
	Notifications     []Notification
	NetWorthHistory   []NetWorthSnapshot
	PendingChanges    []PendingChange

	// Online is connectivity as last reported by the client. Not persisted.
	Online bool

	dirty map[Collection]bool
}

// NewState returns an empty, online working set.
func NewState() *State {
	return &State{
		Loans:             []Loan{},
		Payments:          PaymentLedger{},
		Expenses:          []Expense{},
		Salary:            decimal.Zero,
		AdditionalIncomes: []AdditionalIncome{},
		Investments:       []Investment{},
		Notifications:     []Notification{},
		NetWorthHistory:   []NetWorthSnapshot{},
		PendingChanges:    []PendingChange{},
		Online:            true,
		dirty:             make(map[Collection]bool),
	}
}

// Touch marks collections as modified so the store saves them.
func (s *State) Touch(collections ...Collection) {
	if s.dirty == nil {
		s.dirty = make(map[Collection]bool)
	}
	for _, c := range collections {
		s.dirty[c] = true
	}
}

// Dirty returns the modified collections in canonical order.
func (s *State) Dirty() []Collection {
	out := make([]Collection, 0, len(s.dirty))
	for _, c := range Collections {
		if s.dirty[c] {
			out = append(out, c)
		}
	}
	return out
}

// IsDirty reports whether any collection awaits saving.
func (s *State) IsDirty() bool {
	return len(s.dirty) > 0
}

// ClearDirty forgets the modified mark of the given collections.
func (s *State) ClearDirty(collections ...Collection) {
	for _, c := range collections {
		delete(s.dirty, c)
	}
}

// Reset puts a collection back to its default value.
func (s *State) Reset(c Collection) {
	switch c {
	case CollectionDebts:
		s.Loans = []Loan{}
	case CollectionExpenses:
		s.Expenses = []Expense{}
	case CollectionSalary:
		s.Salary = decimal.Zero
	case CollectionAdditionalIncomes:
		s.AdditionalIncomes = []AdditionalIncome{}
	case CollectionInvestments:
		s.Investments = []Investment{}
	case CollectionDebtPayments:
		s.Payments = PaymentLedger{}
	case CollectionNotifications:
		s.Notifications = []Notification{}
	case CollectionNetWorthHistory:
		s.NetWorthHistory = []NetWorthSnapshot{}
	case CollectionPendingChanges:
		s.PendingChanges = []PendingChange{}
	}
}

// FindLoan returns a pointer into the loan slice.
func (s *State) FindLoan(id LoanID) (*Loan, error) {
	for i := range s.Loans {
		if s.Loans[i].ID == id {
			return &s.Loans[i], nil
		}
	}
	return nil, ErrLoanNotFound
}

// DeleteLoan removes the loan and every payment recorded against it.
func (s *State) DeleteLoan(id LoanID) error {
	idx := -1
	for i := range s.Loans {
		if s.Loans[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrLoanNotFound
	}
	s.Loans = append(s.Loans[:idx], s.Loans[idx+1:]...)

	kept := make(PaymentLedger, 0, len(s.Payments))
	for _, p := range s.Payments {
		if p.LoanID != id {
			kept = append(kept, p)
		}
	}
	s.Payments = kept
	s.Touch(CollectionDebts, CollectionDebtPayments)
	return nil
}

// FindInvestment returns a pointer into the investment slice.
func (s *State) FindInvestment(id string) (*Investment, error) {
	for i := range s.Investments {
		if s.Investments[i].ID == id {
			return &s.Investments[i], nil
		}
	}
	return nil, ErrInvestmentNotFound
}

// UpsertNetWorth stores value as the snapshot of month, replacing any
// earlier snapshot for the same month.
func (s *State) UpsertNetWorth(month string, value decimal.Decimal) {
	for i := range s.NetWorthHistory {
		if s.NetWorthHistory[i].Month == month {
			if s.NetWorthHistory[i].Value.Equal(value) {
				return
			}
			s.NetWorthHistory[i].Value = value
			s.Touch(CollectionNetWorthHistory)
			return
		}
	}
	s.NetWorthHistory = append(s.NetWorthHistory, NetWorthSnapshot{Month: month, Value: value})
	s.Touch(CollectionNetWorthHistory)
}

// NetWorthFor returns the snapshot recorded for month.
func (s *State) NetWorthFor(month string) (decimal.Decimal, error) {
	for _, snap := range s.NetWorthHistory {
		if snap.Month == month {
			return snap.Value, nil
		}
	}
	return decimal.Zero, ErrNetWorthSnapshotNotFound
}

// QueuePendingChange appends a snapshot of the exportable state and drops
// queued changes older than the retention window.
func (s *State) QueuePendingChange(now time.Time) error {
	data, err := json.Marshal(s.Document())
	if err != nil {
		return err
	}
	s.PendingChanges = append(s.PendingChanges, PendingChange{Timestamp: now.UTC(), Data: data})
	s.PrunePendingChanges(now)
	s.Touch(CollectionPendingChanges)
	return nil
}

// PrunePendingChanges drops queued changes older than the retention window.
func (s *State) PrunePendingChanges(now time.Time) {
	cutoff := now.Add(-PendingChangeRetention)
	kept := s.PendingChanges[:0]
	for _, pc := range s.PendingChanges {
		if !pc.Timestamp.Before(cutoff) {
			kept = append(kept, pc)
		}
	}
	if len(kept) != len(s.PendingChanges) {
		s.Touch(CollectionPendingChanges)
	}
	s.PendingChanges = kept
}

// UnsyncedChanges returns the number of queued changes not yet flushed.
func (s *State) UnsyncedChanges() int {
	n := 0
	for _, pc := range s.PendingChanges {
		if !pc.Synced {
			n++
		}
	}
	return n
}

// Document is the exportable shape of the state.
type Document struct {
	Debts             []Loan             `json:"debts"`
	Expenses          []Expense          `json:"expenses"`
	Salary            decimal.Decimal    `json:"salary"`
	AdditionalIncomes []AdditionalIncome `json:"additionalIncomes"`
	Investments       []Investment       `json:"investments"`
	DebtPayments      []Payment          `json:"debtPayments"`
	Notifications     []Notification     `json:"notifications"`
	NetWorthHistory   []NetWorthSnapshot `json:"netWorthHistory"`
}

// Document copies the exportable collections.
func (s *State) Document() Document {
	return Document{
		Debts:             append([]Loan{}, s.Loans...),
		Expenses:          append([]Expense{}, s.Expenses...),
		Salary:            s.Salary,
		AdditionalIncomes: append([]AdditionalIncome{}, s.AdditionalIncomes...),
		Investments:       append([]Investment{}, s.Investments...),
		DebtPayments:      append([]Payment{}, s.Payments...),
		Notifications:     append([]Notification{}, s.Notifications...),
		NetWorthHistory:   append([]NetWorthSnapshot{}, s.NetWorthHistory...),
	}
}
