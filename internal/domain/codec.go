package domain

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// QuarantinedRecord is a stored record that failed strict decoding. It is
// dropped from the working set and kept here for inspection.
type QuarantinedRecord struct {
	Collection Collection      `json:"collection"`
	Index      int             `json:"index"`
	Raw        json.RawMessage `json:"raw"`
	Reason     string          `json:"reason"`
}

// Required JSON keys per record collection. A key holding null counts as missing.
var requiredFields = map[Collection][]string{
	CollectionDebts:             {"id", "name", "principal", "interestRate", "emi", "months", "startDate", "extraAllowed"},
	CollectionExpenses:          {"date", "category", "amount"},
	CollectionAdditionalIncomes: {"date", "description", "amount"},
	CollectionInvestments:       {"id", "name", "category", "value"},
	CollectionDebtPayments:      {"debtId", "date", "amount"},
	CollectionNotifications:     {"id", "timestamp", "type", "message", "debtId", "priority"},
	CollectionNetWorthHistory:   {"month", "value"},
	CollectionPendingChanges:    {"timestamp", "data"},
}

type validatable[T any] interface {
	*T
	Validate() error
}

// decodeRecords parses raw as a JSON array and strictly decodes each element.
// An error is returned only when raw is not an array at all.
func decodeRecords[T any, PT validatable[T]](c Collection, raw []byte) ([]T, []QuarantinedRecord, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, nil, fmt.Errorf("collection %s is not a JSON array: %w", c, err)
	}

	out := make([]T, 0, len(elems))
	var bad []QuarantinedRecord
	for i, elem := range elems {
		var rec T
		if err := decodeRecord(c, elem, &rec); err != nil {
			bad = append(bad, QuarantinedRecord{Collection: c, Index: i, Raw: elem, Reason: err.Error()})
			continue
		}
		if err := PT(&rec).Validate(); err != nil {
			bad = append(bad, QuarantinedRecord{Collection: c, Index: i, Raw: elem, Reason: err.Error()})
			continue
		}
		out = append(out, rec)
	}
	return out, bad, nil
}

func decodeRecord(c Collection, elem json.RawMessage, dst any) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(elem, &fields); err != nil {
		return fmt.Errorf("record is not an object: %w", err)
	}
	for _, key := range requiredFields[c] {
		v, ok := fields[key]
		if !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			return fmt.Errorf("missing required field %q", key)
		}
	}
	if err := json.Unmarshal(elem, dst); err != nil {
		return fmt.Errorf("invalid field type: %w", err)
	}
	return nil
}

// DecodeCollection replaces collection c of s with the records decoded from
// raw. Records that fail decoding are returned and left out. When raw cannot
// be parsed at all the collection is untouched and an error is returned.
func (s *State) DecodeCollection(c Collection, raw []byte) ([]QuarantinedRecord, error) {
	var (
		bad []QuarantinedRecord
		err error
	)
	switch c {
	case CollectionDebts:
		var v []Loan
		if v, bad, err = decodeRecords[Loan](c, raw); err == nil {
			s.Loans = v
		}
	case CollectionExpenses:
		var v []Expense
		if v, bad, err = decodeRecords[Expense](c, raw); err == nil {
			s.Expenses = v
		}
	case CollectionAdditionalIncomes:
		var v []AdditionalIncome
		if v, bad, err = decodeRecords[AdditionalIncome](c, raw); err == nil {
			s.AdditionalIncomes = v
		}
	case CollectionInvestments:
		var v []Investment
		if v, bad, err = decodeRecords[Investment](c, raw); err == nil {
			s.Investments = v
		}
	case CollectionDebtPayments:
		var v []Payment
		if v, bad, err = decodeRecords[Payment](c, raw); err == nil {
			s.Payments = v
		}
	case CollectionNotifications:
		var v []Notification
		if v, bad, err = decodeRecords[Notification](c, raw); err == nil {
			s.Notifications = v
		}
	case CollectionNetWorthHistory:
		var v []NetWorthSnapshot
		if v, bad, err = decodeRecords[NetWorthSnapshot](c, raw); err == nil {
			s.NetWorthHistory = v
		}
	case CollectionPendingChanges:
		var v []PendingChange
		if v, bad, err = decodeRecords[PendingChange](c, raw); err == nil {
			s.PendingChanges = v
		}
	case CollectionSalary:
		var salary decimal.Decimal
		if err = json.Unmarshal(raw, &salary); err != nil {
			return nil, fmt.Errorf("salary is not a number: %w", err)
		}
		if salary.IsNegative() {
			return nil, ErrSalaryNegative
		}
		s.Salary = salary
	default:
		return nil, fmt.Errorf("%w: unknown collection %q", ErrInvalidInput, c)
	}
	return bad, err
}

// EncodeCollection serializes collection c of s.
func (s *State) EncodeCollection(c Collection) ([]byte, error) {
	var v any
	switch c {
	case CollectionDebts:
		v = nonNil(s.Loans)
	case CollectionExpenses:
		v = nonNil(s.Expenses)
	case CollectionSalary:
		v = s.Salary
	case CollectionAdditionalIncomes:
		v = nonNil(s.AdditionalIncomes)
	case CollectionInvestments:
		v = nonNil(s.Investments)
	case CollectionDebtPayments:
		v = nonNil([]Payment(s.Payments))
	case CollectionNotifications:
		v = nonNil(s.Notifications)
	case CollectionNetWorthHistory:
		v = nonNil(s.NetWorthHistory)
	case CollectionPendingChanges:
		v = nonNil(s.PendingChanges)
	default:
		return nil, fmt.Errorf("%w: unknown collection %q", ErrInvalidInput, c)
	}
	return json.Marshal(v)
}

func nonNil[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}
