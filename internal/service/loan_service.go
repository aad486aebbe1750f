package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/dafibh/fintrack/fintrack-backend/internal/observability"
	"github.com/dafibh/fintrack/fintrack-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// emiTolerance is how far a user-entered EMI may drift from the computed one.
var emiTolerance = decimal.NewFromFloat(0.05)

// LoanService handles loan business logic
type LoanService struct {
	store     domain.Workspace
	limits    domain.LoanLimits
	publisher websocket.EventPublisher
	metrics   *observability.Metrics
	clock     Clock
}

// NewLoanService creates a new LoanService
func NewLoanService(store domain.Workspace, limits domain.LoanLimits, publisher websocket.EventPublisher, metrics *observability.Metrics) *LoanService {
	if publisher == nil {
		publisher = &websocket.NoOpPublisher{}
	}
	return &LoanService{
		store:     store,
		limits:    limits,
		publisher: publisher,
		metrics:   metrics,
		clock:     time.Now,
	}
}

// SetClock overrides the time source.
func (s *LoanService) SetClock(clock Clock) {
	s.clock = clock
}

// CreateLoanInput contains input for creating a loan
type CreateLoanInput struct {
	Name         string
	Principal    decimal.Decimal
	InterestRate decimal.Decimal
	Months       int
	StartDate    domain.Date
	EMI          *decimal.Decimal // Optional, computed from the terms if nil
	ExtraAllowed bool
}

// CreateLoanResult is the stored loan and the historical payments generated for it.
type CreateLoanResult struct {
	Loan               domain.Loan
	HistoricalPayments domain.PaymentLedger
}

// CreateLoan validates the terms, settles the EMI and stores the loan. A
// loan that started in the past is backfilled with one on-time payment per
// elapsed month, never more than the loan's term.
func (s *LoanService) CreateLoan(ctx context.Context, input CreateLoanInput) (*CreateLoanResult, error) {
	today := s.clock.today()
	loan := domain.Loan{
		Name:         strings.TrimSpace(input.Name),
		Principal:    input.Principal,
		InterestRate: input.InterestRate,
		Months:       input.Months,
		StartDate:    input.StartDate,
		ExtraAllowed: input.ExtraAllowed,
	}
	if err := loan.ValidateTerms(s.limits, today); err != nil {
		return nil, err
	}

	emi, err := settleEMI(&loan, input.EMI)
	if err != nil {
		return nil, err
	}
	loan.EMI = emi

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate loan id: %w", err)
	}
	loan.ID = domain.LoanID(id.String())
	createdAt := s.clock.now().UTC()
	loan.CreatedAt = &createdAt

	history := backfill(&loan, today)

	err = s.store.Update(ctx, func(st *domain.State) error {
		st.Loans = append(st.Loans, loan)
		st.Touch(domain.CollectionDebts)
		if len(history) > 0 {
			st.Payments = append(st.Payments, history...)
			st.Touch(domain.CollectionDebtPayments)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for range history {
		s.metrics.RecordPayment("historical")
	}
	log.Info().
		Str("loan_id", string(loan.ID)).
		Str("emi", loan.EMI.StringFixed(2)).
		Int("historical_payments", len(history)).
		Msg("Loan created")
	s.publisher.Publish(websocket.LoanCreated(loan))

	return &CreateLoanResult{Loan: loan, HistoricalPayments: history}, nil
}

// settleEMI returns the EMI to store: the computed one, or the user's when it
// is within tolerance of the computed one.
func settleEMI(loan *domain.Loan, userEMI *decimal.Decimal) (decimal.Decimal, error) {
	computed := ComputeEMI(loan.Principal, loan.InterestRate, loan.Months)
	emi := computed
	if userEMI != nil {
		if !userEMI.IsPositive() {
			return decimal.Zero, domain.ErrLoanEMIInvalid
		}
		if userEMI.Sub(computed).Abs().GreaterThan(computed.Mul(emiTolerance)) {
			return decimal.Zero, domain.ErrLoanEMIMismatch
		}
		emi = *userEMI
	}
	if !emi.IsPositive() {
		return decimal.Zero, domain.ErrLoanEMIInvalid
	}
	if loan.InterestRate.IsPositive() && emi.Mul(decimal.NewFromInt(int64(loan.Months))).LessThan(loan.Principal) {
		return decimal.Zero, domain.ErrLoanEMITooLow
	}
	return emi, nil
}

func backfill(loan *domain.Loan, today domain.Date) domain.PaymentLedger {
	if !loan.StartDate.Before(today) {
		return nil
	}
	n := MonthsDifference(loan.StartDate, today)
	if n > loan.Months {
		n = loan.Months
	}
	history := make(domain.PaymentLedger, 0, n)
	for i := 0; i < n; i++ {
		history = append(history, domain.Payment{
			LoanID:       loan.ID,
			Date:         loan.StartDate.AddMonths(i),
			Amount:       loan.EMI,
			IsHistorical: true,
		})
	}
	return history
}

// PreviewEMI computes the EMI for the given terms without storing anything.
func (s *LoanService) PreviewEMI(principal, interestRate decimal.Decimal, months int) (decimal.Decimal, error) {
	if !principal.IsPositive() {
		return decimal.Zero, domain.ErrLoanPrincipalInvalid
	}
	if s.limits.MaxAmount.IsPositive() && principal.GreaterThan(s.limits.MaxAmount) {
		return decimal.Zero, domain.ErrLoanPrincipalTooHigh
	}
	if interestRate.IsNegative() {
		return decimal.Zero, domain.ErrLoanRateInvalid
	}
	if months <= 0 {
		return decimal.Zero, domain.ErrLoanMonthsInvalid
	}
	if s.limits.MaxMonths > 0 && months > s.limits.MaxMonths {
		return decimal.Zero, domain.ErrLoanMonthsTooLarge
	}
	return ComputeEMI(principal, interestRate, months), nil
}

// GetLoans returns every loan in creation order.
func (s *LoanService) GetLoans(ctx context.Context) ([]domain.Loan, error) {
	var loans []domain.Loan
	err := s.store.View(ctx, func(st *domain.State) error {
		loans = append([]domain.Loan{}, st.Loans...)
		return nil
	})
	return loans, err
}

// GetLoan returns a loan by id.
func (s *LoanService) GetLoan(ctx context.Context, id domain.LoanID) (*domain.Loan, error) {
	var loan domain.Loan
	err := s.store.View(ctx, func(st *domain.State) error {
		found, err := st.FindLoan(id)
		if err != nil {
			return err
		}
		loan = *found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// DeleteLoan removes a loan together with its payment history.
func (s *LoanService) DeleteLoan(ctx context.Context, id domain.LoanID) error {
	err := s.store.Update(ctx, func(st *domain.State) error {
		return st.DeleteLoan(id)
	})
	if err != nil {
		return err
	}
	log.Info().Str("loan_id", string(id)).Msg("Loan deleted")
	s.publisher.Publish(websocket.LoanDeleted(map[string]any{"id": id}))
	return nil
}

// RecordPaymentInput contains input for recording a payment
type RecordPaymentInput struct {
	LoanID  domain.LoanID
	Amount  decimal.Decimal
	Date    domain.Date // Defaults to today
	Confirm bool        // Accept a second payment in the same month
}

// RecordPaymentResult is the appended payment and the policy outcome.
type RecordPaymentResult struct {
	Payment  domain.Payment        `json:"payment"`
	Decision domain.PolicyDecision `json:"decision"`
}

// RecordPayment runs the payment through the loan's EMI policy and appends
// it. A payment that needs confirmation is refused with a
// ConfirmationRequired violation unless input.Confirm is set.
func (s *LoanService) RecordPayment(ctx context.Context, input RecordPaymentInput) (*RecordPaymentResult, error) {
	if input.LoanID == "" {
		return nil, domain.ErrPaymentLoanIDRequired
	}
	if !input.Amount.IsPositive() {
		return nil, domain.ErrPaymentAmountInvalid
	}
	today := s.clock.today()
	if input.Date.IsZero() {
		input.Date = today
	}
	if input.Date.After(today) {
		return nil, domain.ErrPaymentDateInFuture
	}

	var result RecordPaymentResult
	err := s.store.Update(ctx, func(st *domain.State) error {
		loan, err := st.FindLoan(input.LoanID)
		if err != nil {
			return err
		}
		decision, err := ValidatePayment(loan, input.Amount, input.Date, st.Payments)
		if err != nil {
			return err
		}
		if decision.RequiresConfirmation && !input.Confirm {
			return &domain.PolicyViolation{
				Code:    domain.ViolationConfirmationRequired,
				LoanID:  loan.ID,
				Message: fmt.Sprintf("a payment for %s has already been made in %s", loan.Name, input.Date.MonthKey()),
			}
		}

		payment := domain.Payment{
			LoanID:  loan.ID,
			Date:    input.Date,
			Amount:  input.Amount,
			IsExtra: decision.IsExtra,
		}
		st.Payments = append(st.Payments, payment)
		st.Touch(domain.CollectionDebtPayments)
		result = RecordPaymentResult{Payment: payment, Decision: decision}
		return nil
	})
	if err != nil {
		var violation *domain.PolicyViolation
		if errors.As(err, &violation) {
			s.metrics.RecordPolicyRejection(string(violation.Code))
		}
		return nil, err
	}

	kind := "regular"
	if result.Payment.IsExtra {
		kind = "extra"
	}
	s.metrics.RecordPayment(kind)
	s.publisher.Publish(websocket.PaymentCreated(result.Payment))
	return &result, nil
}

// GetPayments returns the loan's payments ordered by date.
func (s *LoanService) GetPayments(ctx context.Context, id domain.LoanID) (domain.PaymentLedger, error) {
	var payments domain.PaymentLedger
	err := s.store.View(ctx, func(st *domain.State) error {
		if _, err := st.FindLoan(id); err != nil {
			return err
		}
		payments = st.Payments.ForLoan(id).Sorted()
		return nil
	})
	return payments, err
}

// PaymentHistoryEntry is one line of the cross-loan payment history.
type PaymentHistoryEntry struct {
	Payment  domain.Payment `json:"payment"`
	LoanName string         `json:"loanName"`
	Label    string         `json:"label"`
}

// GetPaymentHistory lists every payment of an existing loan in ledger order.
func (s *LoanService) GetPaymentHistory(ctx context.Context) ([]PaymentHistoryEntry, error) {
	history := make([]PaymentHistoryEntry, 0)
	err := s.store.View(ctx, func(st *domain.State) error {
		names := make(map[domain.LoanID]string, len(st.Loans))
		for _, l := range st.Loans {
			names[l.ID] = l.Name
		}
		for _, p := range st.Payments {
			name, ok := names[p.LoanID]
			if !ok {
				continue
			}
			history = append(history, PaymentHistoryEntry{Payment: p, LoanName: name, Label: p.FormatPaymentLabel(name)})
		}
		return nil
	})
	return history, err
}

// GetBreakdown replays the loan's payments.
func (s *LoanService) GetBreakdown(ctx context.Context, id domain.LoanID) (*domain.Breakdown, error) {
	var breakdown domain.Breakdown
	err := s.store.View(ctx, func(st *domain.State) error {
		loan, err := st.FindLoan(id)
		if err != nil {
			return err
		}
		breakdown = s.breakdown(loan, st.Payments)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &breakdown, nil
}

func (s *LoanService) breakdown(loan *domain.Loan, payments domain.PaymentLedger) domain.Breakdown {
	start := time.Now()
	b := ComputeBreakdown(loan, payments)
	s.metrics.ObserveBreakdown(time.Since(start).Seconds())
	return b
}

// GetSummary returns the loan with every derived figure shown next to it.
func (s *LoanService) GetSummary(ctx context.Context, id domain.LoanID) (*domain.LoanSummary, error) {
	var summary domain.LoanSummary
	today := s.clock.today()
	err := s.store.View(ctx, func(st *domain.State) error {
		loan, err := st.FindLoan(id)
		if err != nil {
			return err
		}
		summary = s.summarize(loan, st.Payments, today)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// GetSummaries returns a summary per loan in creation order.
func (s *LoanService) GetSummaries(ctx context.Context) ([]domain.LoanSummary, error) {
	today := s.clock.today()
	summaries := make([]domain.LoanSummary, 0)
	err := s.store.View(ctx, func(st *domain.State) error {
		for i := range st.Loans {
			summaries = append(summaries, s.summarize(&st.Loans[i], st.Payments, today))
		}
		return nil
	})
	return summaries, err
}

func (s *LoanService) summarize(loan *domain.Loan, payments domain.PaymentLedger, today domain.Date) domain.LoanSummary {
	b := s.breakdown(loan, payments)
	return domain.LoanSummary{
		Loan:                 *loan,
		Breakdown:            b,
		RemainingDebt:        RemainingDebt(loan, payments),
		OutstandingPrincipal: OutstandingPrincipal(loan, b),
		MissedPayment:        HasMissedPayment(loan, payments, today),
		PaidThisMonth:        HasPaymentForMonth(loan, payments, today.MonthKey()),
		PaymentCount:         len(payments.ForLoan(loan.ID)),
	}
}

// GetSchedule projects every installment of the loan.
func (s *LoanService) GetSchedule(ctx context.Context, id domain.LoanID) ([]domain.ScheduleEntry, error) {
	return s.project(ctx, id, ProjectSchedule)
}

// GetUpcoming returns the unpaid installments due in the next three months.
func (s *LoanService) GetUpcoming(ctx context.Context, id domain.LoanID) ([]domain.ScheduleEntry, error) {
	return s.project(ctx, id, GetUpcomingEMIs)
}

func (s *LoanService) project(ctx context.Context, id domain.LoanID, fn func(*domain.Loan, domain.PaymentLedger, domain.Date) []domain.ScheduleEntry) ([]domain.ScheduleEntry, error) {
	var entries []domain.ScheduleEntry
	today := s.clock.today()
	err := s.store.View(ctx, func(st *domain.State) error {
		loan, err := st.FindLoan(id)
		if err != nil {
			return err
		}
		entries = fn(loan, st.Payments, today)
		return nil
	})
	return entries, err
}
