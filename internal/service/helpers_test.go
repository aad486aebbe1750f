package service

import (
	"context"
	"testing"
	"time"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/dafibh/fintrack/fintrack-backend/internal/repository/workspace"
	"github.com/dafibh/fintrack/fintrack-backend/internal/testutil"
	"github.com/stretchr/testify/require"
)

// fakeClock is a settable time source shared by the services under test.
type fakeClock struct {
	t time.Time
}

func newFakeClock(date string) *fakeClock {
	c := &fakeClock{}
	c.set(date)
	return c
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) set(date string) {
	c.t = domain.MustParseDate(date).Time().Add(9 * time.Hour)
}

type fixture struct {
	ctx       context.Context
	clock     *fakeClock
	blobs     *testutil.MockBlobStore
	store     *workspace.Store
	publisher *testutil.MockEventPublisher
	loans     *LoanService
}

func newFixture(t *testing.T, today string) *fixture {
	t.Helper()
	f := &fixture{
		ctx:       context.Background(),
		clock:     newFakeClock(today),
		blobs:     testutil.NewMockBlobStore(),
		publisher: testutil.NewMockEventPublisher(),
	}
	f.store = workspace.NewStore(f.blobs, workspace.WithClock(f.clock.Now))
	require.NoError(t, f.store.Load(f.ctx))

	f.loans = NewLoanService(f.store, domain.DefaultLoanLimits(), f.publisher, nil)
	f.loans.SetClock(f.clock.Now)
	return f
}

func (f *fixture) createLoan(t *testing.T, input CreateLoanInput) domain.Loan {
	t.Helper()
	res, err := f.loans.CreateLoan(f.ctx, input)
	require.NoError(t, err)
	return res.Loan
}

func carLoanInput(start string) CreateLoanInput {
	return CreateLoanInput{
		Name:         "Car",
		Principal:    dec("120000"),
		InterestRate: dec("10"),
		Months:       12,
		StartDate:    domain.MustParseDate(start),
	}
}
