package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/dafibh/fintrack/fintrack-backend/internal/repository/workspace"
	"github.com/dafibh/fintrack/fintrack-backend/internal/service"
	"github.com/dafibh/fintrack/fintrack-backend/internal/testutil"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// testToday is the date every handler test runs on.
const testToday = "2024-06-10"

type testEnv struct {
	e         *echo.Echo
	blobs     *testutil.MockBlobStore
	backups   *testutil.MockBackupRepository
	publisher *testutil.MockEventPublisher
	store     *workspace.Store

	loans         *service.LoanService
	finance       *service.FinanceService
	dashboard     *service.DashboardService
	notifications *service.NotificationService
	transfer      *service.TransferService
	sync          *service.SyncService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	now := domain.MustParseDate(testToday).Time().Add(9 * time.Hour)
	clock := testutil.FixedClock(now)

	env := &testEnv{
		e:         echo.New(),
		blobs:     testutil.NewMockBlobStore(),
		backups:   testutil.NewMockBackupRepository(),
		publisher: testutil.NewMockEventPublisher(),
	}
	env.store = workspace.NewStore(env.blobs, workspace.WithClock(clock))
	if err := env.store.Load(context.Background()); err != nil {
		t.Fatalf("Failed to load store: %v", err)
	}

	env.loans = service.NewLoanService(env.store, domain.DefaultLoanLimits(), env.publisher, nil)
	env.loans.SetClock(clock)
	env.finance = service.NewFinanceService(env.store)
	env.finance.SetClock(clock)
	env.dashboard = service.NewDashboardService(env.store)
	env.dashboard.SetClock(clock)
	env.notifications = service.NewNotificationService(env.store, "INR", env.publisher, nil)
	env.notifications.SetClock(clock)
	env.transfer = service.NewTransferService(env.store, env.backups, env.publisher)
	env.transfer.SetClock(clock)
	env.sync = service.NewSyncService(env.store, env.backups, env.publisher)
	env.sync.SetClock(clock)
	return env
}

// context builds an echo context for a request with an optional JSON body.
func (env *testEnv) context(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	return env.e.NewContext(req, rec), rec
}

// createCarLoan stores a 120000 / 10% / 12 month loan started 2024-01-15.
func (env *testEnv) createCarLoan(t *testing.T) domain.Loan {
	t.Helper()
	start := domain.MustParseDate("2024-01-15")
	res, err := env.loans.CreateLoan(context.Background(), service.CreateLoanInput{
		Name:         "Car",
		Principal:    mustDecimal(t, "120000"),
		InterestRate: mustDecimal(t, "10"),
		Months:       12,
		StartDate:    start,
	})
	if err != nil {
		t.Fatalf("Failed to create loan: %v", err)
	}
	return res.Loan
}

func mustDecimal(t *testing.T, v string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(v)
	if err != nil {
		t.Fatalf("Bad decimal %q: %v", v, err)
	}
	return d
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("Expected status %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}
