package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/dafibh/fintrack/fintrack-backend/internal/observability"
	"github.com/dafibh/fintrack/fintrack-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// NotificationService emits EMI reminders and maintains the notification log
type NotificationService struct {
	store     domain.Workspace
	currency  string
	publisher websocket.EventPublisher
	metrics   *observability.Metrics
	clock     Clock
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(store domain.Workspace, currency string, publisher websocket.EventPublisher, metrics *observability.Metrics) *NotificationService {
	if publisher == nil {
		publisher = &websocket.NoOpPublisher{}
	}
	if currency == "" {
		currency = domain.DefaultCurrency
	}
	return &NotificationService{
		store:     store,
		currency:  currency,
		publisher: publisher,
		metrics:   metrics,
		clock:     time.Now,
	}
}

// SetClock overrides the time source.
func (s *NotificationService) SetClock(clock Clock) {
	s.clock = clock
}

// CheckResult lists what a check changed.
type CheckResult struct {
	Created  []domain.Notification `json:"created"`
	Resolved []domain.Notification `json:"resolved"`
}

// CheckForDueEMIs walks every loan and adds an emi_due notice for each unpaid
// installment due within five days and a missed_payment notice for loans
// behind on payments. A due date already announced for the loan is skipped,
// and a loan never has more than one open missed_payment notice. Open
// notices of loans that caught up are resolved. New notices go to the front
// of the log.
func (s *NotificationService) CheckForDueEMIs(ctx context.Context) (*CheckResult, error) {
	today := s.clock.today()
	now := s.clock.now().UTC()
	result := &CheckResult{}

	err := s.store.Update(ctx, func(st *domain.State) error {
		add := func(n domain.Notification) error {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			n.ID = id.String()
			n.Timestamp = now
			st.Notifications = append([]domain.Notification{n}, st.Notifications...)
			result.Created = append(result.Created, n)
			return nil
		}

		for i := range st.Loans {
			loan := &st.Loans[i]
			for _, emi := range DueSoon(loan, st.Payments, today) {
				if announced(st.Notifications, loan.ID, emi.DueDate) {
					continue
				}
				due := emi.DueDate
				priority := domain.PriorityNormal
				if emi.DaysUntilDue <= urgentWithinDays {
					priority = domain.PriorityHigh
				}
				err := add(domain.Notification{
					Type:     domain.NotificationEMIDue,
					Message:  fmt.Sprintf("EMI of %s for %s is due in %d days", domain.FormatMoney(emi.DueAmount, s.currency), loan.Name, emi.DaysUntilDue),
					LoanID:   loan.ID,
					Priority: priority,
					DueDate:  &due,
				})
				if err != nil {
					return err
				}
			}

			missed := HasMissedPayment(loan, st.Payments, today)
			open := openMissedPayment(st.Notifications, loan.ID)
			switch {
			case missed && open < 0:
				resolved := false
				err := add(domain.Notification{
					Type:     domain.NotificationMissedPayment,
					Message:  fmt.Sprintf("Missed payment for %s. Please make the payment as soon as possible.", loan.Name),
					LoanID:   loan.ID,
					Priority: domain.PriorityUrgent,
					Resolved: &resolved,
				})
				if err != nil {
					return err
				}
			case !missed && open >= 0:
				resolved := true
				st.Notifications[open].Resolved = &resolved
				result.Resolved = append(result.Resolved, st.Notifications[open])
			}
		}

		if len(result.Created) > 0 || len(result.Resolved) > 0 {
			st.Touch(domain.CollectionNotifications)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, n := range result.Created {
		s.metrics.RecordNotification(string(n.Type))
		s.publisher.Publish(websocket.NotificationCreated(n))
	}
	for _, n := range result.Resolved {
		s.publisher.Publish(websocket.NotificationResolved(n))
	}
	if len(result.Created) > 0 || len(result.Resolved) > 0 {
		log.Info().
			Int("created", len(result.Created)).
			Int("resolved", len(result.Resolved)).
			Msg("Notification check finished")
	}
	return result, nil
}

func announced(notes []domain.Notification, loanID domain.LoanID, due domain.Date) bool {
	for i := range notes {
		if notes[i].SameDue(loanID, domain.NotificationEMIDue, due) {
			return true
		}
	}
	return false
}

func openMissedPayment(notes []domain.Notification, loanID domain.LoanID) int {
	for i := range notes {
		if notes[i].LoanID == loanID && notes[i].IsOpenMissedPayment() {
			return i
		}
	}
	return -1
}

// NotificationList is the log plus its unread count.
type NotificationList struct {
	Notifications []domain.Notification `json:"notifications"`
	Unread        int                   `json:"unread"`
}

// List returns the log, newest first.
func (s *NotificationService) List(ctx context.Context) (*NotificationList, error) {
	list := &NotificationList{}
	err := s.store.View(ctx, func(st *domain.State) error {
		list.Notifications = append([]domain.Notification{}, st.Notifications...)
		for _, n := range st.Notifications {
			if !n.Read {
				list.Unread++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// MarkAllRead marks every notification read and returns how many changed.
func (s *NotificationService) MarkAllRead(ctx context.Context) (int, error) {
	changed := 0
	err := s.store.Update(ctx, func(st *domain.State) error {
		for i := range st.Notifications {
			if !st.Notifications[i].Read {
				st.Notifications[i].Read = true
				changed++
			}
		}
		if changed > 0 {
			st.Touch(domain.CollectionNotifications)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if changed > 0 {
		s.publisher.Publish(websocket.NotificationsRead(map[string]int{"count": changed}))
	}
	return changed, nil
}

// Clear empties the log.
func (s *NotificationService) Clear(ctx context.Context) error {
	err := s.store.Update(ctx, func(st *domain.State) error {
		st.Notifications = []domain.Notification{}
		st.Touch(domain.CollectionNotifications)
		return nil
	})
	if err != nil {
		return err
	}
	s.publisher.Publish(websocket.NotificationsCleared(nil))
	return nil
}
