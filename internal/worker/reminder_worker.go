// Package worker runs the periodic bill-reminder scan: unpaid bills
// inside their reminder window are published as bill-due events.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/events"
	"fintrack/internal/store"
)

// Publisher is the slice of the events client the worker needs.
type Publisher interface {
	PublishBillDue(ctx context.Context, msg *events.BillDueMessage) error
}

// ReminderWorker periodically scans unpaid bills and publishes reminder
// events for those due within their reminder window.
type ReminderWorker struct {
	bills     store.BillStore
	publisher Publisher
	interval  time.Duration
}

func NewReminderWorker(bills store.BillStore, publisher Publisher, interval time.Duration) *ReminderWorker {
	return &ReminderWorker{
		bills:     bills,
		publisher: publisher,
		interval:  interval,
	}
}

// DaysUntilDue computes how many days remain before a bill anchored to
// dueDay falls due, given today's day of month. When the due day has
// already passed this month the month length is approximated as 30 days;
// that is a known approximation, not calendar-accurate for 28/29/31-day
// months.
func DaysUntilDue(dueDay, today int) int {
	days := dueDay - today
	if days < 0 {
		days += 30
	}
	return days
}

// Run scans immediately and then on every interval tick until ctx ends.
func (w *ReminderWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	if err := w.Scan(ctx, time.Now()); err != nil {
		slog.ErrorContext(ctx, "Reminder scan failed", "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.Scan(ctx, time.Now()); err != nil {
				slog.ErrorContext(ctx, "Reminder scan failed", "error", err)
			}
		}
	}
}

// Scan publishes one bill-due event per unpaid bill whose due day is
// within its reminder window at now. A publish failure stops the scan;
// the next tick retries from scratch, so duplicate reminders are possible
// and consumers must tolerate them.
func (w *ReminderWorker) Scan(ctx context.Context, now time.Time) error {
	bills, err := w.bills.ListUnpaidBills(ctx)
	if err != nil {
		return fmt.Errorf("list unpaid bills: %w", err)
	}

	published := 0
	for _, b := range bills {
		days := DaysUntilDue(b.DueDay, now.Day())
		if days > reminderWindow(b) {
			continue
		}
		if w.publisher == nil {
			slog.DebugContext(ctx, "No publisher configured, skipping bill-due event",
				"bill_id", b.ID)
			continue
		}
		msg := events.NewBillDueMessage(b.ID, b.UserID, b.Title, b.Amount.Cents, b.DueDay, days)
		if err := w.publisher.PublishBillDue(ctx, msg); err != nil {
			return fmt.Errorf("publish bill due (bill=%d): %w", b.ID, err)
		}
		published++
	}

	slog.InfoContext(ctx, "Reminder scan completed",
		"unpaid_bills", len(bills),
		"events_published", published)
	return nil
}

func reminderWindow(b core.BillReminder) int {
	if b.ReminderDays > 0 {
		return b.ReminderDays
	}
	return core.DefaultReminderDays
}
