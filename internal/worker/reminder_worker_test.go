package worker

import (
	"context"
	"testing"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/events"
	"fintrack/internal/store/memory"
)

func TestDaysUntilDue(t *testing.T) {
	tests := []struct {
		name   string
		dueDay int
		today  int
		want   int
	}{
		{"due today", 15, 15, 0},
		{"due later this month", 20, 15, 5},
		{"due tomorrow", 16, 15, 1},
		{"wrapped to next month", 5, 28, 7},
		{"wrapped from month end", 1, 30, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysUntilDue(tt.dueDay, tt.today); got != tt.want {
				t.Errorf("DaysUntilDue(%d, %d) = %d, want %d", tt.dueDay, tt.today, got, tt.want)
			}
		})
	}
}

type capturePublisher struct {
	published []*events.BillDueMessage
	fail      error
}

func (p *capturePublisher) PublishBillDue(_ context.Context, msg *events.BillDueMessage) error {
	if p.fail != nil {
		return p.fail
	}
	p.published = append(p.published, msg)
	return nil
}

func TestScanPublishesOnlyBillsInWindow(t *testing.T) {
	st := memory.New()
	ctx := context.Background()
	now := time.Date(2025, time.June, 13, 9, 0, 0, 0, time.UTC) // day 13

	inWindow := core.BillReminder{UserID: 1, Title: "Internet", Amount: core.Money{Cents: 4500}, Category: core.BillInternet, DueDay: 15, ReminderDays: 3}
	outOfWindow := core.BillReminder{UserID: 1, Title: "Rent", Amount: core.Money{Cents: 100000}, Category: core.BillRent, DueDay: 25, ReminderDays: 3}
	alreadyPaid := core.BillReminder{UserID: 1, Title: "Phone", Amount: core.Money{Cents: 2000}, Category: core.BillPhone, DueDay: 14, ReminderDays: 3, IsPaid: true}
	for _, b := range []*core.BillReminder{&inWindow, &outOfWindow, &alreadyPaid} {
		if err := st.CreateBill(ctx, b); err != nil {
			t.Fatalf("CreateBill: %v", err)
		}
	}

	pub := &capturePublisher{}
	w := NewReminderWorker(st, pub, time.Hour)
	if err := w.Scan(ctx, now); err != nil {
		t.Fatalf("Scan: %v", err)
	}

	if len(pub.published) != 1 {
		t.Fatalf("published %d events, want 1: %+v", len(pub.published), pub.published)
	}
	msg := pub.published[0]
	if msg.BillID != inWindow.ID || msg.Title != "Internet" || msg.DaysUntilDue != 2 {
		t.Errorf("unexpected message: %+v", msg)
	}
}

func TestScanUsesDefaultReminderWindow(t *testing.T) {
	st := memory.New()
	ctx := context.Background()
	now := time.Date(2025, time.June, 13, 9, 0, 0, 0, time.UTC)

	// ReminderDays unset falls back to the 3-day default; due in 3 days.
	b := core.BillReminder{UserID: 1, Title: "Water", Amount: core.Money{Cents: 3000}, Category: core.BillWater, DueDay: 16}
	if err := st.CreateBill(ctx, &b); err != nil {
		t.Fatalf("CreateBill: %v", err)
	}

	pub := &capturePublisher{}
	w := NewReminderWorker(st, pub, time.Hour)
	if err := w.Scan(ctx, now); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(pub.published) != 1 {
		t.Fatalf("published %d events, want 1", len(pub.published))
	}
}

func TestScanWithoutPublisher(t *testing.T) {
	st := memory.New()
	ctx := context.Background()

	b := core.BillReminder{UserID: 1, Title: "Rent", Amount: core.Money{Cents: 100000}, Category: core.BillRent, DueDay: time.Now().Day()}
	if err := st.CreateBill(ctx, &b); err != nil {
		t.Fatalf("CreateBill: %v", err)
	}

	w := NewReminderWorker(st, nil, time.Hour)
	if err := w.Scan(ctx, time.Now()); err != nil {
		t.Errorf("Scan without publisher should not fail: %v", err)
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	w := NewReminderWorker(memory.New(), nil, 10*time.Millisecond)

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
