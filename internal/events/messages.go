package events

import (
	"encoding/json"
	"time"
)

// BillDueMessage announces that an unpaid bill is inside its reminder
// window. Consumers (notification delivery, which lives outside this
// service) fetch whatever extra detail they need by bill id.
type BillDueMessage struct {
	BillID       int64     `json:"bill_id"`
	UserID       int64     `json:"user_id"`
	Title        string    `json:"title"`
	AmountCents  int64     `json:"amount_cents"`
	DueDay       int       `json:"due_day"`
	DaysUntilDue int       `json:"days_until_due"`
	Timestamp    time.Time `json:"timestamp"`
}

// NewBillDueMessage creates a bill-due message stamped with the current time.
func NewBillDueMessage(billID, userID int64, title string, amountCents int64, dueDay, daysUntilDue int) *BillDueMessage {
	return &BillDueMessage{
		BillID:       billID,
		UserID:       userID,
		Title:        title,
		AmountCents:  amountCents,
		DueDay:       dueDay,
		DaysUntilDue: daysUntilDue,
		Timestamp:    time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *BillDueMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// BillDueMessageFromJSON creates a message from JSON bytes
func BillDueMessageFromJSON(data []byte) (*BillDueMessage, error) {
	var msg BillDueMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
