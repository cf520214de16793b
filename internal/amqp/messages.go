package amqp

import (
	"encoding/json"
	"time"

	"gastos/internal/core"
)

// RecordSyncMessage asks the worker to mirror one record to the statement
// export. It carries only identifiers; the worker fetches the record from
// the primary store so the sheet never sees stale payloads.
type RecordSyncMessage struct {
	RecordID  string        `json:"record_id"`
	UserID    string        `json:"user_id,omitempty"`
	Month     core.MonthKey `json:"month_key"`
	Timestamp time.Time     `json:"timestamp"`
}

func NewRecordSyncMessage(userID, recordID string, month core.MonthKey) *RecordSyncMessage {
	return &RecordSyncMessage{
		RecordID:  recordID,
		UserID:    userID,
		Month:     month,
		Timestamp: time.Now(),
	}
}

func (m *RecordSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func RecordSyncMessageFromJSON(data []byte) (*RecordSyncMessage, error) {
	var msg RecordSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
