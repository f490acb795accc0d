package amqp

import (
	"encoding/json"
	"time"
)

// ReportSavedMessage tells the sync worker a monthly report row was
// persisted. It carries only the history id; the worker fetches the full
// report from the database.
type ReportSavedMessage struct {
	HistoryID string    `json:"history_id"`
	Month     int       `json:"month"`
	Year      int       `json:"year"`
	Timestamp time.Time `json:"timestamp"`
}

func NewReportSavedMessage(historyID string, month, year int) *ReportSavedMessage {
	return &ReportSavedMessage{
		HistoryID: historyID,
		Month:     month,
		Year:      year,
		Timestamp: time.Now(),
	}
}

func (m *ReportSavedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ReportSavedMessageFromJSON(data []byte) (*ReportSavedMessage, error) {
	var msg ReportSavedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
