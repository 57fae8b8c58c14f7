package amqp

import (
	"encoding/json"
	"time"
)

// Message types carried in the "type" header of every publishing
const (
	TypeLedgerSync    = "ledger.sync"
	TypeReportSummary = "report.summary"
)

// LedgerSyncMessage describes the result of one cache sync attempt
type LedgerSyncMessage struct {
	Outcome    string    `json:"outcome"`
	RemoteSize int64     `json:"remote_size"`
	LocalSize  int64     `json:"local_size"`
	Reason     string    `json:"reason,omitempty"`
	DurationMs int64     `json:"duration_ms"`
	Timestamp  time.Time `json:"timestamp"`
}

// ReportSummaryMessage carries the per-category totals of a finished run
type ReportSummaryMessage struct {
	TotalEvents    int            `json:"total_events"`
	CategoryCounts map[string]int `json:"category_counts"`
	Timestamp      time.Time      `json:"timestamp"`
}

// ToJSON converts the message to JSON bytes
func (m *LedgerSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ToJSON converts the message to JSON bytes
func (m *ReportSummaryMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerSyncMessageFromJSON decodes a sync message
func LedgerSyncMessageFromJSON(data []byte) (*LedgerSyncMessage, error) {
	var msg LedgerSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// ReportSummaryMessageFromJSON decodes a summary message
func ReportSummaryMessageFromJSON(data []byte) (*ReportSummaryMessage, error) {
	var msg ReportSummaryMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
