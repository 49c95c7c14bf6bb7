package amqp

import (
	"encoding/json"
	"time"

	"revboard/internal/core"
)

// ExportJobMessage asks the export worker to generate a CSV for one filter
// evaluation. The filter is carried in full so the worker replays it against
// storage instead of trusting a snapshot from the API process.
type ExportJobMessage struct {
	ID          string     `json:"id"`
	DateRange   string     `json:"date_range,omitempty"`
	DateFrom    *time.Time `json:"date_from,omitempty"`
	DateTo      *time.Time `json:"date_to,omitempty"`
	Types       []string   `json:"types,omitempty"`
	Statuses    []string   `json:"statuses,omitempty"`
	MinAmount   *float64   `json:"min_amount,omitempty"`
	MaxAmount   *float64   `json:"max_amount,omitempty"`
	RequestedAt time.Time  `json:"requested_at"`
}

// NewExportJobMessage builds a job message for the given filter state.
func NewExportJobMessage(id string, f core.FilterState) *ExportJobMessage {
	return &ExportJobMessage{
		ID:          id,
		DateRange:   f.DateRange,
		DateFrom:    f.DateFrom,
		DateTo:      f.DateTo,
		Types:       f.Types,
		Statuses:    f.Statuses,
		MinAmount:   f.MinAmount,
		MaxAmount:   f.MaxAmount,
		RequestedAt: time.Now(),
	}
}

// FilterState reconstructs the filter the job was enqueued with.
func (m *ExportJobMessage) FilterState() core.FilterState {
	return core.FilterState{
		DateRange: m.DateRange,
		DateFrom:  m.DateFrom,
		DateTo:    m.DateTo,
		Types:     m.Types,
		Statuses:  m.Statuses,
		MinAmount: m.MinAmount,
		MaxAmount: m.MaxAmount,
	}
}

// ToJSON converts the message to JSON bytes.
func (m *ExportJobMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExportJobMessageFromJSON creates a message from JSON bytes.
func ExportJobMessageFromJSON(data []byte) (*ExportJobMessage, error) {
	var msg ExportJobMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
