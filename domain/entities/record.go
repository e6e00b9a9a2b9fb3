package entities

import (
	"errors"
	"sync"
	"time"
)

// CapturedRecord is a customer inquiry assembled from a completed tool
// invocation's arguments plus a capture timestamp. Never mutated after
// creation.
type CapturedRecord struct {
	ID          string    `json:"id" bson:"id"`
	Name        string    `json:"name" bson:"name"`
	Contact     string    `json:"contact" bson:"contact"`
	ServiceType string    `json:"service_type" bson:"service_type"`
	Budget      string    `json:"budget" bson:"budget"`
	Notes       string    `json:"notes" bson:"notes"`
	CapturedAt  time.Time `json:"captured_at" bson:"captured_at"`
}

// Validate validates the record data
func (r *CapturedRecord) Validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	if r.Contact == "" {
		return errors.New("contact is required")
	}
	if r.ServiceType == "" {
		return errors.New("service_type is required")
	}
	if r.Budget == "" {
		return errors.New("budget is required")
	}
	if r.Notes == "" {
		return errors.New("notes is required")
	}
	return nil
}

// RecordLog is the append-only collection of captured records
type RecordLog struct {
	mu      sync.Mutex
	records []CapturedRecord
}

// NewRecordLog creates an empty record log
func NewRecordLog() *RecordLog {
	return &RecordLog{}
}

// Append adds a record to the log
func (l *RecordLog) Append(record CapturedRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, record)
}

// Records returns a snapshot of all captured records in capture order
func (l *RecordLog) Records() []CapturedRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]CapturedRecord, len(l.records))
	copy(out, l.records)
	return out
}

// Len returns the number of captured records
func (l *RecordLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}
