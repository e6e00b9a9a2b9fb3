package entities

import (
	"testing"
	"time"
)

func validRecord() CapturedRecord {
	return CapturedRecord{
		ID:          "r1",
		Name:        "Sari Dewi",
		Contact:     "081234567890",
		ServiceType: "event documentation",
		Budget:      "7500000",
		Notes:       "two-day event",
		CapturedAt:  time.Now(),
	}
}

func TestValidateCompleteRecord(t *testing.T) {
	if err := validRecord().Validate(); err != nil {
		t.Errorf("valid record rejected: %v", err)
	}
}

func TestValidateMissingFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CapturedRecord)
	}{
		{"name", func(r *CapturedRecord) { r.Name = "" }},
		{"contact", func(r *CapturedRecord) { r.Contact = "" }},
		{"service_type", func(r *CapturedRecord) { r.ServiceType = "" }},
		{"budget", func(r *CapturedRecord) { r.Budget = "" }},
		{"notes", func(r *CapturedRecord) { r.Notes = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRecord()
			tt.mutate(&r)
			if err := r.Validate(); err == nil {
				t.Errorf("record with empty %s accepted", tt.name)
			}
		})
	}
}

func TestRecordLogAppendOnly(t *testing.T) {
	log := NewRecordLog()
	log.Append(validRecord())

	second := validRecord()
	second.ID = "r2"
	log.Append(second)

	if log.Len() != 2 {
		t.Fatalf("len = %d, want 2", log.Len())
	}
	records := log.Records()
	if records[0].ID != "r1" || records[1].ID != "r2" {
		t.Errorf("order = %q, %q", records[0].ID, records[1].ID)
	}
}

func TestRecordLogSnapshot(t *testing.T) {
	log := NewRecordLog()
	log.Append(validRecord())

	snapshot := log.Records()
	snapshot[0].Name = "mutated"

	if log.Records()[0].Name != "Sari Dewi" {
		t.Error("snapshot mutation leaked into the log")
	}
}
