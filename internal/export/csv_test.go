package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/danisworo/wicara/domain/entities"
)

func TestWriteRecords(t *testing.T) {
	captured := time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)
	records := []entities.CapturedRecord{
		{
			ID:          "r1",
			Name:        "Sari Dewi",
			Contact:     "sari@example.com",
			ServiceType: "catering",
			Budget:      "5000000",
			Notes:       "includes a comma, and \"quotes\"",
			CapturedAt:  captured,
		},
	}

	var buf bytes.Buffer
	if err := WriteRecords(&buf, records); err != nil {
		t.Fatalf("write: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want header + 1", len(rows))
	}
	if rows[0][0] != "id" || rows[0][6] != "captured_at" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][5] != "includes a comma, and \"quotes\"" {
		t.Errorf("notes round-trip = %q", rows[1][5])
	}
	if rows[1][6] != "2025-06-01T10:30:00Z" {
		t.Errorf("timestamp = %q", rows[1][6])
	}
}

func TestWriteTranscript(t *testing.T) {
	ts := time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)
	messages := []entities.ChatMessage{
		{Role: entities.RoleUser, Text: "halo", Timestamp: ts},
		{Role: entities.RoleModel, Text: "halo, ada yang bisa dibantu?", Timestamp: ts},
	}

	var buf bytes.Buffer
	if err := WriteTranscript(&buf, messages); err != nil {
		t.Fatalf("write: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(rows))
	}
	if rows[1][1] != "user" || rows[2][1] != "model" {
		t.Errorf("roles = %q, %q", rows[1][1], rows[2][1])
	}
}

func TestWriteEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRecords(&buf, nil); err != nil {
		t.Fatalf("write: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Errorf("empty export should still have a header, got %d rows", len(rows))
	}
}
