// Package export renders session data as CSV for download.
package export

import (
	"encoding/csv"
	"io"
	"time"

	"github.com/danisworo/wicara/domain/entities"
)

// WriteRecords writes captured inquiry records with a header row.
func WriteRecords(w io.Writer, records []entities.CapturedRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "name", "contact", "service_type", "budget", "notes", "captured_at"}); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.ID,
			r.Name,
			r.Contact,
			r.ServiceType,
			r.Budget,
			r.Notes,
			r.CapturedAt.Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTranscript writes committed conversation messages with a header row.
func WriteTranscript(w io.Writer, messages []entities.ChatMessage) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"timestamp", "role", "text"}); err != nil {
		return err
	}
	for _, m := range messages {
		row := []string{
			m.Timestamp.Format(time.RFC3339),
			string(m.Role),
			m.Text,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
