package usecase

import (
	"testing"

	"go.uber.org/zap"

	"github.com/danisworo/wicara/domain/entities"
)

func completeArgs() map[string]any {
	return map[string]any{
		"name":         "Sari Dewi",
		"contact":      "sari@example.com",
		"service_type": "wedding photography",
		"budget":       "15000000",
		"notes":        "prefers outdoor venue",
	}
}

func TestHandleCapturesRecord(t *testing.T) {
	records := entities.NewRecordLog()
	svc := NewIntakeService(records, zap.NewNop())

	result, err := svc.Handle(completeArgs())
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if result["result"] != "Inquiry captured" {
		t.Errorf("result = %v", result["result"])
	}

	if records.Len() != 1 {
		t.Fatalf("record count = %d, want 1", records.Len())
	}
	rec := records.Records()[0]
	if rec.ID == "" {
		t.Error("record missing generated ID")
	}
	if rec.Name != "Sari Dewi" || rec.Budget != "15000000" {
		t.Errorf("record = %#v", rec)
	}
	if rec.CapturedAt.IsZero() {
		t.Error("record missing capture time")
	}
}

func TestHandleRejectsIncompleteArgs(t *testing.T) {
	for _, missing := range []string{"name", "contact", "service_type", "budget", "notes"} {
		t.Run(missing, func(t *testing.T) {
			records := entities.NewRecordLog()
			svc := NewIntakeService(records, zap.NewNop())

			args := completeArgs()
			delete(args, missing)

			if _, err := svc.Handle(args); err == nil {
				t.Errorf("expected error with %q missing", missing)
			}
			if records.Len() != 0 {
				t.Error("incomplete record should not be stored")
			}
		})
	}
}

func TestHandleAcceptsNumericBudget(t *testing.T) {
	records := entities.NewRecordLog()
	svc := NewIntakeService(records, zap.NewNop())

	args := completeArgs()
	args["budget"] = float64(15000000)

	if _, err := svc.Handle(args); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if got := records.Records()[0].Budget; got != "15000000" {
		t.Errorf("budget = %q, want \"15000000\"", got)
	}
}

func TestDeclarationRequiresAllFields(t *testing.T) {
	svc := NewIntakeService(entities.NewRecordLog(), zap.NewNop())
	decl := svc.Declaration()

	if decl.Name != IntakeToolName {
		t.Errorf("name = %q", decl.Name)
	}
	if len(decl.Parameters.Required) != 5 {
		t.Errorf("required fields = %v", decl.Parameters.Required)
	}
	for _, field := range decl.Parameters.Required {
		if _, ok := decl.Parameters.Properties[field]; !ok {
			t.Errorf("required field %q has no schema", field)
		}
	}
}
