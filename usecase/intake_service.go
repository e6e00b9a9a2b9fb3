package usecase

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/danisworo/wicara/domain/entities"
	"github.com/danisworo/wicara/internal/metrics"
)

// IntakeToolName is the function the agent calls once it has collected a
// complete customer inquiry during conversation.
const IntakeToolName = "capture_inquiry"

// IntakeService turns the agent's capture_inquiry calls into validated
// records in the session's record log.
type IntakeService struct {
	records *entities.RecordLog
	logger  *zap.Logger
}

func NewIntakeService(records *entities.RecordLog, logger *zap.Logger) *IntakeService {
	return &IntakeService{records: records, logger: logger}
}

// Declaration describes the intake function to the agent.
func (s *IntakeService) Declaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:        IntakeToolName,
		Description: "Record a customer inquiry once the caller has provided all required details.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"name": {
					Type:        genai.TypeString,
					Description: "Caller's full name",
				},
				"contact": {
					Type:        genai.TypeString,
					Description: "Phone number or email address",
				},
				"service_type": {
					Type:        genai.TypeString,
					Description: "The service the caller is asking about",
				},
				"budget": {
					Type:        genai.TypeString,
					Description: "Caller's budget, numeric amount as a string",
				},
				"notes": {
					Type:        genai.TypeString,
					Description: "Any additional context from the conversation",
				},
			},
			Required: []string{"name", "contact", "service_type", "budget", "notes"},
		},
	}
}

// Handle is the ToolHandler for capture_inquiry. Incomplete records are
// rejected so the agent asks the caller for the missing details.
func (s *IntakeService) Handle(args map[string]any) (map[string]any, error) {
	record := entities.CapturedRecord{
		ID:          uuid.NewString(),
		Name:        stringArg(args, "name"),
		Contact:     stringArg(args, "contact"),
		ServiceType: stringArg(args, "service_type"),
		Budget:      stringArg(args, "budget"),
		Notes:       stringArg(args, "notes"),
		CapturedAt:  time.Now(),
	}

	if err := record.Validate(); err != nil {
		return nil, err
	}

	s.records.Append(record)
	metrics.RecordsCaptured.Inc()
	s.logger.Info("inquiry captured",
		zap.String("record_id", record.ID),
		zap.String("service_type", record.ServiceType))

	return map[string]any{"result": "Inquiry captured"}, nil
}

// stringArg tolerates the agent sending numbers where strings are declared.
func stringArg(args map[string]any, key string) string {
	switch v := args[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}
