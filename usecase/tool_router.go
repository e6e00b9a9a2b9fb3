package usecase

import (
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// ToolHandler executes one function call from the agent and returns the
// payload sent back as its result.
type ToolHandler func(args map[string]any) (map[string]any, error)

// ToolRouter dispatches agent function calls to registered handlers. The
// agent keeps the conversation suspended until every call in a batch has a
// response, so Dispatch always produces one response per call, in order.
type ToolRouter struct {
	handlers map[string]ToolHandler
	logger   *zap.Logger
}

func NewToolRouter(logger *zap.Logger) *ToolRouter {
	return &ToolRouter{
		handlers: make(map[string]ToolHandler),
		logger:   logger,
	}
}

// Register binds a handler to a function name, replacing any previous one.
func (r *ToolRouter) Register(name string, handler ToolHandler) {
	r.handlers[name] = handler
}

// Dispatch runs each call through its handler. Unknown functions and handler
// errors become error-text responses so the agent can recover verbally
// instead of stalling the turn.
func (r *ToolRouter) Dispatch(calls []*genai.FunctionCall) []*genai.FunctionResponse {
	responses := make([]*genai.FunctionResponse, 0, len(calls))
	for _, call := range calls {
		responses = append(responses, &genai.FunctionResponse{
			ID:       call.ID,
			Name:     call.Name,
			Response: r.run(call),
		})
	}
	return responses
}

func (r *ToolRouter) run(call *genai.FunctionCall) map[string]any {
	handler, ok := r.handlers[call.Name]
	if !ok {
		r.logger.Warn("agent requested unknown function", zap.String("name", call.Name))
		return map[string]any{"result": "Unknown function"}
	}

	result, err := handler(call.Args)
	if err != nil {
		r.logger.Error("tool handler failed",
			zap.String("name", call.Name),
			zap.Error(err))
		return map[string]any{"result": fmt.Sprintf("Error: %v", err)}
	}
	return result
}
