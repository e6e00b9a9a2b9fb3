package usecase

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

func TestDispatchRoutesToHandler(t *testing.T) {
	r := NewToolRouter(zap.NewNop())
	r.Register("lookup", func(args map[string]any) (map[string]any, error) {
		return map[string]any{"result": "found " + args["key"].(string)}, nil
	})

	responses := r.Dispatch([]*genai.FunctionCall{
		{ID: "c1", Name: "lookup", Args: map[string]any{"key": "abc"}},
	})

	if len(responses) != 1 {
		t.Fatalf("expected 1 response, got %d", len(responses))
	}
	resp := responses[0]
	if resp.ID != "c1" || resp.Name != "lookup" {
		t.Errorf("response identity = %q/%q", resp.ID, resp.Name)
	}
	if resp.Response["result"] != "found abc" {
		t.Errorf("result = %v", resp.Response["result"])
	}
}

func TestDispatchUnknownFunction(t *testing.T) {
	r := NewToolRouter(zap.NewNop())

	responses := r.Dispatch([]*genai.FunctionCall{{ID: "c1", Name: "nope"}})
	if responses[0].Response["result"] != "Unknown function" {
		t.Errorf("result = %v", responses[0].Response["result"])
	}
}

func TestDispatchHandlerError(t *testing.T) {
	r := NewToolRouter(zap.NewNop())
	r.Register("boom", func(map[string]any) (map[string]any, error) {
		return nil, errors.New("database unavailable")
	})

	responses := r.Dispatch([]*genai.FunctionCall{{Name: "boom"}})
	if responses[0].Response["result"] != "Error: database unavailable" {
		t.Errorf("result = %v", responses[0].Response["result"])
	}
}

func TestDispatchPreservesOrder(t *testing.T) {
	r := NewToolRouter(zap.NewNop())
	r.Register("echo", func(args map[string]any) (map[string]any, error) {
		return map[string]any{"result": args["v"]}, nil
	})

	responses := r.Dispatch([]*genai.FunctionCall{
		{ID: "a", Name: "echo", Args: map[string]any{"v": "1"}},
		{ID: "b", Name: "missing"},
		{ID: "c", Name: "echo", Args: map[string]any{"v": "3"}},
	})

	if len(responses) != 3 {
		t.Fatalf("expected 3 responses, got %d", len(responses))
	}
	for i, want := range []string{"a", "b", "c"} {
		if responses[i].ID != want {
			t.Errorf("response %d id = %q, want %q", i, responses[i].ID, want)
		}
	}
}
