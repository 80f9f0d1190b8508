package agent

import (
	"context"
	"fmt"
	"log"

	"github.com/axion-health/axion-api/internal/tools"
)

type toolFunc func(ctx context.Context, userID string, args map[string]any) tools.Outcome

// Dispatcher maps tool-call names onto the toolset. It injects the
// authenticated user id into every data-scoped tool and guarantees that no
// tool crash propagates past it.
type Dispatcher struct {
	registry map[string]toolFunc
}

// NewDispatcher builds the dispatch table and validates it against the
// declared tool schemas, so a name mismatch is a startup error rather than
// a runtime "unknown function".
func NewDispatcher(ts *tools.Toolset) (*Dispatcher, error) {
	registry := map[string]toolFunc{
		ToolDetectAnomalies: func(ctx context.Context, userID string, args map[string]any) tools.Outcome {
			return ts.DetectAnomalies(ctx, userID,
				stringArg(args, "metric_name", ""),
				intArg(args, "lookback_days", 30),
				floatArg(args, "contamination", 0.1))
		},
		ToolFindCorrelations: func(ctx context.Context, userID string, args map[string]any) tools.Outcome {
			return ts.FindCorrelations(ctx, userID,
				intArg(args, "lookback_days", 30),
				floatArg(args, "min_correlation", 0.3))
		},
		ToolRunForecasting: func(ctx context.Context, userID string, args map[string]any) tools.Outcome {
			return ts.RunForecasting(ctx, userID,
				stringArg(args, "metric_name", ""),
				intArg(args, "forecast_days", 7),
				intArg(args, "lookback_days", 30))
		},
		ToolSearchPrivateJournal: func(ctx context.Context, userID string, args map[string]any) tools.Outcome {
			return ts.SearchPrivateJournal(ctx, userID,
				stringArg(args, "query", ""),
				intArg(args, "n_results", 5))
		},
		ToolExternalResearch: func(ctx context.Context, userID string, args map[string]any) tools.Outcome {
			// The only tool that runs without user scoping.
			return ts.ExternalResearch(ctx, stringArg(args, "query", ""))
		},
	}

	declared := make(map[string]bool)
	for _, decl := range ToolDeclarations() {
		declared[decl.Name] = true
		if _, ok := registry[decl.Name]; !ok {
			return nil, fmt.Errorf("tool schema %q has no dispatch entry", decl.Name)
		}
	}
	for name := range registry {
		if !declared[name] {
			return nil, fmt.Errorf("dispatch entry %q has no tool schema", name)
		}
	}

	return &Dispatcher{registry: registry}, nil
}

// Execute runs one tool call on behalf of userID. Unknown names and panics
// both come back as structured error results.
func (d *Dispatcher) Execute(ctx context.Context, toolName, userID string, args map[string]any) (outcome tools.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[DISPATCH] panic in %s: %v", toolName, r)
			outcome = tools.Outcome{
				Kind:    tools.KindUpstreamFailure,
				Payload: map[string]any{"error": fmt.Sprintf("%T: %v", r, r)},
			}
		}
	}()

	fn, ok := d.registry[toolName]
	if !ok {
		log.Printf("[DISPATCH] unknown function: %s", toolName)
		return tools.Outcome{
			Kind:    tools.KindUpstreamFailure,
			Payload: map[string]any{"error": fmt.Sprintf("Unknown function: %s", toolName)},
		}
	}

	log.Printf("[DISPATCH] executing %s for user %s with args %v", toolName, userID, args)
	return fn(ctx, userID, args)
}

// Model-supplied arguments arrive as loosely typed JSON; numbers are
// float64 regardless of the declared schema type.

func stringArg(args map[string]any, key, fallback string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return fallback
}

func intArg(args map[string]any, key string, fallback int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	}
	return fallback
}

func floatArg(args map[string]any, key string, fallback float64) float64 {
	switch v := args[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return fallback
}
