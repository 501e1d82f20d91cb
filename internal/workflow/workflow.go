package workflow

import (
	"context"
	"fmt"
	"time"

	gaoconfig "github.com/JaimeStill/go-agents-orchestration/pkg/config"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

// Execute runs the processing pipeline for a single relocated transcript
// file. It builds the state graph, seeds the initial state with the job id
// and source path, executes it, and extracts the Result from the final
// state. The graph topology is fixed at build time from the runtime's
// enabled stages.
func Execute(ctx context.Context, rt *Runtime, jobID, sourcePath string) (*Result, error) {
	graph, err := buildGraph(rt)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	initialState := state.New(nil)
	initialState = initialState.Set(KeyJobID, jobID)
	initialState = initialState.Set(KeySourcePath, sourcePath)

	finalState, err := graph.Execute(ctx, initialState)
	if err != nil {
		return nil, fmt.Errorf("execute graph: %w", err)
	}

	return extractResult(finalState, jobID)
}

func buildGraph(rt *Runtime) (state.StateGraph, error) {
	cfg := gaoconfig.DefaultGraphConfig("transcript-pipeline")
	cfg.Observer = "noop"

	graph, err := state.NewGraph(cfg)
	if err != nil {
		return nil, err
	}

	nodes := []struct {
		name    string
		node    state.StateNode
		enabled bool
	}{
		{"read", ReadNode(rt), true},
		{"context", ContextNode(rt), rt.AdaptContext},
		{"extract", ExtractNode(rt), true},
		{"validate", ValidateNode(rt), rt.Validator != nil},
		{"filter", FilterNode(rt), true},
		{"tickets", TicketsNode(rt), true},
		{"archive", ArchiveNode(rt), true},
		{"metadata", MetadataNode(rt), true},
	}

	var chain []string
	for _, n := range nodes {
		if !n.enabled {
			continue
		}
		if err := graph.AddNode(n.name, n.node); err != nil {
			return nil, err
		}
		chain = append(chain, n.name)
	}

	for i := 1; i < len(chain); i++ {
		if err := graph.AddEdge(chain[i-1], chain[i], nil); err != nil {
			return nil, err
		}
	}

	if err := graph.SetEntryPoint(chain[0]); err != nil {
		return nil, err
	}

	if err := graph.SetExitPoint(chain[len(chain)-1]); err != nil {
		return nil, err
	}

	return graph, nil
}

func extractResult(s state.State, jobID string) (*Result, error) {
	t, err := extractTranscript(s)
	if err != nil {
		return nil, fmt.Errorf("final state: %w", err)
	}

	archived, err := extractArchivedPath(s)
	if err != nil {
		return nil, fmt.Errorf("final state: %w", err)
	}

	return &Result{
		JobID:        jobID,
		Transcript:   t,
		ArchivedPath: archived,
		Validation:   extractValidation(s),
		CompletedAt:  time.Now(),
	}, nil
}
