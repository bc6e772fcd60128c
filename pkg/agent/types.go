package agent

import (
	"context"

	"github.com/datalago/askdb/pkg/querier"
)

// LLMClient is the interface for interacting with an LLM.
type LLMClient interface {
	// Complete sends a prompt and returns the response text.
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Querier executes SQL queries. SQL-level failures come back on the result's
// Error field, never as an error return.
type Querier interface {
	Query(ctx context.Context, sql string) (querier.Result, error)
}

// SchemaInspector retrieves database metadata.
type SchemaInspector interface {
	// ListTables returns the names of all user tables.
	ListTables(ctx context.Context) ([]string, error)
	// LoadSchema returns DDL-style text for the given tables.
	LoadSchema(ctx context.Context, tables []string) (string, error)
}

// Result is the outcome of one agent run, exposing enough intermediate
// state for the caller to render the reasoning steps.
type Result struct {
	Question     string
	FinalAnswer  string
	GeneratedSQL string
	// Rows is set only when an execution attempt succeeded.
	Rows *querier.Result
	// SelectedTables is set only when context filtering ran.
	SelectedTables []string
	AttemptCount   int
	Aborted        bool
	// Steps is the human-readable trace of what the agent did.
	Steps []string
}
