package agent

import "github.com/datalago/askdb/pkg/querier"

// State is the tagged current-state value of the engine's state machine.
type State string

const (
	StateStart          State = "start"
	StateTablesListed   State = "tables_listed"
	StateTablesFiltered State = "tables_filtered"
	StateSchemaLoaded   State = "schema_loaded"
	StateQueryGenerated State = "query_generated"
	StateExecutedOK     State = "executed_ok"
	StateExecutedFail   State = "executed_fail"
	StateCorrected      State = "corrected"
	StateAborted        State = "aborted"
	StateDone           State = "done"
)

// runState is the single mutable record threaded through one run. It is
// created fresh per question and discarded once the result is assembled;
// nothing outside the engine ever sees it.
type runState struct {
	question string

	// allTables is set once after listing and never mutated afterwards.
	allTables []string
	// selectedTables is nil unless context filtering ran.
	selectedTables []string

	schemaText   string
	currentQuery string

	// Exactly one of lastError / result is populated after any execution
	// attempt.
	lastError string
	result    *querier.Result

	attemptCount int
	finalAnswer  string

	steps []string
}

func (st *runState) addStep(step string) {
	st.steps = append(st.steps, step)
}

// tablesInScope returns the tables the schema step should load.
func (st *runState) tablesInScope() []string {
	if st.selectedTables != nil {
		return st.selectedTables
	}
	return st.allTables
}

// decision is the routing outcome after an execution attempt.
type decision int

const (
	decisionRespond decision = iota
	decisionRetry
	decisionAbort
)

// route is the single decision point governing the correction cycle: retry
// iff an error is present and budget remains, respond iff there is no error,
// abort otherwise. It is a pure function so the retry bound is provable
// independent of the node bodies.
func route(hasError bool, attemptCount, maxAttempts int) decision {
	if !hasError {
		return decisionRespond
	}
	if attemptCount < maxAttempts {
		return decisionRetry
	}
	return decisionAbort
}

// needsFiltering reports whether the table set is large enough to be worth a
// narrowing round trip to the LLM.
func needsFiltering(tableCount, threshold int) bool {
	return tableCount > threshold
}
