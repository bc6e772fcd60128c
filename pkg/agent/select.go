package agent

import (
	"context"
	"fmt"
	"strings"
)

// selectTables asks the LLM which tables matter for the question. The answer
// is validated against the known table list; anything invalid falls back to
// the full set, never to an empty one.
func (e *Engine) selectTables(ctx context.Context, st *runState) ([]string, error) {
	userPrompt := fmt.Sprintf("Pergunta: %s\n\nTabelas disponíveis: %s",
		st.question, strings.Join(st.allTables, ", "))

	response, err := e.complete(ctx, e.cfg.Prompts.SelectTables, userPrompt)
	if err != nil {
		return nil, fmt.Errorf("LLM completion failed: %w", err)
	}

	return validateTableSelection(response, st.allTables), nil
}

// validateTableSelection parses a comma-separated table list out of the
// model response and keeps only names that exist, preserving the order of
// the candidate list. Malformed or hallucinated output yields the identity
// set.
func validateTableSelection(response string, allTables []string) []string {
	picked := make(map[string]bool)
	for _, part := range strings.FieldsFunc(response, func(r rune) bool {
		return r == ',' || r == '\n'
	}) {
		name := strings.Trim(strings.TrimSpace(part), "`\"'")
		if name != "" {
			picked[name] = true
		}
	}

	var selected []string
	for _, t := range allTables {
		if picked[t] {
			selected = append(selected, t)
		}
	}
	if len(selected) == 0 {
		return allTables
	}
	return selected
}
