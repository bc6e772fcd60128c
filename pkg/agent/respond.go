package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/datalago/askdb/pkg/querier"
)

// respond formulates the natural-language answer from the question, the
// executed query and its results.
func (e *Engine) respond(ctx context.Context, st *runState) (string, error) {
	userPrompt := fmt.Sprintf("Pergunta do usuário: %s\n\nQuery executada:\n%s\n\nResultado da query:\n%s",
		st.question, st.currentQuery, querier.Format(*st.result))

	response, err := e.complete(ctx, e.cfg.Prompts.Respond, userPrompt)
	if err != nil {
		return "", fmt.Errorf("LLM completion failed: %w", err)
	}

	return strings.TrimSpace(response), nil
}
