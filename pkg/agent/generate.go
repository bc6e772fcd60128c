package agent

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// synthesize generates the first SQL candidate for the question. An
// unextractable response is not an error here: it returns an empty query,
// which the execution phase classifies as a failure under the attempt
// budget.
func (e *Engine) synthesize(ctx context.Context, st *runState) (string, error) {
	systemPrompt := renderPrompt(e.cfg.Prompts.Generate, map[string]string{
		"SCHEMA": st.schemaText,
		"LIMIT":  strconv.Itoa(e.cfg.QueryLimit),
	})

	response, err := e.complete(ctx, systemPrompt, "Pergunta: "+st.question)
	if err != nil {
		return "", fmt.Errorf("LLM completion failed: %w", err)
	}

	return extractSQL(response), nil
}

// correct asks the LLM to repair the failed query using the database error
// text as the repair signal.
func (e *Engine) correct(ctx context.Context, st *runState) (string, error) {
	systemPrompt := renderPrompt(e.cfg.Prompts.Correct, map[string]string{
		"SCHEMA": st.schemaText,
	})

	userPrompt := fmt.Sprintf("Pergunta: %s\n\nQuery original:\n%s\n\nErro:\n%s",
		st.question, st.currentQuery, st.lastError)

	response, err := e.complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		return "", fmt.Errorf("LLM completion failed: %w", err)
	}

	return extractSQL(response), nil
}

// extractSQL pulls a single executable statement out of a model response,
// stripping code fences and surrounding prose. Returns "" when no statement
// can be found.
func extractSQL(response string) string {
	response = strings.TrimSpace(response)

	if sql := extractSQLFromCodeBlocks(response); sql != "" {
		return sql
	}

	// No fences: accept the whole response if it starts like a statement.
	if looksLikeSQL(response) {
		return cleanSQL(response)
	}

	// Prose around a bare statement: take the first line that looks like SQL
	// and everything after it.
	lines := strings.Split(response, "\n")
	for i, line := range lines {
		if looksLikeSQL(line) {
			return cleanSQL(strings.Join(lines[i:], "\n"))
		}
	}

	return ""
}

// extractSQLFromCodeBlocks finds SQL in markdown code blocks.
func extractSQLFromCodeBlocks(response string) string {
	if start := strings.Index(response, "```sql"); start != -1 {
		start += 6
		if end := strings.Index(response[start:], "```"); end != -1 {
			return cleanSQL(response[start : start+end])
		}
	}

	if start := strings.Index(response, "```"); start != -1 {
		start += 3
		if end := strings.Index(response[start:], "```"); end != -1 {
			content := strings.TrimSpace(response[start : start+end])
			if looksLikeSQL(content) {
				return cleanSQL(content)
			}
		}
	}

	return ""
}

// looksLikeSQL checks if text appears to be a SQL statement.
func looksLikeSQL(text string) bool {
	upper := strings.ToUpper(strings.TrimSpace(text))
	sqlKeywords := []string{"SELECT", "WITH", "INSERT", "UPDATE", "DELETE", "CREATE", "ALTER", "DROP"}
	for _, kw := range sqlKeywords {
		if strings.HasPrefix(upper, kw) {
			return true
		}
	}
	return false
}

// cleanSQL normalizes SQL by trimming whitespace and trailing semicolons.
func cleanSQL(sql string) string {
	sql = strings.TrimSpace(sql)
	sql = strings.TrimSuffix(sql, ";")
	return strings.TrimSpace(sql)
}
