package agent

import (
	"fmt"
	"strings"

	"github.com/datalago/askdb/pkg/agent/prompts"
)

// Prompts contains the agent prompts loaded from embedded files.
type Prompts struct {
	Generate     string // SQL generation from question + schema
	Correct      string // SQL correction from failed query + error
	SelectTables string // table narrowing
	Respond      string // natural-language answer from results
}

// LoadPrompts loads all prompts from the embedded filesystem.
func LoadPrompts() (*Prompts, error) {
	p := &Prompts{}

	var err error
	if p.Generate, err = loadPrompt("GENERATE.md"); err != nil {
		return nil, fmt.Errorf("failed to load GENERATE: %w", err)
	}
	if p.Correct, err = loadPrompt("CORRECT.md"); err != nil {
		return nil, fmt.Errorf("failed to load CORRECT: %w", err)
	}
	if p.SelectTables, err = loadPrompt("SELECT_TABLES.md"); err != nil {
		return nil, fmt.Errorf("failed to load SELECT_TABLES: %w", err)
	}
	if p.Respond, err = loadPrompt("RESPOND.md"); err != nil {
		return nil, fmt.Errorf("failed to load RESPOND: %w", err)
	}

	return p, nil
}

func loadPrompt(path string) (string, error) {
	data, err := prompts.PromptsFS.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// renderPrompt substitutes {{KEY}} placeholders in a prompt template.
func renderPrompt(template string, vars map[string]string) string {
	out := template
	for key, value := range vars {
		out = strings.ReplaceAll(out, "{{"+key+"}}", value)
	}
	return out
}
