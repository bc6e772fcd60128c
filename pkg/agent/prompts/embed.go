// Package prompts embeds the agent prompt templates.
package prompts

import "embed"

//go:embed *.md
var PromptsFS embed.FS
