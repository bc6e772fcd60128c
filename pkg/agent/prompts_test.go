package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPrompts(t *testing.T) {
	p, err := LoadPrompts()
	require.NoError(t, err)

	assert.Contains(t, p.Generate, "{{SCHEMA}}")
	assert.Contains(t, p.Generate, "{{LIMIT}}")
	assert.Contains(t, p.Correct, "{{SCHEMA}}")
	assert.NotEmpty(t, p.SelectTables)
	assert.NotEmpty(t, p.Respond)
}
