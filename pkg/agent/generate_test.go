package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractSQL(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     string
	}{
		{
			name:     "bare statement",
			response: "SELECT COUNT(*) FROM clientes",
			want:     "SELECT COUNT(*) FROM clientes",
		},
		{
			name:     "sql code fence",
			response: "```sql\nSELECT COUNT(*) FROM clientes;\n```",
			want:     "SELECT COUNT(*) FROM clientes",
		},
		{
			name:     "generic code fence",
			response: "```\nSELECT nome FROM clientes LIMIT 10\n```",
			want:     "SELECT nome FROM clientes LIMIT 10",
		},
		{
			name:     "fence with surrounding prose",
			response: "Aqui está a query:\n\n```sql\nSELECT COUNT(*) FROM compras\n```\n\nEla conta as compras.",
			want:     "SELECT COUNT(*) FROM compras",
		},
		{
			name:     "prose before bare statement",
			response: "A query abaixo responde a pergunta:\nSELECT id, nome FROM clientes\nLIMIT 10",
			want:     "SELECT id, nome FROM clientes\nLIMIT 10",
		},
		{
			name:     "trailing semicolon stripped",
			response: "SELECT 1;",
			want:     "SELECT 1",
		},
		{
			name:     "cte statement",
			response: "WITH t AS (SELECT 1) SELECT * FROM t",
			want:     "WITH t AS (SELECT 1) SELECT * FROM t",
		},
		{
			name:     "no sql at all",
			response: "Desculpe, não consigo responder a essa pergunta.",
			want:     "",
		},
		{
			name:     "empty response",
			response: "",
			want:     "",
		},
		{
			name:     "fence without sql content",
			response: "```\nalguma coisa que não é SQL\n```",
			want:     "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractSQL(tt.response))
		})
	}
}

func TestLooksLikeSQL(t *testing.T) {
	assert.True(t, looksLikeSQL("select 1"))
	assert.True(t, looksLikeSQL("  WITH t AS (SELECT 1) SELECT * FROM t"))
	assert.True(t, looksLikeSQL("DROP TABLE clientes"))
	assert.False(t, looksLikeSQL("a consulta retorna clientes"))
	assert.False(t, looksLikeSQL(""))
}

func TestRenderPrompt(t *testing.T) {
	out := renderPrompt("schema: {{SCHEMA}}, limite: {{LIMIT}}", map[string]string{
		"SCHEMA": "CREATE TABLE t (id INT);",
		"LIMIT":  "10",
	})
	assert.Equal(t, "schema: CREATE TABLE t (id INT);, limite: 10", out)
}
