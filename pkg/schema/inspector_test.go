package schema

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInspector(t *testing.T) (*Inspector, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	insp, err := New(Config{DB: db, Dialect: "duckdb"})
	require.NoError(t, err)
	return insp, mock
}

func TestInspector_ListTables(t *testing.T) {
	insp, mock := newTestInspector(t)

	mock.ExpectQuery("information_schema.tables").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).
			AddRow("campanhas_marketing").
			AddRow("clientes").
			AddRow("compras").
			AddRow("suporte"))

	tables, err := insp.ListTables(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"campanhas_marketing", "clientes", "compras", "suporte"}, tables)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInspector_LoadSchema(t *testing.T) {
	insp, mock := newTestInspector(t)

	mock.ExpectQuery("information_schema.columns").
		WillReturnRows(sqlmock.NewRows([]string{"table_name", "column_name", "data_type"}).
			AddRow("clientes", "id", "BIGINT").
			AddRow("clientes", "nome", "VARCHAR").
			AddRow("compras", "id", "BIGINT").
			AddRow("compras", "cliente_id", "BIGINT"))

	text, err := insp.LoadSchema(context.Background(), []string{"clientes"})
	require.NoError(t, err)

	assert.Contains(t, text, "CREATE TABLE clientes (")
	assert.Contains(t, text, "\tid BIGINT,")
	assert.Contains(t, text, "\tnome VARCHAR")
	// Tables outside the requested set stay out of the rendered text.
	assert.NotContains(t, text, "compras")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInspector_LoadSchemaCaches(t *testing.T) {
	insp, mock := newTestInspector(t)

	// A single metadata query serves both calls.
	mock.ExpectQuery("information_schema.columns").
		WillReturnRows(sqlmock.NewRows([]string{"table_name", "column_name", "data_type"}).
			AddRow("clientes", "id", "BIGINT"))

	first, err := insp.LoadSchema(context.Background(), []string{"clientes"})
	require.NoError(t, err)
	second, err := insp.LoadSchema(context.Background(), []string{"clientes"})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInspector_LoadSchemaUnknownTable(t *testing.T) {
	insp, mock := newTestInspector(t)

	mock.ExpectQuery("information_schema.columns").
		WillReturnRows(sqlmock.NewRows([]string{"table_name", "column_name", "data_type"}).
			AddRow("clientes", "id", "BIGINT"))

	_, err := insp.LoadSchema(context.Background(), []string{"tabela_fantasma"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tabela_fantasma")
}

func TestInspector_LoadSchemaNoTables(t *testing.T) {
	insp, _ := newTestInspector(t)
	_, err := insp.LoadSchema(context.Background(), nil)
	require.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	_, err = New(Config{DB: db, Dialect: "oracle"})
	require.Error(t, err)

	_, err = New(Config{Dialect: "duckdb"})
	require.Error(t, err)
}
