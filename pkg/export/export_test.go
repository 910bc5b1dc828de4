package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTables() []Table {
	return []Table{
		{
			Title:   "Documentos",
			Headers: []string{"Nome", "Status", "Arquivos"},
			Rows: [][]string{
				{"RG", "Aprovado", "1"},
				{"Comprovante de Residência", "Pendente", "0"},
			},
		},
		{
			Title:   "Histórico",
			Headers: []string{"Data", "Evento", "Autor"},
			Rows: [][]string{
				{"2025-04-01", "Processo criado", "Marina"},
			},
		},
	}
}

func TestCSV(t *testing.T) {
	out, err := CSV(sampleTables())
	require.NoError(t, err)

	text := string(out)
	assert.Contains(t, text, "Documentos")
	assert.Contains(t, text, "RG,Aprovado,1")
	assert.Contains(t, text, "Histórico")
	// sections separated by an empty record
	assert.Contains(t, text, "\n\nHistórico")
}

func TestCSVRejectsHeaderlessTable(t *testing.T) {
	_, err := CSV([]Table{{Title: "Vazio"}})
	assert.Error(t, err)
}

func TestPDF(t *testing.T) {
	out, err := PDF("Processo de Regularização", sampleTables())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "%PDF"))
	assert.Greater(t, len(out), 500)
}
