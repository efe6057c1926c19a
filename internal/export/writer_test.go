package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"termxref/internal/merge"
	"termxref/internal/pairs"
)

func sampleRows() []merge.Row {
	return []merge.Row{
		{CUI: "C1", Name: "influenza", TypeIDs: "T047", Ontologies: "MSH|SNOMEDCT_US", Status: merge.Preferred},
		{CUI: "C1", Name: "flu", TypeIDs: "T047", Ontologies: "MSH", Status: merge.Alternate},
		{CUI: "C2", Name: "headache", TypeIDs: "", Ontologies: "MSH", Status: merge.Preferred},
	}
}

func TestWriteConceptTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "concepts.csv")
	require.NoError(t, WriteConceptTable(path, sampleRows()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "cui,name,type_ids,ontologies,name_status", lines[0])
	assert.Equal(t, "C1,influenza,T047,MSH|SNOMEDCT_US,Preferred", lines[1])
	assert.Equal(t, "C1,flu,T047,MSH,Alternate", lines[2])
	assert.Equal(t, "C2,headache,,MSH,Preferred", lines[3])
}

func TestWriteNormDB(t *testing.T) {
	labels := map[string]string{"T047": "Disease or Syndrome"}

	t.Run("tagged fields per concept group", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "norm.txt")
		require.NoError(t, WriteNormDB(path, sampleRows(), labels))

		data, err := os.ReadFile(path)
		require.NoError(t, err)

		lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
		require.Len(t, lines, 2)
		assert.Equal(t, "C1\tname:Name:influenza\tname:Name:flu\tattr:Type:T047|Disease or Syndrome", lines[0])
		assert.Equal(t, "C2\tname:Name:headache", lines[1])
	})

	t.Run("missing label is fatal", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "norm.txt")
		err := WriteNormDB(path, sampleRows(), map[string]string{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no label for semantic type T047")
	})
}

func TestWriteGrouped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grouped.csv")
	require.NoError(t, WriteGrouped(path, sampleRows()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "cui,name", lines[0])
	assert.Equal(t, "C1,influenza | flu", lines[1])
	assert.Equal(t, "C2,headache", lines[2])
}

func TestWritePairs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pairs.txt")
	input := []pairs.Pair{
		{CUI: "C1", Name1: "influenza", Name2: "flu"},
		{CUI: "C1", Name1: "bad||name", Name2: "flu"},
		{CUI: "C1", Name1: "bad\nname", Name2: "flu"},
	}

	written, err := WritePairs(path, input, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 1, written)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "C1||influenza||flu\n", string(data))
}
