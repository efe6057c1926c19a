package umls

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func row(cui, sab, tty, str string) ConceptRow {
	return ConceptRow{CUI: cui, SAB: sab, TTY: tty, STR: str}
}

func TestFilterByTermType(t *testing.T) {
	rows := []ConceptRow{
		row("C1", "MSH", "PT", "Headache"),
		row("C1", "MSH", "DEL", "Obsolete headache"),
		row("C2", "SNOMEDCT_US", "SY", "Flu"),
	}

	approved := map[string]bool{"PT": true, "SY": true}
	filtered := FilterByTermType(rows, approved)

	assert.Len(t, filtered, 2)
	assert.Equal(t, "Headache", filtered[0].STR)
	assert.Equal(t, "Flu", filtered[1].STR)
}

func TestFilterByVocabulary(t *testing.T) {
	rows := []ConceptRow{
		row("C1", "MSH", "PT", "Headache"),
		row("C1", "GONEVOC", "PT", "Cranial pain"),
	}

	filtered := FilterByVocabulary(rows, map[string]bool{"MSH": true})
	assert.Len(t, filtered, 1)
	assert.Equal(t, "MSH", filtered[0].SAB)
}

func TestFilterBySource(t *testing.T) {
	rows := []ConceptRow{
		row("C1", "ATC", "PT", "paracetamol"),
		row("C1", "MSH", "PT", "Acetaminophen"),
	}

	subset := FilterBySource(rows, "ATC")
	assert.Len(t, subset, 1)
	assert.Equal(t, "paracetamol", subset[0].STR)
}

func TestFilters_EmptyResultPropagates(t *testing.T) {
	filtered := FilterByTermType(nil, map[string]bool{"PT": true})
	assert.Empty(t, filtered)
	filtered = FilterByVocabulary(filtered, map[string]bool{"MSH": true})
	assert.Empty(t, filtered)
}
