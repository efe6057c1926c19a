package umls

// FilterByTermType keeps only rows whose TTY is in the approved set. This is
// computed before the vocabulary filter so the drug stages can reuse the
// TTY-filtered-but-vocabulary-unfiltered set.
func FilterByTermType(rows []ConceptRow, approved map[string]bool) []ConceptRow {
	out := make([]ConceptRow, 0, len(rows))
	for _, row := range rows {
		if approved[row.TTY] {
			out = append(out, row)
		}
	}
	return out
}

// FilterByVocabulary keeps only rows whose SAB is in the allow-list.
func FilterByVocabulary(rows []ConceptRow, allowed map[string]bool) []ConceptRow {
	out := make([]ConceptRow, 0, len(rows))
	for _, row := range rows {
		if allowed[row.SAB] {
			out = append(out, row)
		}
	}
	return out
}

// FilterBySource keeps only rows asserted by a single vocabulary.
func FilterBySource(rows []ConceptRow, sab string) []ConceptRow {
	var out []ConceptRow
	for _, row := range rows {
		if row.SAB == sab {
			out = append(out, row)
		}
	}
	return out
}
