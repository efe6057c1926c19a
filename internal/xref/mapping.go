package xref

import "termxref/internal/umls"

// BuildUnambiguousMapping groups records by key, collects the distinct values
// per key, and keeps only keys that resolve to exactly one value. Ambiguous
// keys are excluded entirely rather than resolved by heuristic; the second
// return value counts them. Records with an empty key or value are ignored.
func BuildUnambiguousMapping[R any](records []R, keyFn func(R) string, valueFn func(R) string) (map[string]string, int) {
	grouped := make(map[string]map[string]bool)
	for _, record := range records {
		key := keyFn(record)
		value := valueFn(record)
		if key == "" || value == "" {
			continue
		}
		if grouped[key] == nil {
			grouped[key] = make(map[string]bool)
		}
		grouped[key][value] = true
	}

	mapping := make(map[string]string, len(grouped))
	ambiguous := 0
	for key, values := range grouped {
		if len(values) != 1 {
			ambiguous++
			continue
		}
		for value := range values {
			mapping[key] = value
		}
	}

	return mapping, ambiguous
}

// CodeToCUI builds a foreign-code -> CUI mapping from the terminology rows
// asserted by a single source vocabulary.
func CodeToCUI(rows []umls.ConceptRow, sab string) (map[string]string, int) {
	subset := umls.FilterBySource(rows, sab)
	return BuildUnambiguousMapping(subset,
		func(r umls.ConceptRow) string { return r.CODE },
		func(r umls.ConceptRow) string { return r.CUI },
	)
}
