package umls

import "fmt"

// Statistics summarizes the terminology inputs, useful when tuning the
// vocabulary and language allow-lists.
type Statistics struct {
	TotalRows        int
	TotalAssignments int
	Vocabularies     map[string]int
	Languages        map[string]int
	TermTypes        map[string]int
	TUIs             map[string]int
}

// CollectStatistics scans MRCONSO and MRSTY once and counts rows per
// vocabulary, language, term type and semantic type.
func CollectStatistics(mrconsoPath, mrstyPath string) (*Statistics, error) {
	stats := &Statistics{
		Vocabularies: make(map[string]int),
		Languages:    make(map[string]int),
		TermTypes:    make(map[string]int),
		TUIs:         make(map[string]int),
	}

	if err := ParseMRCONSO(mrconsoPath, Filters{}, func(row ConceptRow) error {
		stats.TotalRows++
		stats.Vocabularies[row.SAB]++
		stats.Languages[row.LAT]++
		stats.TermTypes[row.TTY]++
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to scan MRCONSO: %w", err)
	}

	if err := ParseMRSTY(mrstyPath, func(st SemanticType) error {
		stats.TotalAssignments++
		stats.TUIs[st.TUI]++
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to scan MRSTY: %w", err)
	}

	return stats, nil
}
