package export

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"termxref/internal/merge"
	"termxref/internal/pairs"
)

const (
	// NameSeparator joins surface forms in the grouped output.
	NameSeparator = " | "

	// PairSeparator joins the fields of a pair line.
	PairSeparator = "||"
)

// WriteConceptTable writes the merged table as CSV with pipe-joined
// multi-value fields.
func WriteConceptTable(path string, rows []merge.Row) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create concept table: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write([]string{"cui", "name", "type_ids", "ontologies", "name_status"}); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{row.CUI, row.Name, row.TypeIDs, row.Ontologies, string(row.Status)}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// conceptGroup collects the names of one (CUI, type ids) group in the merged
// table's insertion order.
type conceptGroup struct {
	cui     string
	typeIDs string
	names   []string
}

func groupByConcept(rows []merge.Row) []conceptGroup {
	type key struct {
		cui     string
		typeIDs string
	}

	index := make(map[key]int)
	var groups []conceptGroup

	for _, row := range rows {
		k := key{cui: row.CUI, typeIDs: row.TypeIDs}
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, conceptGroup{cui: row.CUI, typeIDs: row.TypeIDs})
		}
		groups[i].names = append(groups[i].names, row.Name)
	}

	return groups
}

// WriteNormDB writes the normalization-database form: one tab-separated line
// per concept group with tagged name and type fields. Every type id must
// have a label or the write fails.
func WriteNormDB(path string, rows []merge.Row, labels map[string]string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create normalization output: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	for _, group := range groupByConcept(rows) {
		fields := []string{group.cui}
		for _, name := range group.names {
			fields = append(fields, "name:Name:"+name)
		}
		if group.typeIDs != "" {
			for _, tui := range strings.Split(group.typeIDs, merge.Separator) {
				label, ok := labels[tui]
				if !ok {
					return fmt.Errorf("no label for semantic type %s (concept %s)", tui, group.cui)
				}
				fields = append(fields, "attr:Type:"+tui+merge.Separator+label)
			}
		}
		if _, err := fmt.Fprintln(w, strings.Join(fields, "\t")); err != nil {
			return err
		}
	}
	return w.Flush()
}

// WriteGrouped writes the CUI-grouped form: one CSV row per concept group
// with all surface forms joined into a single field.
func WriteGrouped(path string, rows []merge.Row) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create grouped output: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write([]string{"cui", "name"}); err != nil {
		return err
	}
	for _, group := range groupByConcept(rows) {
		if err := w.Write([]string{group.cui, strings.Join(group.names, NameSeparator)}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// WritePairs writes one line per pair. Pairs whose names would corrupt the
// line format (embedded separator or newline) are skipped with a warning;
// pair generation is best-effort. Returns the number of lines written.
func WritePairs(path string, pairList []pairs.Pair, logger zerolog.Logger) (int, error) {
	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create pair output: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	written := 0
	for _, pair := range pairList {
		if malformed(pair.Name1) || malformed(pair.Name2) {
			logger.Warn().
				Str("cui", pair.CUI).
				Str("name1", pair.Name1).
				Str("name2", pair.Name2).
				Msg("skipping malformed pair")
			continue
		}
		line := pair.CUI + PairSeparator + pair.Name1 + PairSeparator + pair.Name2
		if _, err := fmt.Fprintln(w, line); err != nil {
			return written, err
		}
		written++
	}
	if err := w.Flush(); err != nil {
		return written, err
	}
	return written, nil
}

func malformed(name string) bool {
	return strings.Contains(name, PairSeparator) || strings.ContainsAny(name, "\r\n")
}
