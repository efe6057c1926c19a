package merge

import (
	"sort"
	"strings"

	"termxref/internal/drugreg"
	"termxref/internal/snomed"
	"termxref/internal/umls"
)

// NameStatus is the two-valued status every source-native term type
// normalizes into.
type NameStatus string

const (
	Preferred NameStatus = "Preferred"
	Alternate NameStatus = "Alternate"
)

// Separator joins multi-value fields (type ids, ontologies) in the output.
const Separator = "|"

// Row is one line of the merged concept table. (CUI, Name) is unique.
type Row struct {
	CUI        string
	Name       string
	TypeIDs    string // pipe-joined, sorted
	Ontologies string // pipe-joined, sorted
	Status     NameStatus
}

// Inputs carries the four name sources plus the resolved mappings and
// semantic-type data the merge joins against.
type Inputs struct {
	Terminology   []umls.ConceptRow    // vocabulary- and term-type-filtered
	Descriptions  []snomed.Description // national-extension descriptions
	SnomedMap     map[string]string    // foreign concept code -> CUI
	DrugNames     []drugreg.DrugName   // registry names with classification codes
	ATCMap        map[string]string    // classification code -> CUI
	DrugRows      []umls.ConceptRow    // drug-vocabulary rows from the TTY-filtered set
	SemanticTypes []umls.SemanticType
	ExcludedTUIs  map[string]bool
}

// entry is a pre-aggregation (CUI, name, status, source, TUI) row.
type entry struct {
	cui    string
	name   string
	status NameStatus
	source string
	tui    string
}

// Sources recorded for names that do not come from the general terminology.
const (
	sourceSnomedExtension = "SNOMED_EXT"
	sourceDrugRegistry    = "DRUGREG"
)

// Merge unions the four name sources into the final concept table. The order
// of operations matters: statuses normalize and surface forms case-fold
// before the semantic-type join, exclusion, deduplication and aggregation.
func Merge(in Inputs) []Row {
	entries := collect(in)
	entries = joinSemanticTypes(entries, in.SemanticTypes, in.ExcludedTUIs)
	entries = dedupe(entries)
	rows := aggregate(entries)

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].CUI != rows[j].CUI {
			return rows[i].CUI < rows[j].CUI
		}
		return rows[i].Status == Preferred && rows[j].Status != Preferred
	})

	return rows
}

func collect(in Inputs) []entry {
	var entries []entry

	for _, row := range in.Terminology {
		entries = append(entries, entry{
			cui:    row.CUI,
			name:   FoldTokens(row.STR),
			status: statusFromTTY(row.TTY),
			source: row.SAB,
		})
	}

	for _, desc := range in.Descriptions {
		cui, ok := in.SnomedMap[desc.ConceptCode]
		if !ok {
			continue
		}
		status, ok := statusFromDescriptionType(desc.TypeCode)
		if !ok {
			continue
		}
		entries = append(entries, entry{
			cui:    cui,
			name:   FoldTokens(desc.Term),
			status: status,
			source: sourceSnomedExtension,
		})
	}

	for _, drug := range in.DrugNames {
		cui, ok := in.ATCMap[drug.ATC]
		if !ok {
			continue
		}
		entries = append(entries, entry{
			cui:    cui,
			name:   FoldTokens(drug.Name),
			status: Preferred,
			source: sourceDrugRegistry,
		})
	}

	for _, row := range in.DrugRows {
		entries = append(entries, entry{
			cui:    row.CUI,
			name:   FoldTokens(row.STR),
			status: statusFromTTY(row.TTY),
			source: row.SAB,
		})
	}

	return entries
}

// statusFromTTY maps the approved UMLS term types onto the two-valued
// scheme: the designated preferred name keeps Preferred, the rest of the
// allow-list is Alternate.
func statusFromTTY(tty string) NameStatus {
	if tty == "PT" {
		return Preferred
	}
	return Alternate
}

func statusFromDescriptionType(typeCode string) (NameStatus, bool) {
	switch typeCode {
	case snomed.TypeFullySpecifiedName:
		return Preferred, true
	case snomed.TypeSynonym:
		return Alternate, true
	default:
		return "", false
	}
}

// joinSemanticTypes left-joins entries against the type assignments on CUI,
// expanding one entry per assigned TUI, and drops joined rows whose TUI is
// excluded. Names without any assignment keep a single row with an empty
// TUI. Exclusion happens here, on the joined rows, never by deleting whole
// concepts.
func joinSemanticTypes(entries []entry, types []umls.SemanticType, excluded map[string]bool) []entry {
	byCUI := make(map[string][]string)
	for _, st := range types {
		byCUI[st.CUI] = append(byCUI[st.CUI], st.TUI)
	}

	out := make([]entry, 0, len(entries))
	for _, e := range entries {
		tuis := byCUI[e.cui]
		if len(tuis) == 0 {
			out = append(out, e)
			continue
		}
		for _, tui := range tuis {
			if excluded[tui] {
				continue
			}
			joined := e
			joined.tui = tui
			out = append(out, joined)
		}
	}
	return out
}

func dedupe(entries []entry) []entry {
	seen := make(map[entry]bool, len(entries))
	out := make([]entry, 0, len(entries))
	for _, e := range entries {
		if seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	return out
}

// aggregate collapses entries in two steps: (CUI, name, status) merging the
// source sets, then (CUI, name) merging the remaining TUI and source sets,
// with Preferred winning over Alternate.
func aggregate(entries []entry) []Row {
	type nameKey struct {
		cui  string
		name string
	}

	type group struct {
		sources   map[string]bool
		tuis      map[string]bool
		preferred bool
	}

	order := make([]nameKey, 0, len(entries))
	groups := make(map[nameKey]*group, len(entries))

	for _, e := range entries {
		key := nameKey{cui: e.cui, name: e.name}
		g, ok := groups[key]
		if !ok {
			g = &group{sources: make(map[string]bool), tuis: make(map[string]bool)}
			groups[key] = g
			order = append(order, key)
		}
		g.sources[e.source] = true
		if e.tui != "" {
			g.tuis[e.tui] = true
		}
		if e.status == Preferred {
			g.preferred = true
		}
	}

	rows := make([]Row, 0, len(order))
	for _, key := range order {
		g := groups[key]
		status := Alternate
		if g.preferred {
			status = Preferred
		}
		rows = append(rows, Row{
			CUI:        key.cui,
			Name:       key.name,
			TypeIDs:    joinSet(g.tuis),
			Ontologies: joinSet(g.sources),
			Status:     status,
		})
	}
	return rows
}

func joinSet(set map[string]bool) string {
	values := make([]string, 0, len(set))
	for v := range set {
		values = append(values, v)
	}
	sort.Strings(values)
	return strings.Join(values, Separator)
}
