package snomed

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Description type codes carried by the national-extension description table.
const (
	TypeFullySpecifiedName = "900000000000003001"
	TypeSynonym            = "900000000000013009"
)

// Description is one active row of the national-extension description table.
type Description struct {
	ID          string // description-id
	ConceptCode string // foreign concept code, resolved to a CUI via xref
	TypeCode    string // description type code
	Term        string // surface string
}

// LoadDescriptions reads the tab-delimited description table. Column
// positions are taken from the header row; only active=1 rows are kept.
func LoadDescriptions(path string) ([]Description, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open description table: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	buf := make([]byte, 0, 1024*1024)
	scanner.Buffer(buf, 1024*1024*10)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("error reading description table: %w", err)
		}
		return nil, fmt.Errorf("description table is empty: %s", path)
	}

	header := strings.Split(scanner.Text(), "\t")
	cols, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}

	var descriptions []Description
	lineNum := 1
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if line == "" {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) <= cols.max() {
			return nil, fmt.Errorf("malformed description line %d: expected at least %d fields, got %d", lineNum, cols.max()+1, len(fields))
		}

		if fields[cols.active] != "1" {
			continue
		}

		descriptions = append(descriptions, Description{
			ID:          fields[cols.id],
			ConceptCode: fields[cols.conceptID],
			TypeCode:    fields[cols.typeID],
			Term:        fields[cols.term],
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading description table: %w", err)
	}

	return descriptions, nil
}

type columnIndices struct {
	id        int
	active    int
	conceptID int
	typeID    int
	term      int
}

func (c columnIndices) max() int {
	m := c.id
	for _, v := range []int{c.active, c.conceptID, c.typeID, c.term} {
		if v > m {
			m = v
		}
	}
	return m
}

func resolveColumns(header []string) (columnIndices, error) {
	idx := func(name string) int {
		for i, h := range header {
			if h == name {
				return i
			}
		}
		return -1
	}

	cols := columnIndices{
		id:        idx("id"),
		active:    idx("active"),
		conceptID: idx("conceptId"),
		typeID:    idx("typeId"),
		term:      idx("term"),
	}

	for name, v := range map[string]int{
		"id":        cols.id,
		"active":    cols.active,
		"conceptId": cols.conceptID,
		"typeId":    cols.typeID,
		"term":      cols.term,
	} {
		if v < 0 {
			return columnIndices{}, fmt.Errorf("description table header is missing column %q", name)
		}
	}

	return cols, nil
}
