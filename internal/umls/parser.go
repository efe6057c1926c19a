package umls

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

const (
	mrconsoFieldCount = 18
	mrstyFieldCount   = 6

	// MRCONSO lines can get long; give the scanner room.
	scannerBufferSize  = 1024 * 1024
	scannerMaxLineSize = 1024 * 1024 * 10
)

// Filters restricts which MRCONSO rows a parse yields. Empty slices accept
// everything for that field.
type Filters struct {
	Languages    []string
	Vocabularies []string
	TermTypes    []string
}

// Accept reports whether a row passes all configured filters.
func (f *Filters) Accept(row ConceptRow) bool {
	if len(f.Languages) > 0 && !contains(f.Languages, row.LAT) {
		return false
	}
	if len(f.Vocabularies) > 0 && !contains(f.Vocabularies, row.SAB) {
		return false
	}
	if len(f.TermTypes) > 0 && !contains(f.TermTypes, row.TTY) {
		return false
	}
	return true
}

// ParseMRCONSO streams MRCONSO.RRF, invoking the callback for every row that
// passes the filters. A row with the wrong field count aborts the parse.
func ParseMRCONSO(path string, filters Filters, callback func(row ConceptRow) error) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open MRCONSO: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	buf := make([]byte, 0, scannerBufferSize)
	scanner.Buffer(buf, scannerMaxLineSize)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if line == "" {
			continue
		}

		fields := strings.Split(line, "|")
		if len(fields) < mrconsoFieldCount {
			return fmt.Errorf("malformed MRCONSO line %d: expected %d fields, got %d", lineNum, mrconsoFieldCount, len(fields))
		}

		row := ConceptRow{
			CUI:      fields[0],
			LAT:      fields[1],
			TS:       fields[2],
			LUI:      fields[3],
			STT:      fields[4],
			SUI:      fields[5],
			ISPREF:   fields[6],
			AUI:      fields[7],
			SAUI:     fields[8],
			SCUI:     fields[9],
			SDUI:     fields[10],
			SAB:      fields[11],
			TTY:      fields[12],
			CODE:     fields[13],
			STR:      fields[14],
			SRL:      fields[15],
			SUPPRESS: fields[16],
			CVF:      fields[17],
		}

		if !filters.Accept(row) {
			continue
		}

		if err := callback(row); err != nil {
			return fmt.Errorf("callback error at MRCONSO line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading MRCONSO: %w", err)
	}

	return nil
}

// LoadMRCONSO materializes the filtered MRCONSO rows.
func LoadMRCONSO(path string, filters Filters) ([]ConceptRow, error) {
	var rows []ConceptRow
	err := ParseMRCONSO(path, filters, func(row ConceptRow) error {
		rows = append(rows, row)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ParseMRSTY streams MRSTY.RRF, invoking the callback for every
// semantic-type assignment.
func ParseMRSTY(path string, callback func(st SemanticType) error) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open MRSTY: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if line == "" {
			continue
		}

		fields := strings.Split(line, "|")
		if len(fields) < mrstyFieldCount {
			return fmt.Errorf("malformed MRSTY line %d: expected %d fields, got %d", lineNum, mrstyFieldCount, len(fields))
		}

		st := SemanticType{
			CUI:  fields[0],
			TUI:  fields[1],
			STN:  fields[2],
			STY:  fields[3],
			ATUI: fields[4],
			CVF:  fields[5],
		}

		if err := callback(st); err != nil {
			return fmt.Errorf("callback error at MRSTY line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading MRSTY: %w", err)
	}

	return nil
}

// LoadMRSTY materializes all semantic-type assignments.
func LoadMRSTY(path string) ([]SemanticType, error) {
	var types []SemanticType
	err := ParseMRSTY(path, func(st SemanticType) error {
		types = append(types, st)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return types, nil
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
