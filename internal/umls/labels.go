package umls

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadTypeLabels reads the two-column semantic-type label table
// (TUI|human-readable label) into a lookup map.
func LoadTypeLabels(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open type-label table: %w", err)
	}
	defer file.Close()

	labels := make(map[string]string)

	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if line == "" {
			continue
		}

		fields := strings.Split(line, "|")
		if len(fields) < 2 {
			return nil, fmt.Errorf("malformed type-label line %d: expected 2 fields, got %d", lineNum, len(fields))
		}

		labels[fields[0]] = fields[1]
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading type-label table: %w", err)
	}

	return labels, nil
}
