package drugreg

import (
	"encoding/xml"
	"fmt"
	"os"
)

// Export is the root of the national drug registry XML dump. The structure is
// fixed: products under the root, each carrying localized display names and
// packaging children that may each hold one therapeutic classification code.
type Export struct {
	XMLName  xml.Name  `xml:"export"`
	Products []Product `xml:"product"`
}

type Product struct {
	ID       string          `xml:"id,attr"`
	Names    []LocalizedName `xml:"name"`
	Packages []Package       `xml:"package"`
}

type LocalizedName struct {
	Lang  string `xml:"lang,attr"`
	Value string `xml:",chardata"`
}

type Package struct {
	ATC *Classification `xml:"atc"`
}

type Classification struct {
	Code string `xml:"code,attr"`
}

// LoadExport parses the registry dump. Any structural mismatch is fatal.
func LoadExport(path string) (*Export, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read drug export: %w", err)
	}

	var export Export
	if err := xml.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("failed to parse drug export: %w", err)
	}

	return &export, nil
}
