package drugreg

import (
	"regexp"
	"strings"
)

// DrugName is one extracted (product name, therapeutic code) row.
type DrugName struct {
	Name string
	ATC  string
}

var (
	// Head of the name up to but excluding the first digit. Drops embedded
	// dosage and strength tokens ("Paracetamol 500mg ..." -> "Paracetamol ").
	leadingTextRe = regexp.MustCompile(`^[^0-9]*`)

	// Trailing parenthetical qualifier ("... (generic)").
	parentheticalRe = regexp.MustCompile(`\s*\([^)]*\)\s*$`)
)

// ExtractNames walks every product in the export and extracts its cleaned
// display names with the product's classification code.
//
// A product contributes nothing unless all of its packaging children agree on
// exactly one classification code: zero codes or more than one distinct code
// excludes the product. The check is order-independent. Within a product,
// names deduplicate case-sensitively in first-seen order; the final table is
// additionally deduplicated on exact (name, code) rows across products.
func ExtractNames(export *Export) []DrugName {
	var out []DrugName
	seenGlobal := make(map[DrugName]bool)

	for _, product := range export.Products {
		code, ok := classificationCode(product)
		if !ok {
			continue
		}

		seenLocal := make(map[string]bool)
		for _, name := range product.Names {
			cleaned := TrimDosage(name.Value)
			if cleaned == "" || seenLocal[cleaned] {
				continue
			}
			seenLocal[cleaned] = true

			row := DrugName{Name: cleaned, ATC: code}
			if seenGlobal[row] {
				continue
			}
			seenGlobal[row] = true
			out = append(out, row)
		}
	}

	return out
}

// classificationCode returns the product's single classification code. It
// collects the distinct codes across all packaging children first, so the
// outcome never depends on scan order.
func classificationCode(product Product) (string, bool) {
	distinct := make(map[string]bool)
	var code string
	for _, pkg := range product.Packages {
		if pkg.ATC == nil || pkg.ATC.Code == "" {
			continue
		}
		distinct[pkg.ATC.Code] = true
		code = pkg.ATC.Code
	}
	if len(distinct) != 1 {
		return "", false
	}
	return code, true
}

// TrimDosage reduces a display name to its head portion: text before the
// first digit, minus any trailing parenthetical, minus trailing whitespace.
func TrimDosage(name string) string {
	head := leadingTextRe.FindString(name)
	head = parentheticalRe.ReplaceAllString(head, "")
	return strings.TrimRight(head, " \t")
}
