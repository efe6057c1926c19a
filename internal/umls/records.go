package umls

// ConceptRow is one MRCONSO.RRF record: a single surface form asserted for a
// concept by a source vocabulary.
type ConceptRow struct {
	CUI      string // Concept Unique Identifier
	LAT      string // Language
	TS       string // Term status
	LUI      string // Lexical Unique Identifier
	STT      string // String type
	SUI      string // String Unique Identifier
	ISPREF   string // Preferred term indicator
	AUI      string // Atom Unique Identifier
	SAUI     string // Source atom identifier
	SCUI     string // Source concept identifier
	SDUI     string // Source descriptor identifier
	SAB      string // Source abbreviation (vocabulary)
	TTY      string // Term type
	CODE     string // Code in source vocabulary
	STR      string // String/term text
	SRL      string // Source restriction level
	SUPPRESS string // Suppression status
	CVF      string // Content view flag
}

// SemanticType is one MRSTY.RRF record: a semantic-type assignment for a
// concept. A concept may carry several.
type SemanticType struct {
	CUI  string // Concept Unique Identifier
	TUI  string // Type Unique Identifier
	STN  string // Semantic type tree number
	STY  string // Semantic type name
	ATUI string // Attribute type unique identifier
	CVF  string // Content view flag
}
