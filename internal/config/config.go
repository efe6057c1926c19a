package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Inputs struct {
		MRConso            string `yaml:"mrconso"`
		MRSty              string `yaml:"mrsty"`
		TypeLabels         string `yaml:"type_labels"`
		SnomedDescriptions string `yaml:"snomed_descriptions"`
		DrugExport         string `yaml:"drug_export"`
	} `yaml:"inputs"`

	Output struct {
		Dir          string `yaml:"dir"`
		ConceptTable string `yaml:"concept_table"`
		NormDB       string `yaml:"norm_db"`
		Grouped      string `yaml:"grouped"`
		Pairs        string `yaml:"pairs"`
		SQLite       string `yaml:"sqlite"` // optional dictionary DB, empty disables it
	} `yaml:"output"`

	Filter struct {
		Vocabularies  []string `yaml:"vocabularies"`
		TermTypes     []string `yaml:"term_types"`
		ExcludedTypes []string `yaml:"excluded_types"`
	} `yaml:"filter"`

	Xref struct {
		SnomedSource string `yaml:"snomed_source"` // SAB carrying the clinical ontology codes
		DrugSource   string `yaml:"drug_source"`   // SAB carrying the therapeutic classification codes
	} `yaml:"xref"`

	Pairs struct {
		Languages []string `yaml:"languages"`
		Cap       int      `yaml:"cap"`
		Seed      int64    `yaml:"seed"`
	} `yaml:"pairs"`
}

func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	// 2. Load YAML config
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(file, &cfg); err != nil {
		return nil, err
	}

	// 3. Override with Environment Variables if present
	if dir := os.Getenv("TERMXREF_OUTPUT_DIR"); dir != "" {
		cfg.Output.Dir = dir
	}
	if seed := os.Getenv("TERMXREF_PAIR_SEED"); seed != "" {
		v, err := strconv.ParseInt(seed, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TERMXREF_PAIR_SEED: %w", err)
		}
		cfg.Pairs.Seed = v
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Output.Dir == "" {
		c.Output.Dir = "out"
	}
	if c.Output.ConceptTable == "" {
		c.Output.ConceptTable = "concepts.csv"
	}
	if c.Output.NormDB == "" {
		c.Output.NormDB = "norm_db.txt"
	}
	if c.Output.Grouped == "" {
		c.Output.Grouped = "concepts_grouped.csv"
	}
	if c.Output.Pairs == "" {
		c.Output.Pairs = "name_pairs.txt"
	}
	if len(c.Filter.TermTypes) == 0 {
		c.Filter.TermTypes = []string{"PT", "MH", "ET", "SY"}
	}
	if len(c.Filter.ExcludedTypes) == 0 {
		c.Filter.ExcludedTypes = []string{"T001", "T002", "T078", "T083", "T092"}
	}
	if c.Xref.SnomedSource == "" {
		c.Xref.SnomedSource = "SNOMEDCT_US"
	}
	if c.Xref.DrugSource == "" {
		c.Xref.DrugSource = "ATC"
	}
	if c.Pairs.Cap == 0 {
		c.Pairs.Cap = 50
	}
}

func (c *Config) validate() error {
	if len(c.Filter.Vocabularies) == 0 {
		return fmt.Errorf("filter.vocabularies must not be empty")
	}
	if c.Pairs.Cap < 0 {
		return fmt.Errorf("pairs.cap must not be negative")
	}
	return nil
}

// TermTypeSet returns the approved term types as a lookup set.
func (c *Config) TermTypeSet() map[string]bool {
	return toSet(c.Filter.TermTypes)
}

// VocabularySet returns the source-vocabulary allow-list as a lookup set.
func (c *Config) VocabularySet() map[string]bool {
	return toSet(c.Filter.Vocabularies)
}

// ExcludedTypeSet returns the excluded semantic types as a lookup set.
func (c *Config) ExcludedTypeSet() map[string]bool {
	return toSet(c.Filter.ExcludedTypes)
}

// LanguageSet returns the pair-generation language allow-list as a lookup set.
func (c *Config) LanguageSet() map[string]bool {
	return toSet(c.Pairs.Languages)
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
