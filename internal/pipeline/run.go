package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"termxref/internal/config"
	"termxref/internal/drugreg"
	"termxref/internal/export"
	"termxref/internal/merge"
	"termxref/internal/pairs"
	"termxref/internal/snomed"
	"termxref/internal/storage"
	"termxref/internal/umls"
	"termxref/internal/xref"
)

// Runner executes the full reconciliation pipeline: load, filter, resolve,
// extract, merge, project, sample. Stages run strictly sequentially over
// materialized in-memory tables; the first error aborts the run.
type Runner struct {
	cfg *config.Config
	log zerolog.Logger
}

func New(cfg *config.Config, logger zerolog.Logger) *Runner {
	return &Runner{cfg: cfg, log: logger}
}

// inputs holds everything the load stage materializes.
type inputs struct {
	terminology  []umls.ConceptRow
	types        []umls.SemanticType
	labels       map[string]string
	descriptions []snomed.Description
	drugExport   *drugreg.Export
}

func (r *Runner) Run(ctx context.Context) error {
	report := NewRunReport("build", r.cfg.Output.Dir)
	reportPath := filepath.Join(r.cfg.Output.Dir, "run_report.json")
	defer func() {
		if err := report.Save(reportPath); err != nil {
			r.log.Error().Err(err).Msg("failed to save run report")
		}
	}()

	if err := os.MkdirAll(r.cfg.Output.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	// Stage 1: source loading.
	h := report.BeginStage("load")
	in, err := r.loadStage()
	report.EndStage(h, map[string]float64{
		"terminology_rows": float64(len(in.terminology)),
		"type_assignments": float64(len(in.types)),
		"descriptions":     float64(len(in.descriptions)),
	}, err)
	if err != nil {
		return err
	}

	// Stage 2: terminology filter. The TTY-filtered set is kept for the
	// cross-reference and drug stages.
	h = report.BeginStage("filter")
	ttyFiltered := umls.FilterByTermType(in.terminology, r.cfg.TermTypeSet())
	vocabFiltered := umls.FilterByVocabulary(ttyFiltered, r.cfg.VocabularySet())
	report.EndStage(h, map[string]float64{
		"tty_filtered":   float64(len(ttyFiltered)),
		"vocab_filtered": float64(len(vocabFiltered)),
	}, nil)
	r.log.Info().
		Int("tty_filtered", len(ttyFiltered)).
		Int("vocab_filtered", len(vocabFiltered)).
		Msg("terminology filtered")

	// Stage 3: cross-reference resolution. Ambiguous codes are dropped,
	// never guessed.
	h = report.BeginStage("xref")
	snomedMap, snomedAmbiguous := xref.CodeToCUI(ttyFiltered, r.cfg.Xref.SnomedSource)
	atcMap, atcAmbiguous := xref.CodeToCUI(ttyFiltered, r.cfg.Xref.DrugSource)
	report.EndStage(h, map[string]float64{
		"snomed_mappings":  float64(len(snomedMap)),
		"snomed_ambiguous": float64(snomedAmbiguous),
		"atc_mappings":     float64(len(atcMap)),
		"atc_ambiguous":    float64(atcAmbiguous),
	}, nil)
	r.log.Debug().
		Int("snomed_dropped", snomedAmbiguous).
		Int("atc_dropped", atcAmbiguous).
		Msg("ambiguous codes excluded from mappings")

	// Stage 4: drug name extraction.
	h = report.BeginStage("drug_extract")
	drugNames := drugreg.ExtractNames(in.drugExport)
	report.EndStage(h, map[string]float64{
		"products":   float64(len(in.drugExport.Products)),
		"drug_names": float64(len(drugNames)),
	}, nil)

	// Stage 5: concept merge.
	h = report.BeginStage("merge")
	merged := merge.Merge(merge.Inputs{
		Terminology:   vocabFiltered,
		Descriptions:  in.descriptions,
		SnomedMap:     snomedMap,
		DrugNames:     drugNames,
		ATCMap:        atcMap,
		DrugRows:      umls.FilterBySource(ttyFiltered, r.cfg.Xref.DrugSource),
		SemanticTypes: in.types,
		ExcludedTUIs:  r.cfg.ExcludedTypeSet(),
	})
	report.EndStage(h, map[string]float64{"merged_rows": float64(len(merged))}, nil)
	r.log.Info().Int("rows", len(merged)).Msg("concept table merged")

	// Stage 6: output projection.
	h = report.BeginStage("export")
	err = r.exportStage(ctx, merged, in.labels)
	report.EndStage(h, nil, err)
	if err != nil {
		return err
	}

	// Stage 7: pair sampling.
	h = report.BeginStage("pairs")
	pool := pairs.BuildPool(merged, in.terminology, r.cfg.LanguageSet())
	sampler := pairs.NewSampler(r.cfg.Pairs.Cap, r.cfg.Pairs.Seed)
	sampled := sampler.Sample(pool)
	written, err := export.WritePairs(filepath.Join(r.cfg.Output.Dir, r.cfg.Output.Pairs), sampled, r.log)
	report.EndStage(h, map[string]float64{
		"pairs_sampled": float64(len(sampled)),
		"pairs_written": float64(written),
	}, err)
	if err != nil {
		return err
	}
	r.log.Info().Int("pairs", written).Msg("pair output written")

	return nil
}

func (r *Runner) loadStage() (*inputs, error) {
	terminology, err := umls.LoadMRCONSO(r.cfg.Inputs.MRConso, umls.Filters{})
	if err != nil {
		return nil, err
	}

	types, err := umls.LoadMRSTY(r.cfg.Inputs.MRSty)
	if err != nil {
		return nil, err
	}

	labels, err := umls.LoadTypeLabels(r.cfg.Inputs.TypeLabels)
	if err != nil {
		return nil, err
	}

	descriptions, err := snomed.LoadDescriptions(r.cfg.Inputs.SnomedDescriptions)
	if err != nil {
		return nil, err
	}

	drugExport, err := drugreg.LoadExport(r.cfg.Inputs.DrugExport)
	if err != nil {
		return nil, err
	}

	return &inputs{
		terminology:  terminology,
		types:        types,
		labels:       labels,
		descriptions: descriptions,
		drugExport:   drugExport,
	}, nil
}

func (r *Runner) exportStage(ctx context.Context, merged []merge.Row, labels map[string]string) error {
	dir := r.cfg.Output.Dir

	if err := export.WriteConceptTable(filepath.Join(dir, r.cfg.Output.ConceptTable), merged); err != nil {
		return err
	}
	if err := export.WriteNormDB(filepath.Join(dir, r.cfg.Output.NormDB), merged, labels); err != nil {
		return err
	}
	if err := export.WriteGrouped(filepath.Join(dir, r.cfg.Output.Grouped), merged); err != nil {
		return err
	}

	if r.cfg.Output.SQLite != "" {
		store, err := storage.NewSQLiteStore(filepath.Join(dir, r.cfg.Output.SQLite))
		if err != nil {
			return fmt.Errorf("failed to open dictionary database: %w", err)
		}
		defer store.Close()
		if err := store.SaveConcepts(ctx, merged); err != nil {
			return fmt.Errorf("failed to save dictionary database: %w", err)
		}
	}

	return nil
}
