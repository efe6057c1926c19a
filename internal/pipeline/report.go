package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// RunReport records per-stage metrics of one pipeline invocation and is
// written next to the outputs as run_report.json.
type RunReport struct {
	Version     string        `json:"version"`
	Mode        string        `json:"mode"`
	GeneratedAt string        `json:"generated_at"`
	OutputDir   string        `json:"output_dir"`
	Stages      []StageMetric `json:"stages"`
	Summary     ReportSummary `json:"summary"`
}

type StageMetric struct {
	Name       string             `json:"name"`
	Status     string             `json:"status"`
	StartedAt  string             `json:"started_at"`
	FinishedAt string             `json:"finished_at"`
	DurationMS int64              `json:"duration_ms"`
	Counters   map[string]float64 `json:"counters,omitempty"`
	Error      string             `json:"error,omitempty"`
}

type ReportSummary struct {
	StageCount   int `json:"stage_count"`
	FailedStages int `json:"failed_stages"`
}

type StageHandle struct {
	name    string
	started time.Time
}

func NewRunReport(mode, outputDir string) *RunReport {
	return &RunReport{
		Version:     "v1",
		Mode:        mode,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		OutputDir:   outputDir,
		Stages:      []StageMetric{},
	}
}

func (r *RunReport) BeginStage(name string) StageHandle {
	return StageHandle{name: strings.TrimSpace(name), started: time.Now().UTC()}
}

func (r *RunReport) EndStage(h StageHandle, counters map[string]float64, err error) {
	if r == nil || h.name == "" {
		return
	}
	finished := time.Now().UTC()
	m := StageMetric{
		Name:       h.name,
		Status:     "ok",
		StartedAt:  h.started.Format(time.RFC3339Nano),
		FinishedAt: finished.Format(time.RFC3339Nano),
		DurationMS: finished.Sub(h.started).Milliseconds(),
		Counters:   cleanCounters(counters),
	}
	if err != nil {
		m.Status = "error"
		m.Error = err.Error()
	}
	r.Stages = append(r.Stages, m)
}

// Save finalizes the summary and writes the report as JSON.
func (r *RunReport) Save(path string) error {
	r.Summary = ReportSummary{StageCount: len(r.Stages)}
	for _, s := range r.Stages {
		if s.Status != "ok" {
			r.Summary.FailedStages++
		}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func cleanCounters(counters map[string]float64) map[string]float64 {
	if len(counters) == 0 {
		return nil
	}
	out := make(map[string]float64, len(counters))
	for k, v := range counters {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		out[k] = v
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
