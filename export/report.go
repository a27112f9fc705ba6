package export

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/Paranoid-AF/supplegen/generate"
)

// ReportFile is the name of the run report inside the output directory.
const ReportFile = "run.toml"

// Report summarizes one generation run.
type Report struct {
	RunID      string        `toml:"run_id"`
	Model      string        `toml:"model"`
	BaseURL    string        `toml:"base_url"`
	BatchSize  int           `toml:"batch_size"`
	StartedAt  time.Time     `toml:"started_at"`
	FinishedAt time.Time     `toml:"finished_at"`
	Tables     []TableReport `toml:"tables"`
}

// TableReport summarizes the generation of one table.
type TableReport struct {
	Kind           string  `toml:"kind"`
	File           string  `toml:"file"`
	Requested      int     `toml:"requested"`
	Records        int     `toml:"records"`
	Batches        int     `toml:"batches"`
	FailedBatches  int     `toml:"failed_batches"`
	Dropped        int     `toml:"dropped"`
	Skipped        int     `toml:"skipped"`
	Duplicates     int     `toml:"duplicates"`
	Interrupted    bool    `toml:"interrupted,omitempty"`
	ElapsedSeconds float64 `toml:"elapsed_seconds"`
}

// NewTableReport converts generation stats into a report entry.
func NewTableReport(stats generate.Stats) TableReport {
	return TableReport{
		Kind:           string(stats.Kind),
		File:           FileName(stats.Kind),
		Requested:      stats.Requested,
		Records:        stats.Records,
		Batches:        stats.Batches,
		FailedBatches:  stats.FailedBatches,
		Dropped:        stats.Dropped,
		Skipped:        stats.Skipped,
		Duplicates:     stats.Duplicates,
		Interrupted:    stats.Interrupted,
		ElapsedSeconds: stats.Elapsed.Round(time.Millisecond).Seconds(),
	}
}

// WriteReport encodes r as TOML to path.
func WriteReport(path string, r *Report) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(r); err != nil {
		f.Close()
		return fmt.Errorf("encode report: %w", err)
	}
	return f.Close()
}

// ReadReport decodes a report written by WriteReport.
func ReadReport(path string) (*Report, error) {
	var r Report
	if _, err := toml.DecodeFile(path, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
