package export

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	supplegen "github.com/Paranoid-AF/supplegen"
	"github.com/Paranoid-AF/supplegen/generate"
)

func TestNewTableReport(t *testing.T) {
	tr := NewTableReport(generate.Stats{
		Kind:          supplegen.KindTransactions,
		Requested:     100,
		Batches:       10,
		FailedBatches: 2,
		Records:       61,
		Dropped:       19,
		Elapsed:       1500 * time.Millisecond,
	})
	assert.Equal(t, "transactions", tr.Kind)
	assert.Equal(t, "transactions.csv", tr.File)
	assert.Equal(t, 61, tr.Records)
	assert.Equal(t, 19, tr.Dropped)
	assert.InDelta(t, 1.5, tr.ElapsedSeconds, 1e-9)
}

func TestWriteReadReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), ReportFile)
	started := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	want := &Report{
		RunID:      "6f1c2b9e-3a5d-4c1e-9b7a-2d4e6f8a0b1c",
		Model:      "meta-llama/Llama-3.2-1B-Instruct",
		BaseURL:    "http://vllm:8000/v1",
		BatchSize:  10,
		StartedAt:  started,
		FinishedAt: started.Add(3 * time.Minute),
		Tables: []TableReport{
			{Kind: "users", File: "users.csv", Requested: 100, Records: 98, Batches: 10},
			{Kind: "products", File: "products.csv", Requested: 1000, Records: 1000, Batches: 100, Interrupted: true},
		},
	}

	require.NoError(t, WriteReport(path, want))
	got, err := ReadReport(path)
	require.NoError(t, err)

	assert.Equal(t, want.RunID, got.RunID)
	assert.Equal(t, want.Model, got.Model)
	assert.True(t, want.StartedAt.Equal(got.StartedAt))
	assert.True(t, want.FinishedAt.Equal(got.FinishedAt))
	assert.Equal(t, want.Tables, got.Tables)
}

func TestReadReportMissing(t *testing.T) {
	_, err := ReadReport(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}
