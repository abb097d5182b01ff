package journal

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) (*SQLiteJournal, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "journal.db")

	j, err := NewSQLite(path)
	require.NoError(t, err)

	return j, path
}

func sampleStep(runID string, seq int) StepRow {
	return StepRow{
		RunID:         runID,
		Seq:           seq,
		Time:          time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC).Add(time.Duration(seq) * 24 * time.Hour),
		Spot:          100.5,
		FairValue:     2.2871,
		Delta:         0.5114,
		Shares:        0.5114,
		OptionQty:     -1,
		Cash:          10051.16,
		RealizedPnL:   0,
		UnrealizedPnL: -0.02,
		TradeQty:      0.5114,
		TradeCost:     0.01,
	}
}

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)
	assert.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table' AND name IN ('runs','steps')`)
	require.NoError(t, err)
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		found[name] = true
	}
	require.NoError(t, rows.Err())

	assert.True(t, found["runs"])
	assert.True(t, found["steps"])
}

func TestSQLiteRecordAndListSteps(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	for seq := 0; seq < 3; seq++ {
		require.NoError(t, j.RecordStep(sampleStep("RUN1", seq)))
	}
	require.NoError(t, j.RecordStep(sampleStep("RUN2", 0)))

	steps, err := j.ListSteps("RUN1")
	require.NoError(t, err)
	require.Len(t, steps, 3)

	for i, s := range steps {
		assert.Equal(t, "RUN1", s.RunID)
		assert.Equal(t, i, s.Seq)
		assert.InDelta(t, 2.2871, s.FairValue, 1e-12)
		assert.InDelta(t, -1, s.OptionQty, 1e-12)
	}
}

func TestSQLiteRecordAndListRuns(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	created := time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC)
	require.NoError(t, j.RecordRun(RunRow{
		RunID:         "01ARZ000",
		Created:       created,
		Policy:        "threshold",
		State:         "completed",
		Steps:         31,
		TotalPnL:      1.25,
		PnLVolatility: 0.08,
		MaxDrawdown:   0.4,
		Turnover:      3.7,
		TotalCost:     0.12,
		ReturnRatio:   1.9,
	}))
	require.NoError(t, j.RecordRun(RunRow{RunID: "01ARZ001", Created: created, Policy: "periodic", State: "aborted"}))

	runs, err := j.ListRuns()
	require.NoError(t, err)
	require.Len(t, runs, 2)

	assert.Equal(t, "01ARZ000", runs[0].RunID)
	assert.Equal(t, "threshold", runs[0].Policy)
	assert.Equal(t, 31, runs[0].Steps)
	assert.InDelta(t, 1.25, runs[0].TotalPnL, 1e-12)
	assert.Equal(t, "aborted", runs[1].State)
}

func TestSQLiteDuplicateRunIDRejected(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	require.NoError(t, j.RecordRun(RunRow{RunID: "DUP", Created: time.Now(), Policy: "periodic", State: "completed"}))
	assert.Error(t, j.RecordRun(RunRow{RunID: "DUP", Created: time.Now(), Policy: "periodic", State: "completed"}))
}
