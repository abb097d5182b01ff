package market

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotValidate(t *testing.T) {
	t.Parallel()

	good := Snapshot{Time: time.Now(), Spot: 100, Rate: 0.02, Vol: 0.2, Tau: 0.5}
	assert.NoError(t, good.Validate())

	missing := good
	missing.Time = time.Time{}
	assert.Error(t, missing.Validate())

	nan := good
	nan.Vol = math.NaN()
	assert.Error(t, nan.Validate())

	inf := good
	inf.Spot = math.Inf(1)
	assert.Error(t, inf.Validate())
}

func TestSliceFeedReplaysAndResets(t *testing.T) {
	t.Parallel()

	t0 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	snaps := []Snapshot{
		{Time: t0, Spot: 100, Vol: 0.2, Tau: 0.1},
		{Time: t0.Add(time.Hour), Spot: 101, Vol: 0.2, Tau: 0.05},
	}

	feed := NewSliceFeed(snaps)

	var got []Snapshot
	for {
		s, ok, err := feed.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		got = append(got, s)
	}
	assert.Equal(t, snaps, got)

	// exhausted
	_, ok, err := feed.Next()
	require.NoError(t, err)
	assert.False(t, ok)

	feed.Reset()
	s, ok, err := feed.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, snaps[0], s)
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "path.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestCSVFeed(t *testing.T) {
	t.Parallel()

	path := writeCSV(t, "time,spot,rate,vol,tau\n"+
		"2024-01-02T00:00:00Z,100,0.05,0.2,0.0821917808\n"+
		"2024-01-03T00:00:00Z,101.5,0.05,0.2,0.0794520548\n")

	feed, err := NewCSVFeed(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = feed.Close() })

	s, ok, err := feed.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), s.Time)
	assert.InDelta(t, 100, s.Spot, 1e-12)
	assert.InDelta(t, 0.05, s.Rate, 1e-12)
	assert.InDelta(t, 0.2, s.Vol, 1e-12)
	assert.InDelta(t, 0.0821917808, s.Tau, 1e-12)

	s, ok, err = feed.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 101.5, s.Spot, 1e-12)

	_, ok, err = feed.Next()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCSVFeedNoHeader(t *testing.T) {
	t.Parallel()

	path := writeCSV(t, "2024-01-02T00:00:00Z,100,0,0.2,0.1\n")

	feed, err := NewCSVFeed(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = feed.Close() })

	s, ok, err := feed.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 100, s.Spot, 1e-12)
}

func TestCSVFeedBadRow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{"bad time", "not-a-time,100,0,0.2,0.1\n"},
		{"bad spot", "2024-01-02T00:00:00Z,abc,0,0.2,0.1\n"},
		{"short row", "2024-01-02T00:00:00Z,100,0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			feed, err := NewCSVFeed(writeCSV(t, tt.content))
			require.NoError(t, err)
			t.Cleanup(func() { _ = feed.Close() })

			_, _, err = feed.Next()
			assert.Error(t, err)
		})
	}
}
