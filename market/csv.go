package market

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// CSVFeed reads canonical snapshot CSV rows:
//
//	time,spot,rate,vol,tau
//
// where time is RFC3339 or RFC3339Nano. A header row ("time,...") is
// allowed; empty rows are skipped.
type CSVFeed struct {
	f *os.File
	r *csv.Reader

	sawFirst bool
}

func NewCSVFeed(path string) (*CSVFeed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	return &CSVFeed{f: f, r: r}, nil
}

func (f *CSVFeed) Close() error {
	if f.f != nil {
		return f.f.Close()
	}
	return nil
}

func (f *CSVFeed) Next() (Snapshot, bool, error) {
	for {
		row, err := f.r.Read()
		if err == io.EOF {
			return Snapshot{}, false, nil
		}
		if err != nil {
			return Snapshot{}, false, err
		}
		if len(row) == 0 {
			continue
		}

		// Allow a single header row
		if !f.sawFirst {
			f.sawFirst = true
			if strings.EqualFold(strings.TrimSpace(row[0]), "time") {
				continue
			}
		}

		s, err := parseSnapshotRow(row)
		if err != nil {
			return Snapshot{}, false, err
		}
		return s, true, nil
	}
}

func parseSnapshotRow(row []string) (Snapshot, error) {
	if len(row) < 5 {
		return Snapshot{}, fmt.Errorf("bad row (need time,spot,rate,vol,tau): %v", row)
	}

	ts := strings.TrimSpace(row[0])
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		t2, err2 := time.Parse(time.RFC3339Nano, ts)
		if err2 != nil {
			return Snapshot{}, fmt.Errorf("bad time %q: %w", ts, err)
		}
		t = t2
	}

	vals := make([]float64, 4)
	names := []string{"spot", "rate", "vol", "tau"}
	for i, name := range names {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[i+1]), 64)
		if err != nil {
			return Snapshot{}, fmt.Errorf("bad %s %q: %w", name, row[i+1], err)
		}
		vals[i] = v
	}

	return Snapshot{Time: t, Spot: vals[0], Rate: vals[1], Vol: vals[2], Tau: vals[3]}, nil
}
