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

// CSVFeed replays snapshots from a CSV file with rows of
//
//	time,symbol,mid
//
// Consecutive rows sharing a timestamp are grouped into a single snapshot.
// A header row is detected and skipped.
type CSVFeed struct {
	f       *os.File
	r       *csv.Reader
	pending *csvRow
	started bool
}

type csvRow struct {
	t   time.Time
	sym string
	mid float64
}

func NewCSVFeed(path string) (*CSVFeed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot csv: %w", err)
	}
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	return &CSVFeed{f: f, r: r}, nil
}

func (c *CSVFeed) Next() (Snapshot, bool, error) {
	first := c.pending
	c.pending = nil

	for first == nil {
		rec, err := c.r.Read()
		if err == io.EOF {
			return Snapshot{}, false, nil
		}
		if err != nil {
			return Snapshot{}, false, err
		}

		row, ok, err := parseSnapshotRow(rec)
		if err != nil {
			if !c.started {
				// header row
				c.started = true
				continue
			}
			return Snapshot{}, false, err
		}
		c.started = true
		if !ok {
			continue
		}
		first = &row
	}

	snap := Snapshot{
		Time: first.t,
		Mids: map[string]float64{first.sym: first.mid},
	}

	// Absorb subsequent rows with the same timestamp.
	for {
		rec, err := c.r.Read()
		if err == io.EOF {
			return snap, true, nil
		}
		if err != nil {
			return Snapshot{}, false, err
		}

		row, ok, err := parseSnapshotRow(rec)
		if err != nil {
			return Snapshot{}, false, err
		}
		if !ok {
			continue
		}
		if !row.t.Equal(snap.Time) {
			c.pending = &row
			return snap, true, nil
		}
		snap.Mids[row.sym] = row.mid
	}
}

func (c *CSVFeed) Close() error { return c.f.Close() }

// parseSnapshotRow parses one time,symbol,mid row. Rows that are empty or
// too short are skipped (ok=false); rows with unparseable fields are errors.
func parseSnapshotRow(rec []string) (csvRow, bool, error) {
	if len(rec) < 3 {
		return csvRow{}, false, nil
	}

	ts := strings.TrimSpace(rec[0])
	sym := strings.TrimSpace(rec[1])
	midStr := strings.TrimSpace(rec[2])

	if ts == "" || sym == "" {
		return csvRow{}, false, nil
	}

	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return csvRow{}, false, fmt.Errorf("parse timestamp %q: %w", ts, err)
	}

	mid, err := strconv.ParseFloat(midStr, 64)
	if err != nil {
		return csvRow{}, false, fmt.Errorf("parse mid %q: %w", midStr, err)
	}

	return csvRow{t: t, sym: sym, mid: mid}, true, nil
}

// WriteCSV writes snapshots in the format NewCSVFeed reads. Symbols within
// each snapshot are written in sorted order so output is deterministic.
func WriteCSV(path string, snaps []Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"time", "symbol", "mid"}); err != nil {
		return err
	}

	for _, s := range snaps {
		for _, sym := range sortedSymbols(s.Mids) {
			err := w.Write([]string{
				s.Time.UTC().Format(time.RFC3339Nano),
				sym,
				strconv.FormatFloat(s.Mids[sym], 'f', -1, 64),
			})
			if err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}
