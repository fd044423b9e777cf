package market

import "time"

// Snapshot is one step of market data: a timestamp plus a mapping from
// symbol to a representative mid price.
type Snapshot struct {
	Time time.Time
	Mids map[string]float64
}

// Mid returns the mid price for a symbol. A missing or zero price is
// reported as absent so strategies can skip the step instead of trading
// on bad data.
func (s Snapshot) Mid(symbol string) (float64, bool) {
	p, ok := s.Mids[symbol]
	if !ok || p == 0 {
		return 0, false
	}
	return p, true
}

// Feed yields market snapshots one at a time, in time order.
// Implementations should be deterministic and return (ok=false, err=nil) at EOF.
type Feed interface {
	Next() (Snapshot, bool, error)
	Close() error
}

// SliceFeed replays an in-memory snapshot sequence. Useful for tests and
// programmatic runs.
type SliceFeed struct {
	snaps []Snapshot
	idx   int
}

func NewSliceFeed(snaps []Snapshot) *SliceFeed {
	return &SliceFeed{snaps: snaps}
}

func (f *SliceFeed) Next() (Snapshot, bool, error) {
	if f.idx >= len(f.snaps) {
		return Snapshot{}, false, nil
	}
	s := f.snaps[f.idx]
	f.idx++
	return s, true, nil
}

func (f *SliceFeed) Close() error { return nil }
