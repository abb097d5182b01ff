package market

// Feed yields snapshots one at a time. Implementations should be
// deterministic and return (ok=false, err=nil) at end of data.
type Feed interface {
	Next() (s Snapshot, ok bool, err error)
	Close() error
}

// SliceFeed replays an in-memory snapshot sequence. It is restartable,
// which makes deterministic re-runs trivial in tests.
type SliceFeed struct {
	snaps []Snapshot
	index int
}

func NewSliceFeed(snaps []Snapshot) *SliceFeed {
	return &SliceFeed{snaps: snaps}
}

func (f *SliceFeed) Next() (Snapshot, bool, error) {
	if f.index >= len(f.snaps) {
		return Snapshot{}, false, nil
	}
	s := f.snaps[f.index]
	f.index++
	return s, true, nil
}

// Reset rewinds the feed so the same sequence can be replayed.
func (f *SliceFeed) Reset() { f.index = 0 }

func (f *SliceFeed) Close() error { return nil }
