package market

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotMid(t *testing.T) {
	t.Parallel()

	s := Snapshot{Mids: map[string]float64{"BTC/USD": 50_000, "ZERO": 0}}

	p, ok := s.Mid("BTC/USD")
	assert.True(t, ok)
	assert.InDelta(t, 50_000, p, 1e-9)

	_, ok = s.Mid("ZERO")
	assert.False(t, ok)
	_, ok = s.Mid("MISSING")
	assert.False(t, ok)
}

func TestSliceFeed(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	f := NewSliceFeed([]Snapshot{
		{Time: base, Mids: map[string]float64{"X": 1}},
		{Time: base.Add(time.Minute), Mids: map[string]float64{"X": 2}},
	})

	s, ok, err := f.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, base, s.Time)

	_, ok, err = f.Next()
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = f.Next()
	require.NoError(t, err)
	assert.False(t, ok, "EOF after the slice is drained")
	require.NoError(t, f.Close())
}

func TestCSVRoundTrip(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	want := []Snapshot{
		{Time: base, Mids: map[string]float64{"BTC/USD": 50_000, "ETH/USD": 3_000}},
		{Time: base.Add(time.Minute), Mids: map[string]float64{"BTC/USD": 50_100, "ETH/USD": 2_990}},
		{Time: base.Add(2 * time.Minute), Mids: map[string]float64{"BTC/USD": 50_050}},
	}

	path := filepath.Join(t.TempDir(), "snaps.csv")
	require.NoError(t, WriteCSV(path, want))

	feed, err := NewCSVFeed(path)
	require.NoError(t, err)
	defer feed.Close()

	var got []Snapshot
	for {
		s, ok, err := feed.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		got = append(got, s)
	}

	require.Len(t, got, len(want))
	for i := range want {
		assert.True(t, want[i].Time.Equal(got[i].Time), "snapshot %d time", i)
		assert.Equal(t, want[i].Mids, got[i].Mids, "snapshot %d mids", i)
	}
}

func TestCSVFeedGroupsByTimestamp(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "snaps.csv")
	data := "time,symbol,mid\n" +
		"2025-06-01T12:00:00Z,AAA,1.5\n" +
		"2025-06-01T12:00:00Z,BBB,2.5\n" +
		"2025-06-01T12:01:00Z,AAA,1.6\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	feed, err := NewCSVFeed(path)
	require.NoError(t, err)
	defer feed.Close()

	s, ok, err := feed.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, map[string]float64{"AAA": 1.5, "BBB": 2.5}, s.Mids)

	s, ok, err = feed.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, map[string]float64{"AAA": 1.6}, s.Mids)

	_, ok, err = feed.Next()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCSVFeedBadRow(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "snaps.csv")
	data := "2025-06-01T12:00:00Z,AAA,1.5\n" +
		"2025-06-01T12:01:00Z,AAA,not-a-number\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	feed, err := NewCSVFeed(path)
	require.NoError(t, err)
	defer feed.Close()

	// The bad row surfaces while the reader looks ahead for rows sharing
	// the first timestamp, so the very first Next reports it.
	_, _, err = feed.Next()
	assert.Error(t, err)
}

func TestCSVFeedHeaderless(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "snaps.csv")
	data := "2025-06-01T12:00:00Z,AAA,1.5\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	feed, err := NewCSVFeed(path)
	require.NoError(t, err)
	defer feed.Close()

	s, ok, err := feed.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 1.5, s.Mids["AAA"], 1e-12)
}

func TestGenerateSeriesDeterministic(t *testing.T) {
	t.Parallel()

	cfg := SyntheticConfig{
		Symbols:    map[string]float64{"BTC/USD": 50_000, "ETH/USD": 3_000},
		Steps:      100,
		Drift:      0.0001,
		Volatility: 0.002,
		Seed:       42,
	}

	a := GenerateSeries(cfg)
	b := GenerateSeries(cfg)
	require.Len(t, a, 100)
	assert.Equal(t, a, b, "identical seeds must generate identical series")

	cfg.Seed = 43
	c := GenerateSeries(cfg)
	assert.NotEqual(t, a, c, "different seeds should diverge")
}

func TestGenerateSeriesPricesStayPositive(t *testing.T) {
	t.Parallel()

	snaps := GenerateSeries(SyntheticConfig{
		Symbols:    map[string]float64{"X": 0.001},
		Steps:      500,
		Volatility: 0.5, // violent walk to stress the floor
		Seed:       7,
	})

	for _, s := range snaps {
		assert.Greater(t, s.Mids["X"], 0.0)
	}
}

func TestGenerateSeriesEmptyInputs(t *testing.T) {
	t.Parallel()

	assert.Nil(t, GenerateSeries(SyntheticConfig{Steps: 10}))
	assert.Nil(t, GenerateSeries(SyntheticConfig{Symbols: map[string]float64{"X": 1}}))
}

func TestChannelFeedOrdering(t *testing.T) {
	t.Parallel()

	feed := NewChannelFeed(2)
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	go func() {
		for i := 0; i < 5; i++ {
			_ = feed.Push(context.Background(), Snapshot{
				Time: base.Add(time.Duration(i) * time.Second),
				Mids: map[string]float64{"X": float64(i)},
			})
		}
		feed.CloseSend()
	}()

	for i := 0; i < 5; i++ {
		s, ok, err := feed.Next()
		require.NoError(t, err)
		require.True(t, ok)
		assert.InDelta(t, float64(i), s.Mids["X"], 1e-12)
	}

	_, ok, err := feed.Next()
	require.NoError(t, err)
	assert.False(t, ok, "EOF after CloseSend drains")
}

func TestChannelFeedCloseUnblocksProducer(t *testing.T) {
	t.Parallel()

	feed := NewChannelFeed(1)
	require.NoError(t, feed.Push(context.Background(), Snapshot{Mids: map[string]float64{"X": 1}}))

	pushed := make(chan error, 1)
	go func() {
		// Buffer is full; this blocks until the consumer closes.
		pushed <- feed.Push(context.Background(), Snapshot{Mids: map[string]float64{"X": 2}})
	}()

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, feed.Close())

	select {
	case err := <-pushed:
		assert.ErrorIs(t, err, ErrFeedClosed)
	case <-time.After(time.Second):
		t.Fatal("producer still blocked after Close")
	}
}

func TestChannelFeedPushContextCancel(t *testing.T) {
	t.Parallel()

	feed := NewChannelFeed(1)
	require.NoError(t, feed.Push(context.Background(), Snapshot{Mids: map[string]float64{"X": 1}}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := feed.Push(ctx, Snapshot{Mids: map[string]float64{"X": 2}})
	assert.ErrorIs(t, err, context.Canceled)
}
