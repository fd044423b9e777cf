package market

import (
	"context"
	"errors"
	"sync"
)

// ErrFeedClosed is returned by Push after the consumer has closed the feed.
var ErrFeedClosed = errors.New("market: feed closed")

// ChannelFeed bridges a live snapshot producer to the Feed contract through
// a bounded channel. Exactly one producer goroutine calls Push/CloseSend and
// exactly one consumer drains Next. Push blocks while the buffer is full,
// which is the backpressure boundary between connector and driver.
type ChannelFeed struct {
	ch        chan Snapshot
	done      chan struct{}
	sendOnce  sync.Once
	closeOnce sync.Once
}

func NewChannelFeed(buffer int) *ChannelFeed {
	if buffer < 1 {
		buffer = 1
	}
	return &ChannelFeed{
		ch:   make(chan Snapshot, buffer),
		done: make(chan struct{}),
	}
}

// Push enqueues a snapshot, blocking while the buffer is full.
func (f *ChannelFeed) Push(ctx context.Context, s Snapshot) error {
	select {
	case <-f.done:
		return ErrFeedClosed
	case <-ctx.Done():
		return ctx.Err()
	case f.ch <- s:
		return nil
	}
}

// CloseSend signals end of stream. Next drains buffered snapshots and then
// reports EOF.
func (f *ChannelFeed) CloseSend() {
	f.sendOnce.Do(func() { close(f.ch) })
}

func (f *ChannelFeed) Next() (Snapshot, bool, error) {
	select {
	case <-f.done:
		return Snapshot{}, false, nil
	case s, ok := <-f.ch:
		if !ok {
			return Snapshot{}, false, nil
		}
		return s, true, nil
	}
}

// Close stops the consumer side; subsequent Push calls fail with
// ErrFeedClosed instead of blocking forever.
func (f *ChannelFeed) Close() error {
	f.closeOnce.Do(func() { close(f.done) })
	return nil
}
