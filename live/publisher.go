package live

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync/atomic"
	"time"
)

// Publisher accepts updates from the write path. Publish never blocks and never fails.
type Publisher interface {
	Publish(u Update)
}

// Sink receives encoded updates in emission order.
type Sink interface {
	Deliver(ctx context.Context, payload []byte) error
}

const sinkTimeout = 2 * time.Second

// AsyncPublisher queues updates and drains them from a single goroutine, so updates of a
// serialized game leave in the order they were published.
type AsyncPublisher struct {
	queue   chan Update
	sinks   []Sink
	logger  *slog.Logger
	dropped atomic.Int64
}

func NewAsyncPublisher(buffer int, logger *slog.Logger, sinks ...Sink) *AsyncPublisher {
	if buffer <= 0 {
		buffer = 256
	}
	return &AsyncPublisher{
		queue:  make(chan Update, buffer),
		sinks:  sinks,
		logger: logger,
	}
}

func (p *AsyncPublisher) Publish(u Update) {
	select {
	case p.queue <- u:
	default:
		n := p.dropped.Add(1)
		p.logger.Warn("broadcast queue full, update dropped",
			slog.String("kind", u.Kind), slog.Int("game_id", u.GameID), slog.Int64("dropped_total", n))
	}
}

// Dropped is the number of updates lost to a full queue since start.
func (p *AsyncPublisher) Dropped() int64 {
	return p.dropped.Load()
}

// Run drains the queue until ctx is cancelled.
func (p *AsyncPublisher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case u := <-p.queue:
			p.deliver(ctx, u)
		}
	}
}

func (p *AsyncPublisher) deliver(ctx context.Context, u Update) {
	payload, err := json.Marshal(u)
	if err != nil {
		p.logger.Error("failed to encode update", slog.String("kind", u.Kind), slog.Int("game_id", u.GameID), slog.Any("error", err))
		return
	}
	for _, sink := range p.sinks {
		sinkCtx, cancel := context.WithTimeout(ctx, sinkTimeout)
		if err := sink.Deliver(sinkCtx, payload); err != nil {
			p.logger.Warn("broadcast sink failed", slog.String("kind", u.Kind), slog.Int("game_id", u.GameID), slog.Any("error", err))
		}
		cancel()
	}
}
