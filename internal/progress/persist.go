package progress

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/M94KO/MrEdesPlayground/internal/model"
	"github.com/M94KO/MrEdesPlayground/internal/store"
)

var errPersisterClosed = errors.New("persister closed")

// persister writes full-state snapshots in the background.
// Only the newest pending snapshot is kept, so the last write wins.
type persister struct {
	kv  store.KV
	key string
	log *zap.Logger

	pending chan model.UserProgress
	flushes chan chan struct{}
	quit    chan struct{}
	done    chan struct{}
	once    sync.Once
}

func newPersister(kv store.KV, key string, log *zap.Logger) *persister {
	p := &persister{
		kv:      kv,
		key:     key,
		log:     log,
		pending: make(chan model.UserProgress, 1),
		flushes: make(chan chan struct{}),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go p.run()
	return p
}

// enqueue replaces any snapshot still waiting to be written.
// Callers serialize enqueue themselves.
func (p *persister) enqueue(state model.UserProgress) {
	for {
		select {
		case p.pending <- state:
			return
		default:
		}
		select {
		case <-p.pending:
		default:
		}
	}
}

func (p *persister) run() {
	defer close(p.done)
	for {
		select {
		case state := <-p.pending:
			p.write(state)
		case ack := <-p.flushes:
			p.drain()
			close(ack)
		case <-p.quit:
			p.drain()
			return
		}
	}
}

func (p *persister) drain() {
	select {
	case state := <-p.pending:
		p.write(state)
	default:
	}
}

func (p *persister) write(state model.UserProgress) {
	ctx := context.Background()
	payload, err := json.Marshal(state)
	if err != nil {
		p.log.Error("failed to encode progress", zap.String("key", p.key), zap.Error(err))
		return
	}
	if err := p.kv.Set(ctx, p.key, string(payload)); err != nil {
		p.log.Error("failed to save progress", zap.String("key", p.key), zap.Error(err))
		if rerr := p.kv.Remove(ctx, p.key); rerr != nil {
			p.log.Error("failed to clear storage after save failure", zap.String("key", p.key), zap.Error(rerr))
			return
		}
		p.log.Warn("cleared storage after save failure", zap.String("key", p.key))
	}
}

// flush blocks until every snapshot enqueued before the call is written.
func (p *persister) flush(ctx context.Context) error {
	ack := make(chan struct{})
	select {
	case p.flushes <- ack:
	case <-p.done:
		return errPersisterClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-ack:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *persister) close() {
	p.once.Do(func() {
		close(p.quit)
	})
	<-p.done
}
