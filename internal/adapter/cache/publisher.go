package cache

import (
	"context"

	"go.uber.org/zap"

	domain "user-sync/internal/domain/user"
	usecase "user-sync/internal/usecase/user"
)

// Publisher copies store snapshots into a UserMirror from its own goroutine.
// Only the newest pending snapshot is kept, so a slow redis never blocks the store.
type Publisher struct {
	mirror  UserMirror
	log     *zap.Logger
	pending chan []domain.User
}

// NewPublisher creates a Publisher writing to mirror.
func NewPublisher(mirror UserMirror, log *zap.Logger) *Publisher {
	return &Publisher{
		mirror:  mirror,
		log:     log,
		pending: make(chan []domain.User, 1),
	}
}

// Observe is a usecase.Observer. It queues the list after every successful
// change and never blocks.
func (p *Publisher) Observe(ev usecase.Event) {
	if ev.Type != usecase.EventSucceeded || !ev.Changed {
		return
	}

	for {
		select {
		case p.pending <- ev.Snapshot.Users:
			return
		default:
		}
		// Drop the stale snapshot and retry.
		select {
		case <-p.pending:
		default:
		}
	}
}

// Run writes queued snapshots until ctx is done, then flushes the last one.
// Writes are bounded by the redis client timeouts, not by ctx.
func (p *Publisher) Run(ctx context.Context) error {
	for {
		select {
		case users := <-p.pending:
			p.write(ctx, users)
		case <-ctx.Done():
			select {
			case users := <-p.pending:
				p.write(ctx, users)
			default:
			}
			return nil
		}
	}
}

func (p *Publisher) write(ctx context.Context, users []domain.User) {
	if err := p.mirror.ReplaceAll(context.WithoutCancel(ctx), users); err != nil {
		p.log.Warn("failed to mirror user list", zap.Int("count", len(users)), zap.Error(err))
	}
}
