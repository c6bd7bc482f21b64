package user

import (
	"context"
	"slices"
	"sync"

	"go.uber.org/zap"

	domain "user-sync/internal/domain/user"
	apperrors "user-sync/pkg/errors"
	"user-sync/pkg/logger"
)

// Store owns the in-memory list of users shown to the presentation layer.
// Each public operation issues exactly one remote call and reconciles the
// outcome once it is known; nothing is applied optimistically.
//
// The list has a single writer: all mutations happen under mu, and events are
// delivered under emitMu in the order the mutations were applied.
type Store struct {
	remote RemoteService
	log    *zap.Logger

	mu       sync.RWMutex
	users    []domain.User
	inflight int

	emitMu    sync.Mutex
	observers []subscription
	nextSubID uint64
}

type subscription struct {
	id uint64
	fn Observer
}

var _ StateStore = (*Store)(nil)

// NewStore creates an empty Store backed by remote.
func NewStore(remote RemoteService, log *zap.Logger) *Store {
	return &Store{
		remote: remote,
		log:    log,
		users:  []domain.User{},
	}
}

// Users returns a copy of the current list.
func (s *Store) Users() []domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.users)
}

// Loading reports whether any operation is outstanding.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inflight > 0
}

// Snapshot returns the list and loading flag read atomically.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Subscribe registers fn for every subsequent event.
func (s *Store) Subscribe(fn Observer) (unsubscribe func()) {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.nextSubID++
	id := s.nextSubID
	s.observers = append(s.observers, subscription{id: id, fn: fn})

	return func() {
		s.emitMu.Lock()
		defer s.emitMu.Unlock()
		s.observers = slices.DeleteFunc(s.observers, func(sub subscription) bool {
			return sub.id == id
		})
	}
}

// FetchUsers replaces the whole list with the remote list.
func (s *Store) FetchUsers(ctx context.Context) error {
	log := logger.WithContext(ctx, s.log)
	log.Info("fetching users")

	s.begin(OpFetch)

	users, err := s.remote.ListUsers(ctx)
	if err != nil {
		s.fail(ctx, OpFetch, err)
		return err
	}

	s.complete(OpFetch, func(_ []domain.User) ([]domain.User, bool) {
		if users == nil {
			return []domain.User{}, true
		}
		return slices.Clone(users), true
	})

	log.Info("users fetched", zap.Int("count", len(users)))
	return nil
}

// CreateUser sends the provisional user and appends the server's version.
func (s *Store) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	log := logger.WithContext(ctx, s.log)
	log.Info("creating user", zap.Int64("provisional_id", u.ID), zap.String("username", u.Username))

	s.begin(OpCreate)

	created, err := s.remote.CreateUser(ctx, u)
	if err != nil {
		s.fail(ctx, OpCreate, err)
		return domain.User{}, err
	}

	s.complete(OpCreate, func(cur []domain.User) ([]domain.User, bool) {
		return append(cur, created), true
	})

	log.Info("user created", zap.Int64("id", created.ID))
	return created, nil
}

// UpdateUser sends u and replaces the first entry with the returned id.
// When no entry matches, the update is dropped without inserting.
func (s *Store) UpdateUser(ctx context.Context, u domain.User) (domain.User, error) {
	log := logger.WithContext(ctx, s.log)
	log.Info("updating user", zap.Int64("id", u.ID))

	s.begin(OpUpdate)

	updated, err := s.remote.UpdateUser(ctx, u)
	if err != nil {
		s.fail(ctx, OpUpdate, err)
		return domain.User{}, err
	}

	applied := false
	s.complete(OpUpdate, func(cur []domain.User) ([]domain.User, bool) {
		i := indexOf(cur, updated.ID)
		if i < 0 {
			return cur, false
		}
		cur[i] = updated
		applied = true
		return cur, true
	})

	if !applied {
		log.Debug("updated user not in list, dropped", zap.Int64("id", updated.ID))
	} else {
		log.Info("user updated", zap.Int64("id", updated.ID))
	}
	return updated, nil
}

// DeleteUser deletes u remotely and removes the first entry with its id.
func (s *Store) DeleteUser(ctx context.Context, u domain.User) error {
	log := logger.WithContext(ctx, s.log)
	log.Info("deleting user", zap.Int64("id", u.ID))

	s.begin(OpDelete)

	if err := s.remote.DeleteUser(ctx, u.ID); err != nil {
		s.fail(ctx, OpDelete, err)
		return err
	}

	s.complete(OpDelete, func(cur []domain.User) ([]domain.User, bool) {
		i := indexOf(cur, u.ID)
		if i < 0 {
			return cur, false
		}
		return slices.Delete(cur, i, i+1), true
	})

	log.Info("user deleted", zap.Int64("id", u.ID))
	return nil
}

func (s *Store) begin(op string) {
	s.mu.Lock()
	s.inflight++
	ev := Event{Type: EventStarted, Op: op, Snapshot: s.snapshotLocked()}
	s.emitLocked(ev)
}

// complete applies reconcile and clears this operation's loading mark in one step.
func (s *Store) complete(op string, reconcile func(cur []domain.User) ([]domain.User, bool)) {
	s.mu.Lock()
	users, changed := reconcile(s.users)
	s.users = users
	s.inflight--
	ev := Event{Type: EventSucceeded, Op: op, Changed: changed, Snapshot: s.snapshotLocked()}
	s.emitLocked(ev)
}

func (s *Store) fail(ctx context.Context, op string, err error) {
	logger.WithContext(ctx, s.log).Error("remote user call failed",
		zap.String("op", op),
		zap.String("kind", apperrors.KindOf(err).String()),
		zap.Error(err),
	)

	s.mu.Lock()
	s.inflight--
	ev := Event{Type: EventFailed, Op: op, Err: err, Snapshot: s.snapshotLocked()}
	s.emitLocked(ev)
}

// emitLocked must be entered with mu held. It hands over from mu to emitMu so
// observers see events in mutation order without blocking readers.
func (s *Store) emitLocked(ev Event) {
	s.emitMu.Lock()
	s.mu.Unlock()
	defer s.emitMu.Unlock()

	for _, sub := range s.observers {
		sub.fn(ev)
	}
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Users:   slices.Clone(s.users),
		Loading: s.inflight > 0,
	}
}

func indexOf(users []domain.User, id int64) int {
	return slices.IndexFunc(users, func(u domain.User) bool {
		return u.ID == id
	})
}
