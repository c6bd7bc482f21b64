package user

import (
	"context"

	domain "user-sync/internal/domain/user"
)

// RemoteService defines the remote user operations the store reconciles.
// Every method performs one exchange and reports failures as *errors.APIError.
type RemoteService interface {
	ListUsers(ctx context.Context) ([]domain.User, error)               // GET /users
	CreateUser(ctx context.Context, u domain.User) (domain.User, error) // POST /users
	UpdateUser(ctx context.Context, u domain.User) (domain.User, error) // PUT /users/{id}
	DeleteUser(ctx context.Context, id int64) error                     // DELETE /users/{id}
}

// StateStore is the surface the presentation layer (HTTP facade, CLI) depends on.
type StateStore interface {
	FetchUsers(ctx context.Context) error
	CreateUser(ctx context.Context, u domain.User) (domain.User, error)
	UpdateUser(ctx context.Context, u domain.User) (domain.User, error)
	DeleteUser(ctx context.Context, u domain.User) error
	Snapshot() Snapshot
	Subscribe(fn Observer) (unsubscribe func())
}
