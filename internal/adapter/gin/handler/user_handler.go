package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "user-sync/internal/domain/user"
	usecase "user-sync/internal/usecase/user"
	apperrors "user-sync/pkg/errors"
	"user-sync/pkg/logger"
)

// UserHandler exposes the user store's intents over HTTP.
type UserHandler struct {
	store usecase.StateStore
	log   *zap.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(store usecase.StateStore, log *zap.Logger) *UserHandler {
	return &UserHandler{
		store: store,
		log:   log,
	}
}

// UserRequest is the HTTP body for create and update. Missing fields are sent
// as their zero value; no local validation is applied.
type UserRequest struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// UserResponse represents the HTTP response for user data
type UserResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// SnapshotResponse is the store state as the presentation layer sees it.
type SnapshotResponse struct {
	Users   []UserResponse `json:"users"`
	Loading bool           `json:"loading"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// GetSnapshot handles GET /v1/users
func (h *UserHandler) GetSnapshot(c *gin.Context) {
	c.JSON(http.StatusOK, toSnapshotResponse(h.store.Snapshot()))
}

// FetchUsers handles POST /v1/users/fetch
func (h *UserHandler) FetchUsers(c *gin.Context) {
	ctx := c.Request.Context()
	logger.WithContext(ctx, h.log).Info("Gin FetchUsers request")

	if err := h.store.FetchUsers(ctx); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toSnapshotResponse(h.store.Snapshot()))
}

// CreateUser handles POST /v1/users. An empty body sends the provisional user.
func (h *UserHandler) CreateUser(c *gin.Context) {
	u := domain.Provisional()
	if ok := h.bindUser(c, &u); !ok {
		return
	}

	ctx := c.Request.Context()
	logger.WithContext(ctx, h.log).Info("Gin CreateUser request", zap.String("username", u.Username))

	created, err := h.store.CreateUser(ctx, u)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toUserResponse(created))
}

// UpdateUser handles PUT /v1/users/:id. The path id wins over the body id.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var u domain.User
	if ok := h.bindUser(c, &u); !ok {
		return
	}
	u.ID = id

	ctx := c.Request.Context()
	logger.WithContext(ctx, h.log).Info("Gin UpdateUser request", zap.Int64("id", id))

	updated, err := h.store.UpdateUser(ctx, u)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(updated))
}

// DeleteUser handles DELETE /v1/users/:id. The user is looked up in the
// current list; an unknown id is still sent upstream.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	target := domain.User{ID: id}
	for _, u := range h.store.Snapshot().Users {
		if u.ID == id {
			target = u
			break
		}
	}

	ctx := c.Request.Context()
	logger.WithContext(ctx, h.log).Info("Gin DeleteUser request", zap.Int64("id", id))

	if err := h.store.DeleteUser(ctx, target); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id": id,
	})
}

func (h *UserHandler) parseID(c *gin.Context) (int64, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		logger.WithContext(c.Request.Context(), h.log).Warn("Invalid user ID", zap.String("id", idStr), zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "User ID must be a valid number",
		})
		return 0, false
	}
	return id, true
}

// bindUser overlays the JSON body onto u. An empty body leaves u unchanged.
func (h *UserHandler) bindUser(c *gin.Context, u *domain.User) bool {
	req := UserRequest{ID: u.ID, Name: u.Name, Username: u.Username, Email: u.Email}
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		logger.WithContext(c.Request.Context(), h.log).Warn("Invalid user request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_body",
			Message: err.Error(),
		})
		return false
	}
	*u = domain.User{ID: req.ID, Name: req.Name, Username: req.Username, Email: req.Email}
	return true
}

// handleError maps remote error kinds onto HTTP statuses.
func (h *UserHandler) handleError(c *gin.Context, err error) {
	kind := apperrors.KindOf(err)
	c.JSON(StatusForKind(kind), ErrorResponse{
		Error:   kind.String(),
		Message: err.Error(),
	})
}

// StatusForKind returns the facade status for a remote failure kind.
func StatusForKind(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindRequestFailed, apperrors.KindNoData, apperrors.KindDecodingError:
		return http.StatusBadGateway
	case apperrors.KindEncodingError:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func toUserResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Name:     u.Name,
		Username: u.Username,
		Email:    u.Email,
	}
}

func toSnapshotResponse(s usecase.Snapshot) SnapshotResponse {
	users := make([]UserResponse, len(s.Users))
	for i, u := range s.Users {
		users[i] = toUserResponse(u)
	}
	return SnapshotResponse{Users: users, Loading: s.Loading}
}
