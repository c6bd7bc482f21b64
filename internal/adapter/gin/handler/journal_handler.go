package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-sync/internal/domain/journal"
	"user-sync/pkg/logger"
)

// JournalReader lists recorded remote calls newest first.
type JournalReader interface {
	List(ctx context.Context, page, limit int64) ([]journal.Entry, *journal.Pagination, error)
}

// JournalHandler serves the remote call journal.
type JournalHandler struct {
	reader JournalReader
	log    *zap.Logger
}

// NewJournalHandler creates a JournalHandler. A nil reader reports the journal as disabled.
func NewJournalHandler(reader JournalReader, log *zap.Logger) *JournalHandler {
	return &JournalHandler{reader: reader, log: log}
}

// EntryResponse is one journal entry.
type EntryResponse struct {
	ID         int64     `json:"id"`
	Op         string    `json:"op"`
	Method     string    `json:"method"`
	Path       string    `json:"path"`
	UserID     int64     `json:"user_id"`
	Outcome    string    `json:"outcome"`
	DurationMS float64   `json:"duration_ms"`
	RequestID  string    `json:"request_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ListJournalResponse represents the HTTP response for listing journal entries
type ListJournalResponse struct {
	Entries    []EntryResponse `json:"entries"`
	Pagination *Pagination     `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int64 `json:"page"`
	Limit      int64 `json:"limit"`
	TotalPages int64 `json:"total_pages"`
}

// ListJournal handles GET /v1/journal
func (h *JournalHandler) ListJournal(c *gin.Context) {
	if h.reader == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "journal_disabled",
			Message: "The remote call journal is not enabled",
		})
		return
	}

	page, err := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)
	if err != nil || limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	ctx := c.Request.Context()
	entries, pagination, err := h.reader.List(ctx, page, limit)
	if err != nil {
		logger.WithContext(ctx, h.log).Error("Gin ListJournal failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		})
		return
	}

	resp := ListJournalResponse{Entries: make([]EntryResponse, len(entries))}
	for i, e := range entries {
		resp.Entries[i] = EntryResponse{
			ID:         e.ID,
			Op:         e.Op,
			Method:     e.Method,
			Path:       e.Path,
			UserID:     e.UserID,
			Outcome:    e.Outcome,
			DurationMS: e.DurationMS,
			RequestID:  e.RequestID,
			CreatedAt:  e.CreatedAt,
		}
	}
	if pagination != nil {
		resp.Pagination = &Pagination{
			Total:      pagination.Total,
			Page:       pagination.Page,
			Limit:      pagination.Limit,
			TotalPages: pagination.TotalPages,
		}
	}

	c.JSON(http.StatusOK, resp)
}
