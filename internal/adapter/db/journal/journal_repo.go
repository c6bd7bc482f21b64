package journal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"user-sync/internal/domain/journal"
)

// JournalRepo stores remote call entries using GORM.
type JournalRepo struct {
	db  *gorm.DB    // GORM database connection
	log *zap.Logger // Structured logger for database operations
}

// NewJournalRepo creates a new instance of JournalRepo.
func NewJournalRepo(db *gorm.DB, log *zap.Logger) *JournalRepo {
	return &JournalRepo{db: db, log: log}
}

// JournalSchema represents the database schema for the remote_calls table.
type JournalSchema struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	Op         string    `gorm:"size:16;not null;index"`
	Method     string    `gorm:"size:8;not null"`
	Path       string    `gorm:"not null"`
	UserID     int64     `gorm:"not null;default:0"`
	Outcome    string    `gorm:"size:32;not null;index"`
	DurationMS float64   `gorm:"not null"`
	RequestID  string    `gorm:"size:64"`
	CreatedAt  time.Time `gorm:"not null;index"`
}

// TableName specifies the table name for the JournalSchema model.
func (JournalSchema) TableName() string {
	return "remote_calls"
}

// Migrate creates or updates the remote_calls table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&JournalSchema{}); err != nil {
		return fmt.Errorf("failed to migrate journal schema: %w", err)
	}
	return nil
}

// Append inserts e and fills in its generated ID and timestamp.
func (r *JournalRepo) Append(ctx context.Context, e *journal.Entry) error {
	if e == nil {
		return errors.New("entry cannot be nil")
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	model := toSchema(e)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		r.log.Error("failed to append journal entry", zap.Error(err), zap.String("op", e.Op))
		return fmt.Errorf("failed to append journal entry: %w", err)
	}

	e.ID = model.ID
	r.log.Debug("journal entry appended", zap.Int64("id", model.ID), zap.String("op", e.Op), zap.String("outcome", e.Outcome))
	return nil
}

// List returns one page of entries, newest first.
func (r *JournalRepo) List(ctx context.Context, page, limit int64) ([]journal.Entry, *journal.Pagination, error) {
	if page < 1 {
		return nil, nil, errors.New("page must be >= 1")
	}
	if limit < 1 {
		return nil, nil, errors.New("limit must be >= 1")
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&JournalSchema{}).Count(&total).Error; err != nil {
		r.log.Error("failed to count journal entries", zap.Error(err))
		return nil, nil, fmt.Errorf("failed to count journal entries: %w", err)
	}

	var models []JournalSchema
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").Order("id DESC").
		Offset(int((page - 1) * limit)).Limit(int(limit)).
		Find(&models).Error; err != nil {
		r.log.Error("failed to list journal entries", zap.Error(err), zap.Int64("page", page), zap.Int64("limit", limit))
		return nil, nil, fmt.Errorf("failed to list journal entries: %w", err)
	}

	entries := make([]journal.Entry, len(models))
	for i, m := range models {
		entries[i] = fromSchema(m)
	}

	return entries, journal.NewPagination(total, page, limit), nil
}

func toSchema(e *journal.Entry) JournalSchema {
	return JournalSchema{
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

func fromSchema(m JournalSchema) journal.Entry {
	return journal.Entry{
		ID:         m.ID,
		Op:         m.Op,
		Method:     m.Method,
		Path:       m.Path,
		UserID:     m.UserID,
		Outcome:    m.Outcome,
		DurationMS: m.DurationMS,
		RequestID:  m.RequestID,
		CreatedAt:  m.CreatedAt,
	}
}
