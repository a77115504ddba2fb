// Package database keeps the optional local journal of dashboard actions.
package database

import (
	"context"
	"log/slog"

	"gorm.io/gorm"

	"studio-dashboard/internal/models"
)

// Entry describes one action taken through the dashboard.
type Entry struct {
	Username  string
	Role      models.UserRole
	Entity    string
	EntityID  string
	Action    string
	Details   string
	RequestID string
}

type Journal interface {
	// Record never fails the caller's request; write errors are logged.
	Record(ctx context.Context, e Entry)
	Recent(ctx context.Context, limit int) ([]models.ActivityLog, error)
	Enabled() bool
}

type GormJournal struct {
	db  *gorm.DB
	log *slog.Logger
}

func NewJournal(db *gorm.DB, log *slog.Logger) *GormJournal {
	return &GormJournal{db: db, log: log}
}

func (j *GormJournal) Enabled() bool { return true }

func (j *GormJournal) Record(ctx context.Context, e Entry) {
	row := models.ActivityLog{
		Username:  e.Username,
		Role:      e.Role,
		Entity:    e.Entity,
		EntityID:  e.EntityID,
		Action:    e.Action,
		Details:   e.Details,
		RequestID: e.RequestID,
	}
	if err := j.db.WithContext(ctx).Create(&row).Error; err != nil {
		j.log.Error("write activity log", "entity", e.Entity, "action", e.Action, "err", err)
	}
}

func (j *GormJournal) Recent(ctx context.Context, limit int) ([]models.ActivityLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 200
	}
	var logs []models.ActivityLog
	err := j.db.WithContext(ctx).
		Order("created_at desc").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

// NopJournal is used when no database is configured.
type NopJournal struct{}

func (NopJournal) Record(context.Context, Entry) {}

func (NopJournal) Recent(context.Context, int) ([]models.ActivityLog, error) { return nil, nil }

func (NopJournal) Enabled() bool { return false }

// MemoryJournal keeps entries in process; tests use it to assert what was recorded.
type MemoryJournal struct {
	Entries []Entry
}

func (m *MemoryJournal) Record(_ context.Context, e Entry) { m.Entries = append(m.Entries, e) }

func (m *MemoryJournal) Recent(_ context.Context, limit int) ([]models.ActivityLog, error) {
	out := make([]models.ActivityLog, 0, len(m.Entries))
	for i := len(m.Entries) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		e := m.Entries[i]
		out = append(out, models.ActivityLog{
			ID: uint(i + 1), Username: e.Username, Role: e.Role, Entity: e.Entity,
			EntityID: e.EntityID, Action: e.Action, Details: e.Details, RequestID: e.RequestID,
		})
	}
	return out, nil
}

func (m *MemoryJournal) Enabled() bool { return true }
