package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	IsInitialized(ctx context.Context) (bool, error)

	// Question catalog related methods.
	CreateQuestions(ctx context.Context, creates []*Question) ([]*Question, error)
	ListQuestions(ctx context.Context, find *FindQuestion) ([]*Question, error)

	// ProgressRecord related methods.
	CreateProgressRecord(ctx context.Context, create *ProgressRecord) (*ProgressRecord, error)
	GetProgressRecord(ctx context.Context, find *FindProgressRecord) (*ProgressRecord, error)
	UpdateProgressRecord(ctx context.Context, update *UpdateProgressRecord) (*ProgressRecord, error)

	// DailySelection related methods.
	GetDailySelection(ctx context.Context, find *FindDailySelection) (*DailySelection, error)
	UpsertDailySelection(ctx context.Context, upsert *UpsertDailySelection) (*DailySelection, error)
}
