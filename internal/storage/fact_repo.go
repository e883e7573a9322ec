package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Fact is one remembered statement about the user or the project.
type Fact struct {
	ID        string // UUID
	Target    string // "USER" or "COMPANY"
	Summary   string
	CreatedAt time.Time
}

// FactStore defines the interface for memory fact persistence.
type FactStore interface {
	// Add stores a fact unless an equal summary (case-insensitive) already
	// exists for the target. Returns whether a new row was written.
	Add(ctx context.Context, target, summary string) (bool, error)
	// List returns all facts for a target in insertion order.
	List(ctx context.Context, target string) ([]Fact, error)
	// ListAll returns all facts in insertion order.
	ListAll(ctx context.Context) ([]Fact, error)
}

// FactRepo provides methods for fact operations.
// It implements the FactStore interface.
type FactRepo struct {
	db *sql.DB
}

// NewFactRepo creates a new FactRepo.
func NewFactRepo(db *sql.DB) *FactRepo {
	return &FactRepo{db: db}
}

// Add implements FactStore. The unique index on (target, summary COLLATE
// NOCASE) makes the insert a no-op for duplicates.
func (r *FactRepo) Add(ctx context.Context, target, summary string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO facts (id, target, summary) VALUES (?, ?, ?)",
		uuid.New().String(), target, summary,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert fact: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read insert result: %w", err)
	}
	return n > 0, nil
}

// List implements FactStore.
func (r *FactRepo) List(ctx context.Context, target string) ([]Fact, error) {
	return r.query(ctx,
		"SELECT id, target, summary, created_at FROM facts WHERE target = ? ORDER BY created_at, id",
		target,
	)
}

// ListAll implements FactStore.
func (r *FactRepo) ListAll(ctx context.Context) ([]Fact, error) {
	return r.query(ctx,
		"SELECT id, target, summary, created_at FROM facts ORDER BY created_at, id",
	)
}

func (r *FactRepo) query(ctx context.Context, stmt string, args ...any) ([]Fact, error) {
	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query facts: %w", err)
	}
	defer rows.Close()

	var facts []Fact
	for rows.Next() {
		var f Fact
		var createdAtStr string
		if err := rows.Scan(&f.ID, &f.Target, &f.Summary, &createdAtStr); err != nil {
			return nil, fmt.Errorf("failed to scan fact: %w", err)
		}
		f.CreatedAt, err = time.Parse("2006-01-02 15:04:05", createdAtStr)
		if err != nil {
			f.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse created_at timestamp: %w", err)
			}
		}
		facts = append(facts, f)
	}
	return facts, rows.Err()
}
