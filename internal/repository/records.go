package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrRecordNotFound = errors.New("record not found")

// recordTables maps record kinds to their tables. Only names in this map
// ever reach SQL; the record kind is never taken from request input
// unchecked.
var recordTables = map[string]string{
	"task":       "tasks",
	"cost":       "costs",
	"event":      "events",
	"document":   "documents",
	"medication": "medications",
	"message":    "messages",
	"note":       "notes",
	"resource":   "resources",
	"lifestory":  "life_stories",
	"scenario":   "care_scenarios",
}

// RecordRepository resolves records to their owning family, which the
// record-scoped authorization path needs before it can decide anything.
type RecordRepository struct {
	db *pgxpool.Pool
}

func NewRecordRepository(db *pgxpool.Pool) *RecordRepository {
	return &RecordRepository{db: db}
}

// OwningFamily returns the family_id of a record. ErrRecordNotFound is
// surfaced before any access check: you cannot authorize against a family
// you have not resolved yet.
func (r *RecordRepository) OwningFamily(ctx context.Context, kind string, recordID uuid.UUID) (uuid.UUID, error) {
	table, ok := recordTables[kind]
	if !ok {
		return uuid.Nil, fmt.Errorf("unknown record kind %q", kind)
	}

	query := fmt.Sprintf(`SELECT family_id FROM %s WHERE id = $1`, table)

	var familyID uuid.UUID
	err := r.db.QueryRow(ctx, query, recordID).Scan(&familyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, ErrRecordNotFound
		}
		return uuid.Nil, err
	}

	return familyID, nil
}
