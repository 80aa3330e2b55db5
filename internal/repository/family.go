package repository

import (
	"context"
	"errors"

	"github.com/EjMackSPD/careshare-sub001/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrFamilyNotFound = errors.New("family not found")

type FamilyRepository struct {
	db *pgxpool.Pool
}

func NewFamilyRepository(db *pgxpool.Pool) *FamilyRepository {
	return &FamilyRepository{db: db}
}

// CreateFamily inserts a family and its creator's CARE_MANAGER membership in
// one transaction. A family never exists without at least one care manager.
func (r *FamilyRepository) CreateFamily(ctx context.Context, family *models.Family) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if family.ID == uuid.Nil {
		family.ID = uuid.New()
	}

	query := `
		INSERT INTO families (id, name, created_by, elder_name, elder_birthdate, elder_address, elder_notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	err = tx.QueryRow(ctx, query,
		family.ID, family.Name, family.CreatedBy,
		family.ElderName, family.ElderBirthdate, family.ElderAddress, family.ElderNotes,
	).Scan(&family.CreatedAt, &family.UpdatedAt)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO family_members (family_id, user_id, role) VALUES ($1, $2, $3)`,
		family.ID, family.CreatedBy, models.RoleCareManager,
	)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// GetFamilyByID retrieves a family by ID
func (r *FamilyRepository) GetFamilyByID(ctx context.Context, id uuid.UUID) (*models.Family, error) {
	query := `
		SELECT id, name, created_by, elder_name, elder_birthdate, elder_address, elder_notes, created_at, updated_at
		FROM families
		WHERE id = $1
	`

	var family models.Family
	err := r.db.QueryRow(ctx, query, id).Scan(
		&family.ID, &family.Name, &family.CreatedBy,
		&family.ElderName, &family.ElderBirthdate, &family.ElderAddress, &family.ElderNotes,
		&family.CreatedAt, &family.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFamilyNotFound
		}
		return nil, err
	}

	return &family, nil
}

// UpdateFamily updates the family name and elder profile fields
func (r *FamilyRepository) UpdateFamily(ctx context.Context, family *models.Family) error {
	query := `
		UPDATE families
		SET name = $1, elder_name = $2, elder_birthdate = $3, elder_address = $4, elder_notes = $5, updated_at = NOW()
		WHERE id = $6
	`

	result, err := r.db.Exec(ctx, query,
		family.Name, family.ElderName, family.ElderBirthdate, family.ElderAddress, family.ElderNotes, family.ID,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrFamilyNotFound
	}

	return nil
}

// DeleteFamily removes a family; memberships and records cascade
func (r *FamilyRepository) DeleteFamily(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM families WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrFamilyNotFound
	}

	return nil
}

// ListFamiliesForUser returns the families the user holds a membership in
func (r *FamilyRepository) ListFamiliesForUser(ctx context.Context, userID uuid.UUID) ([]models.Family, error) {
	query := `
		SELECT f.id, f.name, f.created_by, f.elder_name, f.elder_birthdate, f.elder_address, f.elder_notes, f.created_at, f.updated_at
		FROM families f
		JOIN family_members fm ON fm.family_id = f.id
		WHERE fm.user_id = $1
		ORDER BY f.created_at ASC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanFamilies(rows)
}

// ListFamilies returns every family (admin surface)
func (r *FamilyRepository) ListFamilies(ctx context.Context) ([]models.Family, error) {
	query := `
		SELECT id, name, created_by, elder_name, elder_birthdate, elder_address, elder_notes, created_at, updated_at
		FROM families
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanFamilies(rows)
}

func scanFamilies(rows pgx.Rows) ([]models.Family, error) {
	families := []models.Family{}
	for rows.Next() {
		var f models.Family
		err := rows.Scan(
			&f.ID, &f.Name, &f.CreatedBy,
			&f.ElderName, &f.ElderBirthdate, &f.ElderAddress, &f.ElderNotes,
			&f.CreatedAt, &f.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		families = append(families, f)
	}
	return families, rows.Err()
}
