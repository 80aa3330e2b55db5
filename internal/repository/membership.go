package repository

import (
	"context"
	"errors"

	"github.com/EjMackSPD/careshare-sub001/internal/authz"
	"github.com/EjMackSPD/careshare-sub001/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrMemberNotFound = errors.New("family member not found")
var ErrAlreadyMember = errors.New("user is already a member of this family")

// MembershipRepository is the point-lookup surface behind the authorizer.
// It also carries the membership mutations used by family management.
type MembershipRepository struct {
	db *pgxpool.Pool
}

func NewMembershipRepository(db *pgxpool.Pool) *MembershipRepository {
	return &MembershipRepository{db: db}
}

// GetMembership fetches the unique (family, user) row. Implements
// authz.MembershipStore: nil with no error means "not a member".
func (r *MembershipRepository) GetMembership(ctx context.Context, familyID, userID uuid.UUID) (*authz.Membership, error) {
	query := `
		SELECT family_id, user_id, role
		FROM family_members
		WHERE family_id = $1 AND user_id = $2
	`

	var m authz.Membership
	var role string
	err := r.db.QueryRow(ctx, query, familyID, userID).Scan(&m.FamilyID, &m.UserID, &role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	m.Role = authz.Role(role)

	return &m, nil
}

// AddMember inserts a membership row
func (r *MembershipRepository) AddMember(ctx context.Context, familyID, userID uuid.UUID, role string) (*models.FamilyMember, error) {
	query := `
		INSERT INTO family_members (family_id, user_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (family_id, user_id) DO NOTHING
		RETURNING id, family_id, user_id, role, created_at
	`

	var member models.FamilyMember
	err := r.db.QueryRow(ctx, query, familyID, userID, role).Scan(
		&member.ID, &member.FamilyID, &member.UserID, &member.Role, &member.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAlreadyMember
		}
		return nil, err
	}

	return &member, nil
}

// RemoveMember deletes a membership row
func (r *MembershipRepository) RemoveMember(ctx context.Context, familyID, userID uuid.UUID) error {
	query := `DELETE FROM family_members WHERE family_id = $1 AND user_id = $2`

	result, err := r.db.Exec(ctx, query, familyID, userID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrMemberNotFound
	}

	return nil
}

// ListMembers returns all members of a family joined with their profiles
func (r *MembershipRepository) ListMembers(ctx context.Context, familyID uuid.UUID) ([]models.FamilyMemberDetail, error) {
	query := `
		SELECT fm.id, fm.family_id, fm.user_id, fm.role, u.name, u.email, u.avatar_url, fm.created_at
		FROM family_members fm
		JOIN users u ON u.id = fm.user_id
		WHERE fm.family_id = $1
		ORDER BY fm.created_at ASC
	`

	rows, err := r.db.Query(ctx, query, familyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := []models.FamilyMemberDetail{}
	for rows.Next() {
		var m models.FamilyMemberDetail
		err := rows.Scan(&m.ID, &m.FamilyID, &m.UserID, &m.Role, &m.Name, &m.Email, &m.AvatarURL, &m.JoinedAt)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}

	return members, rows.Err()
}
