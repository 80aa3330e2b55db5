package authz

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrUnauthenticated means no valid session was presented (401).
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrAccessDenied means a valid session lacks scope or role (403).
	ErrAccessDenied = errors.New("access denied")
)

// Identity is the authenticated caller, resolved once per request by the
// session layer and immutable afterwards. Any role claim on the session is
// informational only; the admin predicate never consults it.
type Identity struct {
	ID    uuid.UUID
	Email string
}

// Role values stored on a membership row. Only CareManager carries extra
// privilege (family settings updates).
type Role string

const (
	RoleCareManager  Role = "CARE_MANAGER"
	RoleFamilyMember Role = "FAMILY_MEMBER"
)

// Membership is the sole authorization fact in the system: one row per
// (family, user) pair.
type Membership struct {
	FamilyID uuid.UUID
	UserID   uuid.UUID
	Role     Role
}

// MembershipStore is the point-lookup surface the authorizer needs from the
// database. A nil membership with a nil error means "not a member".
type MembershipStore interface {
	GetMembership(ctx context.Context, familyID, userID uuid.UUID) (*Membership, error)
}

// Authorizer decides ALLOW or DENY for an identity against a family scope.
// It is stateless: every decision is re-derived from the store, never cached,
// so a membership change is visible on the very next request.
type Authorizer struct {
	admins map[string]struct{}
	store  MembershipStore
}

// NewAuthorizer builds an authorizer from the configured admin email
// allow-list and a membership store.
func NewAuthorizer(adminEmails []string, store MembershipStore) *Authorizer {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		admins[e] = struct{}{}
	}
	return &Authorizer{admins: admins, store: store}
}

// IsAdmin reports whether the identity's email is an exact, case-sensitive
// match against the configured allow-list. No trimming, no persisted role
// column, no other signal.
func (a *Authorizer) IsAdmin(identity Identity) bool {
	_, ok := a.admins[identity.Email]
	return ok
}

// Membership looks up the unique (familyID, userID) row. Nil means the
// identity is not a member of the family.
func (a *Authorizer) Membership(ctx context.Context, identity Identity, familyID uuid.UUID) (*Membership, error) {
	return a.store.GetMembership(ctx, familyID, identity.ID)
}

// AuthorizeMember allows only family members. Admins get no bypass here:
// the record-scoped endpoints (tasks, costs, events, documents, medications,
// messages, notes, resources, life stories) have always been member-only.
func (a *Authorizer) AuthorizeMember(ctx context.Context, identity Identity, familyID uuid.UUID) (*Membership, error) {
	m, err := a.store.GetMembership(ctx, familyID, identity.ID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrAccessDenied
	}
	return m, nil
}

// AuthorizeFamilyScoped allows family members and, for the family-management
// endpoints that honor it, the admin override. A returned nil membership with
// a nil error means the caller was allowed as an admin without a row.
func (a *Authorizer) AuthorizeFamilyScoped(ctx context.Context, identity Identity, familyID uuid.UUID) (*Membership, error) {
	if a.IsAdmin(identity) {
		return nil, nil
	}
	return a.AuthorizeMember(ctx, identity, familyID)
}

// AuthorizeCareManager allows only members whose role is CARE_MANAGER. A
// valid FAMILY_MEMBER row still denies; the denial is indistinguishable from
// "not a member" on the wire.
func (a *Authorizer) AuthorizeCareManager(ctx context.Context, identity Identity, familyID uuid.UUID) (*Membership, error) {
	m, err := a.AuthorizeMember(ctx, identity, familyID)
	if err != nil {
		return nil, err
	}
	if m.Role != RoleCareManager {
		return nil, ErrAccessDenied
	}
	return m, nil
}

// AuthorizeRecordScoped authorizes access to a record that has already been
// resolved to its owning family. Callers must fetch the record first, so a
// missing record surfaces as NotFound before any access decision is made.
func (a *Authorizer) AuthorizeRecordScoped(ctx context.Context, identity Identity, familyID uuid.UUID) error {
	_, err := a.AuthorizeMember(ctx, identity, familyID)
	return err
}

// AuthorizeAdmin allows only allow-listed admins. Family membership is
// ignored entirely, matching the /admin surface.
func (a *Authorizer) AuthorizeAdmin(identity Identity) error {
	if !a.IsAdmin(identity) {
		return ErrAccessDenied
	}
	return nil
}
