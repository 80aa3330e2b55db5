package authz

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	rows map[[2]uuid.UUID]*Membership
	err  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: make(map[[2]uuid.UUID]*Membership)}
}

func (s *fakeStore) add(familyID, userID uuid.UUID, role Role) {
	s.rows[[2]uuid.UUID{familyID, userID}] = &Membership{FamilyID: familyID, UserID: userID, Role: role}
}

func (s *fakeStore) GetMembership(_ context.Context, familyID, userID uuid.UUID) (*Membership, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.rows[[2]uuid.UUID{familyID, userID}], nil
}

var adminEmails = []string{"admin@careshare.app", "demo@careshare.app"}

func TestIsAdmin_ExactMatchOnly(t *testing.T) {
	a := NewAuthorizer(adminEmails, newFakeStore())

	tests := []struct {
		name  string
		email string
		want  bool
	}{
		{"first configured address", "admin@careshare.app", true},
		{"second configured address", "demo@careshare.app", true},
		{"unknown address", "user@x.com", false},
		{"trailing space rejected", "admin@careshare.app ", false},
		{"leading space rejected", " admin@careshare.app", false},
		{"different case rejected", "Admin@careshare.app", false},
		{"uppercase domain rejected", "admin@CARESHARE.APP", false},
		{"empty email rejected", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.IsAdmin(Identity{ID: uuid.New(), Email: tt.email})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAuthorizeFamilyScoped_TruthTable(t *testing.T) {
	ctx := context.Background()
	family := uuid.New()

	member := Identity{ID: uuid.New(), Email: "member@x.com"}
	stranger := Identity{ID: uuid.New(), Email: "stranger@x.com"}
	adminMember := Identity{ID: uuid.New(), Email: "admin@careshare.app"}
	adminOutsider := Identity{ID: uuid.New(), Email: "demo@careshare.app"}

	store := newFakeStore()
	store.add(family, member.ID, RoleFamilyMember)
	store.add(family, adminMember.ID, RoleFamilyMember)
	a := NewAuthorizer(adminEmails, store)

	// member, not admin -> allow with row
	m, err := a.AuthorizeFamilyScoped(ctx, member, family)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, member.ID, m.UserID)

	// admin with a row -> allow, admin short-circuits before the lookup
	m, err = a.AuthorizeFamilyScoped(ctx, adminMember, family)
	require.NoError(t, err)
	assert.Nil(t, m)

	// admin without a row -> allow
	m, err = a.AuthorizeFamilyScoped(ctx, adminOutsider, family)
	require.NoError(t, err)
	assert.Nil(t, m)

	// neither member nor admin -> deny
	_, err = a.AuthorizeFamilyScoped(ctx, stranger, family)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestAuthorizeMember_NoAdminBypass(t *testing.T) {
	ctx := context.Background()
	family := uuid.New()
	admin := Identity{ID: uuid.New(), Email: "demo@careshare.app"}

	a := NewAuthorizer(adminEmails, newFakeStore())

	// record-scoped operations never honor the admin override
	_, err := a.AuthorizeMember(ctx, admin, family)
	assert.ErrorIs(t, err, ErrAccessDenied)

	err = a.AuthorizeRecordScoped(ctx, admin, family)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestAuthorizeCareManager(t *testing.T) {
	ctx := context.Background()
	family := uuid.New()

	manager := Identity{ID: uuid.New(), Email: "manager@x.com"}
	plain := Identity{ID: uuid.New(), Email: "plain@x.com"}
	stranger := Identity{ID: uuid.New(), Email: "stranger@x.com"}

	store := newFakeStore()
	store.add(family, manager.ID, RoleCareManager)
	store.add(family, plain.ID, RoleFamilyMember)
	a := NewAuthorizer(adminEmails, store)

	m, err := a.AuthorizeCareManager(ctx, manager, family)
	require.NoError(t, err)
	assert.Equal(t, RoleCareManager, m.Role)

	// a valid membership with the wrong role still denies
	_, err = a.AuthorizeCareManager(ctx, plain, family)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = a.AuthorizeCareManager(ctx, stranger, family)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestMemberAllowedOnRecordsButNotSettings(t *testing.T) {
	ctx := context.Background()
	family := uuid.New()
	member := Identity{ID: uuid.New(), Email: "member@x.com"}

	store := newFakeStore()
	store.add(family, member.ID, RoleFamilyMember)
	a := NewAuthorizer(adminEmails, store)

	_, err := a.Authorize(ctx, OpTasks, member, family)
	assert.NoError(t, err)

	_, err = a.Authorize(ctx, OpFamilyUpdate, member, family)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestAdminBypassScenario(t *testing.T) {
	ctx := context.Background()
	family := uuid.New()

	demo := Identity{ID: uuid.New(), Email: "demo@careshare.app"}
	outsider := Identity{ID: uuid.New(), Email: "user@x.com"}

	a := NewAuthorizer(adminEmails, newFakeStore())

	// admin family deletion with no membership row -> allow
	_, err := a.Authorize(ctx, OpAdminFamilies, demo, family)
	assert.NoError(t, err)

	// same call by a non-admin -> deny regardless of membership
	_, err = a.Authorize(ctx, OpAdminFamilies, outsider, family)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestDecisionsAreIdempotent(t *testing.T) {
	ctx := context.Background()
	family := uuid.New()
	member := Identity{ID: uuid.New(), Email: "member@x.com"}
	stranger := Identity{ID: uuid.New(), Email: "stranger@x.com"}

	store := newFakeStore()
	store.add(family, member.ID, RoleFamilyMember)
	a := NewAuthorizer(adminEmails, store)

	for i := 0; i < 10; i++ {
		m, err := a.AuthorizeMember(ctx, member, family)
		require.NoError(t, err)
		require.NotNil(t, m)

		_, err = a.AuthorizeMember(ctx, stranger, family)
		assert.ErrorIs(t, err, ErrAccessDenied)
	}
}

func TestDecisionsTrackStoreState(t *testing.T) {
	ctx := context.Background()
	family := uuid.New()
	user := Identity{ID: uuid.New(), Email: "user@x.com"}

	store := newFakeStore()
	a := NewAuthorizer(adminEmails, store)

	_, err := a.AuthorizeMember(ctx, user, family)
	assert.ErrorIs(t, err, ErrAccessDenied)

	// membership added between requests must be visible immediately
	store.add(family, user.ID, RoleFamilyMember)
	m, err := a.AuthorizeMember(ctx, user, family)
	require.NoError(t, err)
	assert.Equal(t, RoleFamilyMember, m.Role)
}

func TestStoreErrorsPropagate(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.err = errors.New("connection refused")
	a := NewAuthorizer(adminEmails, store)

	user := Identity{ID: uuid.New(), Email: "user@x.com"}

	_, err := a.AuthorizeMember(ctx, user, uuid.New())
	assert.EqualError(t, err, "connection refused")
	assert.NotErrorIs(t, err, ErrAccessDenied)
}

func TestAuthorize_UnknownOperation(t *testing.T) {
	a := NewAuthorizer(adminEmails, newFakeStore())
	_, err := a.Authorize(context.Background(), Operation("bogus"), Identity{}, uuid.Nil)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrAccessDenied)
}

func TestRulesCoverEveryOperation(t *testing.T) {
	// every record-scoped operation must stay MemberOnly: the admin
	// override has never applied below the family-management surface
	recordOps := []Operation{
		OpTasks, OpCosts, OpEvents, OpDocuments, OpMedications,
		OpMessages, OpNotes, OpResources, OpLifeStories,
		OpCarePlan, OpCareScenarios, OpContributions, OpInvitations,
	}
	for _, op := range recordOps {
		assert.Equal(t, MemberOnly, Rules[op], "operation %s", op)
	}

	adminOps := []Operation{OpAdminFamilies, OpAdminUsers, OpAdminMembers, OpAdminBlog}
	for _, op := range adminOps {
		assert.Equal(t, AdminOnly, Rules[op], "operation %s", op)
	}
}
