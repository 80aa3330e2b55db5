package authz

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Policy names the predicate an operation requires. Historically each route
// composed its own ad-hoc check; this table makes the composition explicit
// and reviewable. Note the asymmetry it exposes: record-scoped operations
// are MemberOnly (no admin bypass), while family management honors the
// admin override and the /admin surface ignores membership entirely.
type Policy int

const (
	// MemberOnly requires a membership row; admins get no bypass.
	MemberOnly Policy = iota
	// MemberOrAdmin requires a membership row or an allow-listed admin.
	MemberOrAdmin
	// CareManagerOnly requires a membership row with role CARE_MANAGER.
	CareManagerOnly
	// AdminOnly requires an allow-listed admin; membership is ignored.
	AdminOnly
)

// Operation identifies a route group for policy lookup.
type Operation string

const (
	OpFamilyView      Operation = "family.view"
	OpFamilyUpdate    Operation = "family.update"
	OpMemberList      Operation = "family.members.list"
	OpTasks           Operation = "tasks"
	OpCosts           Operation = "costs"
	OpEvents          Operation = "events"
	OpDocuments       Operation = "documents"
	OpMedications     Operation = "medications"
	OpMessages        Operation = "messages"
	OpNotes           Operation = "notes"
	OpResources       Operation = "resources"
	OpLifeStories     Operation = "lifestories"
	OpCarePlan        Operation = "careplan"
	OpCareScenarios   Operation = "carescenarios"
	OpContributions   Operation = "contributions"
	OpInvitations     Operation = "invitations"
	OpAdminFamilies   Operation = "admin.families"
	OpAdminUsers      Operation = "admin.users"
	OpAdminMembers    Operation = "admin.members"
	OpAdminBlog       Operation = "admin.blog"
)

// Rules is the per-operation policy table.
var Rules = map[Operation]Policy{
	OpFamilyView:    MemberOrAdmin,
	OpFamilyUpdate:  CareManagerOnly,
	OpMemberList:    MemberOrAdmin,
	OpTasks:         MemberOnly,
	OpCosts:         MemberOnly,
	OpEvents:        MemberOnly,
	OpDocuments:     MemberOnly,
	OpMedications:   MemberOnly,
	OpMessages:      MemberOnly,
	OpNotes:         MemberOnly,
	OpResources:     MemberOnly,
	OpLifeStories:   MemberOnly,
	OpCarePlan:      MemberOnly,
	OpCareScenarios: MemberOnly,
	OpContributions: MemberOnly,
	OpInvitations:   MemberOnly,
	OpAdminFamilies: AdminOnly,
	OpAdminUsers:    AdminOnly,
	OpAdminMembers:  AdminOnly,
	OpAdminBlog:     AdminOnly,
}

// Authorize dispatches an operation through the policy table. For AdminOnly
// operations familyID is ignored and may be uuid.Nil. The returned membership
// is nil when the caller was allowed without a row (admin paths).
func (a *Authorizer) Authorize(ctx context.Context, op Operation, identity Identity, familyID uuid.UUID) (*Membership, error) {
	policy, ok := Rules[op]
	if !ok {
		return nil, fmt.Errorf("no policy registered for operation %q", op)
	}

	switch policy {
	case MemberOnly:
		return a.AuthorizeMember(ctx, identity, familyID)
	case MemberOrAdmin:
		return a.AuthorizeFamilyScoped(ctx, identity, familyID)
	case CareManagerOnly:
		return a.AuthorizeCareManager(ctx, identity, familyID)
	case AdminOnly:
		return nil, a.AuthorizeAdmin(identity)
	default:
		return nil, fmt.Errorf("unknown policy %d for operation %q", policy, op)
	}
}
