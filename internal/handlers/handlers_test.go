package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/EjMackSPD/careshare-sub001/internal/auth"
	"github.com/EjMackSPD/careshare-sub001/internal/authz"
	"github.com/EjMackSPD/careshare-sub001/internal/middleware"
	"github.com/EjMackSPD/careshare-sub001/internal/models"
	"github.com/EjMackSPD/careshare-sub001/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeMembershipStore struct {
	rows map[[2]uuid.UUID]*authz.Membership
}

func (s *fakeMembershipStore) GetMembership(_ context.Context, familyID, userID uuid.UUID) (*authz.Membership, error) {
	return s.rows[[2]uuid.UUID{familyID, userID}], nil
}

type fakeResolver struct {
	owners map[uuid.UUID]uuid.UUID
	err    error
}

func (f *fakeResolver) OwningFamily(_ context.Context, _ string, recordID uuid.UUID) (uuid.UUID, error) {
	if f.err != nil {
		return uuid.Nil, f.err
	}
	familyID, ok := f.owners[recordID]
	if !ok {
		return uuid.Nil, repository.ErrRecordNotFound
	}
	return familyID, nil
}

func newRecordRouter(t *testing.T, jwtSvc *auth.JWTService, guard recordGuard) *gin.Engine {
	t.Helper()
	r := gin.New()
	r.GET("/api/tasks/:id", middleware.RequireAuth(jwtSvc), func(c *gin.Context) {
		if _, _, ok := guard.authorizeRecord(c, "task"); !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func getRecord(t *testing.T, r *gin.Engine, token string, recordID string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/tasks/"+recordID, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	return w
}

func TestAuthorizeRecord_MissingRecordIs404(t *testing.T) {
	jwtSvc := auth.NewJWTService("secret", "careshare", time.Hour)
	a := authz.NewAuthorizer(nil, &fakeMembershipStore{})
	guard := recordGuard{az: a, records: &fakeResolver{}}
	r := newRecordRouter(t, jwtSvc, guard)

	token, err := jwtSvc.GenerateToken(uuid.New(), "stranger@x.com")
	require.NoError(t, err)

	// the caller is not a member of anything, but the record does not
	// exist, so the response is 404, never 403
	w := getRecord(t, r, token, uuid.NewString())
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Not found")
	assert.NotContains(t, w.Body.String(), "Access denied")
}

func TestAuthorizeRecord_ForeignFamilyIs403(t *testing.T) {
	jwtSvc := auth.NewJWTService("secret", "careshare", time.Hour)
	recordID := uuid.New()
	familyID := uuid.New()

	a := authz.NewAuthorizer(nil, &fakeMembershipStore{})
	guard := recordGuard{az: a, records: &fakeResolver{owners: map[uuid.UUID]uuid.UUID{recordID: familyID}}}
	r := newRecordRouter(t, jwtSvc, guard)

	token, err := jwtSvc.GenerateToken(uuid.New(), "stranger@x.com")
	require.NoError(t, err)

	// same caller, but the record resolves to a family they are not in
	w := getRecord(t, r, token, recordID.String())
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Access denied")
}

func TestAuthorizeRecord_MemberAllowed(t *testing.T) {
	jwtSvc := auth.NewJWTService("secret", "careshare", time.Hour)
	userID := uuid.New()
	recordID := uuid.New()
	familyID := uuid.New()

	store := &fakeMembershipStore{rows: map[[2]uuid.UUID]*authz.Membership{
		{familyID, userID}: {FamilyID: familyID, UserID: userID, Role: authz.RoleFamilyMember},
	}}
	a := authz.NewAuthorizer(nil, store)
	guard := recordGuard{az: a, records: &fakeResolver{owners: map[uuid.UUID]uuid.UUID{recordID: familyID}}}
	r := newRecordRouter(t, jwtSvc, guard)

	token, err := jwtSvc.GenerateToken(userID, "member@x.com")
	require.NoError(t, err)

	w := getRecord(t, r, token, recordID.String())
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthorizeRecord_AdminNoBypass(t *testing.T) {
	jwtSvc := auth.NewJWTService("secret", "careshare", time.Hour)
	recordID := uuid.New()
	familyID := uuid.New()

	a := authz.NewAuthorizer([]string{"admin@careshare.app"}, &fakeMembershipStore{})
	guard := recordGuard{az: a, records: &fakeResolver{owners: map[uuid.UUID]uuid.UUID{recordID: familyID}}}
	r := newRecordRouter(t, jwtSvc, guard)

	token, err := jwtSvc.GenerateToken(uuid.New(), "admin@careshare.app")
	require.NoError(t, err)

	// record-scoped access is member-only, even for allow-listed admins
	w := getRecord(t, r, token, recordID.String())
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthorizeRecord_BadID(t *testing.T) {
	jwtSvc := auth.NewJWTService("secret", "careshare", time.Hour)
	a := authz.NewAuthorizer(nil, &fakeMembershipStore{})
	guard := recordGuard{az: a, records: &fakeResolver{}}
	r := newRecordRouter(t, jwtSvc, guard)

	token, err := jwtSvc.GenerateToken(uuid.New(), "member@x.com")
	require.NoError(t, err)

	w := getRecord(t, r, token, "not-a-uuid")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthorizeRecord_ResolverErrorIs500(t *testing.T) {
	jwtSvc := auth.NewJWTService("secret", "careshare", time.Hour)
	a := authz.NewAuthorizer(nil, &fakeMembershipStore{})
	guard := recordGuard{az: a, records: &fakeResolver{err: errors.New("connection reset")}}
	r := newRecordRouter(t, jwtSvc, guard)

	token, err := jwtSvc.GenerateToken(uuid.New(), "member@x.com")
	require.NoError(t, err)

	w := getRecord(t, r, token, uuid.NewString())
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

type fakeUserStore struct {
	byEmail map[string]*models.User
	err     error
}

func (f *fakeUserStore) CreateUser(_ context.Context, _ *models.User) error { return nil }

func (f *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	user, ok := f.byEmail[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserStore) GetUserByID(_ context.Context, _ uuid.UUID) (*models.User, error) {
	return nil, repository.ErrUserNotFound
}

func (f *fakeUserStore) TouchLastLogin(_ context.Context, _ uuid.UUID) error { return nil }

func newLoginRouter(t *testing.T, users userStore) *gin.Engine {
	t.Helper()
	jwtSvc := auth.NewJWTService("secret", "careshare", time.Hour)
	h := NewAuthHandler(users, jwtSvc)
	r := gin.New()
	r.POST("/api/auth/login", h.Login)
	return r
}

func postLogin(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestLogin_UnknownEmail(t *testing.T) {
	r := newLoginRouter(t, &fakeUserStore{})

	w := postLogin(t, r, `{"email":"nobody@x.com","password":"whatever1"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid email or password")
}

func TestLogin_StoreErrorIs500(t *testing.T) {
	r := newLoginRouter(t, &fakeUserStore{err: errors.New("connection reset")})

	// a store failure is not a credential failure
	w := postLogin(t, r, `{"email":"someone@x.com","password":"whatever1"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "Invalid email or password")
}

func TestLogin_WrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("right-password"), bcrypt.MinCost)
	require.NoError(t, err)
	hashStr := string(hash)

	r := newLoginRouter(t, &fakeUserStore{byEmail: map[string]*models.User{
		"someone@x.com": {ID: uuid.New(), Email: "someone@x.com", PasswordHash: &hashStr},
	}})

	w := postLogin(t, r, `{"email":"someone@x.com","password":"wrong-password"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid email or password")
}

func TestLogin_Success(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("right-password"), bcrypt.MinCost)
	require.NoError(t, err)
	hashStr := string(hash)

	r := newLoginRouter(t, &fakeUserStore{byEmail: map[string]*models.User{
		"someone@x.com": {ID: uuid.New(), Email: "someone@x.com", PasswordHash: &hashStr},
	}})

	w := postLogin(t, r, `{"email":"someone@x.com","password":"right-password"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "token")
}
