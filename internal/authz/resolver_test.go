package authz

import (
	"errors"
	"strings"
	"testing"

	"github.com/abira1/Toi-Task/internal/identity"
	"github.com/abira1/Toi-Task/internal/logger"
	"github.com/abira1/Toi-Task/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeMemberRepo serves a fixed roster, optionally failing every call.
type fakeMemberRepo struct {
	members []models.TeamMember
	err     error
}

func (f *fakeMemberRepo) List() ([]models.TeamMember, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.members, nil
}

func (f *fakeMemberRepo) FindByID(id string) (*models.TeamMember, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.members {
		if f.members[i].ID == id {
			return &f.members[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeMemberRepo) FindByEmail(email string) (*models.TeamMember, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.members {
		if strings.EqualFold(f.members[i].Email, email) {
			return &f.members[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeMemberRepo) Upsert(member *models.TeamMember) error { return f.err }
func (f *fakeMemberRepo) Delete(id string) error                 { return f.err }

func newTestResolver(adminEmails []string, repo *fakeMemberRepo) *Resolver {
	return NewResolver(adminEmails, repo, logger.NewLogger("test"))
}

func claimsFor(uid, email string) *identity.Claims {
	return &identity.Claims{
		UID:         uid,
		Email:       email,
		DisplayName: "Test User",
	}
}

func TestResolver_Scenario(t *testing.T) {
	repo := &fakeMemberRepo{members: []models.TeamMember{
		{ID: "u1", Email: "a@x.com", Name: "Alice", Role: "designer"},
	}}
	resolver := newTestResolver([]string{"b@x.com"}, repo)

	tests := []struct {
		email string
		want  State
	}{
		{"a@x.com", StateAuthorizedMember},
		{"b@x.com", StateAdmin},
		{"c@x.com", StateUnauthorized},
	}
	for _, tt := range tests {
		res := resolver.Resolve(claimsFor("uid-"+tt.email, tt.email))
		require.Equal(t, tt.want, res.State, "email %s", tt.email)
	}
}

func TestResolver_AdminMatchIsCaseInsensitive(t *testing.T) {
	// Admin classification holds regardless of roster contents.
	repo := &fakeMemberRepo{}
	resolver := newTestResolver([]string{"Admin@Team.com"}, repo)

	res := resolver.Resolve(claimsFor("uid-1", "admin@team.COM"))
	require.Equal(t, StateAdmin, res.State)
	require.NotNil(t, res.User)
	require.Equal(t, "admin", res.User.Role)
	require.Equal(t, "uid-1", res.User.ID)
}

func TestResolver_AdminNeedsNoRosterLookup(t *testing.T) {
	// Even a broken roster cannot block an allow-listed admin.
	repo := &fakeMemberRepo{err: errors.New("connection refused")}
	resolver := newTestResolver([]string{"b@x.com"}, repo)

	res := resolver.Resolve(claimsFor("uid-1", "b@x.com"))
	require.Equal(t, StateAdmin, res.State)
}

func TestResolver_RosterMatchIsCaseInsensitive(t *testing.T) {
	repo := &fakeMemberRepo{members: []models.TeamMember{
		{ID: "u1", Email: "Alice@X.com"},
	}}
	resolver := newTestResolver(nil, repo)

	res := resolver.Resolve(claimsFor("uid-1", "alice@x.COM"))
	require.Equal(t, StateAuthorizedMember, res.State)
}

func TestResolver_CarriesForwardRosterID(t *testing.T) {
	// Pre-existing roster entries keyed by an older id scheme keep
	// their id as the canonical one for subsequent writes.
	repo := &fakeMemberRepo{members: []models.TeamMember{
		{ID: "legacy-7", Email: "a@x.com", Name: "Alice", Role: "designer", Bio: "hi"},
	}}
	resolver := newTestResolver(nil, repo)

	res := resolver.Resolve(&identity.Claims{
		UID:         "provider-uid",
		Email:       "a@x.com",
		DisplayName: "Alice From Claims",
		PhotoURL:    "https://example.com/p.png",
	})
	require.Equal(t, StateAuthorizedMember, res.State)
	require.Equal(t, "legacy-7", res.User.ID)
	require.Equal(t, "Alice", res.User.Name, "roster data wins over claims")
	require.Equal(t, "designer", res.User.Role)
}

func TestResolver_MergesClaimDefaultsIntoSparseEntry(t *testing.T) {
	repo := &fakeMemberRepo{members: []models.TeamMember{
		{ID: "u1", Email: "a@x.com"},
	}}
	resolver := newTestResolver(nil, repo)

	res := resolver.Resolve(&identity.Claims{
		UID:         "uid-1",
		Email:       "a@x.com",
		DisplayName: "Alice",
		PhotoURL:    "https://example.com/p.png",
	})
	require.Equal(t, "Alice", res.User.Name)
	require.Equal(t, "user", res.User.Role)
	require.Equal(t, "https://example.com/p.png", res.User.Avatar)
	require.NotNil(t, res.User.Expertise)
}

func TestResolver_TransportErrorIsNotUnauthorized(t *testing.T) {
	repo := &fakeMemberRepo{err: errors.New("connection refused")}
	resolver := newTestResolver(nil, repo)

	res := resolver.Resolve(claimsFor("uid-1", "a@x.com"))
	require.Equal(t, StateError, res.State)
	require.Error(t, res.Err)
}

func TestResolver_NilClaimsStaysUnresolved(t *testing.T) {
	resolver := newTestResolver(nil, &fakeMemberRepo{})
	res := resolver.Resolve(nil)
	require.Equal(t, StateUnresolved, res.State)
}

func TestSession_NoTerminalStateWhileLoading(t *testing.T) {
	sess := NewSession()
	require.Equal(t, StateUnresolved, sess.Current().State)

	sess.Begin()
	require.Equal(t, StateLoading, sess.Current().State)
	require.False(t, sess.Current().State.Terminal())

	sess.Complete(Resolution{State: StateAuthorizedMember})
	require.Equal(t, StateAuthorizedMember, sess.Current().State)
}

func TestSession_SignOutAlwaysResets(t *testing.T) {
	for _, terminal := range []State{StateAdmin, StateAuthorizedMember, StateUnauthorized, StateError} {
		sess := NewSession()
		sess.Begin()
		sess.Complete(Resolution{State: terminal})
		sess.SignOut()
		require.Equal(t, StateUnresolved, sess.Current().State)
	}
}

func TestSession_LateCompletionAfterSignOutIsDropped(t *testing.T) {
	sess := NewSession()
	sess.Begin()
	sess.SignOut()

	// The roster lookup settles after the user already signed out.
	sess.Complete(Resolution{State: StateAuthorizedMember})
	require.Equal(t, StateUnresolved, sess.Current().State)
}

func TestState_Authorized(t *testing.T) {
	require.True(t, StateAdmin.Authorized())
	require.True(t, StateAuthorizedMember.Authorized())
	require.False(t, StateUnauthorized.Authorized())
	require.False(t, StateLoading.Authorized())
	require.False(t, StateError.Authorized())
}
