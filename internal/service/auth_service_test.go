package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/IbnuAlii/GuulSideApp/internal/domain"
	"github.com/IbnuAlii/GuulSideApp/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type authFixture struct {
	svc    *AuthService
	users  *testutil.UserStore
	audit  *testutil.AuditStore
	tokens *TokenIssuer
}

func newAuthFixture() *authFixture {
	users := testutil.NewUserStore()
	audit := testutil.NewAuditStore()
	tokens := NewTokenIssuer("test-secret")
	return &authFixture{
		svc:    NewAuthService(users, NewPasswordHasherCost(bcrypt.MinCost), tokens, NewAuditService(audit)),
		users:  users,
		audit:  audit,
		tokens: tokens,
	}
}

var req = RequestInfo{IP: "127.0.0.1", UserAgent: "test"}

func TestSignupIssuesTokenForNewUser(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	token, user, err := f.svc.Signup(ctx, SignupInput{Name: "Ann", Email: " A@X.com ", Password: "secret1"}, req)
	require.NoError(t, err)

	userID, err := f.tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
	assert.Equal(t, "a@x.com", user.Email)
	assert.NotEqual(t, "secret1", user.PasswordHash)
	assert.Equal(t, []string{domain.AuditActionSignup}, f.audit.Actions(user.ID))
}

func TestSignupDuplicateEmail(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	_, _, err := f.svc.Signup(ctx, SignupInput{Name: "Ann", Email: "a@x.com", Password: "secret1"}, req)
	require.NoError(t, err)

	_, _, err = f.svc.Signup(ctx, SignupInput{Name: "Ann 2", Email: "A@x.com", Password: "other"}, req)
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, MsgUserExists, domain.Message(err, ""))
}

func TestSignupRaceOnInsertIsConflict(t *testing.T) {
	f := newAuthFixture()
	f.users.CreateErr = domain.ErrConflict

	_, _, err := f.svc.Signup(context.Background(), SignupInput{Name: "Ann", Email: "a@x.com", Password: "secret1"}, req)
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, MsgUserExists, domain.Message(err, ""))
}

func TestSignupMissingFields(t *testing.T) {
	f := newAuthFixture()

	for _, in := range []SignupInput{
		{Email: "a@x.com", Password: "p"},
		{Name: "Ann", Password: "p"},
		{Name: "Ann", Email: "a@x.com"},
		{Name: "  ", Email: "a@x.com", Password: "p"},
	} {
		_, _, err := f.svc.Signup(context.Background(), in, req)
		require.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Equal(t, MsgMissingSignupFields, domain.Message(err, ""))
	}
}

func TestSignupStoreFailure(t *testing.T) {
	f := newAuthFixture()
	f.users.GetErr = errors.New("connection reset")

	_, _, err := f.svc.Signup(context.Background(), SignupInput{Name: "Ann", Email: "a@x.com", Password: "p"}, req)
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrConflict))
	assert.False(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestSigninEnumerationResistance(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	_, _, err := f.svc.Signup(ctx, SignupInput{Name: "Ann", Email: "a@x.com", Password: "secret1"}, req)
	require.NoError(t, err)

	_, wrongPassword := f.svc.Signin(ctx, SigninInput{Email: "a@x.com", Password: "nope"}, req)
	_, unknownUser := f.svc.Signin(ctx, SigninInput{Email: "b@x.com", Password: "secret1"}, req)

	require.ErrorIs(t, wrongPassword, domain.ErrInvalidCredentials)
	require.ErrorIs(t, unknownUser, domain.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
	assert.Equal(t, MsgInvalidCredentials, domain.Message(wrongPassword, ""))
}

func TestSigninSuccess(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	_, user, err := f.svc.Signup(ctx, SignupInput{Name: "Ann", Email: "a@x.com", Password: "secret1"}, req)
	require.NoError(t, err)

	token, err := f.svc.Signin(ctx, SigninInput{Email: "A@X.COM", Password: "secret1"}, req)
	require.NoError(t, err)

	userID, err := f.svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
	assert.Equal(t, []string{domain.AuditActionSignup, domain.AuditActionSignin}, f.audit.Actions(user.ID))
}

func TestSigninMissingFields(t *testing.T) {
	f := newAuthFixture()

	_, err := f.svc.Signin(context.Background(), SigninInput{Email: "a@x.com"}, req)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, MsgMissingSigninFields, domain.Message(err, ""))
}

func TestAuditFailureDoesNotFailSignup(t *testing.T) {
	f := newAuthFixture()
	f.audit.CreateErr = errors.New("audit down")

	_, _, err := f.svc.Signup(context.Background(), SignupInput{Name: "Ann", Email: "a@x.com", Password: "secret1"}, req)
	assert.NoError(t, err)
}

func decodePatch(t *testing.T, body string) domain.ProfilePatch {
	t.Helper()
	var p domain.ProfilePatch
	require.NoError(t, json.Unmarshal([]byte(body), &p))
	return p
}

func TestUpdateProfileMerges(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	_, user, err := f.svc.Signup(ctx, SignupInput{Name: "Ann", Email: "a@x.com", Password: "secret1"}, req)
	require.NoError(t, err)

	updated, err := f.svc.UpdateProfile(ctx, user.ID, decodePatch(t, `{"phone":"555","location":"Mogadishu"}`), req)
	require.NoError(t, err)
	assert.Equal(t, "Ann", updated.Name)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, "555", *updated.Phone)

	updated, err = f.svc.UpdateProfile(ctx, user.ID, decodePatch(t, `{"phone":null}`), req)
	require.NoError(t, err)
	assert.Nil(t, updated.Phone)
	require.NotNil(t, updated.Location)
	assert.Equal(t, "Mogadishu", *updated.Location)
}

func TestUpdateProfileRejectsBlankName(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	_, user, err := f.svc.Signup(ctx, SignupInput{Name: "Ann", Email: "a@x.com", Password: "secret1"}, req)
	require.NoError(t, err)

	_, err = f.svc.UpdateProfile(ctx, user.ID, decodePatch(t, `{"name":null}`), req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateProfileEmailTaken(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	_, ann, err := f.svc.Signup(ctx, SignupInput{Name: "Ann", Email: "a@x.com", Password: "secret1"}, req)
	require.NoError(t, err)
	_, _, err = f.svc.Signup(ctx, SignupInput{Name: "Bob", Email: "b@x.com", Password: "secret1"}, req)
	require.NoError(t, err)

	_, err = f.svc.UpdateProfile(ctx, ann.ID, decodePatch(t, `{"email":"B@x.com"}`), req)
	require.ErrorIs(t, err, domain.ErrConflict)

	// Re-submitting one's own email is not a conflict.
	_, err = f.svc.UpdateProfile(ctx, ann.ID, decodePatch(t, `{"email":"a@x.com"}`), req)
	assert.NoError(t, err)
}

func TestProfileUnknownUser(t *testing.T) {
	f := newAuthFixture()

	_, err := f.svc.Profile(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, MsgUserNotFound, domain.Message(err, ""))
}

func TestSetProfileImage(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	_, user, err := f.svc.Signup(ctx, SignupInput{Name: "Ann", Email: "a@x.com", Password: "secret1"}, req)
	require.NoError(t, err)

	url, err := f.svc.SetProfileImage(ctx, user.ID, "https://cdn.example.com/a.png", req)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/a.png", url)

	for _, bad := range []string{"", "not a url", "ftp://x/y.png", "/relative.png"} {
		_, err := f.svc.SetProfileImage(ctx, user.ID, bad, req)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, bad)
	}
}

func TestActivityNewestFirst(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	_, user, err := f.svc.Signup(ctx, SignupInput{Name: "Ann", Email: "a@x.com", Password: "secret1"}, req)
	require.NoError(t, err)
	f.svc.Signout(ctx, user.ID, req)

	logs, err := f.svc.Activity(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, domain.AuditActionSignout, logs[0].Action)
	assert.Equal(t, domain.AuditActionSignup, logs[1].Action)
}
