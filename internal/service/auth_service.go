package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/IbnuAlii/GuulSideApp/internal/domain"
	"github.com/IbnuAlii/GuulSideApp/internal/logger"
)

// Client-facing messages. Unknown email and wrong password share one message.
const (
	MsgMissingSignupFields = "Please provide all required fields"
	MsgMissingSigninFields = "Please provide email and password"
	MsgUserExists          = "User already exists"
	MsgInvalidCredentials  = "Invalid credentials"
	MsgUserNotFound        = "User not found"
	MsgInvalidImageURL     = "Please provide a valid image URL"
)

type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	Update(ctx context.Context, id string, upd domain.ProfileUpdate, now time.Time) (*domain.User, error)
	SetImageURL(ctx context.Context, id, imageURL string, now time.Time) (*domain.User, error)
}

type SignupInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SigninInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthService struct {
	users  UserStore
	hasher *PasswordHasher
	tokens *TokenIssuer
	audit  *AuditService
	now    func() time.Time
}

func NewAuthService(users UserStore, hasher *PasswordHasher, tokens *TokenIssuer, audit *AuditService) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		audit:  audit,
		now:    time.Now,
	}
}

// Signup registers a user and returns a session token for it.
func (s *AuthService) Signup(ctx context.Context, in SignupInput, req RequestInfo) (string, *domain.User, error) {
	name := strings.TrimSpace(in.Name)
	email := domain.NormalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return "", nil, domain.NewError(domain.ErrInvalidInput, MsgMissingSignupFields)
	}

	_, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return "", nil, domain.NewError(domain.ErrConflict, MsgUserExists)
	case !errors.Is(err, domain.ErrNotFound):
		return "", nil, fmt.Errorf("lookup user: %w", err)
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return "", nil, err
	}

	user := &domain.User{Name: name, Email: email, PasswordHash: digest}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return "", nil, domain.NewError(domain.ErrConflict, MsgUserExists)
		}
		return "", nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, err
	}

	logger.WithContext(ctx).Info("user signed up", "user_id", user.ID)
	s.audit.Log(ctx, user.ID, domain.AuditActionSignup, domain.AuditCategoryAuth, req, nil)
	return token, user, nil
}

// Signin checks credentials and returns a fresh session token.
func (s *AuthService) Signin(ctx context.Context, in SigninInput, req RequestInfo) (string, error) {
	email := domain.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return "", domain.NewError(domain.ErrInvalidInput, MsgMissingSigninFields)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return "", domain.NewError(domain.ErrInvalidCredentials, MsgInvalidCredentials)
	}
	if err != nil {
		return "", fmt.Errorf("lookup user: %w", err)
	}

	ok, err := s.hasher.Verify(in.Password, user.PasswordHash)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", domain.NewError(domain.ErrInvalidCredentials, MsgInvalidCredentials)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", err
	}

	logger.WithContext(ctx).Info("user signed in", "user_id", user.ID)
	s.audit.Log(ctx, user.ID, domain.AuditActionSignin, domain.AuditCategoryAuth, req, nil)
	return token, nil
}

// Signout only acknowledges; tokens stay valid until they expire.
func (s *AuthService) Signout(ctx context.Context, userID string, req RequestInfo) {
	s.audit.Log(ctx, userID, domain.AuditActionSignout, domain.AuditCategoryAuth, req, nil)
}

// VerifyToken resolves a session token to its user id.
func (s *AuthService) VerifyToken(token string) (string, error) {
	return s.tokens.Verify(token)
}

func (s *AuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, userError(err)
	}
	return user, nil
}

// UpdateProfile merges the fields present in patch into the caller's profile.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, patch domain.ProfilePatch, req RequestInfo) (*domain.User, error) {
	upd, err := patch.Normalize()
	if err != nil {
		return nil, err
	}
	if upd.Empty() {
		return s.Profile(ctx, userID)
	}

	if upd.Email != nil {
		other, err := s.users.GetByEmail(ctx, *upd.Email)
		switch {
		case err == nil && other.ID != userID:
			return nil, domain.NewError(domain.ErrConflict, MsgUserExists)
		case err != nil && !errors.Is(err, domain.ErrNotFound):
			return nil, fmt.Errorf("lookup user: %w", err)
		}
	}

	user, err := s.users.Update(ctx, userID, upd, s.now())
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.NewError(domain.ErrConflict, MsgUserExists)
		}
		return nil, userError(err)
	}

	s.audit.Log(ctx, userID, domain.AuditActionProfileUpdate, domain.AuditCategoryProfile, req,
		map[string]any{"fields": upd.Fields()})
	return user, nil
}

// SetProfileImage records an externally hosted image URL. No file is transferred.
func (s *AuthService) SetProfileImage(ctx context.Context, userID, imageURL string, req RequestInfo) (string, error) {
	imageURL = strings.TrimSpace(imageURL)
	if !validImageURL(imageURL) {
		return "", domain.NewError(domain.ErrInvalidInput, MsgInvalidImageURL)
	}

	user, err := s.users.SetImageURL(ctx, userID, imageURL, s.now())
	if err != nil {
		return "", userError(err)
	}

	s.audit.Log(ctx, userID, domain.AuditActionProfileImage, domain.AuditCategoryProfile, req, nil)
	return *user.ImageURL, nil
}

func (s *AuthService) Activity(ctx context.Context, userID string) ([]*domain.AuditLog, error) {
	return s.audit.Recent(ctx, userID)
}

func validImageURL(raw string) bool {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func userError(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewError(domain.ErrNotFound, MsgUserNotFound)
	}
	return fmt.Errorf("user store: %w", err)
}
