package usecase

import (
	"context"
	"strings"
	"time"

	"artisanmart/internal/domain/entity"
	"artisanmart/internal/domain/repository"
	"artisanmart/pkg/errors"
	"artisanmart/pkg/logger"
)

type AuthUseCase struct {
	userRepo     repository.UserRepository
	firebaseAuth FirebaseAuthClient
}

func NewAuthUseCase(userRepo repository.UserRepository, firebaseAuth FirebaseAuthClient) *AuthUseCase {
	return &AuthUseCase{
		userRepo:     userRepo,
		firebaseAuth: firebaseAuth,
	}
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Phone    string
	Role     string
}

type AuthResult struct {
	User         *entity.User `json:"user"`
	Token        string       `json:"token,omitempty"`
	RefreshToken string       `json:"refreshToken,omitempty"`
}

type TokenPair struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

func (uc *AuthUseCase) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, errors.Conflict("Email already in use")
	}

	role := input.Role
	if role == "" {
		role = entity.RoleUser
	}
	if role != entity.RoleUser && role != entity.RoleArtisan {
		return nil, errors.BadRequest("role must be one of: user artisan", nil)
	}

	uid, err := uc.firebaseAuth.CreateUser(ctx, email, input.Password, input.Name)
	if err != nil {
		return nil, errors.BadRequest("Failed to create account", err)
	}

	now := time.Now()
	user := &entity.User{
		ID:        uid,
		Email:     email,
		Name:      input.Name,
		Phone:     input.Phone,
		Role:      role,
		Provider:  "password",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, errors.Internal("Failed to create user record", err)
	}

	token, refresh, err := uc.firebaseAuth.SignInWithEmailPassword(ctx, email, input.Password)
	if err != nil {
		logger.Warn("Registered %s but sign-in failed: %v", uid, err)
		return &AuthResult{User: user}, nil
	}

	return &AuthResult{User: user, Token: token, RefreshToken: refresh}, nil
}

func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	token, refresh, err := uc.firebaseAuth.SignInWithEmailPassword(ctx, strings.ToLower(strings.TrimSpace(email)), password)
	if err != nil {
		logger.Info("Login failed for %s: %v", email, err)
		return nil, errors.Unauthorized("Invalid credentials", err)
	}

	uid, err := uc.firebaseAuth.VerifyToken(ctx, token)
	if err != nil {
		return nil, errors.Internal("Failed to verify token", err)
	}

	user, err := loadUser(ctx, uc.userRepo, uid)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, Token: token, RefreshToken: refresh}, nil
}

func (uc *AuthUseCase) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	token, refresh, err := uc.firebaseAuth.RefreshIDToken(ctx, refreshToken)
	if err != nil {
		return nil, errors.Unauthorized("Invalid refresh token", err)
	}
	return &TokenPair{Token: token, RefreshToken: refresh}, nil
}

// GoogleSignIn accepts a Firebase ID token minted by the Google provider and
// creates the local user record on first sign-in.
func (uc *AuthUseCase) GoogleSignIn(ctx context.Context, idToken string) (*AuthResult, error) {
	info, err := uc.firebaseAuth.VerifyTokenInfo(ctx, idToken)
	if err != nil {
		return nil, errors.Unauthorized("Invalid or expired token", err)
	}
	if info.Provider != "google.com" {
		return nil, errors.Unauthorized("Token was not issued by Google sign-in", nil)
	}

	user, err := uc.userRepo.GetByID(ctx, info.UID)
	if err == nil {
		if user.AvatarURL == "" && info.Picture != "" {
			user.AvatarURL = info.Picture
			if err := uc.userRepo.Update(ctx, user); err != nil {
				logger.Warn("Failed to refresh avatar for %s: %v", user.ID, err)
			}
		}
		return &AuthResult{User: user, Token: idToken}, nil
	}
	if !errors.IsNotFound(err) {
		return nil, err
	}

	now := time.Now()
	user = &entity.User{
		ID:        info.UID,
		Email:     strings.ToLower(info.Email),
		Name:      info.Name,
		AvatarURL: info.Picture,
		Role:      entity.RoleUser,
		Provider:  "google",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, errors.Internal("Failed to create user record", err)
	}
	return &AuthResult{User: user, Token: idToken}, nil
}

func (uc *AuthUseCase) GetUserByID(ctx context.Context, id string) (*entity.User, error) {
	return loadUser(ctx, uc.userRepo, id)
}

// DevToken issues a bearer token for an existing user. Development only.
func (uc *AuthUseCase) DevToken(ctx context.Context, uid string) (*AuthResult, error) {
	user, err := loadUser(ctx, uc.userRepo, uid)
	if err != nil {
		return nil, err
	}
	token, err := uc.firebaseAuth.GenerateLongLivedToken(ctx, uid)
	if err != nil {
		return nil, errors.Internal("Failed to generate token", err)
	}
	return &AuthResult{User: user, Token: token}, nil
}
