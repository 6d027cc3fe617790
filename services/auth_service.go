package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jagman11/match--royale/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const tokenIssuer = "match-royale"

// Claims is the payload of an access token
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// Credentials is the sign-up and sign-in payload
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// Session is returned after a successful sign-up or sign-in
type Session struct {
	UserID    string    `json:"userId"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AuthService is the identity provider: it owns accounts and issues signed tokens
type AuthService struct {
	Accounts AccountStore
	Profiles ProfileStore
	Secret   []byte
	TTL      time.Duration
	Validate *validator.Validate
	Log      *zap.SugaredLogger
}

// NewAuthService creates an AuthService signing tokens with secret
func NewAuthService(accounts AccountStore, profiles ProfileStore, secret string, ttl time.Duration, log *zap.SugaredLogger) *AuthService {
	return &AuthService{
		Accounts: accounts,
		Profiles: profiles,
		Secret:   []byte(secret),
		TTL:      ttl,
		Validate: validator.New(),
		Log:      log,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp registers an account and creates its empty profile
func (as *AuthService) SignUp(ctx context.Context, creds Credentials) (*Session, error) {
	creds.Email = normalizeEmail(creds.Email)
	if err := as.Validate.Struct(creds); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	account := models.Account{
		Email:        creds.Email,
		UserID:       uuid.NewString(),
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := as.Accounts.CreateAccount(ctx, account); err != nil {
		return nil, err
	}
	// The account stays; saving a profile later fills the gap.
	if err := as.Profiles.PutProfile(ctx, models.UserProfile{UserID: account.UserID}); err != nil {
		as.Log.Errorw("❌ Account created without a profile",
			"userId", account.UserID, "email", account.Email, "error", err)
		return nil, fmt.Errorf("failed to create profile for %s: %w", account.UserID, err)
	}

	as.Log.Infof("✅ Account %s created for %s", account.UserID, account.Email)
	return as.issue(account.UserID)
}

// SignIn checks the password of an account and issues a new token
func (as *AuthService) SignIn(ctx context.Context, creds Credentials) (*Session, error) {
	creds.Email = normalizeEmail(creds.Email)
	if err := as.Validate.Struct(creds); err != nil {
		return nil, err
	}

	account, err := as.Accounts.GetAccount(ctx, creds.Email)
	if errors.Is(err, ErrAccountNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(creds.Password)); err != nil {
		as.Log.Warnf("⚠️ Failed sign-in for %s", creds.Email)
		return nil, ErrInvalidCredentials
	}

	as.Log.Debugf("🔑 %s signed in", account.UserID)
	return as.issue(account.UserID)
}

func (as *AuthService) issue(userID string) (*Session, error) {
	now := time.Now()
	expiresAt := now.Add(as.TTL)
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(as.Secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &Session{UserID: userID, Token: token, ExpiresAt: expiresAt}, nil
}

// VerifyToken validates signature, issuer and expiry and returns the signed-in user id
func (as *AuthService) VerifyToken(tokenString string) (string, error) {
	if tokenString == "" {
		return "", ErrUnauthenticated
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return as.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	if claims.UserID == "" {
		return "", ErrUnauthenticated
	}
	return claims.UserID, nil
}
