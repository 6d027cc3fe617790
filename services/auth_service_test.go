package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jagman11/match--royale/mocks"
	"github.com/jagman11/match--royale/models"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret-with-enough-entropy"

func TestAuthService_SignUp(t *testing.T) {
	ctx := context.Background()

	t.Run("should create the account and an empty profile", func(t *testing.T) {
		req := require.New(t)
		store := newTestStore(t)
		svc := NewAuthService(store, store, testSecret, time.Hour, zap.NewNop().Sugar())

		session, err := svc.SignUp(ctx, Credentials{Email: " Ada@Example.com ", Password: "secret1"})
		req.NoError(err)
		req.NotEmpty(session.Token)
		req.NotEmpty(session.UserID)

		account, err := store.GetAccount(ctx, "ada@example.com")
		req.NoError(err)
		req.Equal(session.UserID, account.UserID)
		req.NotEqual("secret1", account.PasswordHash)

		profile, err := store.GetProfile(ctx, session.UserID)
		req.NoError(err)
		req.Equal(session.UserID, profile.UserID)

		userID, err := svc.VerifyToken(session.Token)
		req.NoError(err)
		req.Equal(session.UserID, userID)
	})

	t.Run("should refuse a taken email", func(t *testing.T) {
		req := require.New(t)
		store := newTestStore(t)
		svc := NewAuthService(store, store, testSecret, time.Hour, zap.NewNop().Sugar())

		_, err := svc.SignUp(ctx, Credentials{Email: "ada@example.com", Password: "secret1"})
		req.NoError(err)
		_, err = svc.SignUp(ctx, Credentials{Email: "ADA@example.com", Password: "other12"})
		req.ErrorIs(err, ErrEmailTaken)
	})

	t.Run("should validate credentials before touching the store", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		accounts := mocks.NewMockAccountStore(ctrl)
		profiles := mocks.NewMockProfileStore(ctrl)
		svc := NewAuthService(accounts, profiles, testSecret, time.Hour, zap.NewNop().Sugar())

		accounts.EXPECT().CreateAccount(gomock.Any(), gomock.Any()).Times(0)

		for _, creds := range []Credentials{
			{Email: "not-an-email", Password: "secret1"},
			{Email: "ada@example.com", Password: "short"},
			{Email: "", Password: ""},
		} {
			_, err := svc.SignUp(ctx, creds)
			var invalid validator.ValidationErrors
			require.ErrorAs(t, err, &invalid)
		}
	})

	t.Run("should surface a failed profile creation", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		accounts := mocks.NewMockAccountStore(ctrl)
		profiles := mocks.NewMockProfileStore(ctrl)
		core, logs := observer.New(zap.ErrorLevel)
		svc := NewAuthService(accounts, profiles, testSecret, time.Hour, zap.New(core).Sugar())
		errStore := errors.New("table missing")

		var created models.Account
		accounts.EXPECT().CreateAccount(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, account models.Account) error {
				created = account
				return nil
			})
		profiles.EXPECT().PutProfile(gomock.Any(), gomock.Any()).Return(errStore)

		_, err := svc.SignUp(ctx, Credentials{Email: "ada@example.com", Password: "secret1"})
		req.ErrorIs(err, errStore)

		entries := logs.FilterField(zap.String("userId", created.UserID)).All()
		req.Len(entries, 1)
		req.Equal(zap.ErrorLevel, entries[0].Level)
	})
}

func TestAuthService_SignIn(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	accounts := mocks.NewMockAccountStore(ctrl)
	svc := NewAuthService(accounts, mocks.NewMockProfileStore(ctrl), testSecret, time.Hour, zap.NewNop().Sugar())

	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &models.Account{Email: "ada@example.com", UserID: "u1", PasswordHash: string(hash)}

	t.Run("should sign in with the right password", func(t *testing.T) {
		req := require.New(t)
		accounts.EXPECT().GetAccount(gomock.Any(), "ada@example.com").Return(stored, nil)

		session, err := svc.SignIn(ctx, Credentials{Email: "Ada@example.com", Password: "secret1"})
		req.NoError(err)
		req.Equal("u1", session.UserID)
	})

	t.Run("should reject a wrong password", func(t *testing.T) {
		req := require.New(t)
		accounts.EXPECT().GetAccount(gomock.Any(), "ada@example.com").Return(stored, nil)

		_, err := svc.SignIn(ctx, Credentials{Email: "ada@example.com", Password: "secret2"})
		req.ErrorIs(err, ErrInvalidCredentials)
	})

	t.Run("should not reveal unknown emails", func(t *testing.T) {
		req := require.New(t)
		accounts.EXPECT().GetAccount(gomock.Any(), "bob@example.com").Return(nil, ErrAccountNotFound)

		_, err := svc.SignIn(ctx, Credentials{Email: "bob@example.com", Password: "secret1"})
		req.ErrorIs(err, ErrInvalidCredentials)
	})
}

func TestAuthService_VerifyToken(t *testing.T) {
	svc := NewAuthService(nil, nil, testSecret, time.Hour, zap.NewNop().Sugar())

	sign := func(secret string, claims *Claims, method jwt.SigningMethod) string {
		token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return token
	}
	valid := func(expires time.Time) *Claims {
		return &Claims{
			UserID: "u1",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(expires),
				Issuer:    tokenIssuer,
			},
		}
	}

	cases := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not.a.token"},
		{"wrong secret", sign("other-secret", valid(time.Now().Add(time.Hour)), jwt.SigningMethodHS256)},
		{"expired", sign(testSecret, valid(time.Now().Add(-time.Minute)), jwt.SigningMethodHS256)},
		{"wrong algorithm", sign(testSecret, valid(time.Now().Add(time.Hour)), jwt.SigningMethodHS512)},
		{"no expiry", sign(testSecret, &Claims{UserID: "u1", RegisteredClaims: jwt.RegisteredClaims{Issuer: tokenIssuer}}, jwt.SigningMethodHS256)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.VerifyToken(tc.token)
			require.ErrorIs(t, err, ErrUnauthenticated)
		})
	}

	userID, err := svc.VerifyToken(sign(testSecret, valid(time.Now().Add(time.Hour)), jwt.SigningMethodHS256))
	require.NoError(t, err)
	require.Equal(t, "u1", userID)
}
