package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/MKhiriev/yorlect/internal/config"
	"github.com/MKhiriev/yorlect/internal/logger"
	"github.com/MKhiriev/yorlect/internal/store"
	"github.com/MKhiriev/yorlect/internal/utils"
	"github.com/MKhiriev/yorlect/internal/validators"
	"github.com/MKhiriev/yorlect/models"
)

// authService is the concrete implementation of AuthService.
// In password mode accounts live in a UserRepository with bcrypt hashes; in
// username mode any normalized name is accepted and only the admin secret
// is checked.
type authService struct {
	// userRepository is nil in username mode.
	userRepository store.UserRepository
	datasetStore   store.DatasetStore
	validator      validators.Validator

	identityMode  string
	adminUsername string
	adminSecret   string

	tokenSignKey  string
	tokenIssuer   string
	tokenDuration time.Duration

	clock  *clock
	logger *logger.Logger
}

// NewAuthService constructs a new AuthService populated with identity and
// token parameters from cfg.
//
// The returned service is safe for concurrent use; all state is read-only after
// construction.
func NewAuthService(userRepository store.UserRepository, datasetStore store.DatasetStore, cfg config.App, logger *logger.Logger) AuthService {
	return &authService{
		userRepository: userRepository,
		datasetStore:   datasetStore,
		validator:      validators.NewDatasetValidator(),
		identityMode:   cfg.IdentityMode,
		adminUsername:  cfg.AdminUsername,
		adminSecret:    cfg.AdminSecret,
		tokenSignKey:   cfg.TokenSignKey,
		tokenIssuer:    cfg.TokenIssuer,
		tokenDuration:  cfg.TokenDuration,
		clock:          newClock(),
		logger:         logger,
	}
}

func (a *authService) passwordMode() bool {
	return a.identityMode == config.IdentityModePassword
}

// Register validates the credentials, stores the account in password mode
// and creates the owner namespace eagerly.
//
// Returns:
//   - ErrValidation for an empty username, empty password or a confirmation
//     that does not match.
//   - store.ErrUserAlreadyExists when the normalized username is taken.
func (a *authService) Register(ctx context.Context, credentials models.Credentials) (models.Identity, error) {
	log := logger.FromContext(ctx)

	fields := []string{validators.FieldUsername}
	if a.passwordMode() {
		fields = append(fields, validators.FieldPassword, validators.FieldConfirmPassword)
	}
	if err := a.validator.Validate(ctx, credentials, fields...); err != nil {
		log.Debug().Err(err).Str("func", "*authService.Register").Msg("invalid credentials provided")
		return models.Identity{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	owner, err := a.NormalizeOwner(credentials.Username)
	if err != nil {
		return models.Identity{}, err
	}

	if a.passwordMode() {
		hash, err := bcrypt.GenerateFromPassword([]byte(credentials.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Err(err).Str("func", "*authService.Register").Msg("error hashing password")
			return models.Identity{}, fmt.Errorf("error hashing password: %w", err)
		}

		user := models.User{Username: owner, PasswordHash: string(hash), CreatedAt: a.clock.Now()}
		if err = a.userRepository.CreateUser(ctx, user); err != nil {
			log.Err(err).Str("username", owner).Msg("user creation ended with error")
			return models.Identity{}, fmt.Errorf("user creation ended with error: %w", err)
		}
	}

	if err = a.datasetStore.EnsureNamespace(ctx, owner); err != nil {
		log.Err(err).Str("owner", owner).Msg("error creating owner namespace")
		return models.Identity{}, fmt.Errorf("error creating owner namespace: %w", err)
	}

	return models.Identity{Owner: owner}, nil
}

// Authenticate resolves the caller of a login request.
//
// In password mode an unknown user and a wrong password both yield
// ErrInvalidCredentials. In username mode the normalized name is the
// identity and the password is ignored.
func (a *authService) Authenticate(ctx context.Context, credentials models.Credentials) (models.Identity, error) {
	log := logger.FromContext(ctx)

	owner, err := a.NormalizeOwner(credentials.Username)
	if err != nil {
		return models.Identity{}, err
	}

	if !a.passwordMode() {
		return models.Identity{Owner: owner}, nil
	}

	if err = a.validator.Validate(ctx, credentials, validators.FieldPassword); err != nil {
		return models.Identity{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	user, err := a.userRepository.FindUser(ctx, owner)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			log.Debug().Str("username", owner).Msg("login for unknown user")
			return models.Identity{}, ErrInvalidCredentials
		}
		log.Err(err).Str("username", owner).Msg("user search by username failed")
		return models.Identity{}, fmt.Errorf("user search by username failed: %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(credentials.Password)); err != nil {
		log.Debug().Str("username", owner).Msg("wrong password")
		return models.Identity{}, ErrInvalidCredentials
	}

	return models.Identity{Owner: user.Username, IsAdmin: user.IsAdmin}, nil
}

// AuthenticateAdmin compares secret with the configured admin secret in
// constant time.
func (a *authService) AuthenticateAdmin(ctx context.Context, secret string) (models.Identity, error) {
	if err := a.validator.Validate(ctx, models.AdminCredentials{Secret: secret}); err != nil {
		return models.Identity{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	if subtle.ConstantTimeCompare([]byte(secret), []byte(a.adminSecret)) != 1 {
		logger.FromContext(ctx).Warn().Msg("admin login with wrong secret")
		return models.Identity{}, ErrInvalidCredentials
	}

	owner, err := a.NormalizeOwner(a.adminUsername)
	if err != nil {
		return models.Identity{}, err
	}
	return models.Identity{Owner: owner, IsAdmin: true}, nil
}

// BootstrapAdmin creates the admin account with the configured secret as its
// password unless an admin already exists. A regular account holding the
// admin username is left alone; the shared-secret login still works then.
func (a *authService) BootstrapAdmin(ctx context.Context) error {
	if !a.passwordMode() {
		return nil
	}
	log := logger.FromContext(ctx)

	hasAdmin, err := a.userRepository.HasAdmin(ctx)
	if err != nil {
		return fmt.Errorf("error checking for admin account: %w", err)
	}
	if hasAdmin {
		log.Debug().Msg("admin account exists, bootstrap skipped")
		return nil
	}

	owner, err := a.NormalizeOwner(a.adminUsername)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(a.adminSecret), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("error hashing admin secret: %w", err)
	}

	err = a.userRepository.CreateUser(ctx, models.User{
		Username:     owner,
		PasswordHash: string(hash),
		IsAdmin:      true,
		CreatedAt:    a.clock.Now(),
	})
	switch {
	case errors.Is(err, store.ErrUserAlreadyExists):
		log.Warn().Str("username", owner).Msg("admin username is taken by a regular account, bootstrap skipped")
		return nil
	case err != nil:
		return fmt.Errorf("error creating admin account: %w", err)
	}

	log.Info().Str("username", owner).Msg("admin account created")
	return nil
}

// CreateToken issues a signed JWT for identity.
func (a *authService) CreateToken(ctx context.Context, identity models.Identity) (models.Token, error) {
	token, err := utils.GenerateJWTToken(a.tokenIssuer, identity, a.tokenDuration, a.tokenSignKey)
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return token, nil
}

// ParseToken validates and parses a raw JWT string.
//
// Any validation failure (expired, wrong issuer, malformed) is normalised to
// ErrTokenIsExpiredOrInvalid so that callers do not need to inspect
// low-level JWT errors.
func (a *authService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}

	return token, nil
}

func (a *authService) NormalizeOwner(raw string) (string, error) {
	return normalizeOwner(raw)
}

// ListUsers returns the registered accounts; there are none in username mode.
func (a *authService) ListUsers(ctx context.Context) ([]models.User, error) {
	if !a.passwordMode() {
		return []models.User{}, nil
	}

	users, err := a.userRepository.ListUsers(ctx)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*authService.ListUsers").Msg("error listing users")
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	return users, nil
}
