package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/password"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
)

// Caller-facing messages.
const (
	msgAccountNotFound    = "account not found"
	msgAccountDisabled    = "account is disabled"
	msgInvalidCredentials = "invalid credentials"
	msgSocialOnly         = "please login using social login"
	msgInvalidRefresh     = "invalid refresh token"
	msgPasswordNotAllowed = "password cannot be set for this account"
	msgIdentityRequired   = "email or phone is required"
	msgPasswordRequired   = "password is required"
)

// AccountEvents receives notifications about account lifecycle changes.
// Implementations must not block for long; failures are theirs to handle.
type AccountEvents interface {
	AccountCreated(ctx context.Context, account *models.Account)
}

// SignupInput is a credential signup request.
type SignupInput struct {
	Email    string
	Phone    string
	Name     string
	Password string
}

// LoginInput is a credential login request. Email takes precedence over
// Phone when both are set.
type LoginInput struct {
	Email    string
	Phone    string
	Password string
}

// AuthResult is returned by every operation that logs an account in.
type AuthResult struct {
	TokenPair
	Account *models.Account
}

// AuthService is the entry point for signup, login, token refresh, social
// login and account administration.
type AuthService struct {
	repos      repomanager.RepositoryManager
	hasher     password.Hasher
	signer     *auth.Signer
	issuer     *TokenIssuer
	registry   *RefreshRegistry
	reconciler *Reconciler
	events     AccountEvents
	logger     logging.Logger
}

// NewAuthService wires an AuthService. events may be nil.
func NewAuthService(
	repos repomanager.RepositoryManager,
	hasher password.Hasher,
	signer *auth.Signer,
	issuer *TokenIssuer,
	events AccountEvents,
	logger logging.Logger,
) *AuthService {
	logger = logger.With("module", "auth_service")
	return &AuthService{
		repos:      repos,
		hasher:     hasher,
		signer:     signer,
		issuer:     issuer,
		registry:   NewRefreshRegistry(signer, logger),
		reconciler: NewReconciler(),
		events:     events,
		logger:     logger,
	}
}

// Signup creates a password account and logs it in. The account and its
// first refresh token are stored in one transaction.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	if in.Email == "" && in.Phone == "" {
		return nil, common.NewError(common.ErrorValidation, msgIdentityRequired)
	}
	if in.Password == "" {
		return nil, common.NewError(common.ErrorValidation, msgPasswordRequired)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		if errors.Is(err, password.ErrTooLong) {
			return nil, common.NewError(common.ErrorValidation, err.Error())
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := models.NewAccount()
	account.Email = in.Email
	account.Phone = in.Phone
	account.Name = in.Name
	account.PasswordHash = hash

	var pair *TokenPair
	err = s.repos.WithTx(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		if _, err := repos.Accounts().Create(ctx, account); err != nil {
			return err
		}
		var err error
		pair, err = s.issuer.Issue(ctx, repos.RefreshTokens(), account)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("signup: %w", err)
	}

	s.logger.Info(ctx, "account created", "account_id", account.ID, "method", "password")
	s.notifyCreated(ctx, account)
	return &AuthResult{TokenPair: *pair, Account: account}, nil
}

// Login checks credentials and issues a fresh token pair. Other sessions of
// the account stay valid.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	var (
		account *models.Account
		err     error
	)
	switch {
	case in.Email != "":
		account, err = s.repos.Accounts().GetByEmail(ctx, in.Email)
	case in.Phone != "":
		account, err = s.repos.Accounts().GetByPhone(ctx, in.Phone)
	default:
		return nil, common.NewError(common.ErrorValidation, msgIdentityRequired)
	}
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewError(common.ErrorNotFound, msgAccountNotFound)
		}
		return nil, fmt.Errorf("login lookup: %w", err)
	}

	if !account.IsActive {
		s.logger.Warn(ctx, "login rejected", "account_id", account.ID, "reason", "inactive")
		return nil, common.NewError(common.ErrorUnauthorized, msgAccountDisabled)
	}
	if !account.HasPassword() {
		s.logger.Warn(ctx, "login rejected", "account_id", account.ID, "reason", "no password")
		return nil, common.NewError(common.ErrorUnauthorized, msgSocialOnly)
	}
	if !s.hasher.Verify(in.Password, account.PasswordHash) {
		s.logger.Warn(ctx, "login rejected", "account_id", account.ID, "reason", "bad password")
		return nil, common.NewError(common.ErrorUnauthorized, msgInvalidCredentials)
	}

	return s.issue(ctx, account)
}

// Refresh redeems a refresh token and returns a new pair. The presented
// token is consumed even if issuing the new pair fails afterwards.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	account, err := s.registry.Rotate(ctx, s.repos, refreshToken)
	if err != nil {
		return nil, common.NewError(common.ErrorUnauthorized, msgInvalidRefresh)
	}

	res, err := s.issue(ctx, account)
	if err != nil {
		s.logger.Error(ctx, "refresh issuance failed", "account_id", account.ID, "error", err.Error())
		return nil, common.NewError(common.ErrorUnauthorized, msgInvalidRefresh)
	}
	return res, nil
}

// SocialLogin logs in the local account matching a verified third-party
// profile, creating or linking it first.
func (s *AuthService) SocialLogin(ctx context.Context, profile *models.SocialProfile) (*AuthResult, error) {
	account, created, err := s.reconciler.Reconcile(ctx, s.repos.Accounts(), profile)
	if err != nil {
		var kinded *common.Error
		if errors.As(err, &kinded) {
			return nil, err
		}
		return nil, fmt.Errorf("social login: %w", err)
	}

	if created {
		s.logger.Info(ctx, "account created", "account_id", account.ID, "method", profile.Provider)
		s.notifyCreated(ctx, account)
	}
	if !account.IsActive {
		s.logger.Warn(ctx, "social login rejected", "account_id", account.ID, "reason", "inactive")
		return nil, common.NewError(common.ErrorUnauthorized, msgAccountDisabled)
	}

	return s.issue(ctx, account)
}

// Logout revokes a single refresh token.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if _, err := s.registry.Revoke(ctx, s.repos, refreshToken); err != nil {
		return common.NewError(common.ErrorUnauthorized, msgInvalidRefresh)
	}
	return nil
}

// LogoutAll revokes every live refresh token of the account.
func (s *AuthService) LogoutAll(ctx context.Context, accountID string) (int64, error) {
	n, err := s.repos.RefreshTokens().RevokeByAccount(ctx, accountID)
	if err != nil {
		return 0, fmt.Errorf("logout all: %w", err)
	}
	s.logger.Info(ctx, "sessions revoked", "account_id", accountID, "count", n)
	return n, nil
}

// Authenticate verifies an access token.
func (s *AuthService) Authenticate(_ context.Context, accessToken string) (*auth.Claims, error) {
	return s.signer.Verify(accessToken, auth.TypeAccess)
}

// GetAccount returns an active account by ID.
func (s *AuthService) GetAccount(ctx context.Context, accountID string) (*models.Account, error) {
	account, err := s.getAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !account.IsActive {
		return nil, common.NewError(common.ErrorUnauthorized, msgAccountDisabled)
	}
	return account, nil
}

// SetPassword lets a social account without a local password set one once.
// Accounts that already have a password are refused.
func (s *AuthService) SetPassword(ctx context.Context, accountID, plain string) error {
	account, err := s.GetAccount(ctx, accountID)
	if err != nil {
		return err
	}
	if !account.AvailToSetPassword || account.HasPassword() {
		return common.NewError(common.ErrorForbidden, msgPasswordNotAllowed)
	}

	hash, err := s.hasher.Hash(plain)
	if err != nil {
		if errors.Is(err, password.ErrTooLong) {
			return common.NewError(common.ErrorValidation, err.Error())
		}
		return fmt.Errorf("hash password: %w", err)
	}

	account.PasswordHash = hash
	account.AvailToSetPassword = false
	if err := s.repos.Accounts().Update(ctx, account); err != nil {
		return fmt.Errorf("set password: %w", err)
	}
	return nil
}

// ToggleStatus flips the active flag of an account. Deactivation revokes
// all of its refresh tokens in the same transaction.
func (s *AuthService) ToggleStatus(ctx context.Context, accountID string) (*models.Account, error) {
	var account *models.Account
	err := s.repos.WithTx(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		var err error
		account, err = repos.Accounts().GetByID(ctx, accountID)
		if err != nil {
			return err
		}
		account.IsActive = !account.IsActive
		if err := repos.Accounts().Update(ctx, account); err != nil {
			return err
		}
		if !account.IsActive {
			if _, err := repos.RefreshTokens().RevokeByAccount(ctx, account.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewError(common.ErrorNotFound, msgAccountNotFound)
		}
		return nil, fmt.Errorf("toggle status: %w", err)
	}

	s.logger.Info(ctx, "account status changed", "account_id", account.ID, "active", account.IsActive)
	return account, nil
}

// DeleteAccount removes an account together with its refresh tokens.
func (s *AuthService) DeleteAccount(ctx context.Context, accountID string) error {
	if err := s.repos.Accounts().Delete(ctx, accountID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.NewError(common.ErrorNotFound, msgAccountNotFound)
		}
		return fmt.Errorf("delete account: %w", err)
	}
	s.logger.Info(ctx, "account deleted", "account_id", accountID)
	return nil
}

func (s *AuthService) getAccount(ctx context.Context, accountID string) (*models.Account, error) {
	account, err := s.repos.Accounts().GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewError(common.ErrorNotFound, msgAccountNotFound)
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return account, nil
}

func (s *AuthService) issue(ctx context.Context, account *models.Account) (*AuthResult, error) {
	pair, err := s.issuer.Issue(ctx, s.repos.RefreshTokens(), account)
	if err != nil {
		return nil, fmt.Errorf("issue tokens: %w", err)
	}
	return &AuthResult{TokenPair: *pair, Account: account}, nil
}

func (s *AuthService) notifyCreated(ctx context.Context, account *models.Account) {
	if s.events != nil {
		s.events.AccountCreated(ctx, account)
	}
}
