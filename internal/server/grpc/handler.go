package grpc

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/api/authv1"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (s *GRPCServer) Signup(ctx context.Context, req *authv1.SignupRequest) (*authv1.AuthResponse, error) {
	email, phone, err := validateIdentity(req.Email, req.Phone)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}

	result, err := s.auth.Signup(ctx, services.SignupInput{Email: email, Phone: phone, Name: req.Name, Password: req.Password})
	if err != nil {
		return nil, s.toStatus(ctx, "signup", err)
	}

	s.logger.Info(ctx, "Registered", "account_id", result.Account.ID)
	return toAuthResponse(result), nil
}

func (s *GRPCServer) Login(ctx context.Context, req *authv1.LoginRequest) (*authv1.AuthResponse, error) {
	email, phone, err := validateIdentity(req.Email, req.Phone)
	if err != nil {
		return nil, err
	}
	if req.Password == "" {
		return nil, invalid("password is required")
	}

	result, err := s.auth.Login(ctx, services.LoginInput{Email: email, Phone: phone, Password: req.Password})
	if err != nil {
		return nil, s.toStatus(ctx, "login", err)
	}

	return toAuthResponse(result), nil
}

func (s *GRPCServer) Refresh(ctx context.Context, req *authv1.RefreshRequest) (*authv1.AuthResponse, error) {
	if req.RefreshToken == "" {
		return nil, invalid("refresh token is required")
	}

	result, err := s.auth.Refresh(ctx, req.RefreshToken)
	if err != nil {
		return nil, s.toStatus(ctx, "refresh", err)
	}

	return toAuthResponse(result), nil
}

func (s *GRPCServer) Logout(ctx context.Context, req *authv1.LogoutRequest) (*authv1.Empty, error) {
	if req.RefreshToken == "" {
		return nil, invalid("refresh token is required")
	}

	if err := s.auth.Logout(ctx, req.RefreshToken); err != nil {
		return nil, s.toStatus(ctx, "logout", err)
	}

	return &authv1.Empty{}, nil
}

func (s *GRPCServer) GoogleAuthURL(ctx context.Context, req *authv1.GoogleAuthURLRequest) (*authv1.GoogleAuthURLResponse, error) {
	if s.google == nil {
		return nil, status.Error(codes.Unimplemented, "google login is not configured")
	}
	if req.State == "" {
		return nil, invalid("state is required")
	}

	return &authv1.GoogleAuthURLResponse{URL: s.google.AuthCodeURL(req.State)}, nil
}

func (s *GRPCServer) GoogleLogin(ctx context.Context, req *authv1.GoogleLoginRequest) (*authv1.AuthResponse, error) {
	if s.google == nil {
		return nil, status.Error(codes.Unimplemented, "google login is not configured")
	}
	if req.Code == "" {
		return nil, invalid("code is required")
	}

	profile, err := s.google.Exchange(ctx, req.Code)
	if err != nil {
		s.logger.Warn(ctx, "google exchange failed", "error", err.Error())
		return nil, status.Error(codes.Unauthenticated, "google login failed")
	}

	result, err := s.auth.SocialLogin(ctx, profile)
	if err != nil {
		return nil, s.toStatus(ctx, "google login", err)
	}

	return toAuthResponse(result), nil
}

func (s *GRPCServer) Me(ctx context.Context, _ *authv1.Empty) (*authv1.Account, error) {
	accountID, err := s.callerID(ctx)
	if err != nil {
		return nil, err
	}

	account, err := s.auth.GetAccount(ctx, accountID)
	if err != nil {
		return nil, s.toStatus(ctx, "me", err)
	}

	return toAccount(account), nil
}

func (s *GRPCServer) SetPassword(ctx context.Context, req *authv1.SetPasswordRequest) (*authv1.Empty, error) {
	accountID, err := s.callerID(ctx)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}

	if err := s.auth.SetPassword(ctx, accountID, req.Password); err != nil {
		return nil, s.toStatus(ctx, "set password", err)
	}

	return &authv1.Empty{}, nil
}

func (s *GRPCServer) LogoutAll(ctx context.Context, _ *authv1.Empty) (*authv1.LogoutAllResponse, error) {
	accountID, err := s.callerID(ctx)
	if err != nil {
		return nil, err
	}

	n, err := s.auth.LogoutAll(ctx, accountID)
	if err != nil {
		return nil, s.toStatus(ctx, "logout all", err)
	}

	return &authv1.LogoutAllResponse{Revoked: n}, nil
}

func (s *GRPCServer) ToggleStatus(ctx context.Context, req *authv1.AccountRequest) (*authv1.Account, error) {
	if req.AccountID == "" {
		return nil, invalid("account id is required")
	}

	account, err := s.auth.ToggleStatus(ctx, req.AccountID)
	if err != nil {
		return nil, s.toStatus(ctx, "toggle status", err)
	}

	if c, ok := claimsFromContext(ctx); ok {
		s.logger.Info(ctx, "status toggled", "by", c.AccountID(), "account_id", account.ID, "active", account.IsActive)
	}
	return toAccount(account), nil
}

func (s *GRPCServer) DeleteAccount(ctx context.Context, req *authv1.AccountRequest) (*authv1.Empty, error) {
	if req.AccountID == "" {
		return nil, invalid("account id is required")
	}

	if err := s.auth.DeleteAccount(ctx, req.AccountID); err != nil {
		return nil, s.toStatus(ctx, "delete account", err)
	}

	if c, ok := claimsFromContext(ctx); ok {
		s.logger.Info(ctx, "account deleted", "by", c.AccountID(), "account_id", req.AccountID)
	}
	return &authv1.Empty{}, nil
}

// callerID returns the account set by the access-token interceptor.
func (s *GRPCServer) callerID(ctx context.Context) (string, error) {
	id, ok := accountIDFromContext(ctx)
	if !ok {
		s.logger.Error(ctx, "account id missing from context")
		return "", status.Error(codes.Unauthenticated, "missing token")
	}
	return id, nil
}

func toAuthResponse(r *services.AuthResult) *authv1.AuthResponse {
	resp := &authv1.AuthResponse{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		ExpiresIn:    r.ExpiresIn,
	}
	if r.Account != nil {
		resp.Account = toAccount(r.Account)
	}
	return resp
}

func toAccount(a *models.Account) *authv1.Account {
	v := a.View()
	return &authv1.Account{
		ID:                 v.ID,
		Email:              v.Email,
		Phone:              v.Phone,
		Name:               v.Name,
		Avatar:             v.Avatar,
		Roles:              v.Roles,
		ProviderIDs:        v.ProviderIDs,
		AvailToSetPassword: v.AvailToSetPassword,
		IsActive:           v.IsActive,
		CreatedAt:          v.CreatedAt,
		UpdatedAt:          v.UpdatedAt,
	}
}
