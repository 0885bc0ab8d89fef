package grpc

import (
	"context"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/api/authv1"
	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const (
	accountIDKey ctxKey = "accountID"
	claimsKey    ctxKey = "claims"
)

// Methods callable without an access token.
var publicMethods = map[string]bool{
	authv1.FullMethod(authv1.MethodSignup):        true,
	authv1.FullMethod(authv1.MethodLogin):         true,
	authv1.FullMethod(authv1.MethodRefresh):       true,
	authv1.FullMethod(authv1.MethodLogout):        true,
	authv1.FullMethod(authv1.MethodGoogleAuthURL): true,
	authv1.FullMethod(authv1.MethodGoogleLogin):   true,
}

// Methods restricted to administrators.
var adminMethods = map[string]bool{
	authv1.FullMethod(authv1.MethodToggleStatus):  true,
	authv1.FullMethod(authv1.MethodDeleteAccount): true,
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {

	if !strings.HasPrefix(info.FullMethod, "/"+authv1.ServiceName+"/") || publicMethods[info.FullMethod] {
		return handler(ctx, req)
	}

	accessToken := bearerToken(ctx)
	if len(accessToken) == 0 {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	claims, err := s.auth.Authenticate(ctx, accessToken)
	if err != nil {
		s.logger.Warn(ctx, "access token rejected", "method", info.FullMethod, "error", err.Error())
		return nil, status.Error(codes.Unauthenticated, "invalid token")
	}

	if adminMethods[info.FullMethod] && !hasAnyRole(claims.Roles, models.RoleAdmin, models.RoleSuperAdmin) {
		s.logger.Warn(ctx, "admin call denied", "method", info.FullMethod, "account_id", claims.AccountID())
		return nil, status.Error(codes.PermissionDenied, "insufficient role")
	}

	ctx = context.WithValue(ctx, accountIDKey, claims.AccountID())
	ctx = context.WithValue(ctx, claimsKey, claims)

	return handler(ctx, req)
}

func (s *GRPCServer) requestLogInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	s.logger.Debug(ctx, "request", "method", info.FullMethod, "code", status.Code(err).String(), "duration", time.Since(start).String())
	return resp, err
}

// bearerToken extracts the token from "authorization: Bearer <token>".
func bearerToken(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get(common.AuthorizationHeaderName)
	if len(values) == 0 {
		return ""
	}
	v := values[0]
	if len(v) <= len(common.BearerPrefix) || !strings.EqualFold(v[:len(common.BearerPrefix)], common.BearerPrefix) {
		return ""
	}
	return strings.TrimSpace(v[len(common.BearerPrefix):])
}

func hasAnyRole(have []string, want ...string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}

func accountIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(accountIDKey).(string)
	return id, ok && id != ""
}

func claimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*auth.Claims)
	return c, ok
}
