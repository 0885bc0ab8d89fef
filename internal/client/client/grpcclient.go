package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/api/authv1"
	"github.com/dmitrijs2005/gophauth/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// Methods that never carry an access token and are never retried.
var publicMethods = map[string]bool{
	authv1.FullMethod(authv1.MethodSignup):  true,
	authv1.FullMethod(authv1.MethodLogin):   true,
	authv1.FullMethod(authv1.MethodRefresh): true,
	authv1.FullMethod(authv1.MethodLogout):  true,
}

type GRPCClient struct {
	conn   *grpc.ClientConn
	client *authv1.AuthServiceClient

	mu     sync.Mutex
	tokens Tokens
	now    func() time.Time
}

var _ Client = (*GRPCClient)(nil)

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	if publicMethods[method] {
		return invoker(ctx, method, req, reply, cc, opts...)
	}

	tokens := s.Tokens()
	err := invoker(withAccessToken(ctx, tokens.Access), method, req, reply, cc, opts...)

	if status.Code(err) != codes.Unauthenticated || tokens.Refresh == "" {
		return err
	}

	if _, rerr := s.Refresh(ctx); rerr != nil {
		return err
	}

	// TOKENS REFRESHED, retrying with the new access token
	return invoker(withAccessToken(ctx, s.Tokens().Access), method, req, reply, cc, opts...)
}

// NewGRPCClient creates a client for endpointURL. Extra dial options are
// appended after the defaults.
func NewGRPCClient(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{now: time.Now}

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, opts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = authv1.NewAuthServiceClient(conn)
	return c, nil
}

func (s *GRPCClient) SetTokens(t Tokens) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = t
}

func (s *GRPCClient) Tokens() Tokens {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens
}

func (s *GRPCClient) keep(resp *authv1.AuthResponse) {
	s.SetTokens(Tokens{
		Access:    resp.AccessToken,
		Refresh:   resp.RefreshToken,
		ExpiresAt: s.now().Add(time.Duration(resp.ExpiresIn) * time.Second),
	})
}

func (s *GRPCClient) Signup(ctx context.Context, req *authv1.SignupRequest) (*authv1.AuthResponse, error) {

	resp, err := s.client.Signup(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}

	s.keep(resp)
	return resp, nil
}

func (s *GRPCClient) Login(ctx context.Context, req *authv1.LoginRequest) (*authv1.AuthResponse, error) {

	resp, err := s.client.Login(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}

	s.keep(resp)
	return resp, nil
}

// Refresh redeems the held refresh token. The old pair is unusable
// afterwards whether or not the call succeeds.
func (s *GRPCClient) Refresh(ctx context.Context) (*authv1.AuthResponse, error) {

	refresh := s.Tokens().Refresh
	if refresh == "" {
		return nil, ErrNotLoggedIn
	}

	resp, err := s.client.Refresh(ctx, &authv1.RefreshRequest{RefreshToken: refresh})
	if err != nil {
		return nil, s.mapError(err)
	}

	s.keep(resp)
	return resp, nil
}

func (s *GRPCClient) Logout(ctx context.Context) error {

	refresh := s.Tokens().Refresh
	if refresh == "" {
		return ErrNotLoggedIn
	}

	if _, err := s.client.Logout(ctx, &authv1.LogoutRequest{RefreshToken: refresh}); err != nil {
		return s.mapError(err)
	}

	s.SetTokens(Tokens{})
	return nil
}

func (s *GRPCClient) Me(ctx context.Context) (*authv1.Account, error) {

	if s.Tokens().Access == "" {
		return nil, ErrNotLoggedIn
	}

	resp, err := s.client.Me(ctx, &authv1.Empty{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) mapError(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	var kind error
	switch st.Code() {
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.Unauthenticated:
		kind = ErrUnauthorized
	case codes.AlreadyExists:
		kind = ErrAlreadyExists
	case codes.NotFound:
		kind = ErrNotFound
	case codes.InvalidArgument:
		kind = ErrInvalidArgument
	case codes.PermissionDenied:
		kind = ErrForbidden
	default:
		return fmt.Errorf("server error: %s", st.Message())
	}
	return fmt.Errorf("%w: %s", kind, st.Message())
}
