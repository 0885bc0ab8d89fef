package authv1

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "auth.v1.AuthService"

// FullMethod returns the full gRPC method name for method.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// Method names.
const (
	MethodSignup        = "Signup"
	MethodLogin         = "Login"
	MethodRefresh       = "Refresh"
	MethodLogout        = "Logout"
	MethodGoogleAuthURL = "GoogleAuthURL"
	MethodGoogleLogin   = "GoogleLogin"
	MethodMe            = "Me"
	MethodSetPassword   = "SetPassword"
	MethodLogoutAll     = "LogoutAll"
	MethodToggleStatus  = "ToggleStatus"
	MethodDeleteAccount = "DeleteAccount"
)

// AuthServiceServer is the server API for auth.v1.AuthService.
type AuthServiceServer interface {
	Signup(context.Context, *SignupRequest) (*AuthResponse, error)
	Login(context.Context, *LoginRequest) (*AuthResponse, error)
	Refresh(context.Context, *RefreshRequest) (*AuthResponse, error)
	Logout(context.Context, *LogoutRequest) (*Empty, error)
	GoogleAuthURL(context.Context, *GoogleAuthURLRequest) (*GoogleAuthURLResponse, error)
	GoogleLogin(context.Context, *GoogleLoginRequest) (*AuthResponse, error)
	Me(context.Context, *Empty) (*Account, error)
	SetPassword(context.Context, *SetPasswordRequest) (*Empty, error)
	LogoutAll(context.Context, *Empty) (*LogoutAllResponse, error)
	ToggleStatus(context.Context, *AccountRequest) (*Account, error)
	DeleteAccount(context.Context, *AccountRequest) (*Empty, error)
}

func unary[Req, Resp any](method string, call func(AuthServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(AuthServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(AuthServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ServiceDesc describes auth.v1.AuthService for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AuthServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodSignup, AuthServiceServer.Signup),
		unary(MethodLogin, AuthServiceServer.Login),
		unary(MethodRefresh, AuthServiceServer.Refresh),
		unary(MethodLogout, AuthServiceServer.Logout),
		unary(MethodGoogleAuthURL, AuthServiceServer.GoogleAuthURL),
		unary(MethodGoogleLogin, AuthServiceServer.GoogleLogin),
		unary(MethodMe, AuthServiceServer.Me),
		unary(MethodSetPassword, AuthServiceServer.SetPassword),
		unary(MethodLogoutAll, AuthServiceServer.LogoutAll),
		unary(MethodToggleStatus, AuthServiceServer.ToggleStatus),
		unary(MethodDeleteAccount, AuthServiceServer.DeleteAccount),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "auth/v1/auth.json",
}

// RegisterAuthServiceServer registers srv on s.
func RegisterAuthServiceServer(s grpc.ServiceRegistrar, srv AuthServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}
