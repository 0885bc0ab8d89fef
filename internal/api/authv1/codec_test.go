package authv1

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/encoding"
)

func TestCodec_Registered(t *testing.T) {
	c := encoding.GetCodec(CodecName)
	require.NotNil(t, c)
	assert.Equal(t, "json", c.Name())
}

func TestCodec_WireNames(t *testing.T) {
	b, err := Codec{}.Marshal(&AuthResponse{AccessToken: "a", RefreshToken: "r", ExpiresIn: 3600})
	require.NoError(t, err)
	assert.JSONEq(t, `{"access_token":"a","refresh_token":"r","expires_in":3600}`, string(b))

	var req SignupRequest
	require.NoError(t, Codec{}.Unmarshal([]byte(`{"email":"a@x.com","password":"secret1"}`), &req))
	assert.Equal(t, SignupRequest{Email: "a@x.com", Password: "secret1"}, req)
}

func TestServiceDesc_ListsEveryMethod(t *testing.T) {
	names := make([]string, 0, len(ServiceDesc.Methods))
	for _, m := range ServiceDesc.Methods {
		names = append(names, m.MethodName)
	}
	assert.ElementsMatch(t, []string{
		MethodSignup, MethodLogin, MethodRefresh, MethodLogout, MethodGoogleAuthURL, MethodGoogleLogin,
		MethodMe, MethodSetPassword, MethodLogoutAll, MethodToggleStatus, MethodDeleteAccount,
	}, names)
	assert.Equal(t, "/auth.v1.AuthService/Login", FullMethod(MethodLogin))
}
