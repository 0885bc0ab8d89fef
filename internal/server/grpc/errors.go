package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus converts a service error into a gRPC status. Anything that is not
// a known kind is logged and reported as a bare internal error.
func (s *GRPCServer) toStatus(ctx context.Context, op string, err error) error {
	var code codes.Code
	switch {
	case errors.Is(err, common.ErrorConflict):
		code = codes.AlreadyExists
	case errors.Is(err, common.ErrorNotFound):
		code = codes.NotFound
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrInvalidToken):
		code = codes.Unauthenticated
	case errors.Is(err, common.ErrorValidation):
		code = codes.InvalidArgument
	case errors.Is(err, common.ErrorForbidden):
		code = codes.PermissionDenied
	default:
		s.logger.Error(ctx, "request failed", "op", op, "error", err.Error())
		return status.Error(codes.Internal, common.ErrorInternal.Error())
	}
	return status.Error(code, common.Message(err))
}
