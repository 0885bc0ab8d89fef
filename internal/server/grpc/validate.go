package grpc

import (
	"net/mail"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	minPasswordLen = 6
	maxPasswordLen = 72
)

func invalid(msg string) error {
	return status.Error(codes.InvalidArgument, msg)
}

// validEmail accepts a bare address only, no display name.
func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

func validatePassword(password string) error {
	switch {
	case len(password) < minPasswordLen:
		return invalid("password must be at least 6 characters")
	case len(password) > maxPasswordLen:
		return invalid("password must be at most 72 bytes")
	}
	return nil
}

// validateIdentity checks the email and phone of a signup or login request.
// At least one must be present.
func validateIdentity(email, phone string) (string, string, error) {
	email = strings.TrimSpace(email)
	phone = strings.TrimSpace(phone)
	if email == "" && phone == "" {
		return "", "", invalid("email or phone is required")
	}
	if email != "" && !validEmail(email) {
		return "", "", invalid("invalid email")
	}
	return email, phone, nil
}
