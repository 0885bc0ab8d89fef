package cli

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var getNewPassword = GetNewPassword

// Signup prompts for an email or phone, an optional name and a password,
// then creates the account and caches the session.
func (a *App) Signup(ctx context.Context) error {
	identity, err := getSimpleText(a.reader, "Enter email or phone", a.out)
	if err != nil {
		return err
	}

	name, err := getSimpleText(a.reader, "Enter name (optional)", a.out)
	if err != nil {
		return err
	}

	password, err := getNewPassword(a.out)
	if err != nil {
		return err
	}
	defer wipe(password)

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	s, err := a.authService.Signup(ctx, identity, name, password)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Signed up as %s (%s)\n", s.Identity(), s.AccountID)
	return nil
}

// Login prompts for credentials and caches the new session.
func (a *App) Login(ctx context.Context) error {
	identity, err := getSimpleText(a.reader, "Enter email or phone", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer wipe(password)

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	s, err := a.authService.Login(ctx, identity, password)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Logged in as %s\n", s.Identity())
	return nil
}

func (a *App) Refresh(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	s, err := a.authService.Refresh(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Tokens refreshed, access token valid until %s\n", s.AccessExpiresAt.Local().Format(time.RFC3339))
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.authService.Logout(ctx); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	acc, err := a.authService.WhoAmI(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "id:     %s\n", acc.ID)
	if acc.Email != "" {
		fmt.Fprintf(a.out, "email:  %s\n", acc.Email)
	}
	if acc.Phone != "" {
		fmt.Fprintf(a.out, "phone:  %s\n", acc.Phone)
	}
	if acc.Name != "" {
		fmt.Fprintf(a.out, "name:   %s\n", acc.Name)
	}
	fmt.Fprintf(a.out, "roles:  %s\n", strings.Join(acc.Roles, ", "))
	for provider, id := range acc.ProviderIDs {
		fmt.Fprintf(a.out, "linked: %s (%s)\n", provider, id)
	}
	return nil
}
