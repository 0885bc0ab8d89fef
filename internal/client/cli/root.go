package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/client/config"
	"github.com/dmitrijs2005/gophauth/internal/flagx"
)

var ErrUnknownCommand = errors.New("unknown command")

const usage = `Usage: authctl [-a addr] [-s session.db] [-t seconds] [-c config.json] <command>

Commands:
  signup    create an account and log in
  login     log in with email or phone
  refresh   rotate the cached refresh token
  logout    revoke the cached session
  whoami    show the logged-in account
  help      show this message`

// CommandArgs drops the configuration flags (and their values) from args,
// leaving the command and its arguments.
func CommandArgs(args []string) []string {
	return flagx.Positional(args, append(append([]string{}, flagx.ConfigFlags...), config.Flags...))
}

// Run executes the command named by args[0].
func (a *App) Run(ctx context.Context, args []string) error {
	defer a.authService.Close(ctx)
	if a.db != nil {
		defer a.db.Close()
	}

	if len(args) == 0 {
		fmt.Fprintln(a.out, usage)
		return nil
	}

	switch cmd := args[0]; cmd {
	case "help":
		fmt.Fprintln(a.out, usage)
		return nil
	case "signup", "register":
		return a.Signup(ctx)
	case "login":
		return a.Login(ctx)
	case "refresh":
		return a.Refresh(ctx)
	case "logout":
		return a.Logout(ctx)
	case "whoami", "me":
		return a.WhoAmI(ctx)
	default:
		fmt.Fprintln(a.out, usage)
		return fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}
}
