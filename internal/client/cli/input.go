package cli

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword reads from the terminal without echo; tests replace it.
var readPassword = term.ReadPassword

// ErrPasswordMismatch is returned when the confirmation differs from the password.
var ErrPasswordMismatch = errors.New("passwords do not match")

// GetSimpleText prints prompt followed by "> " and returns the next line,
// trimmed. A final line without a newline is accepted.
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetPassword prompts on w and reads a password without echo.
// The caller wipes the returned slice.
func GetPassword(w io.Writer) ([]byte, error) {
	return promptSecret(w, "Enter password: ")
}

// GetNewPassword reads a password twice and fails with ErrPasswordMismatch
// unless both entries are equal. The caller wipes the returned slice.
func GetNewPassword(w io.Writer) ([]byte, error) {
	pw, err := promptSecret(w, "Choose password: ")
	if err != nil {
		return nil, err
	}

	confirm, err := promptSecret(w, "Repeat password: ")
	defer wipe(confirm)
	if err != nil {
		wipe(pw)
		return nil, err
	}

	if !bytes.Equal(pw, confirm) {
		wipe(pw)
		return nil, ErrPasswordMismatch
	}
	return pw, nil
}

func promptSecret(w io.Writer, prompt string) ([]byte, error) {
	if _, err := fmt.Fprint(w, prompt); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

// wipe zeroes b.
func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
