// Package flagx splits a shared command line between independent flag sets:
// the JSON config selector, each component's own flags, and the positional
// command of authctl.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// ConfigFlags select the JSON configuration file.
var ConfigFlags = []string{"-c", "-config"}

// splitFlag reports the flag name of arg and whether the value is inline
// ("-a=host"). ok is false for arguments that are not flags.
func splitFlag(arg string) (name string, inline bool, ok bool) {
	if !strings.HasPrefix(arg, "-") {
		return "", false, false
	}
	name, _, inline = strings.Cut(arg, "=")
	return name, inline, true
}

func set(names []string) map[string]struct{} {
	m := make(map[string]struct{}, len(names))
	for _, n := range names {
		m[n] = struct{}{}
	}
	return m
}

// takesValue reports whether args[i+1] is the separate value of the flag at args[i].
func takesValue(args []string, i int) bool {
	return i+1 < len(args) && !strings.HasPrefix(args[i+1], "-")
}

// FilterArgs keeps only the flags named in allowedFlags, with their values,
// in order. Both "-a value" and "-a=value" forms are recognised; a following
// argument that starts with "-" is never taken as a value.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := set(allowedFlags)
	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		name, inline, ok := splitFlag(args[i])
		if !ok {
			continue
		}
		if _, keep := allowed[name]; !keep {
			continue
		}
		filtered = append(filtered, args[i])
		if !inline && takesValue(args, i) {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// Positional returns the non-flag arguments of args. Values belonging to
// valueFlags are skipped along with their flag; other flags are dropped alone.
func Positional(args []string, valueFlags []string) []string {
	withValue := set(valueFlags)
	rest := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		name, inline, ok := splitFlag(args[i])
		if !ok {
			rest = append(rest, args[i])
			continue
		}
		if _, v := withValue[name]; v && !inline && takesValue(args, i) {
			i++
		}
	}

	return rest
}

// ConfigPath returns the JSON config file given with -c or -config in
// os.Args, or "" when neither is present. The last occurrence wins.
func ConfigPath() string {
	var path string

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "Path to config file")
	fs.StringVar(&path, "c", "", "Path to config file (short)")
	_ = fs.Parse(FilterArgs(os.Args[1:], ConfigFlags))

	return path
}
