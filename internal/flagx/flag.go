// Package flagx helps components parse their own command-line flags without
// tripping over flags that belong to somebody else. The server config, for
// example, recognizes a handful of short flags while the same argv may also
// carry the -c/-config file path.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// FilterArgs returns the subset of args made up of the allowed flags and
// their values. Both spellings are handled: "-d dsn" as two arguments and
// "--config=conf.json" as one. Anything not in allowed is dropped, so the
// result can be fed to a flag.FlagSet that only defines the allowed names.
func FilterArgs(args []string, allowed []string) []string {
	known := make(map[string]bool, len(allowed))
	for _, name := range allowed {
		known[name] = true
	}

	filtered := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			continue
		}

		name, _, inline := strings.Cut(arg, "=")
		if !known[name] {
			continue
		}
		filtered = append(filtered, arg)

		// A separate value follows unless the next token is another flag.
		if !inline && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// JsonConfigFlags returns the config file path passed via -c or -config,
// or "" when neither flag is present. Other flags in os.Args are ignored.
func JsonConfigFlags() string {
	var path string

	fs := flag.NewFlagSet("config-file", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "path to a JSON config file")
	fs.StringVar(&path, "c", "", "path to a JSON config file (short)")
	_ = fs.Parse(FilterArgs(os.Args[1:], []string{"-c", "-config"}))

	return path
}
