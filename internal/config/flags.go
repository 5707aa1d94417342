package config

import (
	"flag"
	"io"
	"strings"
)

// parseFlags extracts the config file path from args. Only -config and -c
// are recognised; everything else is left for other consumers.
func parseFlags(args []string) string {
	args = filterArgs(args, []string{"-config", "--config", "-c"})

	fs := flag.NewFlagSet("storefront", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var path string
	fs.StringVar(&path, "config", "", "path to YAML config file")
	fs.StringVar(&path, "c", "", "path to YAML config file (shorthand)")

	if err := fs.Parse(args); err != nil {
		return ""
	}
	return path
}

// filterArgs keeps only the flags named in allowed, with their values, in
// either "-flag value" or "-flag=value" form.
func filterArgs(args []string, allowed []string) []string {
	known := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		known[a] = struct{}{}
	}

	var out []string
	for i := 0; i < len(args); i++ {
		name, _, hasValue := strings.Cut(args[i], "=")
		if _, ok := known[name]; !ok {
			continue
		}
		out = append(out, args[i])
		if !hasValue && i+1 < len(args) {
			out = append(out, args[i+1])
			i++
		}
	}
	return out
}
