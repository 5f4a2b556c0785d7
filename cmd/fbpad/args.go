package main

import (
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

// builtinCommands are added by cobra and fang at execution time, after
// normalizeArgs has run.
var builtinCommands = []string{"help", "completion", "man", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd}

// normalizeArgs rewrites the command line so that everything from the first
// non-flag argument on reaches the root command as the program to run.
// Known flags keep their values, unknown leading flags are dropped and a
// "--" is inserted before the program. Subcommand invocations pass through
// untouched.
func normalizeArgs(root *cobra.Command, args []string) []string {
	root.InitDefaultHelpFlag()
	root.InitDefaultVersionFlag()

	out := make([]string, 0, len(args)+1)
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return append(out, args[i:]...)
		}
		if !strings.HasPrefix(arg, "-") {
			if i == 0 && isSubcommand(root, arg) {
				return args
			}
			out = append(out, "--")
			return append(out, args[i:]...)
		}

		known, takesValue := lookupFlag(root, arg)
		if !known {
			continue
		}
		out = append(out, arg)
		if takesValue && i+1 < len(args) {
			i++
			out = append(out, args[i])
		}
	}
	return out
}

// lookupFlag reports whether arg names a root flag and whether the flag's
// value is the next argument.
func lookupFlag(root *cobra.Command, arg string) (known, takesValue bool) {
	flags := root.Flags()
	if name, ok := strings.CutPrefix(arg, "--"); ok {
		name, _, inline := strings.Cut(name, "=")
		f := flags.Lookup(name)
		if f == nil {
			return false, false
		}
		return true, !inline && f.NoOptDefVal == ""
	}
	if len(arg) < 2 {
		return false, false
	}
	f := flags.ShorthandLookup(arg[1:2])
	if f == nil {
		return false, false
	}
	return true, len(arg) == 2 && f.NoOptDefVal == ""
}

func isSubcommand(root *cobra.Command, name string) bool {
	if slices.Contains(builtinCommands, name) {
		return true
	}
	for _, c := range root.Commands() {
		if c.Name() == name || c.HasAlias(name) {
			return true
		}
	}
	return false
}
