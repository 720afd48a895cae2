package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/CBerJun/acacia/pkg/config"
)

// GetString gets an expected string flag, or aborts with exit code 2 if the
// flag was never registered. Mirrors the teacher's pkg/cmd/util.go
// GetFlag/GetString helpers, trimmed to the three flag types (string, int,
// bool) acacia's surface actually uses.
func GetString(cmd *cobra.Command, flag string) string {
	v, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	return v
}

// GetInt gets an expected int flag.
func GetInt(cmd *cobra.Command, flag string) int {
	v, err := cmd.Flags().GetInt(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	return v
}

// GetBool gets an expected bool flag.
func GetBool(cmd *cobra.Command, flag string) bool {
	v, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	return v
}

// overridesFromFlags builds a config.Overrides from only the flags the user
// actually set on this invocation, using each flag's Changed bit exactly as
// the teacher's root.go checks cmd.Flags().Lookup("field-width").Changed
// before letting a CLI flag override file configuration.
func overridesFromFlags(cmd *cobra.Command) *config.Overrides {
	var o config.Overrides
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}
	if changed("out") {
		v := GetString(cmd, "out")
		o.Out = &v
	}
	if changed("scoreboard") {
		v := GetString(cmd, "scoreboard")
		o.Scoreboard = &v
	}
	if changed("function-folder") {
		v := GetString(cmd, "function-folder")
		o.FunctionFolder = &v
	}
	if changed("indent") {
		v := GetInt(cmd, "indent")
		o.Indent = &v
	}
	if changed("debug-comments") {
		v := GetBool(cmd, "debug-comments")
		o.DebugComments = &v
	}
	if changed("override-old") {
		v := GetBool(cmd, "override-old")
		o.OverrideOld = &v
	}
	if changed("encoding") {
		v := GetString(cmd, "encoding")
		o.Encoding = &v
	}
	if changed("verbose") {
		v := GetBool(cmd, "verbose")
		o.Verbose = &v
	}
	return &o
}
