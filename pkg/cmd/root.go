// Package cmd wires the compiler stages together behind the cobra-based
// CLI surface spec.md §6.1 describes, the way the teacher's own pkg/cmd
// wires go-corset's pipeline (corset.CompileSourceFiles, schema lowering,
// trace expansion) behind its cobra sub-commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd is acacia's single entry point: `acacia <source> [flags]`. Unlike
// the teacher, which exposes a noun per sub-command (compile/debug/check),
// spec.md §6.1 gives acacia a single flat surface, so the compile pipeline
// itself lives directly on the root command's Run rather than a child
// command.
var rootCmd = &cobra.Command{
	Use:   "acacia <source>",
	Short: "A compiler for the Acacia language.",
	Long:  "A compiler for the Acacia language, producing Minecraft Bedrock .mcfunction datapacks.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(runCompile(cmd, args[0]))
	},
}

// Execute runs the root command. Called once from cmd/acacia/main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
}

func init() {
	flags := rootCmd.Flags()
	flags.StringP("out", "o", "", "output directory (default: the project directory)")
	flags.StringP("scoreboard", "s", "", "dummy scoreboard objective name (default: \"acacia\")")
	flags.StringP("function-folder", "f", "", "name of the function folder inside <out> (default: \"out\")")
	flags.IntP("indent", "i", 0, "indentation width used by debug comments (default: 4)")
	flags.BoolP("debug-comments", "d", false, "annotate emitted commands with source positions")
	flags.Bool("override-old", false, "delete a pre-existing function folder before writing")
	flags.String("encoding", "", "source file encoding: \"utf-8\" or \"ascii\" (default: \"utf-8\")")
	flags.BoolP("verbose", "v", false, "increase logging verbosity and surface host-language bugs")
}
