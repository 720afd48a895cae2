package cmd

import (
	"fmt"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/CBerJun/acacia/pkg/cmds"
	"github.com/CBerJun/acacia/pkg/config"
	"github.com/CBerJun/acacia/pkg/diag"
	"github.com/CBerJun/acacia/pkg/generator"
	"github.com/CBerJun/acacia/pkg/lexer"
	"github.com/CBerJun/acacia/pkg/optimizer"
	"github.com/CBerJun/acacia/pkg/resolver"
	"github.com/CBerJun/acacia/pkg/source"
)

// runCompile drives one compilation of sourcePath end to end: parse,
// resolve, generate, optimize, emit. It returns the process exit code
// (spec.md §6.1: 0 on success, 2 on usage or compile error), matching the
// teacher's own pattern of a Run closure that computes a status and leaves
// os.Exit to its caller (pkg/cmd/root.go's rootCmd.Run).
func runCompile(cmd *cobra.Command, sourcePath string) (code int) {
	verbose := false
	defer func() {
		if r := recover(); r != nil {
			if verbose {
				log.Errorf("internal compiler error: %v", r)
			} else {
				fmt.Println("internal compiler error (rerun with --verbose for details)")
			}
			code = 2
		}
	}()
	cfg, err := config.Load(filepath.Dir(sourcePath), overridesFromFlags(cmd))
	if err != nil {
		fmt.Println(err)
		return 2
	}
	verbose = cfg.Verbose
	if cfg.Verbose {
		log.SetLevel(log.DebugLevel)
	}

	reader := source.NewReader()
	file, err := reader.GetRealFile(sourcePath)
	if err != nil {
		fmt.Println(err)
		return 2
	}

	sink := diag.NewSink()
	res := resolver.NewResolver(reader, sink, lexer.Config{}, filepath.Dir(sourcePath))
	mod := res.ResolveFile(file)
	if sink.HasErrors() {
		printDiagnostics(sink)
		return 2
	}

	mgr := cmds.NewFunctionsManager(cfg.Scoreboard)
	gen := generator.New(mgr, sink)
	if err := gen.GenBlock(mgr.File(mgr.FileMain), mod.AST.Stmts); err != nil {
		fmt.Println(err)
		return 2
	}
	printDiagnostics(sink)
	if sink.HasErrors() {
		return 2
	}

	optimizer.Run(mgr, optimizer.DefaultConfig)

	outDir := cfg.Out
	if outDir == "" {
		outDir = filepath.Dir(sourcePath)
	}
	if err := Emit(mgr, outDir, cfg); err != nil {
		fmt.Println(err)
		return 2
	}
	return 0
}

// printDiagnostics renders every diagnostic issued so far, in issue order,
// to standard output. A fuller terminal renderer (width-aware, colored via
// golang.org/x/term) belongs in front of this once the driver has more than
// one consumer; for now every diagnostic's own Error() rendering (range:
// kind: message) is sufficient, matching the plainest form the teacher's
// own fmt.Println(err) error-reporting idiom uses throughout pkg/cmd.
func printDiagnostics(sink *diag.Sink) {
	for _, d := range sink.Diagnostics() {
		fmt.Println(d.Error())
		for _, note := range d.Notes {
			fmt.Println("  " + note.Error())
		}
	}
}
