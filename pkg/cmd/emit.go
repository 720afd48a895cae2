package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/CBerJun/acacia/pkg/cmds"
	"github.com/CBerJun/acacia/pkg/config"
)

// Emit writes every live function file to disk under the layout spec.md
// §6.2 describes: <outDir>/<function_folder>/{load,init,tick}.mcfunction,
// lib/acalib<N>.mcfunction, interface/<path>.mcfunction, plus
// <outDir>/tick.json when the tick hook has content. Mirrors the teacher's
// own WriteBinaryFile/writeTraceFile pattern of encode-then-os.WriteFile,
// one call per output artifact.
func Emit(m *cmds.FunctionsManager, outDir string, cfg *config.Config) error {
	root := filepath.Join(outDir, cfg.FunctionFolder)
	if cfg.OverrideOld {
		if err := os.RemoveAll(root); err != nil {
			return fmt.Errorf("emit: clearing %s: %w", root, err)
		}
	}
	for _, sub := range []string{"", "lib", "interface"} {
		if err := os.MkdirAll(filepath.Join(root, sub), 0755); err != nil {
			return fmt.Errorf("emit: creating %s: %w", filepath.Join(root, sub), err)
		}
	}
	for id, f := range m.Files() {
		if f.Dead() || f.Path == "" {
			continue
		}
		if cmds.FileID(id) == m.FileTick && !m.HasTick() {
			continue
		}
		if err := writeFile(root, f, m); err != nil {
			return err
		}
	}
	if m.HasTick() {
		tickJSON := `{"values": ["tick"]}`
		if err := os.WriteFile(filepath.Join(outDir, "tick.json"), []byte(tickJSON), 0644); err != nil {
			return fmt.Errorf("emit: writing tick.json: %w", err)
		}
	}
	return nil
}

func writeFile(root string, f *cmds.MCFunctionFile, m *cmds.FunctionsManager) error {
	var b strings.Builder
	for _, c := range f.Commands {
		b.WriteString(c.Resolve(m))
		b.WriteByte('\n')
	}
	path := filepath.Join(root, f.Path+".mcfunction")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("emit: creating %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("emit: writing %s: %w", path, err)
	}
	return nil
}
