package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vvka-141/pbimodel/internal/files/filesystem"
	"github.com/vvka-141/pbimodel/internal/integrate"
	"github.com/vvka-141/pbimodel/internal/polish"
	"github.com/vvka-141/pbimodel/internal/tui"
	"github.com/vvka-141/pbimodel/pkg/pbimodel"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [path]",
	Short: "Rewrite model-definition documents in canonical form",
	Long: `Format every .tmdl document of a definition directory.

Brace-style blocks become label-colon blocks, table documents are
re-parsed and re-rendered canonically and relationships.tmdl is
re-filtered with the configured policy. JSON content is skipped.

path may be a definition directory, a semantic model folder or a PBIP
working folder. Without it the project's working folder is used.

With --check nothing is written and the command fails when any file
would change.

Examples:
  pbimodel fmt
  pbimodel fmt OUT_PBIP/Sales.pbip
  pbimodel fmt --check OUT_PBIP/Sales/Sales.SemanticModel/definition`,
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeDirectories,
	RunE:              runFmt,
}

type fmtOptions struct {
	check   bool
	workers int
	keep    string
}

var fmtFlags fmtOptions

func init() {
	rootCmd.AddCommand(fmtCmd)

	fmtCmd.Flags().BoolVar(&fmtFlags.check, "check", false, "Report files that would change without writing")
	fmtCmd.Flags().IntVar(&fmtFlags.workers, "workers", 0, "Table documents formatted concurrently (0 = GOMAXPROCS)")
	fmtCmd.Flags().StringVar(&fmtFlags.keep, "keep", "", "Keep only these joins: A.x=B.y,C.z=D.w")
}

func runFmt(cmd *cobra.Command, args []string) error {
	proj, err := loadProject(getProjectFlag(cmd), getVerboseFlag(cmd))
	if err != nil {
		return err
	}
	policy, err := proj.policy(fmtFlags.keep)
	if err != nil {
		return err
	}

	fsys := filesystem.NewOSFileSystem()
	target := proj.workDir()
	if len(args) == 1 {
		target = args[0]
	}
	defDir, err := resolveDefinitionDir(fsys, target)
	if err != nil {
		return err
	}
	proj.logger.Verbose("Formatting %s", defDir)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	svc := polish.NewService(fsys, proj.logger)
	report, err := svc.Polish(ctx, defDir, polish.Options{
		Indent:  proj.indent(),
		Policy:  policy,
		Check:   fmtFlags.check,
		Workers: fmtFlags.workers,
	})
	if report != nil {
		printPolishReport(report, fmtFlags.check)
	}
	if err != nil {
		var empty *pbimodel.EmptyResultError
		if errors.As(err, &empty) {
			reportEmptyResult(proj.logger, empty)
		}
		return err
	}
	return nil
}

// resolveDefinitionDir accepts a definition directory, a semantic model
// folder or a working folder holding one.
func resolveDefinitionDir(fsys filesystem.FileSystemProvider, target string) (string, error) {
	if !filesystem.IsDir(fsys, target) {
		return "", fmt.Errorf("directory not found: %s", target)
	}
	if filepath.Base(target) == pbimodel.DefinitionDirName {
		return target, nil
	}
	if def := filepath.Join(target, pbimodel.DefinitionDirName); filesystem.IsDir(fsys, def) {
		return def, nil
	}
	if sem, ok := integrate.FindSemanticModel(fsys, target); ok {
		return filepath.Join(sem, pbimodel.DefinitionDirName), nil
	}
	return target, nil
}

func printPolishReport(report *polish.Report, check bool) {
	changedLabel := "changed"
	if check {
		changedLabel = "would change"
	}
	for _, f := range report.Files {
		if f.Status != polish.StatusChanged {
			continue
		}
		note := ""
		if f.LayoutOnly {
			note = " (layout only)"
		}
		fmt.Fprintf(os.Stderr, "  %s %s%s\n", tui.SymbolArrowRight, f.RelativePath, note)
	}

	changed := report.Count(polish.StatusChanged)
	s := tui.Summary{Title: tui.SymbolCheck + " fmt"}
	tone := tui.ToneSuccess
	switch {
	case changed > 0 && check:
		s.Title = tui.SymbolCross + " fmt"
		tone = tui.ToneError
	case changed > 0:
		tone = tui.ToneWarning
	}
	s.Add(changedLabel, strconv.Itoa(changed), tone)
	s.Add("unchanged", strconv.Itoa(report.Count(polish.StatusUnchanged)), tui.ToneNone)
	s.Add("skipped", strconv.Itoa(report.Count(polish.StatusSkipped)), tui.ToneNone)
	if report.Relationships != nil {
		s.Add("relationships", strconv.Itoa(len(report.Relationships.Relationships)), tui.ToneNone)
	}
	fmt.Fprint(os.Stderr, s.Render(tui.IsInteractive()))
}
