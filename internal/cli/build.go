package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vvka-141/pbimodel/internal/files/filesystem"
	"github.com/vvka-141/pbimodel/internal/scaffold"
	"github.com/vvka-141/pbimodel/internal/tui"
	"github.com/vvka-141/pbimodel/pkg/pbimodel"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Assemble the final PBIP project from the template and generated tables",
	Long: `Assemble <output_dir>/<Name>/ from the template directory and the
documents integrated into the working folder.

Generated table, relationships and database documents are preferred over
the template's unless they hold JSON. model.tmdl always comes from the
template, with @@tablenamelist@@ and @@reftable@@ resolved from the final
tables. The manifest and report have @@.Report@@ and @@.SemanticModel@@
replaced by the project name. Relationships whose table or column is not
among the final tables are dropped.

Examples:
  pbimodel build
  pbimodel build --name Sales --force`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

type buildOptions struct {
	name  string
	force bool
}

var buildFlags buildOptions

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVarP(&buildFlags.name, "name", "n", "", "Project name (default: pbip_name from pbimodel.yaml)")
	buildCmd.Flags().BoolVarP(&buildFlags.force, "force", "f", false, "Remove the output folder before assembling")
}

func runBuild(cmd *cobra.Command, args []string) error {
	proj, err := loadProject(getProjectFlag(cmd), getVerboseFlag(cmd))
	if err != nil {
		return err
	}
	if buildFlags.name != "" {
		proj.cfg.PBIPName = buildFlags.name
	}

	s := scaffold.NewScaffolder(filesystem.NewOSFileSystem(), proj.logger)
	res, err := s.Build(scaffold.BuildRequest{
		TemplateDir: proj.templateDir(),
		OutputDir:   proj.outputDir(),
		Name:        proj.cfg.PBIPName,
		Force:       buildFlags.force,
		Indent:      proj.indent(),
	})
	if err != nil {
		var empty *pbimodel.EmptyResultError
		if errors.As(err, &empty) {
			reportEmptyResult(proj.logger, empty)
		}
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), res.Manifest)

	summary := tui.Summary{Title: tui.SymbolCheck + " build"}
	summary.Add("root", res.Root, tui.ToneNone)
	source := "working folder"
	tone := tui.ToneSuccess
	if res.TablesFromTemplate {
		source = "template"
		tone = tui.ToneWarning
	}
	summary.Add("tables", strconv.Itoa(len(res.Tables))+" from "+source, tone)
	for _, t := range res.Tables {
		summary.Add("", tui.SymbolBullet+" "+t, tui.ToneNone)
	}
	relTone := tui.ToneNone
	if len(res.Dropped) > 0 {
		relTone = tui.ToneWarning
	}
	summary.Add("relationships", fmt.Sprintf("%d kept, %d dropped", res.Relationships, len(res.Dropped)), relTone)
	fmt.Fprint(os.Stderr, summary.Render(tui.IsInteractive()))
	return nil
}
