package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/vvka-141/pbimodel/internal/files/filesystem"
	"github.com/vvka-141/pbimodel/internal/logging"
	"github.com/vvka-141/pbimodel/internal/scaffold"
	"github.com/vvka-141/pbimodel/internal/tui"
)

var initCmd = &cobra.Command{
	Use:   "init <target_path>",
	Short: "Initialize a new pbimodel project",
	Long: `Create a pbimodel project in the target directory.

The project holds:
- pbimodel.yaml with output, template and relationship settings
- pbip_template/ with the manifest, report and semantic model assets
  copied into every build
- README with the usual command sequence

The directory must be empty or missing; an existing pbimodel.yaml or
.env is allowed.

Examples:
  pbimodel init .
  pbimodel init ./sales --template basic`,
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeDirectories,
	RunE:              runInit,
}

var (
	initTemplate string
	initList     bool
)

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringVarP(&initTemplate, "template", "t", "basic", "Template to use")
	initCmd.Flags().BoolVar(&initList, "list", false, "List available templates")
	_ = initCmd.RegisterFlagCompletionFunc("template", completeTemplateNames)
}

func runInit(cmd *cobra.Command, args []string) error {
	if initList {
		return writeTemplates(cmd.ErrOrStderr(), getVerboseFlag(cmd))
	}
	if err := RequireTargetPath(cmd, args); err != nil {
		return err
	}
	target := args[0]

	templates, err := scaffold.ListTemplates()
	if err != nil {
		return fmt.Errorf("failed to list templates: %w", err)
	}
	if !slices.Contains(templates, initTemplate) {
		return fmt.Errorf("invalid template '%s'. Available templates: %v\n\nUse 'pbimodel init --list' for descriptions", initTemplate, templates)
	}

	fsys := filesystem.NewOSFileSystem()
	scaffolder := scaffold.NewScaffolder(fsys, logging.NewConsoleLogger(getVerboseFlag(cmd)))
	if err := scaffolder.CreateProject(projectNameFor(target), initTemplate, target); err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	w := cmd.ErrOrStderr()
	fmt.Fprintf(w, "\n%s Project initialized from template '%s'\n\n", tui.SymbolCheck, initTemplate)
	if tree, err := scaffold.BuildFileTree(fsys, target); err == nil {
		fmt.Fprint(w, tree)
	}
	printNextSteps(w, target)
	return nil
}

// projectNameFor names the project after the target directory.
func projectNameFor(target string) string {
	name := filepath.Base(filepath.Clean(target))
	if name != "." && name != ".." && name != string(filepath.Separator) {
		return name
	}
	if cwd, err := os.Getwd(); err == nil {
		if abs, err := filepath.Abs(filepath.Join(cwd, target)); err == nil {
			return filepath.Base(abs)
		}
	}
	return "project"
}

func printNextSteps(w io.Writer, target string) {
	fmt.Fprintln(w, "\nNext steps:")
	if target != "." {
		fmt.Fprintf(w, "  cd %s\n", target)
	}
	fmt.Fprintln(w, "  pbimodel tables datasource.xml")
	fmt.Fprintln(w, "  pbimodel integrate <table> --columns <file> --xml datasource.xml")
	fmt.Fprintln(w, "  pbimodel build")
}
