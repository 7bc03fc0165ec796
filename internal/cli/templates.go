package cli

import (
	"fmt"
	"io"
	"path"

	"github.com/spf13/cobra"

	"github.com/vvka-141/pbimodel/internal/files/filesystem"
	"github.com/vvka-141/pbimodel/internal/scaffold"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Show the embedded project templates",
}

var templatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List templates with the files each one creates",
	RunE:  runTemplatesList,
}

// templateSummaries are one-line descriptions shown next to template names.
var templateSummaries = map[string]string{
	"basic": "Single report over one semantic model, en-US culture",
}

func init() {
	rootCmd.AddCommand(templatesCmd)
	templatesCmd.AddCommand(templatesListCmd)
}

func runTemplatesList(cmd *cobra.Command, args []string) error {
	return writeTemplates(cmd.ErrOrStderr(), getVerboseFlag(cmd))
}

// writeTemplates lists the embedded templates, with their file trees when
// detailed is set.
func writeTemplates(w io.Writer, detailed bool) error {
	templates, err := scaffold.ListTemplates()
	if err != nil {
		return fmt.Errorf("failed to list templates: %w", err)
	}

	fmt.Fprintln(w, "Available templates:")
	for _, name := range templates {
		summary, ok := templateSummaries[name]
		if !ok {
			summary = "No description available"
		}
		fmt.Fprintf(w, "\n  %-10s %s\n", name, summary)
		if !detailed {
			continue
		}
		efs := filesystem.NewEmbedFileSystem(scaffold.GetTemplatesFS(), path.Join("templates", name))
		tree, err := scaffold.BuildFileTree(efs, ".")
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "\n%s", tree)
	}

	fmt.Fprintln(w, "\nUse: pbimodel init <target_path> --template <template_name>")
	return nil
}
