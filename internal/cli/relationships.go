package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vvka-141/pbimodel/internal/assemble"
	"github.com/vvka-141/pbimodel/internal/files/filesystem"
	"github.com/vvka-141/pbimodel/internal/relationships"
	"github.com/vvka-141/pbimodel/internal/tmdl"
	"github.com/vvka-141/pbimodel/internal/tui"
	"github.com/vvka-141/pbimodel/pkg/pbimodel"
)

var relationshipsCmd = &cobra.Command{
	Use:   "relationships [file]",
	Short: "Re-filter and canonicalize a relationships document",
	Long: `Normalize every relationship endpoint, drop duplicates and apply the
keep-list, date-table, cross-filter and naming policies.

When every relationship would be removed the file is left unchanged, the
detected pairs are printed and the command exits with code 21.

When a tables folder sits next to the file, relationships whose table or
column has no table document there are dropped.

Without a file argument the working folder's relationships.tmdl is used.

Examples:
  pbimodel relationships
  pbimodel relationships definition/relationships.tmdl --keep "Orders.Region=People.Region"
  pbimodel relationships --drop-date-tables --cross-filter force --naming guid`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRelationships,
}

type relationshipsOptions struct {
	keep           string
	dropDateTables bool
	crossFilter    string
	naming         string
	stdout         bool
}

var relationshipsFlags relationshipsOptions

func init() {
	rootCmd.AddCommand(relationshipsCmd)

	relationshipsCmd.Flags().StringVar(&relationshipsFlags.keep, "keep", "", "Keep only these joins: A.x=B.y,C.z=D.w")
	relationshipsCmd.Flags().BoolVar(&relationshipsFlags.dropDateTables, "drop-date-tables", false, "Drop relationships touching auto date tables")
	relationshipsCmd.Flags().StringVar(&relationshipsFlags.crossFilter, "cross-filter", "", "preserve or force (default from config)")
	relationshipsCmd.Flags().StringVar(&relationshipsFlags.naming, "naming", "", "descriptive or guid (default from config)")
	relationshipsCmd.Flags().BoolVar(&relationshipsFlags.stdout, "stdout", false, "Print the result instead of rewriting the file")

	_ = relationshipsCmd.RegisterFlagCompletionFunc("cross-filter", completeCrossFilter)
	_ = relationshipsCmd.RegisterFlagCompletionFunc("naming", completeNaming)
}

func runRelationships(cmd *cobra.Command, args []string) error {
	proj, err := loadProject(getProjectFlag(cmd), getVerboseFlag(cmd))
	if err != nil {
		return err
	}
	policy, err := proj.policy(relationshipsFlags.keep)
	if err != nil {
		return err
	}
	if relationshipsFlags.dropDateTables {
		policy.DropDateTables = true
	}
	if relationshipsFlags.crossFilter != "" {
		policy.CrossFilter = relationships.CrossFilterMode(relationshipsFlags.crossFilter)
	}
	if relationshipsFlags.naming != "" {
		policy.Naming = relationships.Naming(relationshipsFlags.naming)
	}
	if err := policy.Validate(); err != nil {
		return err
	}

	fsys := filesystem.NewOSFileSystem()
	file := ""
	if len(args) == 1 {
		file = args[0]
	} else {
		defDir, err := resolveDefinitionDir(fsys, proj.workDir())
		if err != nil {
			return err
		}
		file = filepath.Join(defDir, pbimodel.RelationshipsFileName)
	}

	content, err := fsys.ReadFile(file)
	if err != nil {
		return err
	}
	if tmdl.IsJSONLike(content) {
		return fmt.Errorf("%s holds JSON, not a relationships document", file)
	}
	if tablesDir := filepath.Join(filepath.Dir(file), pbimodel.TablesDirName); filesystem.IsDir(fsys, tablesDir) {
		tables, err := assemble.LoadTables(fsys, tablesDir, proj.indent())
		if err != nil {
			return err
		}
		policy.Tables = tables
	}

	res, err := relationships.Normalize(tmdl.ParseRelationships(string(content)).Relationships, policy)
	for _, d := range res.Dropped {
		proj.logger.Verbose("Dropped %s (%s)", d.Relationship.Pair(), d.Reason)
	}
	if err != nil {
		var empty *pbimodel.EmptyResultError
		if errors.As(err, &empty) {
			reportEmptyResult(proj.logger, empty)
		}
		return err
	}

	out := tmdl.RenderRelationships(pbimodel.RelationshipsDocument{Relationships: res.Relationships}, proj.indent())
	if relationshipsFlags.stdout {
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	}
	if out != string(content) {
		if err := fsys.WriteFile(file, []byte(out)); err != nil {
			return fmt.Errorf("failed to write %s: %w", file, err)
		}
	}

	s := tui.Summary{Title: "relationships"}
	s.Add("detected", strconv.Itoa(len(res.Detected)), tui.ToneNone)
	s.Add("kept", strconv.Itoa(len(res.Relationships)), tui.ToneSuccess)
	tone := tui.ToneNone
	if len(res.Dropped) > 0 {
		tone = tui.ToneWarning
	}
	s.Add("dropped", strconv.Itoa(len(res.Dropped)), tone)
	fmt.Fprint(os.Stderr, s.Render(tui.IsInteractive()))
	return nil
}
