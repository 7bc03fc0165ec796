package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vvka-141/pbimodel/internal/files/filesystem"
	"github.com/vvka-141/pbimodel/internal/integrate"
	"github.com/vvka-141/pbimodel/internal/tableau"
	"github.com/vvka-141/pbimodel/pkg/pbimodel"
)

var integrateCmd = &cobra.Command{
	Use:   "integrate <table>",
	Short: "Write one table document into the working PBIP folder",
	Long: `Normalize a table's column spec and partition, write
tables/<table>.tmdl into the working folder and merge the joins that
touch the table into relationships.tmdl.

The column spec may be a "Name|type|summarizeBy|sourceColumn" row list,
existing column blocks, or a YAML/JSON list of column objects. Use "-"
to read it from stdin.

With --xml the datasource description supplies the joins and the
column names the table is expected to have; missing ones are reported.

The working folder is <output_dir>/<pbip_name>.pbip. When it does not
exist yet it is copied from the template directory.

Examples:
  pbimodel integrate Orders --columns Orders_columns.txt
  pbimodel integrate Orders --columns - --partition Orders.m < cols.yaml
  pbimodel integrate Orders --columns cols.txt --xml datasource.xml --keep "Orders.Region=People.Region"`,
	Args:              RequireTableName,
	ValidArgsFunction: cobra.NoFileCompletions,
	RunE:              runIntegrate,
}

type integrateOptions struct {
	columns     string
	partition   string
	xml         string
	keep        string
	lineageTags bool
}

var integrateFlags integrateOptions

func init() {
	rootCmd.AddCommand(integrateCmd)

	integrateCmd.Flags().StringVarP(&integrateFlags.columns, "columns", "c", "", "Column spec file, or - for stdin (required)")
	integrateCmd.Flags().StringVar(&integrateFlags.partition, "partition", "", "Partition or Power Query text file")
	integrateCmd.Flags().StringVar(&integrateFlags.xml, "xml", "", "Datasource description supplying joins and required columns")
	integrateCmd.Flags().StringVar(&integrateFlags.keep, "keep", "", "Keep only these joins: A.x=B.y,C.z=D.w")
	integrateCmd.Flags().BoolVar(&integrateFlags.lineageTags, "lineage-tags", false, "Add deterministic lineageTag properties to columns")
	_ = integrateCmd.MarkFlagRequired("columns")
}

func runIntegrate(cmd *cobra.Command, args []string) error {
	table := args[0]
	proj, err := loadProject(getProjectFlag(cmd), getVerboseFlag(cmd))
	if err != nil {
		return err
	}
	policy, err := proj.policy(integrateFlags.keep)
	if err != nil {
		return err
	}
	auto, err := proj.cfg.AutoPairs()
	if err != nil {
		return err
	}

	rawColumns, err := readInput(cmd.InOrStdin(), integrateFlags.columns)
	if err != nil {
		return fmt.Errorf("failed to read column spec: %w", err)
	}
	var rawPartition string
	if integrateFlags.partition != "" {
		if rawPartition, err = readInput(cmd.InOrStdin(), integrateFlags.partition); err != nil {
			return fmt.Errorf("failed to read partition: %w", err)
		}
	}

	req := integrate.Request{
		Table:       table,
		Columns:     rawColumns,
		Partition:   rawPartition,
		TemplateDir: proj.templateDir(),
		WorkDir:     proj.workDir(),
	}
	if integrateFlags.xml != "" {
		ds, err := tableau.ParseFile(integrateFlags.xml)
		if err != nil {
			return err
		}
		tc, err := ds.Lookup(table)
		if err != nil {
			return err
		}
		req.Triples = tc.Relationships
		req.Required = tc.RequiredColumns()
		proj.logger.Verbose("%s: %d required column(s), %d join(s)", table, len(req.Required), len(req.Triples))
	}

	svc := integrate.NewService(filesystem.NewOSFileSystem(), proj.logger, integrate.Options{
		Indent:            proj.indent(),
		LineageTags:       integrateFlags.lineageTags || proj.cfg.Columns.LineageTags,
		Policy:            policy,
		AutoRelationships: auto,
	})
	res, err := svc.Integrate(req)
	if err != nil {
		var empty *pbimodel.EmptyResultError
		if errors.As(err, &empty) {
			reportEmptyResult(proj.logger, empty)
		}
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s\n", res.TablePath)
	proj.logger.Info("✓ %s: %d column(s), %d relationship(s)", table, len(res.Columns.Columns), len(res.Relationships.Relationships))
	return nil
}

// readInput reads a file, or stdin when name is "-".
func readInput(stdin io.Reader, name string) (string, error) {
	if name == "-" {
		data, err := io.ReadAll(stdin)
		return string(data), err
	}
	data, err := os.ReadFile(name)
	return string(data), err
}
