package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vvka-141/pbimodel/internal/tableau"
)

var tablesCmd = &cobra.Command{
	Use:   "tables <datasource.xml>",
	Short: "List the table names a datasource description mentions",
	Long: `Print one table name per line, sorted and unique.

Names come from [schema].[Table] references and table="..." attributes
anywhere in the file. With --columns each table is followed by the
column names its metadata records require.

Examples:
  pbimodel tables datasource.xml
  pbimodel tables datasource.xml --columns`,
	Args: RequireXMLPath,
	RunE: runTables,
}

var tablesColumns bool

func init() {
	rootCmd.AddCommand(tablesCmd)

	tablesCmd.Flags().BoolVar(&tablesColumns, "columns", false, "Also list required columns per table")
}

func runTables(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	names := tableau.DiscoverTables(raw)
	out := cmd.OutOrStdout()

	if !tablesColumns {
		for _, name := range names {
			fmt.Fprintln(out, name)
		}
		return nil
	}

	ds, err := tableau.ParseFile(args[0])
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Fprintln(out, name)
		for _, col := range ds.Narrow(name).RequiredColumns() {
			fmt.Fprintf(out, "  %s\n", col)
		}
	}
	return nil
}
