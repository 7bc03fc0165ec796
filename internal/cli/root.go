package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const asciiLogo = `        _     _                     _      _
  _ __ | |__ (_)_ __ ___   ___   __| | ___| |
 | '_ \| '_ \| | '_ ` + "`" + ` _ \ / _ \ / _` + "`" + ` |/ _ \ |
 | |_) | |_) | | | | | | | (_) | (_| |  __/ |
 | .__/|_.__/|_|_| |_| |_|\___/ \__,_|\___|_|
 |_|`

var rootCmd = &cobra.Command{
	Use:   "pbimodel",
	Short: "Canonical TMDL documents from extracted datasource metadata",
	Long: asciiLogo + `

pbimodel turns loosely-shaped column lists, Power Query partitions and
extracted joins into canonical model-definition documents, then assembles
them into a PBIP project from a template tree.

Every rendering is idempotent: running a command twice on its own output
changes nothing.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration
  20 - Column input yielded no usable columns
  21 - Relationship filtering removed every relationship
  22 - Required template asset not found`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
	rootCmd.PersistentFlags().StringP("project", "p", ".", "Project directory holding pbimodel.yaml")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}

// getProjectFlag returns the project directory, "." when unset.
func getProjectFlag(cmd *cobra.Command) string {
	dir, err := cmd.Flags().GetString("project")
	if err != nil || dir == "" {
		return "."
	}
	return dir
}
