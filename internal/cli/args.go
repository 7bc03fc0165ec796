package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// requireOne validates that exactly one argument named what is provided.
// Returns a helpful error message with usage and an example if missing.
func requireOne(cmd *cobra.Command, args []string, what, example string) error {
	if len(args) < 1 {
		return fmt.Errorf(`missing required argument: <%s>

Usage: %s

Example:
  %s %s`, what, cmd.UseLine(), cmd.CommandPath(), example)
	}
	if len(args) > 1 {
		return fmt.Errorf("accepts 1 arg(s), received %d", len(args))
	}
	return nil
}

// RequireTableName validates that exactly one table argument is provided.
func RequireTableName(cmd *cobra.Command, args []string) error {
	return requireOne(cmd, args, "table", "Orders --columns Orders_columns.txt")
}

// RequireXMLPath validates that exactly one datasource file argument is provided.
func RequireXMLPath(cmd *cobra.Command, args []string) error {
	return requireOne(cmd, args, "datasource.xml", "datasource.xml")
}

// RequireTargetPath validates that exactly one target directory is provided.
func RequireTargetPath(cmd *cobra.Command, args []string) error {
	if err := requireOne(cmd, args, "target_path", "./sales"); err != nil {
		return fmt.Errorf("%w\n\nUse 'pbimodel init --list' to see available templates", err)
	}
	return nil
}
