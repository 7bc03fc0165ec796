package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/vvka-141/pbimodel/internal/relationships"
	"github.com/vvka-141/pbimodel/internal/scaffold"
)

// completeTemplateNames provides shell completion for template names.
func completeTemplateNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	templates, err := scaffold.ListTemplates()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return filterPrefix(templates, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// completeCrossFilter provides shell completion for --cross-filter.
func completeCrossFilter(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	modes := []string{string(relationships.CrossFilterPreserve), string(relationships.CrossFilterForce)}
	return filterPrefix(modes, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// completeNaming provides shell completion for --naming.
func completeNaming(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	names := []string{string(relationships.NamingDescriptive), string(relationships.NamingGUID)}
	return filterPrefix(names, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// completeDirectories provides shell completion for directory paths.
func completeDirectories(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	// Let the shell handle directory completion
	return nil, cobra.ShellCompDirectiveFilterDirs
}

func filterPrefix(values []string, prefix string) []string {
	var matches []string
	for _, v := range values {
		if strings.HasPrefix(v, prefix) {
			matches = append(matches, v)
		}
	}
	return matches
}
