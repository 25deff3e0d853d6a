package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/cms-cat/cmsstyle-go/pkg/graphics/sink"
)

// documentExts are the plot document extensions offered to render.
var documentExts = []string{"toml", "yaml", "yml", "json"}

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for cmsstyle.

Completions cover subcommands and flags, the plot documents render accepts
(.toml, .yaml, .yml, .json), output formats for --format, and colour set
names for palette.

  $ source <(cmsstyle completion bash)
  $ cmsstyle completion zsh > "${fpath[1]}/_cmsstyle"
  $ cmsstyle completion fish > ~/.config/fish/completions/cmsstyle.fish
  PS> cmsstyle completion powershell | Out-String | Invoke-Expression

Start a new shell afterwards, then try:

  $ cmsstyle render examples/<TAB>
  $ cmsstyle render mass.toml --format <TAB>
  $ cmsstyle palette <TAB>
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}

	return cmd
}

// completeDocuments limits file completion to plot documents.
func completeDocuments(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return documentExts, cobra.ShellCompDirectiveFilterFileExt
}

// completeOutputFormats completes a comma-separated list of output formats,
// offering only the formats not yet listed.
func completeOutputFormats(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	prefix, last := "", toComplete
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		prefix, last = toComplete[:i+1], toComplete[i+1:]
	}
	seen := make(map[string]bool)
	for _, f := range parseFormats(prefix) {
		seen[f] = true
	}
	var out []string
	for _, f := range sink.Formats() {
		name := string(f)
		if !seen[name] && strings.HasPrefix(name, strings.ToLower(last)) {
			out = append(out, prefix+name)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}
