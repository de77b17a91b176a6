package cmd

import (
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/hitdiff/packages/profile"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the profiles in the profiles file",
	Long: `List every diff profile with the two requests it compares.

Examples:
  hitdiff list
  hitdiff list -f profiles/api.yaml`,
	Args: cobra.NoArgs,
	RunE: listCommand,
}

func listCommand(cmd *cobra.Command, args []string) error {
	reg, err := profile.LoadRegistry(settings.Profiles)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s:\n", settings.Profiles)
	for _, name := range reg.Names() {
		p, err := reg.Get(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "  - %s\n", name)
		fmt.Fprintf(w, "    req1: %s %s\n", p.Req1.Method, p.Req1.URL)
		fmt.Fprintf(w, "    req2: %s %s\n", p.Req2.Method, p.Req2.URL)
		if len(p.Res.SkipHeaders) > 0 {
			fmt.Fprintf(w, "    skip headers: %s\n", strings.Join(p.Res.SkipHeaders, ", "))
		}
		if len(p.Res.SkipBody) > 0 {
			fmt.Fprintf(w, "    skip body: %s\n", strings.Join(p.Res.SkipBody, ", "))
		}
	}
	return nil
}
