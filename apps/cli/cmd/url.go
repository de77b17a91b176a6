package cmd

import (
	"fmt"

	"github.com/abdul-hamid-achik/hitdiff/packages/profile"
	"github.com/spf13/cobra"
)

var urlDiffFlag bool

var urlCmd = &cobra.Command{
	Use:   "url <name>",
	Short: "Print the final URL of a request with overrides applied",
	Long: `Print the URL a request would be sent to, query string included,
without sending it. By default the name is looked up in the requests file;
with --diff it names a diff profile and both URLs are printed.

Examples:
  hitdiff url todo -e id=2
  hitdiff url todo --diff -e id=2`,
	Args: cobra.ExactArgs(1),
	RunE: urlCommand,
}

func init() {
	urlCmd.Flags().StringVarP(&requestsFlag, "requests", "r", "", "Requests file (default: hitreq.yaml)")
	urlCmd.Flags().BoolVar(&urlDiffFlag, "diff", false, "Look the name up in the profiles file")
	urlCmd.Flags().StringArrayVarP(&extraFlags, "extra", "e", nil, "Override as key=value, %header=value or @body=value (repeatable)")
}

func urlCommand(cmd *cobra.Command, args []string) error {
	name := args[0]

	ovr, err := parseOverrides()
	if err != nil {
		return err
	}

	if !urlDiffFlag {
		reg, err := profile.LoadRequestRegistry(requestsFile())
		if err != nil {
			return err
		}
		p, err := reg.Get(name)
		if err != nil {
			return err
		}
		u, err := p.FinalURL(ovr)
		if err != nil {
			return profile.Annotate(err, name, "")
		}
		fmt.Fprintln(cmd.OutOrStdout(), u)
		return nil
	}

	reg, err := profile.LoadRegistry(settings.Profiles)
	if err != nil {
		return err
	}
	p, err := reg.Get(name)
	if err != nil {
		return err
	}
	for _, side := range []struct {
		name string
		req  *profile.RequestProfile
	}{{profile.Req1, p.Req1}, {profile.Req2, p.Req2}} {
		u, err := side.req.FinalURL(ovr)
		if err != nil {
			return profile.Annotate(err, name, side.name)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", side.name, u)
	}
	return nil
}
