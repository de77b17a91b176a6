package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/abdul-hamid-achik/hitdiff/packages/profile"
	"github.com/spf13/cobra"
)

var (
	parseNameFlag        string
	parseSkipHeaderFlags []string
	parseSkipBodyFlags   []string
	parseSaveFlag        bool
)

var parseCmd = &cobra.Command{
	Use:   "parse <url1> <url2>",
	Short: "Build a diff profile from two URLs",
	Long: `Build a diff profile from two URLs. Query strings become params and
both requests use GET. The profile is printed as YAML, or added to the
profiles file with --save.

Examples:
  hitdiff parse "https://a.example.com/todos?id=1" "https://b.example.com/todos?id=1"
  hitdiff parse URL1 URL2 --name todo --skip-header date --skip-body updated_at --save`,
	Args: cobra.ExactArgs(2),
	RunE: parseCommand,
}

func init() {
	parseCmd.Flags().StringVarP(&parseNameFlag, "name", "n", "default", "Profile name")
	parseCmd.Flags().StringSliceVar(&parseSkipHeaderFlags, "skip-header", nil, "Response header to ignore (repeatable)")
	parseCmd.Flags().StringSliceVar(&parseSkipBodyFlags, "skip-body", nil, "Top-level body field to ignore (repeatable)")
	parseCmd.Flags().BoolVar(&parseSaveFlag, "save", false, "Add the profile to the profiles file")
}

func parseCommand(cmd *cobra.Command, args []string) error {
	req1, err := profile.ParseRequestProfile(args[0])
	if err != nil {
		return profile.Annotate(err, parseNameFlag, profile.Req1)
	}
	req2, err := profile.ParseRequestProfile(args[1])
	if err != nil {
		return profile.Annotate(err, parseNameFlag, profile.Req2)
	}

	p := profile.NewDiffProfile(req1, req2, profile.ResponseProfile{
		SkipHeaders: parseSkipHeaderFlags,
		SkipBody:    parseSkipBodyFlags,
	})

	if !parseSaveFlag {
		reg := profile.NewRegistry()
		reg.Add(parseNameFlag, p)
		data, err := reg.Marshal()
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), "---\n", string(data))
		return nil
	}

	reg, err := profile.LoadRegistry(settings.Profiles)
	if errors.Is(err, fs.ErrNotExist) {
		reg, err = profile.NewRegistry(), nil
	}
	if err != nil {
		return err
	}
	reg.Add(parseNameFlag, p)
	if err := reg.Save(settings.Profiles); err != nil {
		return fmt.Errorf("failed to save profiles: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved profile %q to %s\n", parseNameFlag, settings.Profiles)
	return nil
}
