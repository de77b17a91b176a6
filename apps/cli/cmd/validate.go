package cmd

import (
	"fmt"

	"github.com/abdul-hamid-achik/hitdiff/packages/profile"
	"github.com/spf13/cobra"
)

var validateRequestsFlag bool

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a profiles file without sending requests",
	Long: `Check a profiles file against the profile schema and validate every
profile in it. Nothing is sent.

Examples:
  hitdiff validate
  hitdiff validate profiles/api.yaml
  hitdiff validate hitreq.yaml --requests`,
	Args: cobra.MaximumNArgs(1),
	RunE: validateCommand,
}

func init() {
	validateCmd.Flags().BoolVar(&validateRequestsFlag, "requests", false, "Validate a requests file used by req")
}

func validateCommand(cmd *cobra.Command, args []string) error {
	path := settings.Profiles
	if validateRequestsFlag {
		path = settings.Requests
	}
	if len(args) > 0 {
		path = args[0]
	}

	var count int
	if validateRequestsFlag {
		reg, err := profile.LoadRequestRegistry(path)
		if err != nil {
			return err
		}
		if err := reg.Validate(); err != nil {
			return err
		}
		count = len(reg.Names())
	} else {
		reg, err := profile.LoadRegistry(path)
		if err != nil {
			return err
		}
		if err := reg.Validate(); err != nil {
			return err
		}
		count = reg.Len()
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Valid: %s (%d profiles)\n", path, count)
	return nil
}
