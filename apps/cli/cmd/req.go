package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/abdul-hamid-achik/hitdiff/packages/core/runner"
	"github.com/abdul-hamid-achik/hitdiff/packages/output"
	"github.com/abdul-hamid-achik/hitdiff/packages/profile"
	"github.com/abdul-hamid-achik/hitdiff/packages/query"
	"github.com/abdul-hamid-achik/hitdiff/packages/snapshot"
	"github.com/abdul-hamid-achik/hitdiff/packages/textdiff"
	"github.com/spf13/cobra"
)

var (
	requestsFlag       string
	snapshotFlag       bool
	updateSnapshotFlag bool
	jqFlag             string
)

var reqCmd = &cobra.Command{
	Use:   "req <name>",
	Short: "Send a single named request and print the response",
	Long: `Send one request profile from the requests file and print its
status line, headers and body. Overrides work as for run.

Examples:
  hitdiff req todo
  hitdiff req todo -e id=3 -e %Accept=application/json
  hitdiff req todo --output json
  hitdiff req todo --jq '.title'
  hitdiff req todo --snapshot --fail-on-diff`,
	Args: cobra.ExactArgs(1),
	RunE: reqCommand,
}

func init() {
	reqCmd.Flags().StringVarP(&requestsFlag, "requests", "r", "", "Requests file (default: hitreq.yaml)")
	reqCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output format: console, plain, json")
	reqCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "Show response timing")
	reqCmd.Flags().StringVar(&jqFlag, "jq", "", "Print the result of a jq expression over the JSON body instead of the response")
	reqCmd.Flags().BoolVar(&snapshotFlag, "snapshot", false, "Diff the response body against the stored snapshot")
	reqCmd.Flags().BoolVar(&updateSnapshotFlag, "update-snapshot", false, "Replace a differing snapshot with the new response")
	reqCmd.Flags().BoolVar(&failOnDiffFlag, "fail-on-diff", false, "Exit with code 1 when the snapshot differs")
	addRequestFlags(reqCmd)
}

func requestsFile() string {
	if requestsFlag != "" {
		return requestsFlag
	}
	return settings.Requests
}

func reqCommand(cmd *cobra.Command, args []string) error {
	name := args[0]

	ovr, err := parseOverrides()
	if err != nil {
		return err
	}

	formatter, err := newFormatter(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	rf, ok := formatter.(output.ResponseFormatter)
	if !ok {
		return usageError(fmt.Errorf("output format %q cannot print a single response", outputFlag))
	}

	reg, err := profile.LoadRequestRegistry(requestsFile())
	if err != nil {
		return err
	}
	p, err := reg.Get(name)
	if err != nil {
		return err
	}

	r, err := newRunner()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	side, err := r.Send(ctx, name, p, ovr)
	if err != nil {
		return err
	}
	if jqFlag != "" {
		if err := printQuery(cmd, side); err != nil {
			return err
		}
	} else {
		rf.FormatResponse(side)
	}

	if !snapshotFlag && !updateSnapshotFlag {
		return nil
	}
	return compareSnapshot(cmd, name, side)
}

func printQuery(cmd *cobra.Command, side *runner.Side) error {
	result, err := query.Run(side.Response.Body, jqFlag)
	if errors.Is(err, query.ErrInvalidJSON) {
		return &exitError{code: ExitParseError, err: err}
	}
	if err != nil {
		return usageError(err)
	}

	out, err := result.Format()
	if err != nil {
		return err
	}
	if out != "" {
		fmt.Fprintln(cmd.OutOrStdout(), out)
	}
	for _, msg := range result.Errors {
		fmt.Fprintf(cmd.ErrOrStderr(), "jq: %s\n", msg)
	}
	return nil
}

// compareSnapshot diffs the canonical body of side against the snapshot
// kept next to the requests file.
func compareSnapshot(cmd *cobra.Command, name string, side *runner.Side) error {
	result, err := snapshot.NewManager(updateSnapshotFlag).Compare(requestsFile(), name, side.Text)
	if err != nil {
		return err
	}

	w := cmd.ErrOrStderr()
	switch {
	case result.IsNew:
		fmt.Fprintf(w, "snapshot %q recorded in %s\n", name, result.Path)
	case !result.Changed():
		fmt.Fprintf(w, "snapshot %q matches\n", name)
	default:
		fmt.Fprintf(w, "snapshot %q differs: %d insertion(s)(+), %d deletion(s)(-)\n",
			name, result.Stats.Inserted, result.Stats.Deleted)
		fmt.Fprintln(w, textdiff.Render(result.Lines))
		if result.WasUpdated {
			fmt.Fprintf(w, "snapshot %q updated\n", name)
		} else if failOnDiffFlag {
			return &exitError{
				code:     ExitDiffFound,
				err:      fmt.Errorf("snapshot %q differs", name),
				reported: true,
			}
		}
	}
	return nil
}
