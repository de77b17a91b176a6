package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/abdul-hamid-achik/hitdiff/packages/core/runner"
	"github.com/abdul-hamid-achik/hitdiff/packages/output"
	"github.com/abdul-hamid-achik/hitdiff/packages/override"
	"github.com/abdul-hamid-achik/hitdiff/packages/profile"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// WatchDebounceDelay is the delay before re-running after a file change
const WatchDebounceDelay = 300 * time.Millisecond

var (
	profileFlags     []string
	allFlag          bool
	extraFlags       []string
	outputFlag       string
	outputFileFlag   string
	timeoutFlag      string
	rateFlag         float64
	proxyFlag        string
	insecureFlag     bool
	failOnDiffFlag   bool
	concurrencyFlag  int
	verboseFlag      bool
	watchFlag        bool
	waitForFlag      string
	waitStatusFlag   int
	waitTimeoutFlag  string
	waitIntervalFlag string
)

var runCmd = &cobra.Command{
	Use:   "run [profile...]",
	Short: "Diff the responses of one or more profiles",
	Long: `Send both requests of each selected profile, normalize the responses
and print a line diff.

Overrides are key=value pairs applied to both requests:
  key=value     query parameter
  %key=value    header
  @key=value    body field

Examples:
  hitdiff run -p todo
  hitdiff run todo -e id=2 -e %Authorization=token -e @title=hello
  hitdiff run --all --output json
  hitdiff run -p todo --fail-on-diff --wait-for http://localhost:8080/health
  hitdiff run -p todo --watch`,
	RunE: runCommand,
}

func init() {
	runCmd.Flags().StringArrayVarP(&profileFlags, "profile", "p", nil, "Profile to run (repeatable)")
	runCmd.Flags().BoolVar(&allFlag, "all", false, "Run every profile in the file")
	addRequestFlags(runCmd)
	runCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output format: console, plain, unified, json, junit")
	runCmd.Flags().StringVar(&outputFileFlag, "output-file", "", "Write output to file instead of stdout")
	runCmd.Flags().BoolVar(&failOnDiffFlag, "fail-on-diff", getEnvBool("HITDIFF_FAIL_ON_DIFF", false), "Exit with code 1 when responses differ")
	runCmd.Flags().IntVar(&concurrencyFlag, "concurrency", getEnvInt("HITDIFF_CONCURRENCY", 4), "Number of profiles run at the same time")
	runCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "Show request lines and timings")
	runCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Re-run when the profiles file changes")

	// Wait-for flags
	runCmd.Flags().StringVar(&waitForFlag, "wait-for", getEnvString("HITDIFF_WAIT_FOR", ""), "URL to poll until ready before running")
	runCmd.Flags().IntVar(&waitStatusFlag, "wait-status", 200, "Status code that marks the wait-for URL as ready")
	runCmd.Flags().StringVar(&waitTimeoutFlag, "wait-timeout", "30s", "Maximum time to wait for the wait-for URL")
	runCmd.Flags().StringVar(&waitIntervalFlag, "wait-interval", "500ms", "Polling interval for the wait-for URL")

	_ = runCmd.RegisterFlagCompletionFunc("profile", completeProfiles)
	runCmd.ValidArgsFunction = completeProfiles
}

// addRequestFlags registers the flags shared by every command that sends
// or builds requests.
func addRequestFlags(c *cobra.Command) {
	c.Flags().StringArrayVarP(&extraFlags, "extra", "e", nil, "Override as key=value, %header=value or @body=value (repeatable)")
	c.Flags().StringVarP(&timeoutFlag, "timeout", "t", getEnvString("HITDIFF_TIMEOUT", ""), "Request timeout (e.g. 30s, 1m, 500ms)")
	c.Flags().Float64Var(&rateFlag, "rate", 0, "Maximum requests per second")
	c.Flags().StringVar(&proxyFlag, "proxy", getEnvString("HITDIFF_PROXY", ""), "Proxy URL for HTTP requests")
	c.Flags().BoolVarP(&insecureFlag, "insecure", "k", getEnvBool("HITDIFF_INSECURE", false), "Disable SSL certificate validation")
}

// Environment variable helpers
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func parseDuration(flag, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, usageError(fmt.Errorf("invalid %s value %q: %w (use format like 30s, 1m, 500ms)", flag, value, err))
	}
	return d, nil
}

// newRunner builds a runner from the loaded settings with the command line
// flags applied on top.
func newRunner() (*runner.Runner, error) {
	cfg, err := runnerConfig()
	if err != nil {
		return nil, err
	}
	return runner.NewRunner(cfg), nil
}

func runnerConfig() (*runner.Config, error) {
	timeout := settings.Timeout
	if timeoutFlag != "" {
		d, err := parseDuration("timeout", timeoutFlag)
		if err != nil {
			return nil, err
		}
		timeout = d
	}

	proxy := settings.Proxy
	if proxyFlag != "" {
		proxy = proxyFlag
	}

	rate := settings.RateLimit
	if rateFlag > 0 {
		rate = rateFlag
	}

	return &runner.Config{
		Timeout:        timeout,
		FollowRedirect: settings.FollowRedirects,
		MaxRedirects:   settings.MaxRedirects,
		Insecure:       insecureFlag || !settings.ValidateSSL,
		Proxy:          proxy,
		Headers:        settings.Headers,
		RateLimit:      rate,
		Logger:         slog.Default(),
	}, nil
}

func parseOverrides() (*override.Set, error) {
	ovr, err := override.Parse(extraFlags)
	if err != nil {
		return nil, usageError(err)
	}
	return ovr, nil
}

func newFormatter(w io.Writer) (output.Formatter, error) {
	format := outputFlag
	if format == "" {
		format = settings.Output
	}
	f, err := output.New(format, output.Options{
		Writer:  w,
		NoColor: settings.NoColor,
		Verbose: verboseFlag,
	})
	if err != nil {
		return nil, usageError(err)
	}
	return f, nil
}

type runSummary struct {
	changed  int
	failed   int
	firstErr error
}

func runCommand(cmd *cobra.Command, args []string) error {
	if !allFlag && len(profileFlags)+len(args) == 0 {
		return usageError(fmt.Errorf("no profile selected: use -p <name>, pass names as arguments or --all"))
	}

	ovr, err := parseOverrides()
	if err != nil {
		return err
	}

	// Validate the output format before sending anything
	if _, err := newFormatter(io.Discard); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if outputFileFlag != "" {
		f, err := os.Create(outputFileFlag)
		if err != nil {
			return fmt.Errorf("cannot create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	r, err := newRunner()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if waitForFlag != "" {
		if err := waitForService(ctx, r); err != nil {
			return err
		}
	}

	names := append(append([]string{}, profileFlags...), args...)

	summary, err := runProfiles(ctx, out, r, names, ovr)
	if !watchFlag {
		if err != nil {
			return err
		}
		if summary.firstErr != nil {
			return reported(summary.firstErr)
		}
		if failOnDiffFlag && summary.changed > 0 {
			return &exitError{
				code:     ExitDiffFound,
				err:      fmt.Errorf("%d profile(s) differ", summary.changed),
				reported: true,
			}
		}
		return nil
	}
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	}

	return watchProfiles(ctx, cmd, func() {
		if _, err := runProfiles(ctx, out, r, names, ovr); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
	})
}

func waitForService(ctx context.Context, r *runner.Runner) error {
	timeout, err := parseDuration("wait-timeout", waitTimeoutFlag)
	if err != nil {
		return err
	}
	interval, err := parseDuration("wait-interval", waitIntervalFlag)
	if err != nil {
		return err
	}
	err = r.WaitFor(ctx, &runner.WaitForConfig{
		URL:      waitForFlag,
		Status:   waitStatusFlag,
		Timeout:  timeout,
		Interval: interval,
	})
	if err != nil {
		return &exitError{code: ExitNetworkError, err: err}
	}
	return nil
}

// runProfiles loads the profiles file and runs the selected profiles. Per
// profile failures are reported through the formatter and counted in the
// summary; the returned error covers loading and output only.
func runProfiles(ctx context.Context, w io.Writer, r *runner.Runner, names []string, ovr *override.Set) (*runSummary, error) {
	reg, err := profile.LoadRegistry(settings.Profiles)
	if err != nil {
		return nil, err
	}
	if allFlag {
		names = reg.Names()
	}
	if len(names) == 0 {
		return nil, configError(fmt.Errorf("no profiles found in %s", settings.Profiles))
	}

	formatter, err := newFormatter(w)
	if err != nil {
		return nil, err
	}
	if h, ok := formatter.(interface{ FormatHeader(string) }); ok && verboseFlag {
		h.FormatHeader(version)
	}

	start := time.Now()
	results := make([]*runner.Result, len(names))
	errs := make([]error, len(names))

	var g errgroup.Group
	if concurrencyFlag > 0 {
		g.SetLimit(concurrencyFlag)
	}
	for i, name := range names {
		g.Go(func() error {
			p, err := reg.Get(name)
			if err == nil {
				results[i], err = r.Compare(ctx, name, p, ovr)
			}
			errs[i] = err
			return nil
		})
	}
	_ = g.Wait()

	summary := &runSummary{}
	for i, name := range names {
		if errs[i] != nil {
			formatter.FormatError(name, errs[i])
			summary.failed++
			if summary.firstErr == nil {
				summary.firstErr = errs[i]
			}
			continue
		}
		formatter.FormatResult(results[i])
		if results[i].Changed() {
			summary.changed++
		}
	}

	if err := formatter.Flush(time.Since(start)); err != nil {
		return nil, fmt.Errorf("error writing output: %w", err)
	}
	return summary, nil
}

// watchProfiles calls rerun whenever the profiles file or the config file
// is written, until ctx is cancelled.
func watchProfiles(ctx context.Context, cmd *cobra.Command, rerun func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	watched := map[string]bool{}
	for _, path := range []string{settings.Profiles, settings.Source} {
		if path == "" {
			continue
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		watched[abs] = true
		// Watch the directory so editors that replace the file are seen
		if err := watcher.Add(filepath.Dir(abs)); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nWatching for changes... (press Ctrl+C to stop)\n\n")

	// Debounce timer for rapid file changes
	var debounce <-chan time.Time
	var changed string

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			abs, _ := filepath.Abs(event.Name)
			if !watched[abs] || event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			changed = event.Name
			debounce = time.After(WatchDebounceDelay)

		case <-debounce:
			debounce = nil
			fmt.Fprintf(cmd.OutOrStdout(), "\nFile changed: %s\nRe-running profiles...\n\n", changed)
			rerun()
			fmt.Fprintf(cmd.OutOrStdout(), "\nWatching for changes... (press Ctrl+C to stop)\n")

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "watcher error: %v\n", err)
		}
	}
}
