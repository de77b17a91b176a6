package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/abdul-hamid-achik/hitdiff/packages/core/config"
	"github.com/abdul-hamid-achik/hitdiff/packages/core/logging"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var (
	configFlag   string
	envFileFlag  string
	profilesFlag string
	logLevelFlag string
	logFileFlag  string
	noColorFlag  bool
)

// settings holds the configuration resolved before every command runs.
var settings = config.DefaultConfig()

var closeLog = func() error { return nil }

var rootCmd = &cobra.Command{
	Use:   "hitdiff",
	Short: "Diff the responses of two HTTP requests.",
	Long: `hitdiff sends the two requests of a named profile, normalizes both
responses and prints a line diff of the result. Profiles live in a YAML
file; any request field can be overridden from the command line.`,
	SilenceUsage:       true,
	SilenceErrors:      true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func Execute(v, bt string) {
	version = v
	buildTime = bt
	if err := rootCmd.Execute(); err != nil {
		_ = closeLog()
		if !isReported(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(exitCodeFor(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", getEnvString("HITDIFF_CONFIG", ""), "Config file (default: .hitdiff.yaml in the current directory)")
	rootCmd.PersistentFlags().StringVar(&envFileFlag, "env-file", getEnvString("HITDIFF_ENV_FILE", ".env"), "Dotenv file loaded before the config")
	rootCmd.PersistentFlags().StringVarP(&profilesFlag, "file", "f", "", "Profiles file (default: hitdiff.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFileFlag, "log-file", "", "Write logs to a rotated file instead of stderr")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", getEnvBool("NO_COLOR", false), "Disable colored output")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(reqCmd)
	rootCmd.AddCommand(urlCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
}

// setup loads the dotenv file and the config, applies the global flags on
// top and installs the logger.
func setup(cmd *cobra.Command, args []string) error {
	if err := config.LoadDotEnv(envFileFlag); err != nil {
		return configError(err)
	}

	cfg, err := config.LoadConfig(configFlag)
	if err != nil {
		return configError(err)
	}
	if profilesFlag != "" {
		cfg.Profiles = profilesFlag
	}
	if logLevelFlag != "" {
		cfg.LogLevel = logLevelFlag
	}
	if logFileFlag != "" {
		cfg.LogFile = logFileFlag
	}
	if noColorFlag {
		cfg.NoColor = true
	}
	settings = cfg

	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.LogLevel
	logCfg.FilePath = cfg.LogFile
	logCfg.Writer = cmd.ErrOrStderr()
	_, cleanup, err := logging.Setup(logCfg)
	if err != nil {
		return usageError(err)
	}
	closeLog = cleanup

	if cfg.Source != "" {
		slog.Debug("loaded config", "path", cfg.Source)
	}
	return nil
}

func teardown(cmd *cobra.Command, args []string) error {
	return closeLog()
}
