package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"vrcfetch/api"
	"vrcfetch/internal"
	"vrcfetch/query"
	"vrcfetch/utils"
)

// defaultConfigFile is read from the working directory when --config is not given
const defaultConfigFile = "vrcfetch.toml"

var (
	configPath string
	authFile   string
	userAgent  string
	rateQuota  string
	timeout    int
	quiet      bool
	debug      bool
	logLevel   string
	logFile    string
	outputPath string
	format     string
	config     *internal.Config
)

// newDoer builds the HTTP client every command sends through
var newDoer = func(cfg *internal.Config) utils.Doer {
	httpConfig := utils.DefaultHTTPClientConfig()
	httpConfig.Timeout = time.Duration(cfg.DefaultTimeout) * time.Second
	return utils.NewHTTPClientWithConfig(httpConfig)
}

var rootCmd = &cobra.Command{
	Use:     "vrcfetch",
	Short:   "Query the VRChat API from the command line",
	Version: "v1.0.0",
	Long: `vrcfetch is a rate-limited command line client for the VRChat API.

It logs in (including second-factor verification), prints the resulting
session as JSON, and fetches users, friends, worlds, instances and groups
with that session.

Examples:
  VRCFETCH_PASSWORD=... vrcfetch login -u alice --code 123456 > session.json
  vrcfetch --auth-file session.json whoami
  vrcfetch --auth-file session.json world wrld_ba913a96-fac4-4048-a062-9aa5db092812
  vrcfetch --auth-file session.json friends --all --format text

Environment Variables:
  VRCFETCH_CONFIG               Path to the TOML config file
  VRCFETCH_AUTH_FILE            Path to the session JSON file
  VRCFETCH_USER_AGENT           User-Agent sent to VRChat
  VRCFETCH_REQUESTS_PER_MINUTE  Sustained request rate
  VRCFETCH_BURST                Requests allowed back to back
  VRCFETCH_USERNAME             Login username
  VRCFETCH_PASSWORD             Login password

Respect the VRChat Terms of Service; the default rate follows their guidance.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfiguration(cmd); err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}

		if err := internal.InitLogger(config); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		internal.LogDebug("Configuration loaded: rate=%d/min burst=%d timeout=%ds debug=%v quiet=%v",
			config.RequestsPerMinute, config.Burst, config.DefaultTimeout, config.EnableDebug, config.QuietMode)
		return nil
	},
}

// loadConfiguration layers defaults, the config file, the environment and flags
func loadConfiguration(cmd *cobra.Command) error {
	config = internal.DefaultConfig()

	path := configPath
	if path == "" {
		path = internal.GetEnvWithDefault("VRCFETCH_CONFIG", defaultConfigFile)
	}
	if err := config.LoadFile(path); err != nil {
		return err
	}
	config.LoadFromEnv()

	flags := cmd.Flags()
	if authFile != "" {
		config.AuthFile = authFile
	}
	if userAgent != "" {
		config.UserAgent = userAgent
	}
	if flags.Changed("timeout") {
		config.DefaultTimeout = timeout
	}
	if rateQuota != "" {
		quota, err := utils.ParseQuota(rateQuota)
		if err != nil {
			return internal.NewValidationErrorWithValue("rate", "invalid rate", rateQuota).
				WithSuggestion("Use formats like 12/min, 12/min,5, 1/s or 0 for no limit").
				WithContext("error", err.Error())
		}
		config.RequestsPerMinute = quota.PerMinute
		config.Burst = quota.Burst
	}

	if debug {
		config.EnableDebug = true
		config.LogLevel = "debug"
	}
	if quiet {
		config.QuietMode = true
	}
	if logLevel != "" {
		config.LogLevel = logLevel
	}
	if logFile != "" {
		config.LogFile = logFile
	}

	return config.ValidateConfig()
}

// quota returns the configured request pacing
func quota() utils.Quota {
	return utils.Quota{PerMinute: config.RequestsPerMinute, Burst: config.Burst}
}

func clientOptions() []api.Option {
	return []api.Option{
		api.WithHTTPClient(newDoer(config)),
		api.WithQuota(quota()),
	}
}

// authenticatedClient builds a client from the configured session file
func authenticatedClient() (*api.AuthenticatedClient, error) {
	session, err := internal.LoadSessionFile(config.AuthFile)
	if err != nil {
		return nil, err
	}

	internal.LogDebug("Loaded session from %s (second factor: %v)", config.AuthFile, session.SecondFactorToken != nil)
	auth := query.Authentication{Token: session.Token, SecondFactorToken: session.SecondFactorToken}
	return api.NewAuthenticatedClient(config.UserAgent, auth, clientOptions()...), nil
}

// signalContext cancels in-flight requests and limiter waits on SIGINT or SIGTERM
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			internal.LogInfo("Received signal %v, cancelling pending requests", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Path to the TOML config file (env: VRCFETCH_CONFIG) (default "+defaultConfigFile+")")
	flags.StringVarP(&authFile, "auth-file", "a", "", "Path to the session JSON file (env: VRCFETCH_AUTH_FILE)")
	flags.StringVar(&userAgent, "user-agent", "", "User-Agent sent to VRChat (env: VRCFETCH_USER_AGENT)")
	flags.StringVarP(&rateQuota, "rate", "r", "", "Request rate, e.g. 12/min,5 or 0 for no limit (env: VRCFETCH_REQUESTS_PER_MINUTE, VRCFETCH_BURST)")
	flags.IntVar(&timeout, "timeout", 30, "HTTP timeout in seconds (env: VRCFETCH_TIMEOUT)")
	flags.BoolVarP(&quiet, "quiet", "q", false, "Suppress progress bars and informational logs")
	flags.BoolVarP(&debug, "debug", "d", false, "Enable debug logging with file and line information (env: VRCFETCH_DEBUG)")
	flags.StringVar(&logLevel, "log-level", "", "Set log level (debug, info, warn, error) (env: VRCFETCH_LOG_LEVEL)")
	flags.StringVar(&logFile, "log-file", "", "Write logs to file instead of stderr (env: VRCFETCH_LOG_FILE)")
	flags.StringVarP(&outputPath, "output", "o", "", "Write the result to a file instead of stdout")
	flags.StringVarP(&format, "format", "f", formatJSON, "Output format: json or text")
}

// Execute runs the root command
func Execute() error {
	err := rootCmd.Execute()

	var validationErr *internal.ValidationError
	if errors.As(err, &validationErr) {
		internal.LogValidationError(validationErr)
	}
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		internal.LogDebug("%s", apiErr.DetailedError())
	}
	return err
}
