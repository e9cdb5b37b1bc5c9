package cmd

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"github.com/zhubert/confide/internal/api"
	"github.com/zhubert/confide/internal/app"
	"github.com/zhubert/confide/internal/clipboard"
	"github.com/zhubert/confide/internal/config"
	"github.com/zhubert/confide/internal/logger"
	"github.com/zhubert/confide/internal/telemetry"
)

var (
	debugMode             bool
	quietMode             bool
	apiURL                string
	version, commit, date string
)

// SetVersionInfo sets version information from ldflags
func SetVersionInfo(v, c, d string) {
	version, commit, date = v, c, d
}

var rootCmd = &cobra.Command{
	Use:   "confide",
	Short: "Terminal chat with Xiaozhi, a psychological-support companion",
	Long: `confide is a terminal chat client for a psychological-support assistant.
Past conversations are listed in the sidebar; replies are revealed as they
are typed out.`,
	RunE:          runTUI,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", true, "Enable debug logging (on by default)")
	rootCmd.PersistentFlags().BoolVarP(&quietMode, "quiet", "q", false, "Reduce logging to info level only")
	rootCmd.Flags().StringVar(&apiURL, "api-url", "", "Backend base URL (overrides config and "+config.EnvAPIURL+")")
}

func initConfig() {
	if quietMode {
		logger.SetDebug(false)
	} else if debugMode {
		logger.SetDebug(true)
	}
}

// Execute runs the root command
func Execute() error {
	// Set version dynamically
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(versionTemplate())
	return rootCmd.Execute()
}

func versionTemplate() string {
	if commit != "none" && commit != "" {
		return fmt.Sprintf("confide %s\n  commit: %s\n  built:  %s\n", version, commit, date)
	}
	return fmt.Sprintf("confide %s\n", version)
}

// loadConfig reads the config file and applies the --api-url override.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	if apiURL != "" {
		cfg.SetAPIBaseURL(apiURL)
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Ensure logger is closed on exit
	defer logger.Close()
	log := logger.WithComponent("main")

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	tel, err := telemetry.Init(ctx, telemetry.Options{
		Enabled:        cfg.GetTelemetryEnabled(),
		ServiceVersion: version,
	})
	if err != nil {
		log.Warn("telemetry disabled", "error", err)
		tel = telemetry.Disabled()
	}
	defer func() {
		if err := tel.Shutdown(context.Background()); err != nil {
			log.Warn("telemetry shutdown failed", "error", err)
		}
	}()

	// A missing clipboard only disables ctrl+y.
	if err := clipboard.Init(); err != nil {
		log.Warn("clipboard unavailable", "error", err)
	}

	client := api.New(cfg.GetAPIBaseURL(),
		api.WithTimeout(cfg.RequestTimeout()),
		api.WithTracer(tel.Tracer()),
		api.WithRecorder(tel.Metrics()),
	)

	m := app.New(cfg, client,
		app.WithVersion(version),
		app.WithContext(ctx),
		app.WithStepRecorder(tel.Metrics()),
	)
	p := tea.NewProgram(m)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running app: %w", err)
	}
	return nil
}
