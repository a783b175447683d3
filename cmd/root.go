// Package cmd implements the bhive CLI commands.
package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/asiftp654/Bhive/internal/api"
	"github.com/asiftp654/Bhive/internal/config"
	"github.com/asiftp654/Bhive/internal/portfolio"
	"github.com/asiftp654/Bhive/internal/session"
	"github.com/asiftp654/Bhive/internal/store"
)

var (
	cfgFile string
	jsonOut bool
	verbose bool

	cfg     *config.Config
	client  *api.Client
	manager *session.Manager
	events  = &cliEvents{}
)

var rootCmd = &cobra.Command{
	Use:   "bhive",
	Short: "Command line client for the Bhive mutual fund platform",
	Long: `bhive is a command line client for the Bhive mutual fund backend.

Sign up, verify your email, search fund families, and manage a mutual
fund portfolio:

  bhive signup alice@example.com
  bhive login alice@example.com
  bhive funds search "SBI Mutual Fund"
  bhive invest 119551 10
  bhive portfolio --watch`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initApp,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/bhive/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// initApp wires config, durable session storage, the API client and the
// session state machine. Every command runs through here first.
func initApp(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		printError(err)
		return err
	}

	setupLogger(cfg.Log)

	sessionStore, err := store.NewFileStore(cfg.Session.Path)
	if err != nil {
		printError(err)
		return err
	}

	client, err = api.NewClient(sessionStore,
		api.WithBaseURL(cfg.API.BaseURL),
		api.WithTimeout(cfg.API.Timeout),
		api.WithLoadingFunc(func(active bool) {
			slog.Debug("backend request", "in_flight", active)
		}),
	)
	if err != nil {
		printError(err)
		return err
	}

	manager = session.NewManager(client, events, slog.Default())
	manager.Start(cmd.Context())
	return nil
}

func setupLogger(lc config.LogConfig) {
	level := slog.LevelWarn
	switch lc.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	}
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if lc.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// cliEvents binds the session state machine to the terminal. When live is
// set (watch mode), portfolio updates are reprinted as they arrive.
type cliEvents struct {
	live bool
}

func (e *cliEvents) StateChanged(from, to session.State) {
	slog.Debug("session state changed", "from", from, "to", to)
}

func (e *cliEvents) PortfolioUpdated(summary portfolio.Summary, holdings []api.Investment) {
	if e.live {
		printPortfolio(summary, holdings)
	}
}

func (e *cliEvents) Notify(level session.Level, message string) {
	switch level {
	case session.LevelError:
		fmt.Fprintln(os.Stderr, "Error:", message)
	default:
		fmt.Println(message)
	}
}

func printError(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
}

func printJSON(v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

func formatCurrency(v float64) string {
	return fmt.Sprintf("₹%.2f", v)
}

// requireAuth guards commands that only make sense with a session.
func requireAuth() error {
	if !manager.Active() {
		err := fmt.Errorf("not logged in, run \"bhive login\" first")
		printError(err)
		return err
	}
	return nil
}
