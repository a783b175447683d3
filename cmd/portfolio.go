package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/asiftp654/Bhive/internal/api"
	"github.com/asiftp654/Bhive/internal/portfolio"
)

var portfolioCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Show your portfolio",
	Long: `Show current holdings and aggregate statistics.

Examples:
  bhive portfolio
  bhive portfolio --watch
  bhive portfolio reload
  bhive portfolio export --format yaml -o snapshot.yaml`,
	RunE: runPortfolio,
}

var portfolioReloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Re-fetch holdings and recompute statistics",
	RunE:  runPortfolioReload,
}

var portfolioExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a portfolio snapshot to a file",
	RunE:  runPortfolioExport,
}

func init() {
	portfolioCmd.Flags().Bool("watch", false, "keep refreshing at the configured interval")
	portfolioExportCmd.Flags().String("format", "yaml", "snapshot format (yaml or json)")
	portfolioExportCmd.Flags().StringP("output", "o", "", "output file (default stdout)")
	portfolioCmd.AddCommand(portfolioReloadCmd)
	portfolioCmd.AddCommand(portfolioExportCmd)
	rootCmd.AddCommand(portfolioCmd)
}

func runPortfolio(cmd *cobra.Command, _ []string) error {
	if err := requireAuth(); err != nil {
		return err
	}

	if err := manager.Refresh(cmd.Context()); err != nil {
		printError(err)
		return err
	}

	summary, holdings := manager.Portfolio()
	if jsonOut {
		return printJSON(map[string]interface{}{
			"summary":     summary,
			"investments": holdings,
		})
	}
	printPortfolio(summary, holdings)

	if watch, _ := cmd.Flags().GetBool("watch"); watch {
		return watchPortfolio(cmd)
	}
	return nil
}

// watchPortfolio keeps the periodic background refresh in the foreground
// until interrupted.
func watchPortfolio(cmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	events.live = true
	defer func() { events.live = false }()

	fmt.Fprintf(os.Stderr, "Refreshing every %s, Ctrl-C to stop.\n", cfg.Refresh.Interval)
	portfolio.NewRefresher(manager, cfg.Refresh.Interval, nil).Run(ctx)
	return nil
}

func runPortfolioReload(cmd *cobra.Command, _ []string) error {
	if err := requireAuth(); err != nil {
		return err
	}

	if err := manager.Reload(cmd.Context()); err != nil {
		return err
	}

	summary, holdings := manager.Portfolio()
	if jsonOut {
		return printJSON(map[string]interface{}{
			"summary":     summary,
			"investments": holdings,
		})
	}
	printPortfolio(summary, holdings)
	return nil
}

// snapshot is the exported portfolio document.
type snapshot struct {
	GeneratedAt time.Time         `json:"generated_at" yaml:"generated_at"`
	Email       string            `json:"email" yaml:"email"`
	Summary     portfolio.Summary `json:"summary" yaml:"summary"`
	Investments []api.Investment  `json:"investments" yaml:"investments"`
}

func runPortfolioExport(cmd *cobra.Command, _ []string) error {
	if err := requireAuth(); err != nil {
		return err
	}

	if err := manager.Refresh(cmd.Context()); err != nil {
		printError(err)
		return err
	}

	summary, holdings := manager.Portfolio()
	snap := snapshot{
		GeneratedAt: time.Now().UTC(),
		Email:       manager.CurrentUser().Email,
		Summary:     summary,
		Investments: holdings,
	}

	format, _ := cmd.Flags().GetString("format")
	var out []byte
	var err error
	switch format {
	case "yaml":
		out, err = yaml.Marshal(snap)
	case "json":
		out, err = json.MarshalIndent(snap, "", "  ")
	default:
		err = fmt.Errorf("unsupported format %q (want yaml or json)", format)
	}
	if err != nil {
		printError(err)
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		fmt.Print(string(out))
		return nil
	}
	if err := os.WriteFile(output, out, 0o644); err != nil {
		printError(err)
		return err
	}
	fmt.Printf("Snapshot written to %s\n", output)
	return nil
}

// printPortfolio renders the holdings table and summary line.
func printPortfolio(summary portfolio.Summary, holdings []api.Investment) {
	if len(holdings) == 0 {
		fmt.Println("No investments yet. Use \"bhive funds search\" to find schemes to invest in.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SCHEME\tCODE\tUNITS\tBUY\tCURRENT\tP/L")
	for _, inv := range holdings {
		fmt.Fprintf(w, "%s\t%d\t%g\t%s\t%s\t%s\n",
			inv.SchemeName, inv.SchemeCode, inv.Units,
			formatCurrency(inv.BuyPrice), formatCurrency(inv.CurrentPrice), formatCurrency(inv.ProfitLoss))
	}
	w.Flush()

	fmt.Printf("\nFunds: %d  Invested: %s  Value: %s  P/L: %s\n",
		summary.FundCount, formatCurrency(summary.TotalInvested),
		formatCurrency(summary.CurrentValue), formatCurrency(summary.TotalProfitLoss))
}
