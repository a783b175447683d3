package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var investCmd = &cobra.Command{
	Use:   "invest <scheme-code> <units>",
	Short: "Invest in a mutual fund scheme",
	Long: `Buy units of a scheme at the current NAV. Find scheme codes with
"bhive funds search". The portfolio is reloaded after a successful order.

Example:
  bhive invest 119551 10`,
	Args: cobra.ExactArgs(2),
	RunE: runInvest,
}

func init() {
	rootCmd.AddCommand(investCmd)
}

func runInvest(cmd *cobra.Command, args []string) error {
	if err := requireAuth(); err != nil {
		return err
	}

	schemeCode, err := strconv.Atoi(args[0])
	if err != nil {
		err = fmt.Errorf("scheme code must be a number: %q", args[0])
		printError(err)
		return err
	}
	units, err := strconv.Atoi(args[1])
	if err != nil {
		err = fmt.Errorf("units must be a whole number: %q", args[1])
		printError(err)
		return err
	}

	investment, err := client.CreateInvestment(cmd.Context(), schemeCode, units)
	if err != nil {
		printError(err)
		return err
	}

	if jsonOut {
		if err := printJSON(investment); err != nil {
			return err
		}
	} else {
		fmt.Printf("Successfully invested in %d units of %s!\n", units, investment.SchemeName)
	}

	// Mirror the post-order portfolio reload; a failure here does not void
	// the order that already went through.
	if err := manager.Refresh(cmd.Context()); err == nil && !jsonOut {
		summary, _ := manager.Portfolio()
		fmt.Printf("Portfolio value: %s (P/L %s)\n", formatCurrency(summary.CurrentValue), formatCurrency(summary.TotalProfitLoss))
	}
	return nil
}
