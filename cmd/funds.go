package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var fundsCmd = &cobra.Command{
	Use:   "funds",
	Short: "Browse mutual fund schemes",
	Long: `Search the open schemes offered by a fund family.

Examples:
  bhive funds search "SBI Mutual Fund"
  bhive funds search "HDFC Mutual Fund" --json`,
}

var fundsSearchCmd = &cobra.Command{
	Use:   "search <fund-family>",
	Short: "List open schemes for a fund family",
	Args:  cobra.ExactArgs(1),
	RunE:  runFundsSearch,
}

func init() {
	fundsCmd.AddCommand(fundsSearchCmd)
	rootCmd.AddCommand(fundsCmd)
}

func runFundsSearch(cmd *cobra.Command, args []string) error {
	funds, err := client.SearchMutualFunds(cmd.Context(), args[0])
	if err != nil {
		printError(err)
		return err
	}

	if jsonOut {
		return printJSON(map[string]interface{}{
			"funds": funds,
			"count": len(funds),
		})
	}

	if len(funds) == 0 {
		fmt.Println("No funds found. Try a different fund family name.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CODE\tNAME\tCATEGORY\tNAV")
	for _, f := range funds {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", f.SchemeCode, f.SchemeName, f.SchemeCategory, formatCurrency(f.NetAssetValue))
	}
	return w.Flush()
}
