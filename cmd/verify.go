package cmd

import (
	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <email> <otp>",
	Short: "Verify a pending signup with the emailed OTP",
	Long: `Confirm a signup with the 6-digit OTP sent to your email. On success you
are logged in and the session is stored locally.

Example:
  bhive verify alice@example.com 123456`,
	Args: cobra.ExactArgs(2),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	manager.BeginVerification(args[0])
	if err := manager.Verify(cmd.Context(), args[1]); err != nil {
		return err
	}

	if jsonOut {
		return printJSON(map[string]interface{}{
			"state": manager.State().String(),
			"user":  manager.CurrentUser(),
		})
	}
	return nil
}
