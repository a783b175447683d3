package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/asiftp654/Bhive/internal/api"
	"github.com/asiftp654/Bhive/internal/session"
)

var signupCmd = &cobra.Command{
	Use:   "signup <email>",
	Short: "Create a new Bhive account",
	Long: `Register a new account. The backend emails a 6-digit OTP; the command
offers to verify it right away, or you can finish later with:

  bhive verify <email> <otp>`,
	Args: cobra.ExactArgs(1),
	RunE: runSignup,
}

func init() {
	signupCmd.Flags().StringP("password", "p", "", "account password (prompted if omitted)")
	signupCmd.Flags().Bool("password-stdin", false, "read the password from stdin")
	signupCmd.Flags().Bool("no-verify", false, "skip the interactive OTP prompt")
	rootCmd.AddCommand(signupCmd)
}

func runSignup(cmd *cobra.Command, args []string) error {
	email := args[0]

	password, err := readPassword(cmd, "Choose a password (min 8 characters): ")
	if err != nil {
		printError(err)
		return err
	}

	if err := manager.Signup(cmd.Context(), email, password); err != nil {
		return err
	}

	if skip, _ := cmd.Flags().GetBool("no-verify"); skip {
		fmt.Printf("Run \"bhive verify %s <otp>\" once the code arrives.\n", email)
		return nil
	}

	return promptOTP(cmd)
}

// promptOTP drives the pending-verification state interactively. Malformed
// codes are rejected locally and re-prompted; an empty line abandons
// verification for now.
func promptOTP(cmd *cobra.Command) error {
	reader := bufio.NewReader(os.Stdin)
	email := manager.PendingEmail()

	for manager.State() == session.PendingVerification {
		fmt.Fprintf(os.Stderr, "Enter the 6-digit OTP sent to %s (or press Enter to verify later): ", email)
		line, err := reader.ReadString('\n')
		otp := strings.TrimSpace(line)
		if otp == "" {
			manager.Abandon()
			fmt.Printf("Run \"bhive verify %s <otp>\" once the code arrives.\n", email)
			return nil
		}

		verifyErr := manager.Verify(cmd.Context(), otp)
		if verifyErr == nil {
			return nil
		}
		var valErr *api.ValidationError
		if errors.As(verifyErr, &valErr) && err == nil {
			continue
		}
		return verifyErr
	}
	return nil
}
