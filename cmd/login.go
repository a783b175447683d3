package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Log in to your Bhive account",
	Long: `Authenticate with email and password. The issued session token is stored
locally so later commands reuse it.

Examples:
  bhive login alice@example.com
  bhive login alice@example.com --password-stdin < pw.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().StringP("password", "p", "", "account password (prompted if omitted)")
	loginCmd.Flags().Bool("password-stdin", false, "read the password from stdin")
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	password, err := readPassword(cmd, "Password: ")
	if err != nil {
		printError(err)
		return err
	}

	if err := manager.Login(cmd.Context(), args[0], password); err != nil {
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

// readPassword resolves the password from --password, --password-stdin, or
// an interactive prompt, in that order.
func readPassword(cmd *cobra.Command, prompt string) (string, error) {
	if pw, _ := cmd.Flags().GetString("password"); pw != "" {
		return pw, nil
	}

	fromStdin, _ := cmd.Flags().GetBool("password-stdin")
	if !fromStdin {
		fmt.Fprint(os.Stderr, prompt)
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimSpace(line), nil
}
