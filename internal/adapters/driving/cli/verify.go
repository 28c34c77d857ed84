package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var verifyJSON bool

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify object store integrity",
	Long: `Re-hashes every stored object and compares the digest against its
key. Mismatches are reported per object; verification never stops at the
first failure.`,
	Args: cobra.NoArgs,
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().BoolVar(&verifyJSON, "json", false, "output the report as JSON")
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	if vaultService == nil {
		return errors.New("vault service not configured")
	}

	report, err := vaultService.Verify(cmd.Context())
	if err != nil {
		return fmt.Errorf("verify failed: %w", err)
	}

	if verifyJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		cmd.Println(string(data))
	} else {
		cmd.Printf("Verified: %d\n", report.ObjectsVerified)
		cmd.Printf("Failed:   %d\n", report.ObjectsFailed)
		for _, msg := range report.Errors {
			cmd.Printf("  %s\n", msg)
		}
	}

	if !report.Clean() {
		return fmt.Errorf("integrity check failed for %d object(s)", report.ObjectsFailed)
	}
	return nil
}
