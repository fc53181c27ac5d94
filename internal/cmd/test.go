package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"gcpdns-cli/internal/archive"
)

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test provider credentials by listing zones",
	Args:  cobra.NoArgs,
	RunE:  runTest,
}

func init() {
	testCmd.Flags().Bool("archive", false, "also test the archive bucket connection")
	rootCmd.AddCommand(testCmd)
}

func runTest(cmd *cobra.Command, args []string) error {
	gw, err := buildGateway(cmd.Context())
	if err != nil {
		return err
	}

	zones, err := gw.ListZones(cmd.Context())
	if err != nil {
		return fmt.Errorf("provider check failed: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Provider OK: %d zone(s) visible\n", len(zones))
	for _, zone := range zones {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s (%s)\n", zone.DNSName, zone.Name)
	}

	if mustGetBoolFlag(cmd, "archive") {
		cfg, err := archiveConfigFromEnv()
		if err != nil {
			return err
		}
		if _, err := archive.NewManager(cfg).List(cmd.Context(), "", 1); err != nil {
			return fmt.Errorf("archive check failed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Archive OK")
	}
	return nil
}
