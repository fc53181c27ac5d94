package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gcpdns-cli/internal/dns"
)

var zoneCmd = &cobra.Command{
	Use:   "zone",
	Short: "Manage hosted zones",
}

var zoneCreateCmd = &cobra.Command{
	Use:   "create DNS_NAME",
	Short: "Create a hosted zone",
	Args:  cobra.ExactArgs(1),
	RunE:  runZoneCreate,
}

var zoneDeleteCmd = &cobra.Command{
	Use:   "delete NAME",
	Short: "Delete a hosted zone and its record sets",
	Args:  cobra.ExactArgs(1),
	RunE:  runZoneDelete,
}

var zoneDumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Export hosted zones as JSON, YAML, or CSV",
	Args:  cobra.NoArgs,
	RunE:  runZoneDump,
}

var zoneUpdateCmd = &cobra.Command{
	Use:   "update CSV_FILE",
	Short: "Reconcile zones from a desired-state CSV",
	Long: `Apply zone rows from a CSV file in order. Each row names an action
(create, add, replace, delete), a dns_name, and optionally a provider name,
description, and record_info entries to remove before a zone delete.`,
	Args: cobra.ExactArgs(1),
	RunE: runZoneUpdate,
}

func init() {
	zoneCreateCmd.Flags().String("gcp-name", "", "provider zone name (default: dns_name with dots as hyphens)")
	zoneCreateCmd.Flags().String("description", "", "zone description")
	zoneCreateCmd.Flags().Bool("skip-existing", false, "succeed silently when the zone already exists")

	zoneDeleteCmd.Flags().Bool("yes", false, "skip the confirmation prompt")

	zoneDumpCmd.Flags().String("format", "json", "output format: json, yaml, or csv")
	zoneDumpCmd.Flags().StringSlice("output", nil, "output file path(s); format follows each extension")
	zoneDumpCmd.Flags().Bool("records", false, "include each zone's record sets")
	zoneDumpCmd.Flags().Bool("upload", false, "also archive the dump in object storage")

	zoneUpdateCmd.Flags().Bool("ignore-errors", false, "keep going after a failed row")
	zoneUpdateCmd.Flags().Bool("skip-existing", false, "treat create-over-existing as a no-op")

	zoneCmd.AddCommand(zoneCreateCmd, zoneDeleteCmd, zoneDumpCmd, zoneUpdateCmd)
	rootCmd.AddCommand(zoneCmd)
}

func runZoneCreate(cmd *cobra.Command, args []string) error {
	gw, err := buildGateway(cmd.Context())
	if err != nil {
		return err
	}

	rows := []dns.ZoneRow{{
		Action:      dns.ActionCreate,
		DNSName:     args[0],
		Name:        mustGetStringFlag(cmd, "gcp-name"),
		Description: mustGetStringFlag(cmd, "description"),
	}}
	opts := dns.ReconcileOptions{SkipExisting: mustGetBoolFlag(cmd, "skip-existing")}

	result, err := dns.NewReconciler(gw).ApplyZones(cmd.Context(), rows, opts)
	reportOutcomes(cmd, result)
	return batchError(result, err)
}

func runZoneDelete(cmd *cobra.Command, args []string) error {
	ok, err := confirmAction(cmd, fmt.Sprintf("Delete zone %s and all of its record sets?", args[0]))
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(cmd.ErrOrStderr(), "Aborted")
		return nil
	}

	gw, err := buildGateway(cmd.Context())
	if err != nil {
		return err
	}

	rows := []dns.ZoneRow{{Action: dns.ActionDelete, DNSName: args[0]}}
	result, err := dns.NewReconciler(gw).ApplyZones(cmd.Context(), rows, dns.ReconcileOptions{})
	reportOutcomes(cmd, result)
	return batchError(result, err)
}

func runZoneDump(cmd *cobra.Command, args []string) error {
	gw, err := buildGateway(cmd.Context())
	if err != nil {
		return err
	}

	zones, err := dns.DumpZones(cmd.Context(), gw, mustGetBoolFlag(cmd, "records"))
	if err != nil {
		return err
	}

	format := mustGetStringFlag(cmd, "format")
	encode := func(f string) ([]byte, error) { return dns.EncodeZoneDump(zones, f) }

	if err := writeOutputs(cmd, mustGetStringSliceFlag(cmd, "output"), format, encode); err != nil {
		return err
	}

	if mustGetBoolFlag(cmd, "upload") {
		data, err := encode(format)
		if err != nil {
			return err
		}
		key, err := uploadDump(cmd.Context(), "zones", data, format)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Archived dump as %s\n", key)
	}
	return nil
}

func runZoneUpdate(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open csv file: %w", err)
	}
	defer f.Close()

	rows, err := dns.ParseZoneRows(f)
	if err != nil {
		return err
	}

	gw, err := buildGateway(cmd.Context())
	if err != nil {
		return err
	}
	opts := dns.ReconcileOptions{
		IgnoreErrors: mustGetBoolFlag(cmd, "ignore-errors"),
		SkipExisting: mustGetBoolFlag(cmd, "skip-existing"),
	}

	result, err := dns.NewReconciler(gw).ApplyZones(cmd.Context(), rows, opts)
	reportOutcomes(cmd, result)
	return batchError(result, err)
}
