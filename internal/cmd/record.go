package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gcpdns-cli/internal/dns"
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Manage record sets",
}

var recordCreateCmd = &cobra.Command{
	Use:   "create NAME TYPE DATA",
	Short: "Create a record set",
	Long: `Create a record set in the zone that hosts NAME. DATA holds one or
more values separated by |, for example "10 mx1.example.com.|20 mx2.example.com.".`,
	Args: cobra.ExactArgs(3),
	RunE: runRecordCreate,
}

var recordDeleteCmd = &cobra.Command{
	Use:   "delete NAME TYPE",
	Short: "Delete a record set",
	Args:  cobra.ExactArgs(2),
	RunE:  runRecordDelete,
}

var recordDumpCmd = &cobra.Command{
	Use:   "dump ZONE",
	Short: "Export a zone's record sets as JSON, YAML, or CSV",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecordDump,
}

var recordUpdateCmd = &cobra.Command{
	Use:   "update CSV_FILE",
	Short: "Reconcile record sets from a desired-state CSV",
	Long: `Apply record rows from a CSV file in order. Each row names an action
(create, add, replace, delete), a record name, a type, and for non-delete
actions a ttl and |-separated data values. The owning zone of each row is
resolved from the record name.`,
	Args: cobra.ExactArgs(1),
	RunE: runRecordUpdate,
}

func init() {
	recordCreateCmd.Flags().Int("ttl", 0, "record TTL in seconds (default 300)")
	recordCreateCmd.Flags().Bool("replace", false, "replace the record set if it already exists")
	recordCreateCmd.Flags().Bool("skip-existing", false, "succeed silently when the record set already exists")

	recordDeleteCmd.Flags().Bool("yes", false, "skip the confirmation prompt")

	recordDumpCmd.Flags().String("format", "json", "output format: json, yaml, or csv")
	recordDumpCmd.Flags().StringSlice("output", nil, "output file path(s); format follows each extension")
	recordDumpCmd.Flags().Bool("upload", false, "also archive the dump in object storage")

	recordUpdateCmd.Flags().Bool("ignore-errors", false, "keep going after a failed row")
	recordUpdateCmd.Flags().Bool("replace-existing", false, "replace record sets that already exist")
	recordUpdateCmd.Flags().Bool("skip-existing", false, "treat create-over-existing as a no-op")

	recordCmd.AddCommand(recordCreateCmd, recordDeleteCmd, recordDumpCmd, recordUpdateCmd)
	rootCmd.AddCommand(recordCmd)
}

func runRecordCreate(cmd *cobra.Command, args []string) error {
	gw, err := buildGateway(cmd.Context())
	if err != nil {
		return err
	}

	action := dns.ActionCreate
	if mustGetBoolFlag(cmd, "replace") {
		action = dns.ActionReplace
	}
	rows := []dns.RecordRow{{
		Action: action,
		RecordSet: dns.RecordSet{
			Name: args[0],
			Type: args[1],
			TTL:  mustGetIntFlag(cmd, "ttl"),
		},
		RawData: args[2],
	}}
	opts := dns.ReconcileOptions{SkipExisting: mustGetBoolFlag(cmd, "skip-existing")}

	result, err := dns.NewReconciler(gw).ApplyRecordSets(cmd.Context(), rows, opts)
	reportOutcomes(cmd, result)
	return batchError(result, err)
}

func runRecordDelete(cmd *cobra.Command, args []string) error {
	ok, err := confirmAction(cmd, fmt.Sprintf("Delete record set %s %s?", args[1], args[0]))
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

	rows := []dns.RecordRow{{
		Action:    dns.ActionDelete,
		RecordSet: dns.RecordSet{Name: args[0], Type: args[1]},
	}}
	result, err := dns.NewReconciler(gw).ApplyRecordSets(cmd.Context(), rows, dns.ReconcileOptions{})
	reportOutcomes(cmd, result)
	return batchError(result, err)
}

func runRecordDump(cmd *cobra.Command, args []string) error {
	gw, err := buildGateway(cmd.Context())
	if err != nil {
		return err
	}

	records, err := dns.DumpRecords(cmd.Context(), gw, args[0])
	if err != nil {
		return err
	}

	format := mustGetStringFlag(cmd, "format")
	encode := func(f string) ([]byte, error) { return dns.EncodeRecordDump(records, f) }

	if err := writeOutputs(cmd, mustGetStringSliceFlag(cmd, "output"), format, encode); err != nil {
		return err
	}

	if mustGetBoolFlag(cmd, "upload") {
		data, err := encode(format)
		if err != nil {
			return err
		}
		key, err := uploadDump(cmd.Context(), args[0], data, format)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Archived dump as %s\n", key)
	}
	return nil
}

func runRecordUpdate(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open csv file: %w", err)
	}
	defer f.Close()

	rows, err := dns.ParseRecordRows(f)
	if err != nil {
		return err
	}

	gw, err := buildGateway(cmd.Context())
	if err != nil {
		return err
	}
	opts := dns.ReconcileOptions{
		IgnoreErrors:    mustGetBoolFlag(cmd, "ignore-errors"),
		ReplaceExisting: mustGetBoolFlag(cmd, "replace-existing"),
		SkipExisting:    mustGetBoolFlag(cmd, "skip-existing"),
	}

	result, err := dns.NewReconciler(gw).ApplyRecordSets(cmd.Context(), rows, opts)
	reportOutcomes(cmd, result)
	return batchError(result, err)
}
