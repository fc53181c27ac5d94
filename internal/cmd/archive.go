package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"gcpdns-cli/internal/archive"
	"gcpdns-cli/internal/dns"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Store and retrieve DNS dumps in object storage",
}

var archivePutCmd = &cobra.Command{
	Use:   "put FILE",
	Short: "Upload a dump file to the archive bucket",
	Args:  cobra.ExactArgs(1),
	RunE:  runArchivePut,
}

var archiveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived dumps",
	Args:  cobra.NoArgs,
	RunE:  runArchiveList,
}

var archiveGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Download an archived dump",
	Args:  cobra.ExactArgs(1),
	RunE:  runArchiveGet,
}

var archiveDeleteCmd = &cobra.Command{
	Use:   "delete KEY...",
	Short: "Delete archived dump(s)",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runArchiveDelete,
}

func init() {
	archiveListCmd.Flags().String("prefix", "", "key prefix filter")
	archiveListCmd.Flags().Int("limit", 0, "maximum number of entries (0 for all)")
	archiveListCmd.Flags().Bool("json", false, "print entries as JSON")

	archiveGetCmd.Flags().String("output", "", "write to this path instead of stdout")

	archiveDeleteCmd.Flags().Bool("yes", false, "skip the confirmation prompt")

	archiveCmd.AddCommand(archivePutCmd, archiveListCmd, archiveGetCmd, archiveDeleteCmd)
	rootCmd.AddCommand(archiveCmd)
}

// archiveConfigFromEnv builds the bucket connection settings from MINIO_*
// environment variables (usually supplied through a .env file).
func archiveConfigFromEnv() (*archive.Config, error) {
	cfg := &archive.Config{
		Endpoint:         getEnvWithDefault("MINIO_ENDPOINT", ""),
		AccessKey:        getEnvWithDefault("MINIO_ACCESS_KEY", ""),
		SecretKey:        getEnvWithDefault("MINIO_SECRET_KEY", ""),
		Bucket:           getEnvWithDefault("MINIO_BUCKET", "dns-dumps"),
		UseSSL:           getEnvBoolWithDefault("MINIO_SSL", true),
		BucketPath:       getEnvWithDefault("MINIO_BUCKET_PATH", ""),
		AutoCreateBucket: getEnvBoolWithDefault("MINIO_AUTO_CREATE_BUCKET", false),
	}
	if raw := os.Getenv("MINIO_HTTP_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid MINIO_HTTP_TIMEOUT: %w", err)
		}
		cfg.HTTPTimeout = d
	}
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("archive storage requires MINIO_ENDPOINT (and MINIO_ACCESS_KEY / MINIO_SECRET_KEY)")
	}
	return cfg, nil
}

// uploadDump archives an encoded dump payload and returns its object key.
func uploadDump(ctx context.Context, name string, payload []byte, format string) (string, error) {
	cfg, err := archiveConfigFromEnv()
	if err != nil {
		return "", err
	}
	return archive.NewManager(cfg).Put(ctx, name, payload, format)
}

func runArchivePut(cmd *cobra.Command, args []string) error {
	payload, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read dump file: %w", err)
	}

	format := dns.DetectFormatFromPath(args[0])
	name := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))

	key, err := uploadDump(cmd.Context(), name, payload, format)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s as %s\n", args[0], key)
	return nil
}

func runArchiveList(cmd *cobra.Command, args []string) error {
	cfg, err := archiveConfigFromEnv()
	if err != nil {
		return err
	}
	entries, err := archive.NewManager(cfg).List(cmd.Context(),
		mustGetStringFlag(cmd, "prefix"), mustGetIntFlag(cmd, "limit"))
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No archived dumps found")
		return nil
	}

	if mustGetBoolFlag(cmd, "json") {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Found %d archived dump(s):\n\n", len(entries))
	for i, e := range entries {
		fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n", i+1, e.Key)
		fmt.Fprintf(cmd.OutOrStdout(), "   Name: %s\n", e.Name)
		fmt.Fprintf(cmd.OutOrStdout(), "   Size: %.2f KB\n", float64(e.Size)/1024)
		fmt.Fprintf(cmd.OutOrStdout(), "   Modified: %s\n\n", e.LastModified.Format("2006-01-02 15:04:05 MST"))
	}
	return nil
}

func runArchiveGet(cmd *cobra.Command, args []string) error {
	cfg, err := archiveConfigFromEnv()
	if err != nil {
		return err
	}
	data, err := archive.NewManager(cfg).Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if path := mustGetStringFlag(cmd, "output"); path != "" {
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s (%d bytes)\n", path, len(data))
		return nil
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func runArchiveDelete(cmd *cobra.Command, args []string) error {
	ok, err := confirmAction(cmd, fmt.Sprintf("Delete %d archived dump(s)?", len(args)))
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(cmd.ErrOrStderr(), "Aborted")
		return nil
	}

	cfg, err := archiveConfigFromEnv()
	if err != nil {
		return err
	}
	if err := archive.NewManager(cfg).Delete(cmd.Context(), args); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d archived dump(s)\n", len(args))
	return nil
}
