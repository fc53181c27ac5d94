package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gcpdns-cli/internal/dns"
)

// mustGetStringFlag retrieves a string flag value.
// Errors are ignored because cobra guarantees flags exist if they're defined.
func mustGetStringFlag(cmd *cobra.Command, name string) string {
	val, _ := cmd.Flags().GetString(name)
	return val
}

// mustGetBoolFlag retrieves a bool flag value.
// Errors are ignored because cobra guarantees flags exist if they're defined.
func mustGetBoolFlag(cmd *cobra.Command, name string) bool {
	val, _ := cmd.Flags().GetBool(name)
	return val
}

// mustGetIntFlag retrieves an int flag value.
// Errors are ignored because cobra guarantees flags exist if they're defined.
func mustGetIntFlag(cmd *cobra.Command, name string) int {
	val, _ := cmd.Flags().GetInt(name)
	return val
}

// mustGetStringSliceFlag retrieves a string slice flag value.
// Errors are ignored because cobra guarantees flags exist if they're defined.
func mustGetStringSliceFlag(cmd *cobra.Command, name string) []string {
	val, _ := cmd.Flags().GetStringSlice(name)
	return val
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBoolWithDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// confirmAction prompts before a destructive operation unless --yes was given.
func confirmAction(cmd *cobra.Command, prompt string) (bool, error) {
	if mustGetBoolFlag(cmd, "yes") {
		return true, nil
	}
	confirmed := false
	err := survey.AskOne(&survey.Confirm{Message: prompt, Default: false}, &confirmed)
	if err != nil {
		return false, fmt.Errorf("prompt failed: %w", err)
	}
	return confirmed, nil
}

// writeOutputs renders one payload per output path, picking the encoding from
// each path's extension. With no paths the payload in the default format goes
// to stdout.
func writeOutputs(cmd *cobra.Command, paths []string, defaultFormat string, encode func(format string) ([]byte, error)) error {
	if len(paths) == 0 {
		data, err := encode(defaultFormat)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	for _, path := range paths {
		format := dns.DetectFormatFromPath(path)
		data, err := encode(format)
		if err != nil {
			return err
		}
		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		if viper.GetBool("verbose") {
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s (%s, %d bytes)\n", path, format, len(data))
		}
	}
	return nil
}

// reportOutcomes prints the per-row result of a reconciliation run.
func reportOutcomes(cmd *cobra.Command, result *dns.BatchResult) {
	out := cmd.ErrOrStderr()
	applied := 0
	for _, o := range result.Outcomes {
		if o.OK() {
			applied++
			fmt.Fprintf(out, "row %d: %s %s: ok\n", o.Row, o.Action, o.Key)
		} else {
			fmt.Fprintf(out, "row %d: %s %s: FAILED: %s\n", o.Row, o.Action, o.Key, o.Detail)
		}
	}
	fmt.Fprintf(out, "%d row(s) applied, %d failed\n", applied, result.Failed)
}

// batchError converts a batch result into the command's exit error.
func batchError(result *dns.BatchResult, runErr error) error {
	if runErr != nil {
		return runErr
	}
	if result.Failed > 0 {
		return fmt.Errorf("%d row(s) failed", result.Failed)
	}
	return nil
}
