package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"gcpdns-cli/internal/cloudflaredns"
	"gcpdns-cli/internal/dns"
	"gcpdns-cli/internal/gclouddns"
)

// buildGateway constructs the provider gateway selected by --provider (or the
// PROVIDER env var). gcloud is the default.
func buildGateway(ctx context.Context) (dns.Gateway, error) {
	provider := strings.ToLower(strings.TrimSpace(viper.GetString("provider")))
	if provider == "" {
		provider = getEnvWithDefault("GCPDNS_PROVIDER", "gcloud")
	}

	switch provider {
	case "gcloud", "gcp", "google":
		credPath := viper.GetString("credential-file")
		if credPath == "" {
			credPath = getEnvWithDefault("GOOGLE_APPLICATION_CREDENTIALS", "")
		}
		if credPath == "" {
			return nil, fmt.Errorf("gcloud provider requires --credential-file or GOOGLE_APPLICATION_CREDENTIALS")
		}
		return gclouddns.New(ctx, credPath)
	case "cloudflare", "cf":
		token := getEnvWithDefault("CLOUDFLARE_API_TOKEN", "")
		if token == "" {
			return nil, fmt.Errorf("cloudflare provider requires CLOUDFLARE_API_TOKEN")
		}
		return cloudflaredns.New(token)
	default:
		return nil, fmt.Errorf("unknown provider %q (want gcloud or cloudflare)", provider)
	}
}
