package onboard

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tinyland-inc/milky/cmd/milky/internal"
	"github.com/tinyland-inc/milky/pkg/config"
)

func NewOnboardCommand() *cobra.Command {
	var baseURL string
	var accessToken string
	var force bool

	cmd := &cobra.Command{
		Use:   "onboard",
		Short: "Write a starter config",
		Args:  cobra.NoArgs,
		Example: `  milky onboard --base-url http://localhost:3000
  milky onboard --base-url https://gateway.example.com --token secret`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return onboardCmd(baseURL, accessToken, force)
		},
	}

	cmd.Flags().StringVar(&baseURL, "base-url", "", "Gateway base URL (http or https)")
	cmd.Flags().StringVar(&accessToken, "token", "", "Gateway access token")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config")

	return cmd
}

func onboardCmd(baseURL, accessToken string, force bool) error {
	path := internal.GetConfigPath()

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	cfg := config.DefaultConfig()
	if baseURL != "" {
		cfg.Clients = append(cfg.Clients, config.ClientConfig{
			BaseURL:     baseURL,
			AccessToken: accessToken,
		})
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	if err := config.SaveConfig(path, cfg); err != nil {
		return fmt.Errorf("error writing config: %w", err)
	}

	fmt.Printf("✓ Config written to %s\n", path)
	if baseURL == "" {
		fmt.Println("Add an endpoint to \"clients\" or set MILKY_BASE_URL before starting the gateway")
	}
	return nil
}
