package cmd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matheus-raidiam/gitlab-issue-tracker/internal/config"
	"github.com/matheus-raidiam/gitlab-issue-tracker/internal/logging"
	"github.com/matheus-raidiam/gitlab-issue-tracker/internal/proxy"
)

// serveCmd runs the token-injecting relay in front of the GitLab API so
// a browser frontend never sees the access token.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the GitLab API relay",
	Long: `Run an HTTP relay that forwards GET requests to the GitLab REST API with
the server-held token injected:

  GET /gitlab?path=/projects/26426113/issues?state=opened

is forwarded to <GITLAB_BASE_URL>/api/v4/projects/26426113/issues?state=opened
and the upstream status, content type and body are passed back unchanged.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := cmd.Flags().GetString("addr")
		if err != nil {
			return err
		}

		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		if err := config.ValidateGitLabConfig(cfg); err != nil {
			return err
		}

		relay, err := proxy.NewRelay(cfg.GitLab.BaseURL, cfg.GitLab.Token)
		if err != nil {
			return err
		}

		server := &http.Server{
			Addr:              addr,
			Handler:           relay.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		logging.Info("relay listening", "addr", addr, "upstream", cfg.GitLab.BaseURL)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("relay server failed: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "listen address")
}
