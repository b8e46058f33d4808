// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup reports which integrations can serve requests and starts the
// background workers.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.SignInPrune != nil {
		deps.SignInPrune.Start()
	}

	logger.Info("integrations",
		zap.Bool("gemini", deps.Gemini.IsConfigured()),
		zap.Bool("github", deps.GitHub.IsConfigured()),
		zap.Bool("smtp", deps.Mailer.IsConfigured()),
		zap.Bool("webhook_signatures", appCfg.GitHubWebhookSecret != ""),
		zap.Bool("relay_over_http", appCfg.NotifyRelayURL != ""))
	return nil
}
