// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dalemusser/waffle/config"
	"github.com/devcollab/devcollab/internal/app/integrations/gemini"
	"github.com/devcollab/devcollab/internal/app/integrations/github"
	signinstore "github.com/devcollab/devcollab/internal/app/store/signins"
	"github.com/devcollab/devcollab/internal/app/system/indexes"
	"github.com/devcollab/devcollab/internal/app/system/mailer"
	"github.com/devcollab/devcollab/internal/app/system/timeouts"
	"github.com/devcollab/devcollab/internal/app/system/validators"
	"github.com/devcollab/devcollab/internal/app/system/workers"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const signInPruneInterval = 6 * time.Hour

// ConnectDB connects to MongoDB and builds the external service clients.
// A failed ping aborts startup; missing service credentials do not.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize).
		SetServerSelectionTimeout(timeouts.Medium())

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("connect mongo: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return DBDeps{}, fmt.Errorf("ping mongo: %w", err)
	}
	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))

	ai, err := gemini.NewClient(ctx, appCfg.GeminiAPIKey, appCfg.GeminiModel, logger)
	if err != nil {
		_ = client.Disconnect(context.Background())
		return DBDeps{}, fmt.Errorf("gemini client: %w", err)
	}

	httpClient := &http.Client{Timeout: timeouts.Upstream()}
	db := client.Database(appCfg.MongoDatabase)

	var prune *workers.SignInPrune
	if appCfg.SignInRetention > 0 {
		prune = workers.NewSignInPrune(signinstore.New(db), logger, signInPruneInterval, appCfg.SignInRetention)
	}

	return DBDeps{
		MongoClient:   client,
		MongoDatabase: db,
		SignInPrune:   prune,
		Gemini:        ai,
		GitHub:        github.NewClient(appCfg.GitHubToken, httpClient, logger),
		Mailer: mailer.New(mailer.Config{
			Host:     appCfg.MailSMTPHost,
			Port:     appCfg.MailSMTPPort,
			Username: appCfg.MailSMTPUser,
			Password: appCfg.MailSMTPPass,
			From:     appCfg.MailFrom,
			FromName: appCfg.MailFromName,
			Timeout:  timeouts.Medium(),
		}, logger),
	}, nil
}

// EnsureSchema installs collection validators, then indexes. Both are
// idempotent.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := validators.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		logger.Error("ensure validators failed", zap.Error(err))
		return err
	}
	if err := indexes.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		logger.Error("ensure indexes failed", zap.Error(err))
		return err
	}
	return nil
}
