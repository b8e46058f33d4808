// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/devcollab/devcollab/internal/app/integrations/gemini"
	"github.com/devcollab/devcollab/internal/app/integrations/github"
	"github.com/devcollab/devcollab/internal/app/system/mailer"
	"github.com/devcollab/devcollab/internal/app/system/workers"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds the database and the external service clients. Every client
// is always non-nil; unconfigured ones fail per call.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	Gemini *gemini.Client
	GitHub *github.Client
	Mailer *mailer.Mailer

	// SignInPrune is nil when sign-in history is kept forever.
	SignInPrune *workers.SignInPrune
}
