// internal/app/bootstrap/routes.go
package bootstrap

import (
	"context"
	"net/http"

	authfeature "github.com/stampahq/stampa/internal/app/features/auth"
	avatarsfeature "github.com/stampahq/stampa/internal/app/features/avatars"
	healthfeature "github.com/stampahq/stampa/internal/app/features/health"
	invitationsfeature "github.com/stampahq/stampa/internal/app/features/invitations"
	projectsfeature "github.com/stampahq/stampa/internal/app/features/projects"
	usersfeature "github.com/stampahq/stampa/internal/app/features/users"
	projectstore "github.com/stampahq/stampa/internal/app/store/projects"
	userstore "github.com/stampahq/stampa/internal/app/store/users"
	"github.com/stampahq/stampa/internal/app/system/auth"
	"github.com/stampahq/stampa/internal/app/system/avatars"
	"github.com/stampahq/stampa/internal/app/system/cloud"
	"github.com/stampahq/stampa/internal/app/system/invitations"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. Stampa wires its stores, the invitation
// coordinator, the avatar pipeline, and the S3-backed object store here,
// then mounts the public auth endpoints and the token-protected /api tree.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	users := userstore.New(deps.MongoDatabase)
	projects := projectstore.New(deps.MongoDatabase)

	store, err := cloud.NewS3Store(context.Background(), logger)
	if err != nil {
		logger.Error("S3 client init failed", zap.Error(err))
		return nil, err
	}

	tokens := auth.NewManager(appCfg.JWTSecret, appCfg.TokenTTL, logger)
	coordinator := invitations.NewCoordinator(users, projects, logger)
	pipeline := avatars.NewPipeline(projects, store, logger)

	r := chi.NewRouter()

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Public endpoints: registration and login
	authHandler := authfeature.NewHandler(users, store, tokens, appCfg.AvatarBucket, appCfg.AvatarRegion, logger)
	r.Mount("/", authfeature.Routes(authHandler))

	// Everything under /api requires a valid bearer token.
	r.Route("/api", func(api chi.Router) {
		api.Use(tokens.RequireAuth)

		usersHandler := usersfeature.NewHandler(users, logger)
		api.Mount("/user", usersfeature.Routes(usersHandler))

		projectsHandler := projectsfeature.NewHandler(users, projects, store, logger)
		api.Mount("/projects", projectsfeature.Routes(projectsHandler))

		invitationsHandler := invitationsfeature.NewHandler(coordinator, projects, logger)
		api.Mount("/invitation", invitationsfeature.Routes(invitationsHandler))

		avatarsHandler := avatarsfeature.NewHandler(pipeline, logger)
		api.Mount("/avatars", avatarsfeature.Routes(avatarsHandler))
	})

	return r, nil
}
