package routes

import (
	"net/url"

	"github.com/danielgtaylor/huma/v2"

	formcore "github.com/renthub/profile-service/internal/form"
	formhandler "github.com/renthub/profile-service/internal/http/v1/form"
	"github.com/renthub/profile-service/internal/platform/auth"
)

// Register wires all HTTP routes into the provided API router.
func Register(api huma.API, verifier auth.Verifier, manager *formcore.Manager) {
	prefix := apiPrefix(api)

	// Apply auth middleware for protected endpoints
	api.UseMiddleware(auth.NewAuthMiddleware(api, verifier))

	formhandler.Register(api, manager, prefix)
}

func apiPrefix(api huma.API) string {
	for _, s := range api.OpenAPI().Servers {
		if u, err := url.Parse(s.URL); err == nil && u.Path != "" {
			return u.Path
		}
	}
	return ""
}
