package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/renthub/profile-service/internal/form"
	"github.com/renthub/profile-service/internal/http/health"
	"github.com/renthub/profile-service/internal/http/v1/routes"
	appmiddleware "github.com/renthub/profile-service/internal/middleware"
	"github.com/renthub/profile-service/internal/platform/auth"
	appfirebase "github.com/renthub/profile-service/internal/platform/firebase"
	applog "github.com/renthub/profile-service/internal/platform/logging"
	"github.com/renthub/profile-service/internal/respond"
	"github.com/renthub/profile-service/internal/service/account"
	"github.com/renthub/profile-service/internal/service/media"
)

// Version can be overridden at build time: -ldflags "-X main.Version=1.2.3"
var Version = "dev"

func main() {
	_ = godotenv.Load()

	defer func() {
		if err := applog.Sync(); err != nil {
			applog.LogError(context.Background(), "logger sync error", err)
		}
	}()
	if err := applog.Err(); err != nil {
		applog.LogError(context.Background(), "logger init error", err)
	}

	ctx := context.Background()

	fbClients, err := appfirebase.InitializeClients(ctx, appfirebase.Config{
		ProjectID:                    os.Getenv("FIREBASE_PROJECT_ID"),
		StorageBucket:                os.Getenv("FIREBASE_STORAGE_BUCKET"),
		GoogleApplicationCredentials: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
	})
	if err != nil {
		applog.LogFatal(ctx, "firebase initialization failed", err)
	}
	defer func() {
		if err := fbClients.Close(); err != nil {
			applog.LogError(context.Background(), "firebase close error", err)
		}
	}()

	verifier := auth.NewFirebaseVerifier(fbClients.Auth)
	manager := form.NewManager(buildAccountService(fbClients), buildUploader(ctx, fbClients), minimumAge())

	respond.Install()

	router := chi.NewRouter()
	router.NotFound(respond.NotFoundHandler())
	router.MethodNotAllowed(respond.MethodNotAllowedHandler())

	// Base middleware stack
	router.Use(
		appmiddleware.Security("/api-docs"),
		appmiddleware.Vary(),
		appmiddleware.CORS(),
		appmiddleware.RequestID(),
		// RealIP extracts client IP from X-Real-IP or X-Forwarded-For headers.
		// SECURITY: Only use behind a trusted reverse proxy (e.g., Cloud Run, nginx).
		// Without a trusted proxy, clients can spoof their IP address.
		chimiddleware.RealIP,
		// RequestSize limits request body size to prevent memory exhaustion from large payloads.
		chimiddleware.RequestSize(4<<20), // 4 MB limit, avatar payloads included
		applog.RequestLogger(),
		applog.AccessLogger(),
		respond.Recoverer(),
	)

	router.Get("/health", health.Handler)

	cfg := huma.DefaultConfig("Profile Form API", Version)
	cfg.DocsPath = "/api-docs"
	api := humachi.New(router, cfg)

	// Add CBOR content type to OpenAPI requests and responses
	api.OpenAPI().OnAddOperation = append(api.OpenAPI().OnAddOperation,
		func(_ *huma.OpenAPI, op *huma.Operation) {
			if op.RequestBody != nil && op.RequestBody.Content != nil {
				if jsonContent, ok := op.RequestBody.Content["application/json"]; ok {
					op.RequestBody.Content["application/cbor"] = jsonContent
				}
			}
			for _, resp := range op.Responses {
				if resp.Content == nil {
					continue
				}
				if jsonContent, ok := resp.Content["application/json"]; ok {
					resp.Content["application/cbor"] = jsonContent
				}
			}
		},
	)

	routes.Register(api, verifier, manager)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    64 << 10, // 64 KB
	}

	listenErr := make(chan error, 1)
	go func() {
		applog.LogInfo(context.Background(), "server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			listenErr <- err
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-listenErr:
		applog.LogError(context.Background(), "listen failed", err, zap.String("addr", srv.Addr))
		os.Exit(1)
	case <-stop:
		applog.LogInfo(context.Background(), "shutdown signal received")
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		applog.LogError(shutdownCtx, "server shutdown error", err)
	}
	applog.LogInfo(context.Background(), "server exited")
}

// buildAccountService prefers the HTTP account backend when configured and
// falls back to the Firestore store.
func buildAccountService(fb *appfirebase.Clients) account.Service {
	if baseURL := os.Getenv("ACCOUNT_API_URL"); baseURL != "" {
		httpClient := &http.Client{Timeout: 10 * time.Second}
		var opts []account.Option
		if token := os.Getenv("ACCOUNT_API_TOKEN"); token != "" {
			opts = append(opts, account.WithToken(token))
		}
		return account.NewClient(httpClient, baseURL, opts...)
	}
	return account.NewFirestoreStore(fb.Firestore)
}

// buildUploader prefers the media host when configured and falls back to
// the Cloud Storage bucket.
func buildUploader(ctx context.Context, fb *appfirebase.Clients) media.Uploader {
	if baseURL := os.Getenv("MEDIA_API_URL"); baseURL != "" {
		httpClient := &http.Client{Timeout: 30 * time.Second}
		var opts []media.Option
		if token := os.Getenv("MEDIA_API_TOKEN"); token != "" {
			opts = append(opts, media.WithToken(token))
		}
		return media.NewClient(httpClient, baseURL, opts...)
	}
	if fb.Bucket == nil {
		applog.LogFatal(ctx, "no uploader configured: set MEDIA_API_URL or FIREBASE_STORAGE_BUCKET", nil)
	}
	return media.NewStorageStore(fb.Bucket, "avatars")
}

func minimumAge() int {
	if v := os.Getenv("MINIMUM_AGE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return form.DefaultMinimumAge
}
