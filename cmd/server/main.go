package main

import (
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/AzraAnimating/ProtokollDB/internal/app"
	"github.com/AzraAnimating/ProtokollDB/internal/handlers"
)

func main() {
	configPath := "config.toml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	service, err := app.NewService(configPath)
	if err != nil {
		logger.Error.Fatalf("Failed to start service: %v", err)
	}
	defer service.Close()

	handler := handlers.NewHandler(service)

	http.HandleFunc("POST /api/admin/v1/save", handler.HandleSaveProtocol)
	http.HandleFunc("POST /api/admin/v1/create", handler.HandleCreate)
	http.HandleFunc("POST /api/admin/v1/addadmin", handler.HandleAddAdmin)
	http.HandleFunc("DELETE /api/admin/v1/removeadmin", handler.HandleRemoveAdmin)
	http.HandleFunc("GET /api/admin/v1/getadmins", handler.HandleListAdmins)
	http.HandleFunc("GET /api/admin/v1/submissions", handler.HandleListSubmissions)

	http.HandleFunc("GET /api/v1/identifiers", handler.HandleIdentifiers)
	http.HandleFunc("GET /api/v1/search", handler.HandleSearch)
	http.HandleFunc("GET /api/v1/protocol/{uuid}", handler.HandleProtocol)
	http.HandleFunc("POST /api/v1/submit", handler.HandleSubmit)

	http.HandleFunc("GET /login", handler.HandleLogin)
	http.HandleFunc("GET /auth/openidconnect", handler.HandleOIDCCallback)

	http.HandleFunc("GET /{$}", handler.HandleHome)
	http.HandleFunc("GET /info", handler.HandleInfo)
	http.HandleFunc("GET /invalidauth", handler.HandleInvalidAuth)

	http.Handle("/metrics", promhttp.Handler())

	logger.Info.Printf("Starting ProtokollDB server on %s", service.Config.Server.Bind)
	if err := http.ListenAndServe(service.Config.Server.Bind, nil); err != nil {
		logger.Error.Fatalf("ProtokollDB server failed: %v", err)
	}
}
