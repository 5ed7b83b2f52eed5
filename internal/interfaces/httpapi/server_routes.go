package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.HandleFunc("GET /readyz", handler.Readyz)
}

func registerDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/leagues", handler.ListLeagues)
	mux.HandleFunc("POST /v1/results/parse", handler.ParseResults)
	mux.HandleFunc("POST /v1/results/validate", handler.ValidateResults)
	mux.HandleFunc("GET /v1/leagues/{league}/table", handler.GetTable)
	mux.HandleFunc("POST /v1/leagues/{league}/results", handler.ApplyResults)
	mux.HandleFunc("GET /v1/leagues/{league}/divergences", handler.GetDivergences)
	mux.HandleFunc("GET /v1/divergences", handler.ScanDivergences)
}
