package server

import (
	"net/http"

	"connectrpc.com/connect"

	"foxie/internal/metrics"
)

// NewMux mounts the connect procedures, the agent websocket, health and
// metrics.
func NewMux(h *ScaffoldHandler, reg *metrics.Registry) http.Handler {
	mux := http.NewServeMux()
	opts := []connect.HandlerOption{connect.WithCodec(jsonCodec{})}

	mux.Handle(GenerateProcedure, connect.NewUnaryHandler(GenerateProcedure, h.Generate, opts...))
	mux.Handle(RunAgentProcedure, connect.NewUnaryHandler(RunAgentProcedure, h.RunAgent, opts...))
	mux.Handle(ValidateProcedure, connect.NewUnaryHandler(ValidateProcedure, h.Validate, opts...))
	mux.Handle(ListRunsProcedure, connect.NewUnaryHandler(ListRunsProcedure, h.ListRuns, opts...))

	mux.HandleFunc("GET /agent/ws", h.HandleAgentWS)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"healthy"}`))
	})
	if reg != nil {
		mux.Handle("GET /metrics", reg.Handler())
	}
	return CORS(mux)
}
