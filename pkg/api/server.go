package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sospetto-game/server/pkg/game"
	"github.com/sospetto-game/server/pkg/log"
)

// RoomLister exposes the broadcast-safe view of every open room.
type RoomLister interface {
	RoomViews() []game.RoomView
}

// APIServer serves the WebSocket endpoint and a small read-only HTTP API.
type APIServer struct {
	server *http.Server
	tls    *TLSConfig
}

type TLSConfig struct {
	CertFile string
	KeyFile  string
}

type NewAPIServerOptions struct {
	Port      int
	TLS       *TLSConfig
	WSHandler http.Handler
	Rooms     RoomLister
}

// NewAPIServer creates a new http.Server for handling API requests.
func NewAPIServer(opts NewAPIServerOptions) *APIServer {
	router := mux.NewRouter()
	router.Handle("/ws", opts.WSHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/health", handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/api/rooms", handleListRooms(opts.Rooms)).Methods(http.MethodGet)
	router.Use(corsMiddleware)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", opts.Port),
		Handler: router,
	}
	return &APIServer{
		server: server,
		tls:    opts.TLS,
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"}); err != nil {
		log.Error("failed to write health response: %v", err)
	}
}

// handleListRooms returns the safe view of every room: no target index, no
// button layout, no secrets beyond what the game itself has revealed.
func handleListRooms(rooms RoomLister) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(rooms.RoomViews()); err != nil {
			log.Error("failed to write rooms response: %v", err)
		}
	}
}

// Start starts the APIServer.
func (s *APIServer) Start() {
	var listenAndServe func() error
	if s.tls != nil {
		log.Info("server listening on %s with TLS", s.server.Addr)
		listenAndServe = func() error {
			return s.server.ListenAndServeTLS(s.tls.CertFile, s.tls.KeyFile)
		}
	} else {
		log.Info("server listening on %s", s.server.Addr)
		listenAndServe = s.server.ListenAndServe
	}
	if err := listenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			log.Info("server closed")
			return
		}
		log.Error("server error: %v", err)
	}
}

// Stop stops the APIServer.
func (s *APIServer) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
