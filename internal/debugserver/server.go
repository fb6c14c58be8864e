// Package debugserver exposes metrics and a planet snapshot over HTTP.
package debugserver

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/encoding/json"
	"go.uber.org/zap"

	"github.com/Faultbox/spacecraft/internal/logger"
)

// Reporter produces the body of /debug/planet.
type Reporter interface {
	Report() any
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func() any

func (f ReporterFunc) Report() any { return f() }

// NewRouter returns the debug routes.
func NewRouter(r Reporter) *mux.Router {
	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/healthz", HandleHealthCheck).Methods(http.MethodGet)
	router.Handle("/debug/planet", HandlePlanet(r)).Methods(http.MethodGet)
	return router
}

// HandleHealthCheck always answers 200.
func HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// HandlePlanet serves the reporter's snapshot as JSON.
func HandlePlanet(r Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		body, err := json.Marshal(r.Report())
		if err != nil {
			logger.Named("debugserver").Warn("encoding planet report failed", zap.Error(err))
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(body)
	}
}

// New returns a server for the debug routes on addr.
func New(addr string, r Reporter) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           NewRouter(r),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// ListenAndServe runs the servers until ctx is canceled, then shuts them down.
func ListenAndServe(ctx context.Context, servers ...*http.Server) {
	log := logger.Named("debugserver")

	go func() {
		<-ctx.Done()

		for _, s := range servers {
			if err := s.Shutdown(context.Background()); err != nil {
				log.Warn("shutting down the server failed", zap.String("addr", s.Addr), zap.Error(err))
			}
		}
	}()

	var wg sync.WaitGroup

	for _, s := range servers {
		wg.Add(1)

		go func(s *http.Server) {
			defer wg.Done()

			log.Info("starting server", zap.String("addr", s.Addr))

			err := s.ListenAndServe()
			switch {
			case err == nil, errors.Is(err, http.ErrServerClosed), errors.Is(err, context.Canceled):
				log.Info("stopping server", zap.String("addr", s.Addr))
			default:
				log.Warn("server stopped", zap.String("addr", s.Addr), zap.Error(err))
			}
		}(s)
	}

	wg.Wait()
}
