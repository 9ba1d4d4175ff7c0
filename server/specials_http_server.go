package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

type SpecialsHttpServer struct {
	router          *Router
	muxRouter       *mux.Router
	address         string
	shutdownTimeout time.Duration
}

func NewSpecialsHttpServer(router *Router, muxRouter *mux.Router, address string, shutdownTimeout time.Duration) *SpecialsHttpServer {
	return &SpecialsHttpServer{
		router:          router,
		muxRouter:       muxRouter,
		address:         address,
		shutdownTimeout: shutdownTimeout,
	}
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *SpecialsHttpServer) Start(ctx context.Context) error {
	s.router.RegisterRoutes()

	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.muxRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s", s.address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ListenAndServe(): %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("Shutting down the server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Println("Server exiting")
	return nil
}
