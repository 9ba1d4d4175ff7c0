package server

import (
	"context"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
)

func TestSpecialsHttpServer_StopsOnContextCancel(t *testing.T) {
	muxRouter := mux.NewRouter()
	srv := NewSpecialsHttpServer(NewRouter(&MockSearchHandler{}, &MockVenueHandler{}, muxRouter), muxRouter, "127.0.0.1:0", time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop after context cancellation")
	}
}

func TestSpecialsHttpServer_ListenError(t *testing.T) {
	muxRouter := mux.NewRouter()
	srv := NewSpecialsHttpServer(NewRouter(&MockSearchHandler{}, &MockVenueHandler{}, muxRouter), muxRouter, "not-an-address", time.Second)

	err := srv.Start(context.Background())

	assert.ErrorContains(t, err, "ListenAndServe()")
}
