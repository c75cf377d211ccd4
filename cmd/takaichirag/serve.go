package main

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// Run executes the serve command until the context is cancelled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- deps.WebServer.Start(c.Addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-deps.Ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return deps.WebServer.Shutdown(shutdownCtx)
	}
}
