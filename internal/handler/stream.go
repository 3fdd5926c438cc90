package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// streamSnapshots writes a live subscription to the client as server-sent
// events: one `data:` frame per snapshot, starting with the current state.
// The subscription is cancelled on every exit path, including client
// disconnect.
func streamSnapshots[T any](c echo.Context, subscribe func(callback func([]T)) func()) error {
	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set(echo.HeaderCacheControl, "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	ctx := c.Request().Context()
	snapshots := make(chan []T, 1)
	unsubscribe := subscribe(func(snapshot []T) {
		select {
		case snapshots <- snapshot:
		case <-ctx.Done():
		}
	})
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return nil
		case snapshot := <-snapshots:
			payload, err := json.Marshal(snapshot)
			if err != nil {
				return fmt.Errorf("encode snapshot: %w", err)
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
				return nil
			}
			w.Flush()
		}
	}
}
