package pkgrouter

import "net/http"

// Middleware decorates an http.Handler.
type Middleware func(http.Handler) http.Handler

// Chain wraps h so that mws[0] sees the request first.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	wrapped := h
	for i := range mws {
		wrapped = mws[len(mws)-1-i](wrapped)
	}
	return wrapped
}
