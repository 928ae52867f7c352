package api

import (
	"context"
	"log/slog"
	"net"
	"strings"
)

// Request contains route parameters and additional args from the command.
type Request struct {
	Ctx     context.Context
	Params  map[string]string
	Payload string
}

// Response holds the JSON string to return to the client.
type Response struct {
	JSON string
}

// HandlerFunc processes a request and populates the response.
// The logger provided is a connection-scoped logger enriched with remote
// address metadata by the API server.
type HandlerFunc func(req *Request, res *Response, logger *slog.Logger) error

// StreamHandlerFunc handles long-lived connections. The handler takes
// ownership of the connection and should close it when done. Returning a
// non-nil error indicates a terminal failure; the server logs it.
type StreamHandlerFunc func(conn net.Conn, logger *slog.Logger) error

// Router implements simple path pattern matching with placeholders in {name}.
type Router struct {
	routes       []route[HandlerFunc]
	streamRoutes []route[StreamHandlerFunc]
}

type route[H any] struct {
	parts   []string
	handler H
}

// NewRouter returns a new Router instance.
func NewRouter() *Router { return &Router{} }

// Register registers a handler for a path pattern like "pad/{id}/state".
func (r *Router) Register(pattern string, handler HandlerFunc) {
	r.routes = append(r.routes, route[HandlerFunc]{parts: strings.Split(pattern, "/"), handler: handler})
}

// RegisterStream registers a StreamHandler for long-lived connections.
func (r *Router) RegisterStream(pattern string, handler StreamHandlerFunc) {
	r.streamRoutes = append(r.streamRoutes, route[StreamHandlerFunc]{parts: strings.Split(pattern, "/"), handler: handler})
}

// Match returns the HandlerFunc and params if the given path matches any
// registered pattern. Returns nil if none match.
func (r *Router) Match(path string) (HandlerFunc, map[string]string) {
	for _, rt := range r.routes {
		if params, ok := match(rt.parts, path); ok {
			return rt.handler, params
		}
	}
	return nil, nil
}

// MatchStream is Match for stream routes.
func (r *Router) MatchStream(path string) (StreamHandlerFunc, map[string]string) {
	for _, rt := range r.streamRoutes {
		if params, ok := match(rt.parts, path); ok {
			return rt.handler, params
		}
	}
	return nil, nil
}

func match(pattern []string, path string) (map[string]string, bool) {
	parts := strings.Split(strings.ToLower(path), "/")
	if len(parts) != len(pattern) {
		return nil, false
	}
	params := map[string]string{}
	for i, want := range pattern {
		if strings.HasPrefix(want, "{") && strings.HasSuffix(want, "}") {
			params[want[1:len(want)-1]] = parts[i]
			continue
		}
		if !strings.EqualFold(want, parts[i]) {
			return nil, false
		}
	}
	return params, true
}
