package api

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"regexp"
	"strings"

	"github.com/Alia5/PADLINK/internal/server/api/apierror"
	"github.com/Alia5/PADLINK/internal/server/api/auth"
)

// Server implements the small TCP API padlink exposes: one null-terminated
// request per connection, answered with a single JSON line, except stream
// routes which keep the connection open. With a configured password every
// connection must start with the auth handshake and is AEAD-wrapped for the
// rest of its lifetime.
type Server struct {
	addr   string
	ln     net.Listener
	logger *slog.Logger
	router *Router
	config ServerConfig
	key    []byte
}

// New creates an API server. The caller registers routes on Router before
// calling Start.
func New(config ServerConfig, logger *slog.Logger) (*Server, error) {
	a := &Server{
		addr:   config.Addr,
		logger: logger,
		config: config,
		router: NewRouter(),
	}
	if config.Password != "" {
		key, err := auth.DeriveKey(config.Password)
		if err != nil {
			return nil, fmt.Errorf("derive api key: %w", err)
		}
		a.key = key
	}
	return a, nil
}

// Router returns the router used by the API server so callers can register handlers.
func (a *Server) Router() *Router { return a.router }

// Config returns the server configuration.
func (a *Server) Config() ServerConfig { return a.config }

// Addr returns the bound listen address once Start succeeded.
func (a *Server) Addr() string {
	if a.ln != nil {
		return a.ln.Addr().String()
	}
	return a.addr
}

// Start listens on the configured address and serves incoming API commands.
func (a *Server) Start() error {
	ln, err := net.Listen("tcp", a.addr)
	if err != nil {
		return err
	}
	a.ln = ln
	a.logger.Info("API listening", "addr", ln.Addr().String())
	go a.serve()
	return nil
}

// Close stops the API server.
func (a *Server) Close() {
	if a.ln != nil {
		_ = a.ln.Close()
	}
}

func (a *Server) serve() {
	for {
		c, err := a.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				a.logger.Info("API server stopped")
				return
			}
			a.logger.Info("API accept error", "error", err)
			return
		}
		go a.handleConn(c)
	}
}

func (a *Server) writeError(w io.Writer, err error) {
	problemJSON, _ := json.Marshal(apierror.WrapError(err))
	fmt.Fprintf(w, "%s\n", string(problemJSON))
}

func (a *Server) writeOK(w io.Writer, rest string) {
	if rest == "" {
		fmt.Fprintln(w)
	} else {
		fmt.Fprintf(w, "%s\n", rest)
	}
}

var wsRegex = regexp.MustCompile(`\s`)

func (a *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	connCtx, connCancel := context.WithCancel(context.Background())
	defer connCancel()

	connLogger := a.logger.With("remote", conn.RemoteAddr().String())
	r := bufio.NewReader(conn)

	if a.key != nil {
		handshake, err := auth.IsAuthHandshake(r)
		if err != nil {
			connLogger.Error("read handshake", "error", err)
			return
		}
		if !handshake {
			connLogger.Error("api rejected unauthenticated connection")
			a.writeError(conn, apierror.ErrUnauthorized("password required"))
			return
		}
		clientNonce, serverNonce, err := auth.ServerHandshake(r, conn, a.key)
		if err != nil {
			connLogger.Error("api handshake failed", "error", err)
			a.writeError(conn, err)
			return
		}
		wrapped, err := auth.WrapConn(conn, auth.DeriveSessionKey(a.key, serverNonce, clientNonce))
		if err != nil {
			connLogger.Error("api session wrap failed", "error", err)
			return
		}
		conn = wrapped
		r = bufio.NewReader(conn)
	}

	// Read until null terminator; the payload may contain anything else.
	reqData, err := r.ReadString('\x00')
	if err != nil {
		if err == io.EOF {
			connLogger.Error("api incomplete request (no null terminator)")
		} else {
			connLogger.Error("read api data", "error", err)
		}
		return
	}
	reqData = strings.TrimSuffix(reqData, "\x00")

	var path, payload string
	if loc := wsRegex.FindStringIndex(reqData); loc != nil {
		path = reqData[:loc[0]]
		payload = reqData[loc[1]:]
	} else {
		path = reqData
	}

	if path == "" {
		connLogger.Error("api empty path")
		a.writeError(conn, apierror.ErrBadRequest("empty request"))
		return
	}

	path = strings.ToLower(path)
	connLogger.Info("api cmd", "path", path)

	if h, params := a.router.Match(path); h != nil {
		req := &Request{Ctx: connCtx, Params: params, Payload: payload}
		res := &Response{}
		if err := h(req, res, connLogger); err != nil {
			connLogger.Error("api handler error", "path", path, "error", err)
			a.writeError(conn, err)
			return
		}
		connLogger.Debug("api handler success", "path", path)
		a.writeOK(conn, res.JSON)
		return
	}
	if sh, _ := a.router.MatchStream(path); sh != nil {
		connLogger.Info("api stream begin", "path", path)
		if err := sh(conn, connLogger); err != nil {
			connLogger.Error("api stream handler error", "path", path, "error", err)
		}
		connLogger.Info("api stream end", "path", path)
		return
	}

	connLogger.Error("api unknown path", "path", path)
	a.writeError(conn, apierror.ErrNotFound(fmt.Sprintf("unknown path: %s", path)))
}
