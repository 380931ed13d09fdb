package mcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"tableflip.dev/iqevents/pkg/app"
)

// Transport selects the mechanism used to expose the MCP server.
type Transport string

const (
	TransportHTTP  Transport = "http"
	TransportStdio Transport = "stdio"
)

// DefaultPath is where the HTTP transport mounts the endpoint.
const DefaultPath = "/mcp"

// Runner serves the event catalog to MCP clients. The controller must be
// started; while serving, its events are reloaded every Refresh so a long
// lived server does not answer from a stale list.
type Runner struct {
	Controller *app.Controller
	Name       string
	Version    string
	Refresh    time.Duration

	Transport        Transport
	HTTPListenAddr   string
	HTTPEndpointPath string
	OnHTTPListening  func(net.Addr)
	HTTPServerCert   string
	HTTPServerKey    string
}

func (r Runner) Do(ctx context.Context) error {
	if r.Controller == nil {
		return errors.New("mcp runner requires a controller")
	}
	if (r.HTTPServerCert == "") != (r.HTTPServerKey == "") {
		return errors.New("both http tls cert and key must be provided")
	}

	srv := r.newServer()
	var serve func(context.Context) error
	switch r.Transport {
	case "", TransportHTTP:
		serve = func(ctx context.Context) error { return r.serveHTTP(ctx, srv) }
	case TransportStdio:
		serve = func(ctx context.Context) error {
			return server.NewStdioServer(srv).Listen(ctx, os.Stdin, os.Stdout)
		}
	default:
		return fmt.Errorf("unknown MCP transport %q", r.Transport)
	}

	g, gctx := errgroup.WithContext(ctx)
	ctx, stop := context.WithCancel(gctx)
	g.Go(func() error {
		defer stop()
		return serve(ctx)
	})
	if r.Refresh > 0 {
		g.Go(func() error {
			r.refresh(ctx)
			return nil
		})
	}
	return g.Wait()
}

func (r Runner) newServer() *server.MCPServer {
	name := r.Name
	if name == "" {
		name = "iqevents"
	}
	version := r.Version
	if version == "" {
		version = "dev"
	}

	hooks := &server.Hooks{}
	hooks.AddBeforeCallTool(func(_ context.Context, _ any, req *mcp.CallToolRequest) {
		log.Debug().Str("tool", req.Params.Name).Msg("mcp tool call")
	})
	hooks.AddOnError(func(_ context.Context, _ any, method mcp.MCPMethod, _ any, err error) {
		log.Warn().Err(err).Str("method", string(method)).Msg("mcp request failed")
	})

	srv := server.NewMCPServer(
		name+" MCP",
		version,
		server.WithResourceCapabilities(false, false),
		server.WithToolCapabilities(false),
		server.WithInstructions("Search events across Iraq and Kurdistan, read event details and reviews, list cities and categories, and plan itineraries."),
		server.WithHooks(hooks),
		server.WithResourceRecovery(),
		server.WithRecovery(),
	)
	svc := NewService(r.Controller)
	registerResources(srv, svc)
	registerTools(srv, svc)
	return srv
}

// refresh reloads the events until ctx is done. A failed reload keeps the
// previous list.
func (r Runner) refresh(ctx context.Context) {
	t := time.NewTicker(r.Refresh)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := r.Controller.Reload(ctx); err != nil && ctx.Err() == nil {
				log.Warn().Err(err).Msg("mcp refresh failed, serving the previous events")
			}
		}
	}
}

func (r Runner) serveHTTP(ctx context.Context, srv *server.MCPServer) error {
	path := CleanPath(r.HTTPEndpointPath)
	addr := r.HTTPListenAddr
	if addr == "" {
		addr = "127.0.0.1:8080"
	}

	mux := http.NewServeMux()
	mux.Handle(path, server.NewStreamableHTTPServer(srv))
	httpSrv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	if r.OnHTTPListening != nil {
		r.OnHTTPListening(ln.Addr())
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	if r.HTTPServerCert != "" {
		err = httpSrv.ServeTLS(ln, r.HTTPServerCert, r.HTTPServerKey)
	} else {
		err = httpSrv.Serve(ln)
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// CleanPath trims p and makes it absolute, DefaultPath when empty.
func CleanPath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return DefaultPath
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

// ListenURL is the address a client should connect to. Wildcard hosts are
// replaced with the bound IP, or loopback when that is unspecified too.
func ListenURL(bound net.Addr, host, path string, tls bool) string {
	scheme := "http"
	if tls {
		scheme = "https"
	}
	tcp, ok := bound.(*net.TCPAddr)
	if !ok {
		return scheme + "://" + bound.String() + path
	}
	switch host {
	case "", "0.0.0.0", "::":
		host = "127.0.0.1"
		if tcp.IP != nil && !tcp.IP.IsUnspecified() {
			host = tcp.IP.String()
		}
	}
	return scheme + "://" + net.JoinHostPort(strings.Trim(host, "[]"), strconv.Itoa(tcp.Port)) + path
}
