package commands

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/iqevents/pkg/runner/client"
	"tableflip.dev/iqevents/pkg/runner/mcp"
)

func addMCP(topLevel *cobra.Command) {
	r := mcp.Runner{Name: "iqevents"}
	var (
		transport string
		host      string
		port      int
		path      string
	)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "serve events to assistants over the Model Context Protocol",
		Long: `Launch an MCP server that lets assistants search events, read details and
reviews, list cities and categories and plan itineraries. The event list is
reloaded every --refresh while the server runs.`,
		Example: `
iqevents mcp --transport stdio
iqevents mcp --http-port 8080 --refresh 10m
iqevents --demo mcp --http-port 0
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			r.Version = version
			r.HTTPEndpointPath = mcp.CleanPath(path)
			r.HTTPServerCert = strings.TrimSpace(r.HTTPServerCert)
			r.HTTPServerKey = strings.TrimSpace(r.HTTPServerKey)

			switch mcp.Transport(strings.ToLower(strings.TrimSpace(transport))) {
			case "", mcp.TransportHTTP:
				if port < 0 || port > 65535 {
					return fmt.Errorf("invalid http-port %d", port)
				}
				h := strings.TrimSpace(host)
				if h == "" {
					h = "127.0.0.1"
				}
				r.Transport = mcp.TransportHTTP
				r.HTTPListenAddr = net.JoinHostPort(h, strconv.Itoa(port))
				r.OnHTTPListening = func(a net.Addr) {
					url := mcp.ListenURL(a, h, r.HTTPEndpointPath, r.HTTPServerCert != "")
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "MCP HTTP server listening on %s\n", url)
				}
			case mcp.TransportStdio:
				r.Transport = mcp.TransportStdio
			default:
				return fmt.Errorf("unsupported transport %q (expected http or stdio)", transport)
			}

			return withClient(cmd.Context(), false, func(c *client.Client) error {
				r.Controller = c.Controller
				return r.Do(cmd.Context())
			})
		},
	}

	cmd.Flags().StringVar(&transport, "transport", string(mcp.TransportHTTP), "transport to use: http or stdio")
	cmd.Flags().StringVar(&host, "http-host", "127.0.0.1", "host/interface for HTTP transport")
	cmd.Flags().IntVar(&port, "http-port", 8080, "port for HTTP transport (use 0 for random)")
	cmd.Flags().StringVar(&path, "http-path", mcp.DefaultPath, "HTTP endpoint path")
	cmd.Flags().StringVar(&r.HTTPServerCert, "http-tls-cert", "", "TLS certificate file for HTTPS")
	cmd.Flags().StringVar(&r.HTTPServerKey, "http-tls-key", "", "TLS private key file for HTTPS")
	cmd.Flags().DurationVar(&r.Refresh, "refresh", 5*time.Minute, "how often to reload the events, 0 to never")

	topLevel.AddCommand(cmd)
}
