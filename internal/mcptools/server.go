package mcptools

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// version is set by the linker at build time.
var version = "dev"

// NewConsultMCPServer creates an MCP server with the 3 consultation tools
// registered: consult, list_specialists, and check_health.
func NewConsultMCPServer(svc *ConsultService) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "consilium",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "consult",
		Description: "Distribute a patient question to every configured specialist agent concurrently and return the consolidated opinion with per-specialist outcomes.",
	}, svc.Consult)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_specialists",
		Description: "List the configured specialist agents with their endpoints, timeouts and priorities.",
	}, svc.ListSpecialists)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "check_health",
		Description: "Probe every specialist agent's health endpoint and report per-specialist and overall availability.",
	}, svc.CheckHealth)

	return server
}

// RunStdio runs the MCP server on stdio transport, blocking until stdin
// is closed or the context is cancelled.
func RunStdio(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP starts an HTTP server exposing the consultation MCP tools.
func RunHTTP(ctx context.Context, server *mcp.Server, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// Shutdown gracefully when context is cancelled.
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background())
	}()

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
