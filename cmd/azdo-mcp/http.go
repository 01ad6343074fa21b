package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/luutranit2/azure-devops-mcp/pkg/azdo"
	"github.com/luutranit2/azure-devops-mcp/pkg/httpapi"
)

var httpAddr string

var httpCmd = &cobra.Command{
	Use:   "http",
	Short: "Run the REST API server",
	Long: `Run the Azure DevOps REST facade.

Exposes the same operations as the MCP tools over HTTP. The server shuts
down gracefully on SIGINT or SIGTERM.

Examples:
  azdo-mcp http
  azdo-mcp http --addr :9000`,
	RunE:         runHTTP,
	SilenceUsage: true,
}

func init() {
	httpCmd.Flags().StringVar(&httpAddr, "addr", "", "listen address (defaults to HTTP_ADDR)")
}

func runHTTP(cmd *cobra.Command, args []string) error {
	cfg, err := azdo.LoadConfig()
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	svc := azdo.New(cfg, logger)
	defer svc.Close()

	addr := httpAddr
	if addr == "" {
		addr = cfg.HTTPAddr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return httpapi.NewServer(svc, logger).Run(ctx, addr)
}
