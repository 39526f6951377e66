package main

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/kailas-cloud/murmur/internal/config"
	logpkg "github.com/kailas-cloud/murmur/internal/logger"
	mcpTransport "github.com/kailas-cloud/murmur/internal/transport/mcp"
)

func NewMCPCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve search and the current status as MCP tools over stdio",
		Long: heredoc.Doc(`
			Runs a Model Context Protocol server on stdin/stdout exposing two
			tools: "search" and "current_status". Logs go to stderr.
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := loadConfig(configFlags(cmd))
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			// stdout carries the protocol.
			logger, err := logpkg.NewLogger("cli", cfg.Logging.Level)
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			stack, err := buildContent(&cfg, config.NewLive(cfg), logger)
			if err != nil {
				return err
			}
			srv := mcpTransport.NewServer(version, stack.searchSvc, stack.statusSvc, logger)
			return srv.Serve(cmd.Context())
		},
	}
}
