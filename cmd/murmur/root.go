package main

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/kailas-cloud/murmur/internal/config"
)

func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "murmur",
		Short: "Personal posts and statuses with ranked search",
		Long: heredoc.Doc(`
			murmur serves a personal feed of Markdown posts and short statuses
			over a JSON API, and ranks them with tag, name and full-text rules.

			Without a subcommand it runs the HTTP server.
		`),
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), configFlags(cmd))
		},
	}

	addPersistentFlags(rootCmd)
	rootCmd.AddCommand(
		NewServeCmd(),
		NewSearchCmd(),
		NewMCPCmd(version),
	)
	return rootCmd
}

func addPersistentFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("env", config.GetEnv(), "Environment, selects config/<env>.yaml")
	cmd.PersistentFlags().String("config", "", "Explicit config file path (overrides --env)")
}

type cfgSource struct {
	env  string
	path string
}

func configFlags(cmd *cobra.Command) cfgSource {
	env, _ := cmd.Flags().GetString("env")
	path, _ := cmd.Flags().GetString("config")
	return cfgSource{env: env, path: path}
}
