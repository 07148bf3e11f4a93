package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/libsearch/internal/catalog"
	mcpserver "github.com/ziadkadry99/libsearch/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing the library and repository catalog to AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		database, store, err := openCatalog(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		mcpserver.Version = Version

		libs, _ := store.Count(cmd.Context(), catalog.KindLibs)
		repos, _ := store.Count(cmd.Context(), catalog.KindRepos)
		fmt.Fprintf(os.Stderr, "libsearch MCP server started on stdio (libs=%d, repos=%d)\n", libs, repos)

		return mcpserver.NewServer(store).Serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
