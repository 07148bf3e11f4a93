package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ziadkadry99/libsearch/internal/audit"
	"github.com/ziadkadry99/libsearch/internal/catalog"
	"github.com/ziadkadry99/libsearch/internal/resource"
	"github.com/ziadkadry99/libsearch/internal/server"
	"github.com/ziadkadry99/libsearch/internal/web"
)

var serverPort int

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the catalog API and web UI",
	Long: `Starts the libsearch HTTP server: GET /libs and GET /repos return the
catalog as JSON, GET /audit lists catalog changes, and the web UI is served under the configured base path.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = serverPort
		}

		database, store, err := openCatalog(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		about, err := readAbout(cfg)
		if err != nil {
			return err
		}

		srv := server.New(server.Config{
			Port:     cfg.Server.Port,
			AllowAll: cfg.Server.AllowAll,
		}, logger)

		catalog.RegisterRoutes(srv.Router(), store)
		audit.RegisterRoutes(srv.Router(), audit.NewStore(database))

		apiBase := cfg.ResolvedAPIBaseURL()
		clientOpts := []resource.Option{resource.WithLogger(logger.Named("resource"))}
		app, err := web.New(web.Options{
			BasePath:    cfg.BasePath,
			Libs:        resource.Libs(apiBase, clientOpts...),
			Repos:       resource.Repos(apiBase, clientOpts...),
			Nav:         navConfig(cfg),
			Menu:        menuEntries(cfg),
			About:       about,
			RenderWait:  cfg.RenderWait,
			MaxSessions: cfg.MaxSessions,
			Logger:      logger.Named("web"),
		})
		if err != nil {
			return fmt.Errorf("building web app: %w", err)
		}
		defer app.Close()
		app.RegisterRoutes(srv.Router())

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			logger.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		libs, _ := store.Count(ctx, catalog.KindLibs)
		repos, _ := store.Count(ctx, catalog.KindRepos)
		logger.Info("libsearch server starting",
			zap.String("version", Version),
			zap.Int("port", cfg.Server.Port),
			zap.String("database", database.Path()),
			zap.String("ui", cfg.BasePath),
			zap.String("api", apiBase),
			zap.Int("libs", libs),
			zap.Int("repos", repos),
		)

		return srv.Start()
	},
}

func init() {
	serverCmd.Flags().IntVar(&serverPort, "port", 8080, "Port to listen on (overrides server.port)")
	rootCmd.AddCommand(serverCmd)
}
