package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ziadkadry99/libsearch/internal/audit"
	"github.com/ziadkadry99/libsearch/internal/catalog"
	"github.com/ziadkadry99/libsearch/internal/progress"
)

var importReplace bool

var importCmd = &cobra.Command{
	Use:   "import <file-or-glob>...",
	Short: "Load libraries and repositories from YAML or JSON files",
	Long: `Reads catalog documents of the form

  libs:
    - name: chi
  repos:
    - name: go-chi/chi

and appends their records to the catalog. Arguments may be doublestar
globs such as 'catalog/**/*.yml'.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		files, err := catalog.Expand(args)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return fmt.Errorf("no files match %v", args)
		}

		database, store, err := openCatalog(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		ctx := cmd.Context()
		trail := audit.NewStore(database)
		source := strings.Join(args, " ")
		if importReplace {
			for _, kind := range catalog.Kinds {
				n, err := store.Clear(ctx, kind)
				if err != nil {
					return err
				}
				logger.Debug("cleared collection", zap.String("kind", string(kind)), zap.Int64("removed", n))
				if err := trail.Log(ctx, audit.Entry{Action: audit.ActionClear, Kind: string(kind), Count: int(n), Source: source}); err != nil {
					logger.Warn("recording audit entry", zap.Error(err))
				}
			}
		}

		reporter := progress.NewReporter()
		reporter.Start(len(files))
		im := catalog.NewImporter(store)
		im.Progress = func(done int, file string) { reporter.Update(done, file) }

		res, err := im.ImportFiles(ctx, files)
		reporter.Finish()
		for _, kind := range catalog.Kinds {
			if res.Added[kind] == 0 {
				continue
			}
			entry := audit.Entry{Action: audit.ActionImport, Kind: string(kind), Count: res.Added[kind], Source: source}
			if err := trail.Log(ctx, entry); err != nil {
				logger.Warn("recording audit entry", zap.Error(err))
			}
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d libs and %d repos from %d file(s)\n",
			res.Added[catalog.KindLibs], res.Added[catalog.KindRepos], res.Files)
		return nil
	},
}

func init() {
	importCmd.Flags().BoolVar(&importReplace, "replace", false, "clear existing records before importing")
	rootCmd.AddCommand(importCmd)
}
