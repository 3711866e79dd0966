// mapmarkctl manages map annotation collections from the command line:
// export and import of share documents, and a quick look at the store.
package main

import (
	"fmt"
	"os"

	"github.com/mapmark/core/internal/config"
	"github.com/mapmark/core/internal/controller"
	"github.com/mapmark/core/internal/pkg/logging"
	pkgredis "github.com/mapmark/core/internal/pkg/redis"
	"github.com/mapmark/core/internal/store"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "mapmarkctl",
	Short: "Manage map annotation points and routes",
	Long:  "Manage map annotation points and routes stored locally, in Redis, or on a share server.",
}

func init() {
	rootCmd.PersistentFlags().AddFlagSet(storageFlags())
}

func storageFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("storage", pflag.ContinueOnError)
	fs.StringP("config", "c", config.DefaultConfigPath, "path to YAML config file")
	fs.String("data-dir", "", "override the configured data directory")
	return fs
}

// openController builds a headless controller over the configured backend.
func openController(cmd *cobra.Command) (*controller.Controller, *config.AppConfig, error) {
	flags := cmd.Flags()

	path, err := flags.GetString("config")
	if err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	if dir, _ := flags.GetString("data-dir"); dir != "" {
		cfg.Storage.DataDir = dir
	}

	logger := logging.New(cfg.Env)

	backend, err := buildBackend(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	st := store.New(backend, logger)
	ctl := controller.New(st, controller.NopSink{}, logger, cfg.HitThresholdM)
	ctl.Load(cmd.Context())
	return ctl, cfg, nil
}

func buildBackend(cfg *config.AppConfig, logger *zap.Logger) (store.Backend, error) {
	files, err := store.NewFileBackend(cfg.Storage.DataDir)
	if err != nil {
		return nil, err
	}

	switch cfg.Storage.Mode {
	case config.ModeRedis:
		rc, err := pkgredis.Connect(cfg.Storage.RedisURL)
		if err != nil {
			return nil, err
		}
		return store.NewRedisBackend(rc), nil

	case config.ModeRemote:
		return store.NewRemoteBackend(cfg.Storage.RemoteURL, files, logger), nil

	default:
		return files, nil
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
