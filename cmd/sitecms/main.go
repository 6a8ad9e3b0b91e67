package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	sitecms "github.com/goliatone/go-sitecms"
	"github.com/goliatone/go-sitecms/internal/logging"
	"github.com/goliatone/go-sitecms/pkg/interfaces"
)

// configLoader reads the runtime config; tests replace it.
var configLoader = loadConfig

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "sitecms",
		Short: "Bilingual company site content service",
		Long: `sitecms serves the Arabic/English content areas, projects, clients and
contact form of a company site, and ships the admin tooling around them.

Configuration is read from SITECMS_* environment variables, optionally
loaded from an env file first.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().String("env-file", ".env", "Env file loaded before reading SITECMS_* variables")
	root.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newSeedCmd(),
		newUsersCmd(),
		newEditCmd(),
	)
	return root
}

func loadConfig(envFile string) (sitecms.Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return sitecms.Config{}, fmt.Errorf("load env file: %w", err)
		}
	}
	return sitecms.LoadFromEnv(nil)
}

func commandConfig(cmd *cobra.Command) (sitecms.Config, error) {
	envFile, err := cmd.Flags().GetString("env-file")
	if err != nil {
		return sitecms.Config{}, err
	}
	return configLoader(envFile)
}

// openModule loads the config and builds the module. Callers close it.
func openModule(cmd *cobra.Command) (*sitecms.Module, sitecms.Config, error) {
	cfg, err := commandConfig(cmd)
	if err != nil {
		return nil, sitecms.Config{}, err
	}
	module, err := sitecms.New(cfg)
	if err != nil {
		return nil, sitecms.Config{}, fmt.Errorf("bootstrap module: %w", err)
	}
	return module, cfg, nil
}

func commandLogger(module *sitecms.Module) interfaces.Logger {
	return logging.ModuleLogger(module.Container().LoggerProvider(), "sitecms.cmd")
}
