package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/araddon/dateparse"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"github.com/pskitchenware/storefront/config"
	"github.com/pskitchenware/storefront/internal/adminapi"
	"github.com/pskitchenware/storefront/internal/app"
	"github.com/pskitchenware/storefront/internal/storeapi"
	"github.com/pskitchenware/storefront/internal/webserver"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:           "storefront",
	Short:         "PS Essentials kitchenware storefront",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the storefront and admin API with background jobs",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE:  runMigrate,
}

var digestDay string

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Send the daily sales digest now",
	Long: `Sends the sales digest email for one calendar day in the shop location.
Defaults to yesterday.

Example:
  storefront digest --day 2024-03-01`,
	RunE: runDigest,
}

var hashCmd = &cobra.Command{
	Use:   "hash-password [password]",
	Short: "Print a bcrypt hash for admin.password",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := bcrypt.GenerateFromPassword([]byte(args[0]), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(hash))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default storefront.yml)")
	digestCmd.Flags().StringVar(&digestDay, "day", "", "day to summarize (default yesterday)")
	rootCmd.AddCommand(serveCmd, migrateCmd, digestCmd, hashCmd)
}

func loadApp() (*app.Application, error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, err
	}
	a := app.NewApplication(cfg)
	if err := a.Init(cfg); err != nil {
		return nil, err
	}
	return a, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Release()

	web := webserver.Init(a)
	adminapi.Init()
	storeapi.Init()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return web.Start(ctx)
	})
	g.Go(func() error {
		a.StartBackgroundJobs(ctx)
		<-ctx.Done()
		return nil
	})
	err = g.Wait()
	zap.L().Info("storefront stopped")
	return err
}

func runMigrate(_ *cobra.Command, _ []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Release()
	return a.MigrateDB(true)
}

func runDigest(cmd *cobra.Command, _ []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Release()

	day := time.Now().In(a.Location()).AddDate(0, 0, -1)
	if digestDay != "" {
		day, err = dateparse.ParseIn(digestDay, a.Location())
		if err != nil {
			return fmt.Errorf("invalid --day %q: %w", digestDay, err)
		}
	}
	res := a.RunDigest(cmd.Context(), day)
	fmt.Fprintln(cmd.OutOrStdout(), res.Message)
	if !res.Success {
		return fmt.Errorf("digest not sent")
	}
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
