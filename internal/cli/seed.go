package cli

import (
	"fmt"

	"github.com/angelmondragon/inventory/internal/backend"
	"github.com/angelmondragon/inventory/internal/seed"
	"github.com/angelmondragon/inventory/pkg/config"
	"github.com/angelmondragon/inventory/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

func newSeedCmd() *cobra.Command {
	var fixturePath string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate the store with sample categories and items",
		Long:  "Inserts the categories and items of a YAML fixture. Without --file the built-in sample inventory is used.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx := cmd.Context()
			_ = godotenv.Load()

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logg := logger.New(logger.Options{
				ServiceName: "inventoryctl",
				Level:       logger.ParseLevel(cfg.App.LogLevel),
				WarnStack:   cfg.App.LogWarnStack,
				Format:      cfg.App.LogFormat,
				Output:      cmd.ErrOrStderr(),
			})

			fixture, err := loadFixture(fixturePath)
			if err != nil {
				return err
			}

			b, err := backend.Open(ctx, cfg, logg)
			if err != nil {
				return err
			}
			defer func() { err = multierr.Append(err, b.Close()) }()

			res, err := seed.Run(ctx, b.Store, fixture, logg)
			if err != nil {
				return fmt.Errorf("seeding %s store: %w", b.Name, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %d categories and %d items\n", res.Categories, res.Items)
			return nil
		},
	}

	cmd.Flags().StringVarP(&fixturePath, "file", "f", "", "path to a YAML fixture")
	return cmd
}

func loadFixture(path string) (seed.Fixture, error) {
	if path == "" {
		return seed.Default()
	}
	return seed.LoadFile(path)
}
