package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/infohub-br/promoagent/internal/storage"
)

func migrateCmd() *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			storeCfg := storage.DefaultConfig(cfg.Database)
			store, err := storage.NewStore(storeCfg, slog.Default())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.Migrate(cmd.Context()); err != nil {
				return err
			}
			cmd.Println("schema applied")

			if seed {
				if err := seedDemoData(cmd, store); err != nil {
					return fmt.Errorf("seeding demo data: %w", err)
				}
				cmd.Println("demo data seeded")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&seed, "seed", false, "insert demo establishments and offers")
	return cmd
}

// seedDemoData loads a small São Paulo dataset for local experimentation:
// user 1 downtown, two markets nearby, offers valid for a week.
func seedDemoData(cmd *cobra.Command, store *storage.Store) error {
	ctx := cmd.Context()

	if err := store.SaveUserAddress(ctx, 1, -23.5505, -46.6333); err != nil {
		return err
	}

	marketA, err := store.SaveEstablishment(ctx, "Mercado Azul", "São Paulo", "SP", -23.5460, -46.6350)
	if err != nil {
		return err
	}
	marketB, err := store.SaveEstablishment(ctx, "Supermercado Vila", "São Paulo", "SP", -23.5580, -46.6400)
	if err != nil {
		return err
	}

	from := time.Now().Add(-24 * time.Hour)
	to := time.Now().Add(7 * 24 * time.Hour)

	offers := []struct {
		market  int64
		product string
		price   float64
	}{
		{marketA, "leite", 4.50},
		{marketB, "leite", 4.80},
		{marketA, "arroz", 22.90},
		{marketB, "feijao", 8.75},
		{marketA, "shampoo", 12.99},
		{marketB, "detergente", 2.35},
	}
	for _, o := range offers {
		if err := store.SaveOffer(ctx, o.market, o.product, o.price, from, to); err != nil {
			return err
		}
	}
	return nil
}
