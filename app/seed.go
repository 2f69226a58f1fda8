package app

import (
	"github.com/spf13/cobra"

	"github.com/AlphaAutos/AlphaAutos/internal/config"
	"github.com/AlphaAutos/AlphaAutos/internal/daemon"
)

func init() { //nolint: gochecknoinits
	seedDemoCmd.Flags().StringVar(&configPath, "config", "", "Path to the configuration directory")
	seedDemoCmd.Flags().IntVar(&seedCount, "count", 10, "Number of rows to create per entity")

	rootCmd.AddCommand(seedDemoCmd)
}

var (
	seedCount int

	seedDemoCmd = &cobra.Command{
		Use:   "seed-demo",
		Short: "Populate the database with randomized demo data",
		Long: `seed-demo fills every entity table (dealerships, brands, vehicles,
employees, buyers, insurers, policies, maintenance records and sales)
with randomized sample data for demos and manual testing.`,
		PreRun: func(_ *cobra.Command, _ []string) {
			if cfg, err = config.ReadConfig(configPath); err != nil {
				panic(err)
			}
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return daemon.SeedDemo(&cfg, seedCount)
		},
	}
)
