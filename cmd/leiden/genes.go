package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/macarthurlab/leiden/internal/lovd"
)

func newGenesCmd() *cobra.Command {
	var siteURL string

	cmd := &cobra.Command{
		Use:   "genes",
		Short: "List the genes hosted by an LOVD installation",
		Example: `  leiden genes --url http://www.dmd.nl/nmdb2/
  leiden genes --url https://databases.lovd.nl/shared/genes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if siteURL == "" {
				return usageError{"--url is required"}
			}
			db, err := openLOVD(cmd, siteURL)
			if err != nil {
				return err
			}
			genes, err := db.GeneList(cmd.Context())
			if err != nil {
				return fmt.Errorf("listing genes: %w", err)
			}
			for _, g := range genes {
				fmt.Fprintln(cmd.OutOrStdout(), g)
			}
			logger.Info("listed genes", zap.Int("count", len(genes)), zap.Stringer("version", db.Version()))
			return nil
		},
	}

	cmd.Flags().StringVar(&siteURL, "url", "", "LOVD installation URL")
	return cmd
}

// openLOVD detects the LOVD version at siteURL and returns its database.
func openLOVD(cmd *cobra.Command, siteURL string) (*lovd.Database, error) {
	client := lovd.NewClient(lovdConfig())
	client.SetLogger(logger)
	db, err := client.Open(cmd.Context(), siteURL)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", siteURL, err)
	}
	return db, nil
}
