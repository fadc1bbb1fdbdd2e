package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vbonduro/portfolio/internal/seed"
	"github.com/vbonduro/portfolio/internal/site"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the site content's records through the API",
	Long: `Create the profile, ventures and testimonials from the site content
(CONTENT_FILE, or the embedded default) through the API. Records that already
exist, matched by name, are left alone.`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	token, err := storedToken(ctx)
	if err != nil {
		return err
	}

	content, err := site.NewContentSource(cfg.ContentFile, logger)
	if err != nil {
		return err
	}

	res, err := seed.Run(ctx, newClient(), content.Content(), token, logger)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d records (%d already present).\n", res.Created, res.Existing)
	return nil
}
