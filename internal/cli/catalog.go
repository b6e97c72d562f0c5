package cli

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/RCorpy/presupuestatorvoice/internal/catalog"
	"github.com/RCorpy/presupuestatorvoice/internal/proforma"
	"github.com/RCorpy/presupuestatorvoice/internal/token"
)

func newCatalogCommand(s *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect or create the product catalog",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List catalog products and prices",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := s.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(s.streams.Out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tPRODUCTO\tPRECIO")
			for _, e := range cat.Entries() {
				price := "-"
				if e.Priced {
					price = proforma.FormatNumber(e.Price)
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\n", e.ID, e.Name, price)
			}
			return tw.Flush()
		},
	}

	var seed bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create the Materials table in the configured database",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			var entries []catalog.Entry
			if seed {
				entries = catalog.Sample()
			}
			if err := s.initCatalog(cmd.Context(), entries); err != nil {
				return err
			}
			cfg := s.loaded.Config.Catalog
			s.logger.Info("catalog initialized", "driver", cfg.Driver, "seeded", len(entries))
			fmt.Fprintf(s.streams.Out, "catálogo %s listo (%d productos de ejemplo)\n", cfg.DSN, len(entries))
			return nil
		},
	}
	initCmd.Flags().BoolVar(&seed, "seed", false, "insert the sample products")

	cmd.AddCommand(list, initCmd)
	return cmd
}

func (s *state) initCatalog(ctx context.Context, entries []catalog.Entry) error {
	cfg := s.loaded.Config.Catalog
	switch cfg.Driver {
	case catalog.DriverMemory:
		return errors.New("the memory catalog cannot be initialized")
	case catalog.DriverSQLite:
		return catalog.CreateSQLite(ctx, cfg.DSN, entries)
	}

	db, err := catalog.OpenDB(ctx, cfg.Driver, cfg.DSN)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	return catalog.Init(ctx, db, cfg.Driver, entries)
}

func newGrammarCommand(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "grammar",
		Short: "Print the recognizer vocabulary: command words plus catalog names",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := s.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			for _, phrase := range token.Grammar(cat.Names()) {
				fmt.Fprintln(s.streams.Out, phrase)
			}
			return nil
		},
	}
}
