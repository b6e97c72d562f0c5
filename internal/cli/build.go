package cli

import (
	"context"
	"fmt"

	"github.com/RCorpy/presupuestatorvoice/internal/catalog"
	"github.com/RCorpy/presupuestatorvoice/internal/export"
	"github.com/RCorpy/presupuestatorvoice/internal/interpreter"
	"github.com/RCorpy/presupuestatorvoice/internal/layout"
	"github.com/RCorpy/presupuestatorvoice/internal/proforma"
	"github.com/RCorpy/presupuestatorvoice/internal/session"
	"github.com/RCorpy/presupuestatorvoice/internal/transcript"
)

func (s *state) openCatalog(ctx context.Context) (*catalog.Catalog, error) {
	cfg := s.loaded.Config.Catalog
	cat, err := catalog.Open(ctx, cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	s.logger.Info("catalog loaded", "driver", cfg.Driver, "products", cat.Len())
	return cat, nil
}

func (s *state) exporter() *export.Writer {
	cfg := s.loaded.Config.Export
	return export.New(export.Options{
		TemplatePath: cfg.TemplatePath,
		OutputDir:    cfg.OutputDir,
		Sheet:        cfg.Sheet,
	})
}

// newController wires catalog, layout rules, interpreter and exporter into a
// session controller. The returned store serves the layout rules in use.
func (s *state) newController(ctx context.Context) (*session.Controller, *layout.Store, error) {
	cfg := s.loaded.Config

	cat, err := s.openCatalog(ctx)
	if err != nil {
		return nil, nil, err
	}
	store, err := layout.NewStore(cfg.Layout.RulesPath)
	if err != nil {
		return nil, nil, err
	}

	rows := make([]proforma.Row, 0, cfg.Session.InitialRows)
	for range cfg.Session.InitialRows {
		rows = append(rows, proforma.BlankProduct())
	}
	in := interpreter.New(cat, interpreter.Options{
		Triggers:  cfg.Vocabulary.ProductTriggers,
		Annotator: store,
		Rows:      rows,
	})

	ctrl := session.NewController(in, session.Options{
		Logger:        s.logger,
		Rewriter:      transcript.NewRewriter(cfg.Vocabulary.PhraseAliases, cfg.Vocabulary.WordAliases),
		Dedupe:        cfg.Vocabulary.DedupeRepeats,
		RepeatAllowed: cfg.Vocabulary.RepeatAllowed,
		Exporter:      s.exporter(),
	})
	return ctrl, store, nil
}
