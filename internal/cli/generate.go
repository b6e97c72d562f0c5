package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RCorpy/presupuestatorvoice/internal/generator"
	"github.com/RCorpy/presupuestatorvoice/internal/ipc"
	"github.com/RCorpy/presupuestatorvoice/internal/layout"
	"github.com/RCorpy/presupuestatorvoice/internal/session"
)

func newGenerateCommand(s *state) *cobra.Command {
	var (
		req      generator.Request
		work     string
		doExport bool
		send     bool
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Lay out a complete proforma from a job description",
		Example: `  presupuestator generate --resin epoxi --work "IMPRIMACIÓN + 2 CAPAS" --area 120 --color verde
  presupuestator generate --resin politop --work capa --area 40 --multiplier 1.1 --send`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			primer, layers, err := generator.ParseWorkType(work)
			if err != nil {
				return &UsageError{Err: err}
			}
			req.Primer, req.Layers = primer, layers

			cat, err := s.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			rules, err := layout.NewStore(s.loaded.Config.Layout.RulesPath)
			if err != nil {
				return err
			}

			rows, err := generator.Generate(req, rules.Rules(), cat)
			if err != nil {
				return &UsageError{Err: err}
			}
			s.logger.Info("proforma generated", "resin", req.Resin, "area_m2", req.AreaM2, "rows", len(rows))

			wire := session.WireRows(rows)
			if err := writeRows(s.streams.Out, wire, 0); err != nil {
				return err
			}

			if doExport {
				path, err := s.exporter().Export(rows)
				if err != nil {
					return fmt.Errorf("export: %w", err)
				}
				fmt.Fprintln(s.streams.Out, path)
			}
			if send {
				return s.forwardMessage(cmd.Context(), ipc.Request{Command: ipc.CommandLoad, Rows: wire})
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.Resin, "resin", "", "resin type, e.g. EPOXI or POLITOP")
	f.StringVar(&work, "work", "", `job description, e.g. "IMPRIMACIÓN + 2 CAPAS"`)
	f.Float64Var(&req.AreaM2, "area", 0, "surface in square metres")
	f.Float64Var(&req.Multiplier, "multiplier", 1, "price multiplier")
	f.StringVar(&req.Color, "color", "", "finish colour")
	f.StringVar(&req.CustomerName, "customer", "", "customer name for the header row")
	f.StringVar(&req.CustomerPhone, "phone", "", "customer phone for the header row")
	f.BoolVar(&doExport, "export", false, "write the proforma to XLSX")
	f.BoolVar(&send, "send", false, "load the proforma into the running session")
	_ = cmd.MarkFlagRequired("resin")
	_ = cmd.MarkFlagRequired("work")
	_ = cmd.MarkFlagRequired("area")
	return cmd
}
