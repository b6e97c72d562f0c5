package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/RCorpy/presupuestatorvoice/internal/audio"
	"github.com/RCorpy/presupuestatorvoice/internal/doctor"
	"github.com/RCorpy/presupuestatorvoice/internal/version"
)

// ErrDoctorFailed is returned when at least one doctor check fails.
var ErrDoctorFailed = errors.New("doctor checks failed")

func newDevicesCommand(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List audio input devices",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			devices, err := audio.ListDevices(cmd.Context())
			if err != nil {
				return err
			}
			if len(devices) == 0 {
				return errors.New("no audio devices found")
			}
			tw := tabwriter.NewWriter(s.streams.Out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "\tID\tDESCRIPTION\tSTATE\tAVAILABLE\tMUTED")
			for _, d := range devices {
				mark := ""
				if d.Default {
					mark = "*"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", mark, d.ID, d.Description, d.State, yesNo(d.Available), yesNo(d.Muted))
			}
			return tw.Flush()
		},
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func newDoctorCommand(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Run configuration and environment checks",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			report := doctor.Run(cmd.Context(), s.loaded)
			fmt.Fprintln(s.streams.Out, report.String())
			if !report.OK() {
				return ErrDoctorFailed
			}
			return nil
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print version information",
		Args:        usageArgs(cobra.NoArgs),
		Annotations: map[string]string{skipSetup: ""},
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
			return nil
		},
	}
}
