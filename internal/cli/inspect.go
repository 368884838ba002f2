package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/landmark-ics/internal/calendar"
	"github.com/pfrederiksen/landmark-ics/internal/config"
)

var flagInspectTimezone string

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "List the events in a generated .ics file",
		Args:  cobra.ExactArgs(1),
		RunE:  runInspect,
	}

	cmd.Flags().StringVar(&flagInspectTimezone, "timezone", config.DefaultTimezone, "Time zone to show times in")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")

	return cmd
}

func runInspect(cmd *cobra.Command, args []string) error {
	setupLogging(cmd)

	format, err := parseFormat(flagFormat)
	if err != nil {
		return err
	}

	cfg := config.DefaultConfig()
	cfg.Timezone = strings.TrimSpace(flagInspectTimezone)
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening calendar: %w", err)
	}
	defer f.Close()

	entries, err := calendar.Inspect(f, loc)
	if err != nil {
		return err
	}

	return writeEntries(cmd.OutOrStdout(), entries, format)
}
