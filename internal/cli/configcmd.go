package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/landmark-ics/internal/config"
	"github.com/pfrederiksen/landmark-ics/internal/logger"
)

const defaultConfigFile = "landmark-ics.yaml"

var flagForce bool

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	initCmd := &cobra.Command{
		Use:   "init [FILE]",
		Short: "Write the default configuration to FILE (default " + defaultConfigFile + ")",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runConfigInit,
	}
	initCmd.Flags().BoolVar(&flagForce, "force", false, "Overwrite an existing file")

	cmd.AddCommand(initCmd)
	return cmd
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	setupLogging(cmd)

	path := defaultConfigFile
	if len(args) == 1 {
		path = args[0]
	}

	if !flagForce {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("checking %s: %w", path, err)
		}
	}

	if err := config.Save(path, config.DefaultConfig()); err != nil {
		return err
	}

	logger.Debug("Wrote default config", logger.Fields{"path": path})
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}
