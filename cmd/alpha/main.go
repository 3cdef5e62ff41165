package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Version will be set by the build system
var Version = "dev"

func rootCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "alpha",
		Short:             "ALPHA health client",
		Long:              "Command line client for the ALPHA health API: vitals, symptoms, cycles, goals, reminders and reports.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&c.flags.api, "api", "", "API base URL (default $ALPHA_API_BASE)")
	flags.StringVar(&c.flags.data, "data", "", "folder holding the session file (default $ALPHA_DATA_FOLDER)")
	flags.StringVarP(&c.flags.output, "output", "o", "table", "output format: table, json or yaml")
	flags.BoolVar(&c.flags.debug, "debug", false, "log at debug level")

	cmd.AddCommand(
		versionCmd(),
		loginCmd(c),
		registerCmd(c),
		logoutCmd(c),
		statusCmd(c),
		whoamiCmd(c),
		refreshCmd(c),
		vitalsCmd(c),
		symptomsCmd(c),
		cyclesCmd(c),
		goalsCmd(c),
		remindersCmd(c),
		reportsCmd(c),
		consentCmd(c),
		profileCmd(c),
		accountCmd(c),
		medsCmd(c),
	)
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the client version",
		// The banner needs no config or session.
		PersistentPreRun: func(*cobra.Command, []string) {},
		Run: func(cmd *cobra.Command, _ []string) {
			figure.NewFigure("alpha", "cybermedium", true).Print()
			fmt.Fprintf(cmd.OutOrStdout(), "\nversion %s\n", Version)
		},
	}
}

func execute() error {
	ctx, cancelOnSignal := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancelOnSignal()

	if err := rootCmd(&cli{}).ExecuteContext(ctx); err != nil {
		log.Debug().Err(err).Msg("command failed")
		_, _ = fmt.Fprintln(os.Stderr, "Error:", describe(err))
		return err
	}
	return nil
}

func main() {
	if err := execute(); err != nil {
		os.Exit(1)
	}
}
