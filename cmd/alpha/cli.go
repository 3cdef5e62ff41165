package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/jrsteele09/alpha-client/apiclient"
	"github.com/jrsteele09/alpha-client/internal/app"
	"github.com/jrsteele09/alpha-client/internal/config"
	apperrors "github.com/jrsteele09/alpha-client/internal/errors"
	"github.com/jrsteele09/alpha-client/internal/logging"
	"github.com/jrsteele09/alpha-client/internal/output"
)

// cli carries what every command shares once the root command has run setup.
type cli struct {
	flags struct {
		api    string
		data   string
		output string
		debug  bool
	}
	appOpts []app.Option

	app *app.App
	out *output.Printer
}

func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(); err != nil {
		return oops.In("main").Wrapf(err, "loading .env")
	}
	overrides := config.Overrides{APIBase: c.flags.api, DataFolder: c.flags.data}
	if c.flags.debug {
		overrides.LogLevel = "debug"
	}
	cfg := config.WithOverrides(config.New(), overrides)
	logging.Setup(cfg.GetLogLevel(), cmd.ErrOrStderr())

	format, err := output.ParseFormat(c.flags.output)
	if err != nil {
		return err
	}
	c.out = output.New(format, cmd.OutOrStdout())

	c.app, err = app.New(cfg, c.appOpts...)
	if err != nil {
		return oops.In("main").Wrapf(err, "starting client")
	}
	return nil
}

// protected wraps a command that needs a session. The route is entered through
// the guard first so a missing session fails before any request is made.
func (c *cli) protected(route string, run func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := c.app.Enter(route); err != nil {
			return err
		}
		return run(cmd, args)
	}
}

// password returns the --password flag or reads one line from stdin.
func password(cmd *cobra.Command, flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if f, ok := cmd.InOrStdin().(*os.File); ok && f == os.Stdin {
		fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	}
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// describe turns an error into the line shown to the user.
func describe(err error) string {
	var reqErr *apiclient.RequestError
	switch {
	case apperrors.Is(err, apperrors.ErrLoginRequired):
		return "not logged in, run `alpha login` first"
	case apperrors.Is(err, apperrors.ErrUnauthenticated):
		return apperrors.ErrUnauthenticated.Error()
	case apperrors.Is(err, apperrors.ErrInvalidCredentials):
		return apperrors.ErrInvalidCredentials.Error()
	case apperrors.As(err, &reqErr):
		return fmt.Sprintf("%s (HTTP %d)", reqErr.Detail(), reqErr.StatusCode)
	}
	return err.Error()
}
