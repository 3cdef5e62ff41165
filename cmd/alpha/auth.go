package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/jrsteele09/alpha-client/auth"
	"github.com/jrsteele09/alpha-client/guard"
	"github.com/jrsteele09/alpha-client/internal/output"
	"github.com/jrsteele09/alpha-client/token"
)

func loginCmd(c *cli) *cobra.Command {
	var pw string
	cmd := &cobra.Command{
		Use:   "login EMAIL",
		Short: "Sign in and store the session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, err := password(cmd, pw)
			if err != nil {
				return err
			}
			if _, err := c.app.Auth.Login(cmd.Context(), args[0], secret); err != nil {
				return err
			}
			c.out.Message("Logged in as %s", args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&pw, "password", "", "password, read from stdin when omitted")
	return cmd
}

func registerCmd(c *cli) *cobra.Command {
	var (
		pw        string
		privacy   bool
		marketing bool
	)
	cmd := &cobra.Command{
		Use:   "register EMAIL",
		Short: "Create an account and sign in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, err := password(cmd, pw)
			if err != nil {
				return err
			}
			_, err = c.app.Auth.Register(cmd.Context(), auth.RegisterRequest{
				Email:            args[0],
				Password:         secret,
				ConsentPrivacy:   privacy,
				ConsentMarketing: marketing,
			})
			if err != nil {
				return err
			}
			c.out.Message("Registered and logged in as %s", args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&pw, "password", "", "password, read from stdin when omitted")
	cmd.Flags().BoolVar(&privacy, "accept-privacy", false, "accept the privacy policy")
	cmd.Flags().BoolVar(&marketing, "marketing", false, "opt in to marketing")
	return cmd
}

func logoutCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the refresh token and forget the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c.app.Auth.Logout(cmd.Context())
			c.out.Message("Logged out")
			return nil
		},
	}
}

func refreshCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Exchange the refresh token for a new access token",
		Args:  cobra.NoArgs,
		RunE: c.protected(guard.RouteDashboard, func(cmd *cobra.Command, _ []string) error {
			if _, err := c.app.Auth.Refresh(cmd.Context()); err != nil {
				return err
			}
			c.out.Message("Session refreshed")
			return nil
		}),
	}
}

func whoamiCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed in user",
		Args:  cobra.NoArgs,
		RunE: c.protected(guard.RouteDashboard, func(cmd *cobra.Command, _ []string) error {
			me, err := c.app.Auth.Me(cmd.Context())
			if err != nil {
				return err
			}
			return c.out.Value(me)
		}),
	}
}

type status struct {
	State     string               `json:"state" yaml:"state"`
	Location  string               `json:"location" yaml:"location"`
	Refresh   bool                 `json:"refresh_token" yaml:"refresh_token"`
	Token     *token.Introspection `json:"token,omitempty" yaml:"token,omitempty"`
	ExpiresIn string               `json:"expires_in,omitempty" yaml:"expires_in,omitempty"`
}

// statusCmd reports the local session only; it makes no request.
func statusCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the stored session",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			creds := c.app.Store.Load()
			st := status{
				State:    c.app.Nav.Guard().State().String(),
				Location: c.app.Nav.Navigate(guard.RouteDashboard),
				Refresh:  creds.RefreshToken != nil && *creds.RefreshToken != "",
			}
			if info, err := token.Inspect(c.app.Session.Token()); err == nil {
				st.Token = info
				if left, ok := info.ExpiresIn(); ok {
					st.ExpiresIn = left.Round(time.Second).String()
				}
			}

			if c.out.Format() != output.FormatTable {
				return c.out.Value(st)
			}
			c.out.Message("Session: %s", st.State)
			if st.Token != nil {
				c.out.Message("User:    %s", st.Token.Subject)
				if st.Token.IssuedAt != nil {
					c.out.Message("Issued:  %s", output.Ago(*st.Token.IssuedAt))
				}
				if st.ExpiresIn != "" {
					c.out.Message("Expires: %s", st.ExpiresIn)
				}
			}
			c.out.Message("Refresh token stored: %t", st.Refresh)
			return nil
		},
	}
}
