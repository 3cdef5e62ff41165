package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jrsteele09/alpha-client/consent"
	"github.com/jrsteele09/alpha-client/guard"
	apperrors "github.com/jrsteele09/alpha-client/internal/errors"
	"github.com/jrsteele09/alpha-client/internal/output"
	"github.com/jrsteele09/alpha-client/internal/utils"
	"github.com/jrsteele09/alpha-client/meds"
	"github.com/jrsteele09/alpha-client/reports"
)

func reportsCmd(c *cli) *cobra.Command {
	var period string
	summary := &cobra.Command{
		Use:   "summary",
		Short: "Summarise vitals and symptoms for the last week or month",
		Args:  cobra.NoArgs,
		RunE: c.protected(guard.RouteReports, func(cmd *cobra.Command, _ []string) error {
			s, err := c.app.Reports.Summary(cmd.Context(), period)
			if err != nil {
				return err
			}
			if c.out.Format() == output.FormatTable {
				c.out.Message("%s", s.Markdown)
				return nil
			}
			return c.out.Value(s)
		}),
	}
	summary.Flags().StringVar(&period, "period", reports.PeriodWeek, "week or month")

	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Health reports",
	}
	cmd.AddCommand(summary)
	return cmd
}

var consentColumns = []output.Column[consent.Consent]{
	output.Col("recorded", func(co consent.Consent) string { return output.Ago(co.CreatedAt) }),
	output.Col("privacy", func(co consent.Consent) string { return fmt.Sprint(co.PrivacyAccepted) }),
	output.Col("marketing", func(co consent.Consent) string { return fmt.Sprint(co.MarketingOptIn) }),
}

func consentCmd(c *cli) *cobra.Command {
	var privacy, marketing bool
	set := &cobra.Command{
		Use:   "set",
		Short: "Record a consent decision",
		Args:  cobra.NoArgs,
		RunE: c.protected(guard.RouteConsent, func(cmd *cobra.Command, _ []string) error {
			in := consent.ConsentIn{PrivacyAccepted: privacy}
			if cmd.Flags().Changed("marketing") {
				in.MarketingOptIn = utils.Ptr(marketing)
			}
			out, err := c.app.Consent.Upsert(cmd.Context(), in)
			if err != nil {
				return err
			}
			return output.List(c.out, []consent.Consent{*out}, consentColumns...)
		}),
	}
	set.Flags().BoolVar(&privacy, "privacy", true, "accept the privacy policy")
	set.Flags().BoolVar(&marketing, "marketing", false, "opt in to marketing")

	cmd := &cobra.Command{
		Use:   "consent",
		Short: "Privacy and marketing consent",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "Show the consent history, newest first",
			Args:  cobra.NoArgs,
			RunE: c.protected(guard.RouteConsent, func(cmd *cobra.Command, _ []string) error {
				items, err := c.app.Consent.List(cmd.Context())
				if err != nil {
					return err
				}
				return output.List(c.out, items, consentColumns...)
			}),
		},
		set,
	)
	return cmd
}

func profileCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or change the health profile",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the profile",
			Args:  cobra.NoArgs,
			RunE: c.protected(guard.RouteProfile, func(cmd *cobra.Command, _ []string) error {
				p, err := c.app.Profiles.Get(cmd.Context())
				if err != nil {
					return err
				}
				return c.out.Value(p)
			}),
		},
		&cobra.Command{
			Use:   "set FILE",
			Short: "Apply a YAML or JSON document to the profile (- reads stdin)",
			Long: "Fields present in FILE replace the stored ones; fields left out keep their current value.\n" +
				"Example:\n  age: 34\n  allergies: [penicillin]",
			Args: cobra.ExactArgs(1),
			RunE: c.protected(guard.RouteProfile, func(cmd *cobra.Command, args []string) error {
				doc, err := readDocument(cmd, args[0])
				if err != nil {
					return err
				}
				current, err := c.app.Profiles.Get(cmd.Context())
				if err != nil {
					return err
				}
				in := current.ProfileIn
				if err := yaml.Unmarshal(doc, &in); err != nil {
					return fmt.Errorf("%w: %w", apperrors.ErrInvalidRequest, err)
				}
				p, err := c.app.Profiles.Update(cmd.Context(), in)
				if err != nil {
					return err
				}
				return c.out.Value(p)
			}),
		},
	)
	return cmd
}

func readDocument(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "-" {
		doc, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return doc, nil
	}
	doc, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return doc, nil
}

func accountCmd(c *cli) *cobra.Command {
	var pw string
	del := &cobra.Command{
		Use:   "delete",
		Short: "Permanently delete the account and all its data",
		Args:  cobra.NoArgs,
		RunE: c.protected(guard.RouteAccount, func(cmd *cobra.Command, _ []string) error {
			secret, err := password(cmd, pw)
			if err != nil {
				return err
			}
			if err := c.app.Account.Delete(cmd.Context(), secret); err != nil {
				return err
			}
			c.app.Nav.RedirectToLogin()
			c.out.Message("Account deleted")
			return nil
		}),
	}
	del.Flags().StringVar(&pw, "password", "", "current password, read from stdin when omitted")

	cmd := &cobra.Command{
		Use:   "account",
		Short: "Export or delete the account",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "export",
			Short: "Download everything stored for the account",
			Args:  cobra.NoArgs,
			RunE: c.protected(guard.RouteAccount, func(cmd *cobra.Command, _ []string) error {
				doc, err := c.app.Account.Export(cmd.Context())
				if err != nil {
					return err
				}
				return c.out.Raw(doc)
			}),
		},
		del,
	)
	return cmd
}

func medsCmd(c *cli) *cobra.Command {
	var (
		age       int
		sex       string
		allergies []string
	)
	decode := &cobra.Command{
		Use:   "decode NAME",
		Short: "Explain what a medication is for",
		Args:  cobra.ExactArgs(1),
		RunE: c.protected(guard.RouteMeds, func(cmd *cobra.Command, args []string) error {
			in := meds.MedIn{Name: args[0]}
			if cmd.Flags().Changed("age") || sex != "" || len(allergies) > 0 {
				uc := &meds.UserContext{Allergies: allergies}
				if cmd.Flags().Changed("age") {
					uc.Age = utils.Ptr(age)
				}
				if sex != "" {
					uc.Sex = utils.Ptr(sex)
				}
				in.UserContext = uc
			}
			out, err := c.app.Meds.Decode(cmd.Context(), in)
			if err != nil {
				return err
			}
			return c.out.Value(out)
		}),
	}
	decode.Flags().IntVar(&age, "age", 0, "your age")
	decode.Flags().StringVar(&sex, "sex", "", "your sex")
	decode.Flags().StringSliceVar(&allergies, "allergy", nil, "known allergies, repeatable")

	cmd := &cobra.Command{
		Use:   "meds",
		Short: "Medication information",
	}
	cmd.AddCommand(decode)
	return cmd
}
