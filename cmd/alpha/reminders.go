package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jrsteele09/alpha-client/guard"
	apperrors "github.com/jrsteele09/alpha-client/internal/errors"
	"github.com/jrsteele09/alpha-client/internal/output"
	"github.com/jrsteele09/alpha-client/reminders"
)

var reminderColumns = []output.Column[reminders.ReminderOut]{
	output.Col("id", func(r reminders.ReminderOut) string { return r.ID }),
	output.Col("scheduled", func(r reminders.ReminderOut) string { return r.ScheduledAt.Local().Format(time.DateTime) }),
	output.Col("repeat", func(r reminders.ReminderOut) string { return output.Str(&r.Recurrence) }),
	output.Col("sent", func(r reminders.ReminderOut) string {
		if r.SentAt == nil {
			return "-"
		}
		return output.Ago(*r.SentAt)
	}),
	output.Col("message", func(r reminders.ReminderOut) string { return r.Message }),
}

func remindersCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reminders",
		Short: "Schedule and deliver reminders",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List reminders",
			Args:  cobra.NoArgs,
			RunE: c.protected(guard.RouteReminders, func(cmd *cobra.Command, _ []string) error {
				items, err := c.app.Reminders.List(cmd.Context())
				if err != nil {
					return err
				}
				return output.List(c.out, items, reminderColumns...)
			}),
		},
		remindersAddCmd(c),
		&cobra.Command{
			Use:   "delete ID",
			Short: "Delete a reminder",
			Args:  cobra.ExactArgs(1),
			RunE: c.protected(guard.RouteReminders, func(cmd *cobra.Command, args []string) error {
				if err := c.app.Reminders.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				c.out.Message("Deleted %s", args[0])
				return nil
			}),
		},
		&cobra.Command{
			Use:   "send ID",
			Short: "Deliver a reminder now",
			Args:  cobra.ExactArgs(1),
			RunE: c.protected(guard.RouteReminders, func(cmd *cobra.Command, args []string) error {
				st, err := c.app.Reminders.SendNow(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return c.out.Value(st)
			}),
		},
		&cobra.Command{
			Use:   "preview",
			Short: "Show upcoming delivery times",
			Args:  cobra.NoArgs,
			RunE: c.protected(guard.RouteReminders, func(cmd *cobra.Command, _ []string) error {
				p, err := c.app.Reminders.Preview(cmd.Context())
				if err != nil {
					return err
				}
				return c.out.Value(p)
			}),
		},
		remindersSubscribeCmd(c),
	)
	return cmd
}

func remindersAddCmd(c *cli) *cobra.Command {
	var (
		at     string
		in     time.Duration
		repeat string
	)
	cmd := &cobra.Command{
		Use:   "add MESSAGE",
		Short: "Schedule a reminder",
		Args:  cobra.ExactArgs(1),
		RunE: c.protected(guard.RouteReminders, func(cmd *cobra.Command, args []string) error {
			when, err := reminderTime(at, in)
			if err != nil {
				return err
			}
			out, err := c.app.Reminders.Schedule(cmd.Context(), reminders.ReminderIn{
				Message:     args[0],
				ScheduledAt: when,
				Recurrence:  repeat,
			})
			if err != nil {
				return err
			}
			return output.List(c.out, []reminders.ReminderOut{*out}, reminderColumns...)
		}),
	}
	cmd.Flags().StringVar(&at, "at", "", "delivery time, RFC 3339 or \"2006-01-02 15:04\" local time")
	cmd.Flags().DurationVar(&in, "in", 0, "deliver after this long, for example 2h")
	cmd.Flags().StringVar(&repeat, "repeat", reminders.RecurrenceNone, "daily or weekly")
	cmd.MarkFlagsMutuallyExclusive("at", "in")
	cmd.MarkFlagsOneRequired("at", "in")
	return cmd
}

func reminderTime(at string, in time.Duration) (time.Time, error) {
	if at == "" {
		if in <= 0 {
			return time.Time{}, fmt.Errorf("%w: --in must be positive", apperrors.ErrInvalidRequest)
		}
		return time.Now().Add(in).UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, at); err == nil {
		return t.UTC(), nil
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", at, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: cannot read time %q", apperrors.ErrInvalidRequest, at)
	}
	return t.UTC(), nil
}

func remindersSubscribeCmd(c *cli) *cobra.Command {
	var keys map[string]string
	cmd := &cobra.Command{
		Use:   "subscribe ENDPOINT",
		Short: "Register a push endpoint for reminder delivery",
		Args:  cobra.ExactArgs(1),
		RunE: c.protected(guard.RouteReminders, func(cmd *cobra.Command, args []string) error {
			st, err := c.app.Reminders.RegisterPushSubscription(cmd.Context(), reminders.PushSubscription{
				Endpoint: args[0],
				Keys:     keys,
			})
			if err != nil {
				return err
			}
			return c.out.Value(st)
		}),
	}
	cmd.Flags().StringToStringVar(&keys, "key", map[string]string{}, "subscription keys, for example --key p256dh=...,auth=...")
	return cmd
}
