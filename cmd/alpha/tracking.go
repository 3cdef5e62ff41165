package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/jrsteele09/alpha-client/cycles"
	"github.com/jrsteele09/alpha-client/goals"
	"github.com/jrsteele09/alpha-client/guard"
	"github.com/jrsteele09/alpha-client/internal/output"
	"github.com/jrsteele09/alpha-client/internal/utils"
	"github.com/jrsteele09/alpha-client/symptoms"
)

func symptomsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "symptoms",
		Short: "Log symptoms and get general guidance",
	}

	var severity string
	add := &cobra.Command{
		Use:   "add DESCRIPTION...",
		Short: "Log a symptom",
		Args:  cobra.MinimumNArgs(1),
		RunE: c.protected(guard.RouteSymptoms, func(cmd *cobra.Command, args []string) error {
			out, err := c.app.Symptoms.Create(cmd.Context(), symptoms.SymptomIn{
				Description: strings.Join(args, " "),
				Severity:    severity,
			})
			if err != nil {
				return err
			}
			return output.List(c.out, []symptoms.SymptomOut{*out}, symptomColumns...)
		}),
	}
	add.Flags().StringVar(&severity, "severity", "", "mild, moderate or severe")

	var analyzeSeverity string
	analyze := &cobra.Command{
		Use:   "analyze DESCRIPTION...",
		Short: "Get advice and red flags for a symptom without logging it",
		Args:  cobra.MinimumNArgs(1),
		RunE: c.protected(guard.RouteSymptoms, func(cmd *cobra.Command, args []string) error {
			analysis, err := c.app.Symptoms.Analyze(cmd.Context(), symptoms.SymptomIn{
				Description: strings.Join(args, " "),
				Severity:    analyzeSeverity,
			})
			if err != nil {
				return err
			}
			return c.out.Value(analysis)
		}),
	}
	analyze.Flags().StringVar(&analyzeSeverity, "severity", "", "mild, moderate or severe")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List logged symptoms, newest first",
			Args:  cobra.NoArgs,
			RunE: c.protected(guard.RouteSymptoms, func(cmd *cobra.Command, _ []string) error {
				items, err := c.app.Symptoms.List(cmd.Context())
				if err != nil {
					return err
				}
				return output.List(c.out, items, symptomColumns...)
			}),
		},
		add,
		analyze,
	)
	return cmd
}

var symptomColumns = []output.Column[symptoms.SymptomOut]{
	output.Col("id", func(s symptoms.SymptomOut) string { return s.ID }),
	output.Col("logged", func(s symptoms.SymptomOut) string { return output.Ago(s.CreatedAt) }),
	output.Col("severity", func(s symptoms.SymptomOut) string { return output.Str(&s.Severity) }),
	output.Col("description", func(s symptoms.SymptomOut) string { return s.Description }),
}

func cyclesCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cycles",
		Short: "Track cycle start dates and predict the next one",
	}

	var notes string
	add := &cobra.Command{
		Use:   "add YYYY-MM-DD",
		Short: "Record a cycle start date",
		Args:  cobra.ExactArgs(1),
		RunE: c.protected(guard.RouteCycles, func(cmd *cobra.Command, args []string) error {
			in := cycles.CycleIn{StartDate: args[0]}
			if notes != "" {
				in.Notes = utils.Ptr(notes)
			}
			out, err := c.app.Cycles.Add(cmd.Context(), in)
			if err != nil {
				return err
			}
			return output.List(c.out, []cycles.CycleOut{*out}, cycleColumns...)
		}),
	}
	add.Flags().StringVar(&notes, "notes", "", "free text notes")

	var lookback int
	predict := &cobra.Command{
		Use:   "predict",
		Short: "Predict the next start date and fertile window",
		Args:  cobra.NoArgs,
		RunE: c.protected(guard.RouteCycles, func(cmd *cobra.Command, _ []string) error {
			p, err := c.app.Cycles.Predict(cmd.Context(), lookback)
			if err != nil {
				return err
			}
			return c.out.Value(p)
		}),
	}
	predict.Flags().IntVar(&lookback, "lookback", cycles.DefaultLookback, "number of recent cycles to average")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List recorded cycles",
			Args:  cobra.NoArgs,
			RunE: c.protected(guard.RouteCycles, func(cmd *cobra.Command, _ []string) error {
				items, err := c.app.Cycles.List(cmd.Context())
				if err != nil {
					return err
				}
				return output.List(c.out, items, cycleColumns...)
			}),
		},
		add,
		predict,
	)
	return cmd
}

var cycleColumns = []output.Column[cycles.CycleOut]{
	output.Col("id", func(cy cycles.CycleOut) string { return cy.ID }),
	output.Col("start", func(cy cycles.CycleOut) string { return cy.StartDate }),
	output.Col("notes", func(cy cycles.CycleOut) string { return output.Str(cy.Notes) }),
}

func goalsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goals",
		Short: "Set and list health goals",
	}

	var in goals.GoalIn
	add := &cobra.Command{
		Use:   "add",
		Short: "Set a goal",
		Args:  cobra.NoArgs,
		RunE: c.protected(guard.RouteGoals, func(cmd *cobra.Command, _ []string) error {
			if in.Unrealistic() {
				c.out.Message("Warning: this target looks unrealistic for a %s goal", in.Category)
			}
			out, err := c.app.Goals.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			return output.List(c.out, []goals.GoalOut{*out}, goalColumns...)
		}),
	}
	add.Flags().StringVar(&in.Category, "category", "", "fitness, sleep, nutrition or meds")
	add.Flags().StringVar(&in.TargetValue, "target", "", "target value, for example 10000 steps")
	add.Flags().StringVar(&in.Cadence, "cadence", "daily", "how often the target applies")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List goals",
			Args:  cobra.NoArgs,
			RunE: c.protected(guard.RouteGoals, func(cmd *cobra.Command, _ []string) error {
				items, err := c.app.Goals.List(cmd.Context())
				if err != nil {
					return err
				}
				return output.List(c.out, items, goalColumns...)
			}),
		},
		add,
	)
	return cmd
}

var goalColumns = []output.Column[goals.GoalOut]{
	output.Col("id", func(g goals.GoalOut) string { return g.ID }),
	output.Col("category", func(g goals.GoalOut) string { return g.Category }),
	output.Col("target", func(g goals.GoalOut) string { return g.TargetValue }),
	output.Col("cadence", func(g goals.GoalOut) string { return g.Cadence }),
}
