package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jrsteele09/alpha-client/guard"
	"github.com/jrsteele09/alpha-client/internal/output"
	"github.com/jrsteele09/alpha-client/internal/utils"
	"github.com/jrsteele09/alpha-client/vitals"
)

var vitalColumns = []output.Column[vitals.VitalOut]{
	output.Col("id", func(v vitals.VitalOut) string { return v.ID }),
	output.Col("recorded", func(v vitals.VitalOut) string { return output.Ago(v.CreatedAt) }),
	output.Col("bp", func(v vitals.VitalOut) string {
		if v.Systolic == nil && v.Diastolic == nil {
			return "-"
		}
		return output.Float(v.Systolic) + "/" + output.Float(v.Diastolic)
	}),
	output.Col("bp flag", func(v vitals.VitalOut) string { return output.Str(v.BPFlag) }),
	output.Col("hr", func(v vitals.VitalOut) string { return output.Float(v.HeartRate) }),
	output.Col("hr flag", func(v vitals.VitalOut) string { return output.Str(v.HRFlag) }),
	output.Col("temp", func(v vitals.VitalOut) string { return output.Float(v.TemperatureC) }),
	output.Col("temp flag", func(v vitals.VitalOut) string { return output.Str(v.TempFlag) }),
	output.Col("glucose", func(v vitals.VitalOut) string { return output.Float(v.GlucoseMgdl) }),
	output.Col("glucose flag", func(v vitals.VitalOut) string { return output.Str(v.GlucoseFlag) }),
	output.Col("weight", func(v vitals.VitalOut) string { return output.Float(v.WeightKg) }),
}

func vitalsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vitals",
		Short: "Record and list vital readings",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List readings, newest first",
			Args:  cobra.NoArgs,
			RunE: c.protected(guard.RouteVitals, func(cmd *cobra.Command, _ []string) error {
				items, err := c.app.Vitals.List(cmd.Context())
				if err != nil {
					return err
				}
				return output.List(c.out, items, vitalColumns...)
			}),
		},
		vitalsAddCmd(c),
		vitalsUpdateCmd(c),
		&cobra.Command{
			Use:   "delete ID",
			Short: "Delete a reading",
			Args:  cobra.ExactArgs(1),
			RunE: c.protected(guard.RouteVitals, func(cmd *cobra.Command, args []string) error {
				if err := c.app.Vitals.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				c.out.Message("Deleted %s", args[0])
				return nil
			}),
		},
	)
	return cmd
}

type vitalFlags struct {
	systolic, diastolic, heartRate, temp, glucose, weight float64
}

func (v *vitalFlags) register(fs *pflag.FlagSet) {
	fs.Float64Var(&v.systolic, "systolic", 0, "systolic pressure, mmHg")
	fs.Float64Var(&v.diastolic, "diastolic", 0, "diastolic pressure, mmHg")
	fs.Float64Var(&v.heartRate, "hr", 0, "heart rate, bpm")
	fs.Float64Var(&v.temp, "temp", 0, "temperature, °C")
	fs.Float64Var(&v.glucose, "glucose", 0, "glucose, mg/dL")
	fs.Float64Var(&v.weight, "weight", 0, "weight, kg")
}

// reading sets only the fields whose flag was given.
func (v *vitalFlags) reading(fs *pflag.FlagSet) vitals.VitalIn {
	set := func(name string, val float64) *float64 {
		if !fs.Changed(name) {
			return nil
		}
		return utils.Ptr(val)
	}
	return vitals.VitalIn{
		Systolic:     set("systolic", v.systolic),
		Diastolic:    set("diastolic", v.diastolic),
		HeartRate:    set("hr", v.heartRate),
		TemperatureC: set("temp", v.temp),
		GlucoseMgdl:  set("glucose", v.glucose),
		WeightKg:     set("weight", v.weight),
	}
}

func vitalsAddCmd(c *cli) *cobra.Command {
	var flags vitalFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a reading",
		Args:  cobra.NoArgs,
		RunE: c.protected(guard.RouteVitals, func(cmd *cobra.Command, _ []string) error {
			out, err := c.app.Vitals.Create(cmd.Context(), flags.reading(cmd.Flags()))
			if err != nil {
				return err
			}
			return output.List(c.out, []vitals.VitalOut{*out}, vitalColumns...)
		}),
	}
	flags.register(cmd.Flags())
	return cmd
}

func vitalsUpdateCmd(c *cli) *cobra.Command {
	var flags vitalFlags
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change the given fields of a reading",
		Args:  cobra.ExactArgs(1),
		RunE: c.protected(guard.RouteVitals, func(cmd *cobra.Command, args []string) error {
			out, err := c.app.Vitals.Update(cmd.Context(), args[0], flags.reading(cmd.Flags()))
			if err != nil {
				return err
			}
			return output.List(c.out, []vitals.VitalOut{*out}, vitalColumns...)
		}),
	}
	flags.register(cmd.Flags())
	return cmd
}
