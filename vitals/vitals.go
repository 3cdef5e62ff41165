package vitals

import "time"

// VitalIn is a reading. Every field is optional but at least one must be set.
type VitalIn struct {
	Systolic     *float64 `json:"systolic,omitempty" yaml:"systolic,omitempty" validate:"omitempty,gt=0"`
	Diastolic    *float64 `json:"diastolic,omitempty" yaml:"diastolic,omitempty" validate:"omitempty,gt=0"`
	HeartRate    *float64 `json:"heart_rate,omitempty" yaml:"heart_rate,omitempty" validate:"omitempty,gt=0"`
	TemperatureC *float64 `json:"temperature_c,omitempty" yaml:"temperature_c,omitempty"`
	GlucoseMgdl  *float64 `json:"glucose_mgdl,omitempty" yaml:"glucose_mgdl,omitempty" validate:"omitempty,gte=0"`
	WeightKg     *float64 `json:"weight_kg,omitempty" yaml:"weight_kg,omitempty" validate:"omitempty,gt=0"`
}

// Empty reports whether no field is set.
func (v VitalIn) Empty() bool {
	return v.Systolic == nil && v.Diastolic == nil && v.HeartRate == nil &&
		v.TemperatureC == nil && v.GlucoseMgdl == nil && v.WeightKg == nil
}

// Merge overwrites the fields of v that are set in patch.
func (v VitalIn) Merge(patch VitalIn) VitalIn {
	if patch.Systolic != nil {
		v.Systolic = patch.Systolic
	}
	if patch.Diastolic != nil {
		v.Diastolic = patch.Diastolic
	}
	if patch.HeartRate != nil {
		v.HeartRate = patch.HeartRate
	}
	if patch.TemperatureC != nil {
		v.TemperatureC = patch.TemperatureC
	}
	if patch.GlucoseMgdl != nil {
		v.GlucoseMgdl = patch.GlucoseMgdl
	}
	if patch.WeightKg != nil {
		v.WeightKg = patch.WeightKg
	}
	return v
}

// VitalOut is a stored reading with its classification flags.
type VitalOut struct {
	VitalIn `yaml:",inline"`

	ID        string    `json:"id" yaml:"id"`
	UserID    string    `json:"user_id" yaml:"user_id"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`

	BPFlag      *string `json:"bp_flag,omitempty" yaml:"bp_flag,omitempty"`
	HRFlag      *string `json:"hr_flag,omitempty" yaml:"hr_flag,omitempty"`
	TempFlag    *string `json:"temp_flag,omitempty" yaml:"temp_flag,omitempty"`
	GlucoseFlag *string `json:"glucose_flag,omitempty" yaml:"glucose_flag,omitempty"`
}
