package vitals

// Blood pressure flags.
const (
	BPNormal             = "normal"
	BPElevated           = "elevated"
	BPHypertensionStage1 = "hypertension-stage1"
	BPHypertensionStage2 = "hypertension-stage2"
	BPHypertensiveCrisis = "hypertensive-crisis"
)

// Heart rate flags.
const (
	HRNormal            = "normal"
	HRBradycardia       = "bradycardia"
	HRBradycardiaSevere = "bradycardia-severe"
	HRTachycardia       = "tachycardia"
	HRTachycardiaSevere = "tachycardia-severe"
)

// Temperature flags.
const (
	TempNormal      = "normal"
	TempFever       = "fever"
	TempFeverHigh   = "fever-high"
	TempHypothermia = "hypothermia"
)

// Glucose flags.
const (
	GlucoseNormal        = "normal"
	GlucoseHypoglycemia  = "hypoglycemia"
	GlucoseHyperglycemia = "hyperglycemia"
)

// BPFlags, HRFlags, TempFlags and GlucoseFlags list every flag in report order.
var (
	BPFlags      = []string{BPNormal, BPElevated, BPHypertensionStage1, BPHypertensionStage2, BPHypertensiveCrisis}
	HRFlags      = []string{HRNormal, HRBradycardia, HRBradycardiaSevere, HRTachycardia, HRTachycardiaSevere}
	TempFlags    = []string{TempNormal, TempFever, TempFeverHigh, TempHypothermia}
	GlucoseFlags = []string{GlucoseNormal, GlucoseHypoglycemia, GlucoseHyperglycemia}
)

// FlagBP classifies a blood pressure reading; nil unless both values are set.
func FlagBP(systolic, diastolic *float64) *string {
	if systolic == nil || diastolic == nil {
		return nil
	}
	sys, dia := *systolic, *diastolic
	switch {
	case sys >= 180 || dia >= 120:
		return flag(BPHypertensiveCrisis)
	case sys >= 140 || dia >= 90:
		return flag(BPHypertensionStage2)
	case sys >= 130 || dia >= 80:
		return flag(BPHypertensionStage1)
	case sys >= 120 && dia < 80:
		return flag(BPElevated)
	}
	return flag(BPNormal)
}

func FlagHR(hr *float64) *string {
	if hr == nil {
		return nil
	}
	switch {
	case *hr < 40:
		return flag(HRBradycardiaSevere)
	case *hr < 60:
		return flag(HRBradycardia)
	case *hr > 120:
		return flag(HRTachycardiaSevere)
	case *hr > 100:
		return flag(HRTachycardia)
	}
	return flag(HRNormal)
}

func FlagTemp(c *float64) *string {
	if c == nil {
		return nil
	}
	switch {
	case *c >= 39.0:
		return flag(TempFeverHigh)
	case *c >= 38.0:
		return flag(TempFever)
	case *c < 35.0:
		return flag(TempHypothermia)
	}
	return flag(TempNormal)
}

func FlagGlucose(mgdl *float64) *string {
	if mgdl == nil {
		return nil
	}
	switch {
	case *mgdl >= 240:
		return flag(GlucoseHyperglycemia)
	case *mgdl < 70:
		return flag(GlucoseHypoglycemia)
	}
	return flag(GlucoseNormal)
}

// Classify fills in every flag of out from its readings.
func Classify(out *VitalOut) {
	out.BPFlag = FlagBP(out.Systolic, out.Diastolic)
	out.HRFlag = FlagHR(out.HeartRate)
	out.TempFlag = FlagTemp(out.TemperatureC)
	out.GlucoseFlag = FlagGlucose(out.GlucoseMgdl)
}

func flag(s string) *string {
	return &s
}
