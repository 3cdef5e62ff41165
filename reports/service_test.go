package reports_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/jrsteele09/alpha-client/internal/errors"
	"github.com/jrsteele09/alpha-client/internal/fakeapi/fakeapitest"
	"github.com/jrsteele09/alpha-client/internal/utils"
	"github.com/jrsteele09/alpha-client/reports"
	"github.com/jrsteele09/alpha-client/symptoms"
	"github.com/jrsteele09/alpha-client/vitals"
)

func TestService_Summary(t *testing.T) {
	env := fakeapitest.New(t)
	env.SignUp(t)
	svc := reports.NewService(env.Client)
	ctx := context.Background()

	_, err := vitals.NewService(env.Client).Create(ctx, vitals.VitalIn{Systolic: utils.Ptr(190.0), Diastolic: utils.Ptr(100.0)})
	require.NoError(t, err)
	_, err = symptoms.NewService(env.Client).Create(ctx, symptoms.SymptomIn{Description: "tired"})
	require.NoError(t, err)

	t.Run("default period is week", func(t *testing.T) {
		summary, err := svc.Summary(ctx, "")
		require.NoError(t, err)
		require.Equal(t, reports.PeriodWeek, summary.Period)
		require.Equal(t, 1, summary.VitalsSummary.Total)
		require.Equal(t, 1, summary.VitalsSummary.BP[vitals.BPHypertensiveCrisis])
		require.Len(t, summary.VitalsSummary.HR, len(vitals.HRFlags))
		require.Equal(t, 1, summary.SymptomSummary.BySeverity["unspecified"])
		require.True(t, strings.HasPrefix(summary.Markdown, "# ALPHA Summary (week)"))
	})

	t.Run("month", func(t *testing.T) {
		summary, err := svc.Summary(ctx, reports.PeriodMonth)
		require.NoError(t, err)
		require.Equal(t, reports.PeriodMonth, summary.Period)
	})

	t.Run("unknown period", func(t *testing.T) {
		_, err := svc.Summary(ctx, "year")
		require.ErrorIs(t, err, apperrors.ErrInvalidRequest)
	})
}
