package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeatureFlags_Defaults(t *testing.T) {
	ff := LoadFeatureFlags()

	assert.False(t, ff.IsEnabled(FeatureStrictTransitions, nil))
	assert.True(t, ff.IsEnabled(FeatureEligibilityPreview, nil))
	assert.True(t, ff.IsEnabled(FeatureResumeUploads, nil))
	assert.True(t, ff.IsEnabled(FeatureCSVExport, nil))
	assert.False(t, ff.IsEnabled("no.such.feature", nil))
}

func TestFeatureFlags_EnvBooleanOverride(t *testing.T) {
	t.Setenv("FEATURE_PIPELINE_STRICT_TRANSITIONS", "true")
	t.Setenv("FEATURE_STUDENTS_RESUME_UPLOADS", "false")

	ff := LoadFeatureFlags()

	assert.True(t, ff.IsEnabled(FeatureStrictTransitions, nil))
	assert.False(t, ff.IsEnabled(FeatureResumeUploads, nil))
}

func TestFeatureFlags_EnvPercentOverride(t *testing.T) {
	t.Setenv("FEATURE_STUDENTS_ELIGIBILITY_PREVIEW", "50")

	ff := LoadFeatureFlags()
	feature := ff.GetAllFeatures()[FeatureEligibilityPreview]
	require.NotNil(t, feature)

	assert.True(t, feature.Enabled)
	assert.Equal(t, 50, feature.RolloutPercent)
}

func TestFeatureFlags_RolloutBucketIsStable(t *testing.T) {
	ff := LoadFeatureFlags()
	require.NoError(t, ff.SetRolloutPercent(FeatureEligibilityPreview, 50))

	ctx := &FeatureContext{UserID: "11111111-2222-3333-4444-555555555555"}
	first := ff.IsEnabled(FeatureEligibilityPreview, ctx)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, ff.IsEnabled(FeatureEligibilityPreview, ctx))
	}
}

func TestFeatureFlags_AdminAlwaysEnabled(t *testing.T) {
	ff := LoadFeatureFlags()
	require.NoError(t, ff.DisableFeature(FeatureCSVExport))

	assert.False(t, ff.IsEnabled(FeatureCSVExport, &FeatureContext{UserID: "u-1"}))
	assert.True(t, ff.IsEnabled(FeatureCSVExport, &FeatureContext{UserID: "u-1", IsAdmin: true}))
}

func TestFeatureFlags_UserOverrideWins(t *testing.T) {
	ff := LoadFeatureFlags()
	require.NoError(t, ff.DisableFeature(FeatureResumeUploads))

	ff.SetUserOverride("u-1", FeatureResumeUploads, true)
	assert.True(t, ff.IsEnabled(FeatureResumeUploads, &FeatureContext{UserID: "u-1"}))
	assert.False(t, ff.IsEnabled(FeatureResumeUploads, &FeatureContext{UserID: "u-2"}))

	ff.ClearUserOverrides("u-1")
	assert.False(t, ff.IsEnabled(FeatureResumeUploads, &FeatureContext{UserID: "u-1"}))
}

func TestFeatureFlags_SetRolloutPercentValidation(t *testing.T) {
	ff := LoadFeatureFlags()

	assert.ErrorIs(t, ff.SetRolloutPercent("no.such.feature", 50), ErrFeatureNotFound)
	assert.ErrorIs(t, ff.SetRolloutPercent(FeatureCSVExport, 101), ErrInvalidRolloutPercent)
	assert.ErrorIs(t, ff.SetRolloutPercent(FeatureCSVExport, -1), ErrInvalidRolloutPercent)
}

func TestFeatureFlags_StrictTransitionsShortcut(t *testing.T) {
	ff := LoadFeatureFlags()
	assert.False(t, ff.StrictTransitionsEnabled())

	require.NoError(t, ff.EnableFeature(FeatureStrictTransitions))
	assert.True(t, ff.StrictTransitionsEnabled())
}
