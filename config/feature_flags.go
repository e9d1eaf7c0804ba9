package config

import (
	"hash/fnv"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// FeatureFlags manages feature toggles and gradual rollouts. Flags let the
// placement cell turn risky surfaces (uploads, exports, the eligibility
// preview) off without a redeploy, and roll new behavior out to a
// percentage of students first.
type FeatureFlags struct {
	mu sync.RWMutex

	features map[string]*Feature

	// Override rules (for testing/debugging)
	userOverrides map[string]map[string]bool // userID -> feature -> enabled
}

// Feature represents a single feature flag.
type Feature struct {
	Name        string
	Description string
	Enabled     bool

	// Rollout percentage (0-100)
	// Users are assigned based on hash of their ID
	RolloutPercent int

	// Time-based activation
	EnabledFrom  *time.Time
	EnabledUntil *time.Time
}

// FeatureContext provides context for feature flag evaluation.
type FeatureContext struct {
	UserID  string // account UUID
	IsAdmin bool
}

// Predefined feature flag names.
const (
	// === Application pipeline ===

	// FeatureStrictTransitions enforces the forward-only pipeline order;
	// disabled, admins may move applications to any non-terminal status.
	FeatureStrictTransitions = "pipeline.strict_transitions"

	// === Student surfaces ===
	FeatureEligibilityPreview  = "students.eligibility_preview"  // per-job preview on listings
	FeatureResumeUploads       = "students.resume_uploads"       // PDF uploads to object storage
	FeatureAnonymousGrievances = "grievances.anonymous"          // grievances without a session

	// === Admin surfaces ===
	FeatureCSVExport    = "admin.csv_export"    // applicant sheet downloads
	FeatureActivityFeed = "admin.activity_feed" // dashboard event feed

	// === Caching ===
	FeatureStatsCache = "cache.placement_stats" // Redis-cached dashboard numbers
)

// LoadFeatureFlags loads feature flags from environment variables.
func LoadFeatureFlags() *FeatureFlags {
	ff := &FeatureFlags{
		features:      make(map[string]*Feature),
		userOverrides: make(map[string]map[string]bool),
	}

	ff.initializeDefaults()
	ff.loadFromEnvironment()

	return ff
}

// initializeDefaults sets up all features with default values.
func (ff *FeatureFlags) initializeDefaults() {
	ff.features[FeatureStrictTransitions] = &Feature{
		Name:           FeatureStrictTransitions,
		Description:    "Enforce forward-only application pipeline order",
		Enabled:        false, // admins correct mistakes often enough
		RolloutPercent: 0,
	}

	ff.features[FeatureEligibilityPreview] = &Feature{
		Name:           FeatureEligibilityPreview,
		Description:    "Show per-job eligibility preview to logged-in students",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureResumeUploads] = &Feature{
		Name:           FeatureResumeUploads,
		Description:    "Allow resume PDF uploads",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureAnonymousGrievances] = &Feature{
		Name:           FeatureAnonymousGrievances,
		Description:    "Accept grievances without a session",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureCSVExport] = &Feature{
		Name:           FeatureCSVExport,
		Description:    "Applicant sheet CSV downloads",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureActivityFeed] = &Feature{
		Name:           FeatureActivityFeed,
		Description:    "Record domain events on the admin feed",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureStatsCache] = &Feature{
		Name:           FeatureStatsCache,
		Description:    "Cache placement stats in Redis",
		Enabled:        true,
		RolloutPercent: 100,
	}
}

// loadFromEnvironment loads feature flag overrides from env vars.
// Format: FEATURE_<NAME>=true|false|<percent>
// Example: FEATURE_PIPELINE_STRICT_TRANSITIONS=true
// Example: FEATURE_STUDENTS_ELIGIBILITY_PREVIEW=50 (50% rollout)
func (ff *FeatureFlags) loadFromEnvironment() {
	for name, feature := range ff.features {
		envKey := featureNameToEnvKey(name)
		if val := os.Getenv(envKey); val != "" {
			// Try parsing as boolean
			if b, err := strconv.ParseBool(val); err == nil {
				feature.Enabled = b
				if b {
					feature.RolloutPercent = 100
				} else {
					feature.RolloutPercent = 0
				}
				continue
			}

			// Try parsing as percentage
			if p, err := strconv.Atoi(val); err == nil && p >= 0 && p <= 100 {
				feature.Enabled = p > 0
				feature.RolloutPercent = p
			}
		}
	}
}

// featureNameToEnvKey converts feature name to environment variable key.
// "admin.csv_export" -> "FEATURE_ADMIN_CSV_EXPORT"
func featureNameToEnvKey(name string) string {
	key := strings.ToUpper(name)
	key = strings.ReplaceAll(key, ".", "_")
	return "FEATURE_" + key
}

// IsEnabled checks if a feature is enabled for the given context.
func (ff *FeatureFlags) IsEnabled(featureName string, ctx *FeatureContext) bool {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	// Check user overrides first
	if ctx != nil && ctx.UserID != "" {
		if userOverrides, ok := ff.userOverrides[ctx.UserID]; ok {
			if enabled, ok := userOverrides[featureName]; ok {
				return enabled
			}
		}
	}

	feature, ok := ff.features[featureName]
	if !ok {
		return false
	}

	// Admin users get all features
	if ctx != nil && ctx.IsAdmin {
		return true
	}

	if !feature.Enabled {
		return false
	}

	// Check time-based activation
	now := time.Now()
	if feature.EnabledFrom != nil && now.Before(*feature.EnabledFrom) {
		return false
	}
	if feature.EnabledUntil != nil && now.After(*feature.EnabledUntil) {
		return false
	}

	// Check rollout percentage
	if feature.RolloutPercent < 100 && ctx != nil && ctx.UserID != "" {
		return ff.isInRollout(ctx.UserID, featureName, feature.RolloutPercent)
	}

	return feature.RolloutPercent > 0
}

// isInRollout determines if a user is in the rollout percentage.
// Uses consistent hashing so users stay in their bucket.
func (ff *FeatureFlags) isInRollout(userID, featureName string, percent int) bool {
	h := fnv.New32a()
	h.Write([]byte(featureName))
	h.Write([]byte(userID))
	hash := h.Sum32()

	// Map to 0-99 range
	bucket := int(hash % 100)

	return bucket < percent
}

// SetUserOverride sets a feature override for a specific user.
// Useful for testing and debugging.
func (ff *FeatureFlags) SetUserOverride(userID, featureName string, enabled bool) {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	if _, ok := ff.userOverrides[userID]; !ok {
		ff.userOverrides[userID] = make(map[string]bool)
	}
	ff.userOverrides[userID][featureName] = enabled
}

// ClearUserOverrides removes all overrides for a user.
func (ff *FeatureFlags) ClearUserOverrides(userID string) {
	ff.mu.Lock()
	defer ff.mu.Unlock()
	delete(ff.userOverrides, userID)
}

// SetRolloutPercent updates the rollout percentage for a feature.
// Thread-safe for live updates.
func (ff *FeatureFlags) SetRolloutPercent(featureName string, percent int) error {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	feature, ok := ff.features[featureName]
	if !ok {
		return ErrFeatureNotFound
	}

	if percent < 0 || percent > 100 {
		return ErrInvalidRolloutPercent
	}

	feature.RolloutPercent = percent
	feature.Enabled = percent > 0

	return nil
}

// EnableFeature enables a feature at 100% rollout.
func (ff *FeatureFlags) EnableFeature(featureName string) error {
	return ff.SetRolloutPercent(featureName, 100)
}

// DisableFeature disables a feature completely.
func (ff *FeatureFlags) DisableFeature(featureName string) error {
	return ff.SetRolloutPercent(featureName, 0)
}

// GetAllFeatures returns a copy of all feature configurations.
func (ff *FeatureFlags) GetAllFeatures() map[string]*Feature {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	result := make(map[string]*Feature, len(ff.features))
	for k, v := range ff.features {
		featureCopy := *v
		result[k] = &featureCopy
	}
	return result
}

// StrictTransitionsEnabled reports whether the forward-only pipeline
// policy is active. Evaluated once at wiring time, not per request.
func (ff *FeatureFlags) StrictTransitionsEnabled() bool {
	return ff.IsEnabled(FeatureStrictTransitions, nil)
}

// --- Errors ---

var (
	ErrFeatureNotFound       = &FeatureFlagError{Message: "feature not found"}
	ErrInvalidRolloutPercent = &FeatureFlagError{Message: "rollout percent must be 0-100"}
)

// FeatureFlagError represents a feature flag error.
type FeatureFlagError struct {
	Message string
}

func (e *FeatureFlagError) Error() string {
	return e.Message
}
