package config

import "github.com/aitri-dev/aitri/internal/paths"

// Workflow config keys
const (
	KeyJSON    = "json"
	KeyProgram = "program"

	KeyCheckpointEnabled = "checkpoint.enabled"
	KeyCheckpointMax     = "checkpoint.max"

	KeyAdvanceEnabled  = "advance.enabled"
	KeyAdvanceMaxSteps = "advance.max-steps"

	KeyWatchDebounce = "watch.debounce"
)

// Path config keys. Relative values resolve against the project root.
const (
	KeyPathsSpecs   = "paths.specs"
	KeyPathsBacklog = "paths.backlog"
	KeyPathsTests   = "paths.tests"
	KeyPathsDocs    = "paths.docs"
)

// RegisterDefaults registers default values for workflow configuration.
func RegisterDefaults() {
	if v == nil {
		return
	}
	v.SetDefault(KeyJSON, false)
	v.SetDefault(KeyProgram, "aitri")
	v.SetDefault(KeyCheckpointEnabled, true)
	v.SetDefault(KeyCheckpointMax, 10)
	v.SetDefault(KeyAdvanceEnabled, true)
	v.SetDefault(KeyAdvanceMaxSteps, 10)
	v.SetDefault(KeyWatchDebounce, "500ms")
}

// RegisterPathDefaults registers the default logical roots.
func RegisterPathDefaults() {
	if v == nil {
		return
	}
	v.SetDefault(KeyPathsSpecs, paths.DefaultSpecs)
	v.SetDefault(KeyPathsBacklog, paths.DefaultBacklog)
	v.SetDefault(KeyPathsTests, paths.DefaultTests)
	v.SetDefault(KeyPathsDocs, paths.DefaultDocs)
}

// PathOverrides returns the configured logical roots.
func PathOverrides() paths.Overrides {
	return paths.Overrides{
		Specs:   GetString(KeyPathsSpecs),
		Backlog: GetString(KeyPathsBacklog),
		Tests:   GetString(KeyPathsTests),
		Docs:    GetString(KeyPathsDocs),
	}
}
