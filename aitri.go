// Package aitri provides a minimal public API for tools that want to read
// an aitri project's workflow state without shelling out to the CLI.
//
// Everything here is read-only. State is derived from the files under the
// project's logical roots on every call.
package aitri

import (
	"context"

	"github.com/aitri-dev/aitri/internal/config"
	"github.com/aitri-dev/aitri/internal/feature"
	"github.com/aitri-dev/aitri/internal/paths"
	"github.com/aitri-dev/aitri/internal/status"
)

// Core types for working with features
type (
	Feature  = feature.Feature
	State    = feature.State
	Summary  = feature.Summary
	Layout   = paths.Layout
	Report   = status.Report
	NextStep = status.NextStep
)

// State constants
const (
	StateDraft          = feature.StateDraft
	StateApproved       = feature.StateApproved
	StateImplementation = feature.StateImplementation
	StateDeliverPending = feature.StateDeliverPending
	StateBlocked        = feature.StateBlocked
	StateDelivered      = feature.StateDelivered
	StateUnknown        = feature.StateUnknown
)

// OpenLayout resolves the layout for projectRoot, honoring the paths
// section of its .aitri/config.yaml.
func OpenLayout(projectRoot string) Layout {
	return paths.New(projectRoot, config.LoadLocalConfig(projectRoot).Overrides())
}

// ResolveState returns the current state of one feature.
func ResolveState(layout Layout, name string) State {
	return feature.NewResolver(layout, nil).ResolveState(name)
}

// ScanAll lists every feature in the project with its state.
func ScanAll(layout Layout) ([]Feature, error) {
	return feature.NewRegistry(feature.NewResolver(layout, nil)).ScanAll()
}

// NextCommand is the command that moves a feature out of state s.
func NextCommand(s State) string {
	return feature.NextCommand(s)
}

// Status builds the project report without checkpoint resume detection.
func Status(ctx context.Context, layout Layout) (Report, error) {
	queue, err := feature.LoadQueue(layout)
	if err != nil {
		return Report{}, err
	}
	return status.Build(ctx, status.Options{
		Registry: feature.NewRegistry(feature.NewResolver(layout, nil)),
		Queue:    queue,
	})
}
