package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aitri-dev/aitri/internal/checkpoint"
	"github.com/aitri-dev/aitri/internal/config"
	"github.com/aitri-dev/aitri/internal/debug"
	"github.com/aitri-dev/aitri/internal/feature"
	"github.com/aitri-dev/aitri/internal/fsutil"
	"github.com/aitri-dev/aitri/internal/git"
	"github.com/aitri-dev/aitri/internal/paths"
	"github.com/aitri-dev/aitri/internal/status"
)

// Project bundles the collaborators every command works against.
type Project struct {
	Layout      paths.Layout
	Repo        *git.Repo
	Registry    *feature.Registry
	Checkpoints *checkpoint.Manager
}

// openProject resolves the project root and wires its collaborators.
//
// Root precedence: --root, the directory holding the discovered .aitri/,
// the git top level, the working directory.
func openProject(ctx context.Context, explicitRoot string) (*Project, error) {
	root, overrides, err := resolveRoot(ctx, explicitRoot)
	if err != nil {
		return nil, err
	}
	layout := paths.New(root, overrides)
	repo := git.NewRepo(root)
	mgr := checkpoint.NewManager(repo, layout, checkpoint.Options{
		Max:      config.GetInt(config.KeyCheckpointMax),
		Disabled: !config.GetBool(config.KeyCheckpointEnabled),
	})
	debug.Logf("project root: %s\n", root)
	return &Project{
		Layout:      layout,
		Repo:        repo,
		Registry:    feature.NewRegistry(feature.NewResolver(layout, nil)),
		Checkpoints: mgr,
	}, nil
}

func resolveRoot(ctx context.Context, explicit string) (string, paths.Overrides, error) {
	if explicit != "" {
		abs, err := filepath.Abs(explicit)
		if err != nil {
			return "", paths.Overrides{}, fmt.Errorf("invalid --root %q: %w", explicit, err)
		}
		if info, err := os.Stat(abs); err != nil || !info.IsDir() {
			return "", paths.Overrides{}, fmt.Errorf("project root %s is not a directory", abs)
		}
		// viper was initialized for the cwd; read the target's own file.
		if !fsutil.PathsEqual(abs, config.ProjectDir()) {
			return abs, config.LoadLocalConfig(abs).Overrides(), nil
		}
		return abs, config.PathOverrides(), nil
	}
	if dir := config.ProjectDir(); dir != "" {
		return dir, config.PathOverrides(), nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", paths.Overrides{}, fmt.Errorf("failed to get working directory: %w", err)
	}
	if top, err := git.NewRepo(cwd).TopLevel(ctx); err == nil && top != "" {
		return top, config.PathOverrides(), nil
	}
	return cwd, config.PathOverrides(), nil
}

// getProject opens the project once per invocation, exiting on failure.
func getProject() *Project {
	if cmdCtx != nil && cmdCtx.Project != nil {
		return cmdCtx.Project
	}
	p, err := openProject(getRootContext(), rootFlag)
	if err != nil {
		FatalError("%v", err)
	}
	if cmdCtx != nil {
		cmdCtx.Project = p
	}
	return p
}

// program is the CLI name used in recommended commands.
func program() string {
	if p := config.GetString(config.KeyProgram); p != "" {
		return p
	}
	return "aitri"
}

// Report builds a fresh status report. A broken queue file is reported and
// ignored.
func (p *Project) Report(ctx context.Context, featureName string) (status.Report, error) {
	queue, err := feature.LoadQueue(p.Layout)
	if err != nil {
		WarnError("ignoring priority queue: %v", err)
		queue = nil
	}
	opts := status.Options{
		Feature:  featureName,
		Registry: p.Registry,
		Queue:    queue,
		Program:  program(),
	}
	if p.Checkpoints != nil {
		opts.Checkpoints = p.Checkpoints
	}
	return status.Build(ctx, opts)
}

// Resolver is the project's state resolver.
func (p *Project) Resolver() *feature.Resolver {
	return p.Registry.Resolver()
}
