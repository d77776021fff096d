package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/daqconf/internal/compiler"
	"github.com/specialistvlad/daqconf/internal/config"
	"github.com/specialistvlad/daqconf/internal/writer"
)

// Run loads the description, compiles it and writes the result to the
// configured output directory. The compiled plan is returned for callers
// that want to inspect it.
func (a *App) Run(ctx context.Context) (*compiler.Plan, error) {
	ctx = a.Context(ctx)
	a.logger.Debug("App.Run method started.", "description", a.config.DescriptionPath, "output", a.config.OutputDir)

	desc, err := a.loader.Load(ctx, a.config.DescriptionPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load description: %w", err)
	}
	a.logger.Debug("Description loaded.", "apps", len(desc.Apps), "connections", len(desc.Connections))

	sys, err := config.Build(ctx, desc)
	if err != nil {
		return nil, fmt.Errorf("failed to build system: %w", err)
	}

	plan, err := compiler.Compile(ctx, sys, a.config.Compile)
	if err != nil {
		return nil, fmt.Errorf("compilation failed: %w", err)
	}
	for _, w := range plan.Warnings {
		a.logger.Warn("Compilation warning.", "warning", w)
	}

	if err := writer.Write(ctx, plan, a.config.OutputDir, a.config.Force); err != nil {
		return nil, fmt.Errorf("failed to write configuration: %w", err)
	}

	a.logger.Info("🏁 Configuration generated.", "apps", len(plan.Apps), "order", plan.AppOrder, "output", a.config.OutputDir)
	a.logger.Debug("App.Run method finished.")
	return plan, nil
}
