package netsynth

import (
	"context"
	"fmt"

	"github.com/specialistvlad/daqconf/internal/ctxlog"
	"github.com/specialistvlad/daqconf/internal/model"
	"github.com/specialistvlad/daqconf/internal/slotid"
)

// VerifyClosure checks app after synthesis. Every endpoint no system
// connection refers to is returned as a model.ErrDanglingEndpoint warning.
// A module connection targeting a module that is not part of app is an
// error wrapping model.ErrUnknownEndpoint.
func VerifyClosure(ctx context.Context, app *model.App, sys *model.System) ([]error, error) {
	logger := ctxlog.FromContext(ctx).With("app", app.Name)

	resolved := make(map[string]bool)
	for _, named := range sys.Connections() {
		refs := append([]string{named.Upstream}, named.Connection.Downstreams()...)
		for _, r := range refs {
			ref, err := slotid.Parse(r)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", model.ErrUnknownEndpoint, err)
			}
			if ref.Owner == app.Name {
				resolved[ref.Name] = true
			}
		}
	}

	var warnings []error
	for _, ep := range app.Graph.Endpoints() {
		if resolved[ep.ExternalName] {
			continue
		}
		w := fmt.Errorf("%w: app %q endpoint %q (%s %s)", model.ErrDanglingEndpoint, app.Name, ep.ExternalName, ep.Direction, ep.Internal)
		logger.Warn("Endpoint is not used by any system connection.", "endpoint", ep.ExternalName, "internal", ep.Internal)
		warnings = append(warnings, w)
	}

	for _, m := range app.Graph.Modules() {
		for _, sc := range m.Connections() {
			target, err := sc.Connection.Target()
			if err != nil {
				return warnings, fmt.Errorf("%w: app %q module %q slot %q: %w", model.ErrUnknownEndpoint, app.Name, m.Name, sc.Slot, err)
			}
			if !app.Graph.HasModule(target.Owner) {
				return warnings, fmt.Errorf("%w: app %q module %q slot %q targets %q outside the application",
					model.ErrUnknownEndpoint, app.Name, m.Name, sc.Slot, sc.Connection.To)
			}
		}
	}
	return warnings, nil
}
