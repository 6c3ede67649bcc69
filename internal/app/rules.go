// Package app wires configuration policy into the window-manager engine.
package app

import (
	"context"
	"log/slog"

	"github.com/veldtwm/veldt/internal/bus"
	"github.com/veldtwm/veldt/internal/config"
	"github.com/veldtwm/veldt/internal/hints"
	"github.com/veldtwm/veldt/internal/wm"
)

// ApplyRules subscribes to window lifecycle events and applies the first
// matching rule to every newly managed window. Bus delivery is synchronous
// on the event thread, so the manager calls here are safe.
func ApplyRules(mgr *wm.Manager, rules []config.Rule) {
	if len(rules) == 0 {
		return
	}

	bus.Subscribe("app.ApplyRules", func(ctx context.Context, ev bus.ClientManaged) error {
		c := mgr.Table().Get(ev.Window)
		if c == nil {
			return nil
		}
		for _, rule := range rules {
			if !rule.Matches(c.AppClass(), c.Role()) {
				continue
			}
			apply(mgr, c, rule)
			return nil
		}
		return nil
	})
}

func apply(mgr *wm.Manager, c *wm.Client, rule config.Rule) {
	slog.Debug("Applying window rule", "window", c.Window(), "rule", rule.UUID)

	switch {
	case rule.AllDesktops:
		mgr.SetDesktop(c, hints.AllDesktops)
	case rule.Desktop != nil:
		mgr.SetDesktop(c, *rule.Desktop)
	}

	var disabled wm.DecorMask
	if rule.NoTitlebar {
		disabled |= wm.DecorTitlebar
	}
	if rule.NoBorder {
		disabled |= wm.DecorBorder | wm.DecorHandle
	}
	if disabled != 0 {
		mgr.DisableDecorations(c, disabled)
	}

	if rule.Maximized {
		mgr.Maximize(c, true, wm.MaxBoth, true)
	}
	if rule.Fullscreen {
		mgr.Fullscreen(c, true, true)
	}
}
