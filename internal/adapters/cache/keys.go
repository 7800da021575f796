package cache

import (
	"fmt"
	"strings"
)

// Kind names a cache key namespace. Each namespace is read under one
// fixed validity policy by its callers.
type Kind string

// Cache key namespaces.
const (
	// KindSheetWeek holds a week's spreadsheet ranking snapshot (daily bucket).
	KindSheetWeek Kind = "sheet_week"
	// KindLiveBet holds a player's live bet-summary result (sliding window).
	KindLiveBet Kind = "api"
	// KindCumulative holds a fully historical cumulative computation (permanent).
	KindCumulative Kind = "cumulative"
	// KindCumulativeCurrent holds a current-week cumulative blend, which
	// shares the live result's sliding window.
	KindCumulativeCurrent Kind = "cumulative_current"
)

// KeyDesc describes a cache key structurally. Player and Week are
// optional; zero values are omitted from the rendered key.
type KeyDesc struct {
	Kind   Kind
	Player string
	Week   int
}

// Key renders a descriptor into the manager's namespace. Rendering is
// centralized here so every data kind shares one template and prefix,
// instead of scattering ad hoc key strings across call sites.
func (m *Manager) Key(d KeyDesc) string {
	parts := []string{m.prefix, string(d.Kind)}
	if d.Player != "" {
		parts = append(parts, strings.ToLower(strings.TrimSpace(d.Player)))
	}
	if d.Week > 0 {
		parts = append(parts, fmt.Sprintf("%d", d.Week))
	}
	return strings.Join(parts, "_")
}
