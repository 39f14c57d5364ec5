package irgen

import (
	"github.com/talav/irgen/config"
	"github.com/talav/irgen/debug"
	"github.com/talav/irgen/graph"
	"github.com/talav/irgen/ir"
)

// Result holds the output of one transformation.
type Result struct {
	// Spec is the transformed IR. Immutable; the graph and all views
	// borrow from it.
	Spec *ir.Spec

	cfg config.Config
}

// Diagnostics returns the non-fatal issues collected during
// transformation. These are advisory only and do not indicate failure;
// whether to proceed with emission is the caller's decision.
func (r *Result) Diagnostics() debug.Diagnostics {
	return r.Spec.Diagnostics
}

// Graph builds the type graph over the spec, carrying the engine's declared
// resource dependencies into the feature-gate analysis. Build it once and
// share it; construction is deterministic, so two graphs over the same spec
// are structurally equal.
func (r *Result) Graph() *graph.Graph {
	return graph.New(r.Spec, graph.WithResourceDeps(r.cfg.ResourceDeps))
}
