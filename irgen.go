// Package irgen transforms a parsed OpenAPI 3.x document into a typed,
// graph-structured intermediate representation for code generators.
//
// The engine is the middle stage of a parse -> IR -> emit pipeline: it
// consumes an *openapi3.T produced by a parser, resolves references and
// polymorphism, invents stable names for anonymous schemas, and returns an
// ir.Spec. A graph.Graph built over the spec answers cycle, reachability,
// and derivability questions, and the view package exposes both to
// emitters read-only.
//
// Example:
//
//	engine := irgen.New(
//	    irgen.WithDateTimeFormat(ir.DateTimeUnixMilli),
//	)
//	result, err := engine.Transform(ctx, doc)
//	if err != nil {
//	    return err
//	}
//	g := result.Graph()
//	sv, _ := view.Struct(g, ir.Named("User"))
package irgen

import (
	"context"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/talav/irgen/config"
	"github.com/talav/irgen/internal/build"
	"github.com/talav/irgen/ir"
)

// Engine holds transformer configuration. All fields are set through
// functional options; direct modification after creation is not
// recommended.
//
// Create instances using [New].
type Engine struct {
	cfg config.Config
}

// Option configures the engine using the functional options pattern.
// Options are applied in order, with later options potentially overriding
// earlier ones.
type Option func(*Engine)

// New creates a new transformation [Engine].
//
// Example:
//
//	engine := irgen.New(
//	    irgen.WithDateTimeFormat(ir.DateTimeUnixSeconds),
//	    irgen.WithResourceDependency("invoice", "customer"),
//	)
func New(opts ...Option) *Engine {
	e := &Engine{cfg: config.Default()}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// WithDateTimeFormat selects the primitive the engine emits for
// format: date-time schemas.
//
// Default: ir.DateTimeRFC3339
func WithDateTimeFormat(f ir.DateTimeFormat) Option {
	return func(e *Engine) {
		e.cfg.DateTimeFormat = f
	}
}

// WithResourceDependency declares that enabling resource also enables each
// of the implied resources. The relation is used to simplify feature-gate
// expressions: a clause implied by another clause is dropped.
//
// Example:
//
//	irgen.WithResourceDependency("invoice", "customer")
func WithResourceDependency(resource string, implies ...string) Option {
	return func(e *Engine) {
		e.cfg.AddResourceDep(resource, implies...)
	}
}

// WithValidation enables a JSON Schema sanity check of the input document
// before transformation. The check rejects documents that are not OpenAPI
// 3.x at all; it is not strict OpenAPI validation, which the engine
// deliberately leaves to dedicated tools.
//
// Default: false
func WithValidation(enabled bool) Option {
	return func(e *Engine) {
		e.cfg.ValidateInput = enabled
	}
}

// Transform converts the document into IR. The transformation always runs
// to completion: malformed schemas degrade into diagnostics on the result
// rather than aborting the whole document.
//
// The returned spec is immutable; build a graph over it with
// [Result.Graph] or graph.New.
func (e *Engine) Transform(ctx context.Context, doc *openapi3.T) (*Result, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if e.cfg.ValidateInput {
		if err := e.validateDocument(doc); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
		}
	}

	spec := build.NewTransformer(doc, e.cfg).Transform()

	return &Result{Spec: spec, cfg: e.cfg}, nil
}

func (e *Engine) validateDocument(doc *openapi3.T) error {
	validator, err := build.NewValidator()
	if err != nil {
		return fmt.Errorf("failed to create validator: %w", err)
	}
	docJSON, err := doc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	return validator.Validate(docJSON)
}
