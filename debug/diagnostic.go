package debug

import "fmt"

// Diagnostic represents a non-fatal issue encountered while transforming a
// document into IR.
//
// Diagnostics are ADVISORY ONLY and never break the transformation.
// Use errors for issues that must stop the process.
//
// Common scenarios that produce diagnostics:
//   - A $ref that cannot be resolved (the field becomes Unknown)
//   - Conflicting field types inherited through allOf
//   - A discriminated oneOf variant that is not a struct
type Diagnostic interface {
	// Code returns the diagnostic identifier.
	// Compare with Diag* constants for type-safe checks.
	Code() Code

	// Path returns the JSON pointer to the offending location in the
	// source document.
	// Example: "#/components/schemas/Pet/allOf/1"
	Path() string

	// Message returns a human-readable description.
	Message() string

	// String returns a formatted representation.
	String() string
}

// Code identifies a specific diagnostic type.
// Use the Diag* constants for type-safe comparisons.
type Code string

// String returns the code as a string.
func (c Code) String() string {
	return string(c)
}

// Reference diagnostics ($ref resolution failures; the referring field
// becomes Unknown).
const (
	// DiagUnknownPointer indicates a $ref pointed at a missing document node.
	DiagUnknownPointer Code = "UNKNOWN_POINTER"

	// DiagMalformedPointer indicates a $ref that is not a valid JSON pointer.
	DiagMalformedPointer Code = "MALFORMED_POINTER"

	// DiagCyclicResolution indicates a $ref chain that loops without ever
	// producing a concrete schema.
	DiagCyclicResolution Code = "CYCLIC_DURING_RESOLUTION"
)

// Polymorphism diagnostics (the transformer proceeds with a documented
// fallback).
const (
	// DiagConflictingInheritedField indicates two allOf ancestors contribute
	// the same field with different types. The more derived field wins.
	DiagConflictingInheritedField Code = "CONFLICTING_INHERITED_FIELD"

	// DiagNonStructDiscriminatedVariant indicates a discriminated oneOf
	// variant that is not a struct. The variant is dropped.
	DiagNonStructDiscriminatedVariant Code = "NON_STRUCT_DISCRIMINATED_VARIANT"

	// DiagNonStructAnyOfBranch indicates an anyOf branch that is not a
	// struct. The branch is dropped.
	DiagNonStructAnyOfBranch Code = "NON_STRUCT_ANY_OF_BRANCH"

	// DiagMissingDiscriminator indicates a discriminator without a property
	// name. The union falls back to untagged.
	DiagMissingDiscriminator Code = "MISSING_DISCRIMINATOR"

	// DiagAllOfCycle indicates a cycle in the allOf inheritance graph.
	// The first visit wins.
	DiagAllOfCycle Code = "ALL_OF_CYCLE"
)

// Semantic diagnostics.
const (
	// DiagSemanticUnknown indicates an unrecognized type. The schema
	// becomes Unknown. Formats never produce this diagnostic: unlisted
	// string and integer formats stay as a hint on the primitive, and
	// number formats are ignored.
	DiagSemanticUnknown Code = "SEMANTIC_UNKNOWN"

	// DiagMissingPathParameter indicates a path parameter that does not
	// appear in the operation's path template.
	DiagMissingPathParameter Code = "MISSING_PATH_PARAMETER"
)

// Diagnostics is a collection of Diagnostic with helper methods.
// Diagnostics are informational and never break execution.
type Diagnostics []Diagnostic

// Has returns true if any diagnostic matches the given code.
func (ds Diagnostics) Has(code Code) bool {
	for _, d := range ds {
		if d.Code() == code {
			return true
		}
	}

	return false
}

// Append adds a diagnostic to the collection.
func (ds *Diagnostics) Append(d Diagnostic) {
	*ds = append(*ds, d)
}

// diagnostic is the concrete implementation of Diagnostic interface.
type diagnostic struct {
	code    Code
	path    string
	message string
}

func (d *diagnostic) Code() Code {
	return d.code
}

func (d *diagnostic) Path() string {
	return d.path
}

func (d *diagnostic) Message() string {
	return d.message
}

func (d *diagnostic) String() string {
	return fmt.Sprintf("[%s] %s", d.code, d.message)
}

// NewDiagnostic creates a new Diagnostic instance.
// This is the primary way to create diagnostics from internal packages.
func NewDiagnostic(code Code, path, message string) Diagnostic {
	return &diagnostic{
		code:    code,
		path:    path,
		message: message,
	}
}
