package view

import (
	"github.com/talav/irgen/graph"
	"github.com/talav/irgen/ir"
)

// OperationView is a read-only view over one operation.
type OperationView struct {
	g  *graph.Graph
	op *ir.Operation
}

// Operation creates a view over the operation with the given identifier.
func Operation(g *graph.Graph, id string) (OperationView, bool) {
	op, ok := g.Spec().Operation(id)
	if !ok {
		return OperationView{}, false
	}

	return OperationView{g: g, op: op}, true
}

// Operations returns views over every operation in spec order.
func Operations(g *graph.Graph) []OperationView {
	ops := g.Spec().Operations
	out := make([]OperationView, len(ops))
	for i := range ops {
		out[i] = OperationView{g: g, op: &ops[i]}
	}

	return out
}

// ID returns the operation identifier.
func (v OperationView) ID() string {
	return v.op.ID
}

// Method returns the upper-case HTTP method.
func (v OperationView) Method() string {
	return v.op.Method
}

// Path returns the parsed path template.
func (v OperationView) Path() ir.PathTemplate {
	return v.op.Path
}

// Tag returns the operation's resource tag, if any.
func (v OperationView) Tag() string {
	return v.op.Tag
}

// Doc returns the operation documentation.
func (v OperationView) Doc() string {
	return v.op.Doc
}

// Deprecated reports whether the operation is deprecated.
func (v OperationView) Deprecated() bool {
	return v.op.Deprecated
}

// Parameters returns the operation's parameters in document order.
func (v OperationView) Parameters() []ParameterView {
	out := make([]ParameterView, len(v.op.Parameters))
	for i := range v.op.Parameters {
		out[i] = ParameterView{param: &v.op.Parameters[i]}
	}

	return out
}

// RequestBody returns a view over the request body, if the operation takes
// one.
func (v OperationView) RequestBody() (RequestBodyView, bool) {
	if v.op.RequestBody == nil {
		return RequestBodyView{}, false
	}

	return RequestBodyView{body: v.op.RequestBody}, true
}

// Responses returns views over the responses ordered by status code.
func (v OperationView) Responses() []ResponseView {
	out := make([]ResponseView, len(v.op.Responses))
	for i := range v.op.Responses {
		out[i] = ResponseView{resp: &v.op.Responses[i]}
	}

	return out
}

// Response returns the view for one status code, if present.
func (v OperationView) Response(status int) (ResponseView, bool) {
	resp, ok := v.op.Response(status)
	if !ok {
		return ResponseView{}, false
	}

	return ResponseView{resp: resp}, true
}

// Inlines returns the inline schemas rooted at the operation, in spec
// order.
func (v OperationView) Inlines() []ir.TypeName {
	return v.g.OperationInlines(v.op.ID)
}

// Reachable returns every schema the operation depends on, in spec order.
func (v OperationView) Reachable() []ir.TypeName {
	return v.g.OperationReachable(v.op.ID)
}

// FeatureGate returns the minimal feature expression of the operation.
func (v OperationView) FeatureGate() graph.FeatureGate {
	return v.g.OperationFeatureGate(v.op.ID)
}

// ParameterView is a read-only view over one operation parameter.
type ParameterView struct {
	param *ir.Parameter
}

// Name returns the parameter name.
func (v ParameterView) Name() string {
	return v.param.Name
}

// In returns the parameter location.
func (v ParameterView) In() ir.ParamLocation {
	return v.param.In
}

// Required reports whether the parameter is mandatory.
func (v ParameterView) Required() bool {
	return v.param.Required
}

// Type returns the parameter's resolved type.
func (v ParameterView) Type() ir.Type {
	return v.param.Type
}

// Doc returns the parameter documentation.
func (v ParameterView) Doc() string {
	return v.param.Doc
}

// RequestBodyView is a read-only view over an operation request body.
type RequestBodyView struct {
	body *ir.RequestBody
}

// Required reports whether the body is mandatory.
func (v RequestBodyView) Required() bool {
	return v.body.Required
}

// Type returns the body's resolved type.
func (v RequestBodyView) Type() ir.Type {
	return v.body.Type
}

// Doc returns the body documentation.
func (v RequestBodyView) Doc() string {
	return v.body.Doc
}

// ResponseView is a read-only view over one operation response.
type ResponseView struct {
	resp *ir.Response
}

// Status returns the HTTP status code; 0 stands for the default response.
func (v ResponseView) Status() int {
	return v.resp.Status
}

// Type returns the response body type; ok is false when the response has
// no body.
func (v ResponseView) Type() (ir.Type, bool) {
	if v.resp.Type == nil {
		return ir.Type{}, false
	}

	return *v.resp.Type, true
}

// Doc returns the response documentation.
func (v ResponseView) Doc() string {
	return v.resp.Doc
}
