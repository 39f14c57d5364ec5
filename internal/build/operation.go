package build

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/talav/irgen/debug"
	"github.com/talav/irgen/ir"
)

// methodOrder fixes the traversal order of operations within one path item.
var methodOrder = []string{"GET", "PUT", "POST", "DELETE", "OPTIONS", "HEAD", "PATCH", "TRACE"}

// transformOperations converts every path operation in deterministic order:
// paths sorted, methods in canonical order.
func (t *Transformer) transformOperations() {
	if t.doc.Paths == nil {
		return
	}

	pathMap := t.doc.Paths.Map()
	paths := make([]string, 0, len(pathMap))
	for p := range pathMap {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, path := range paths {
		item := pathMap[path]
		if item == nil {
			continue
		}
		ops := item.Operations()
		for _, method := range methodOrder {
			op, ok := ops[method]
			if !ok || op == nil {
				continue
			}
			t.transformOperation(method, path, item, op)
		}
	}
}

func (t *Transformer) transformOperation(method, path string, item *openapi3.PathItem, op *openapi3.Operation) {
	tpl := ir.ParsePathTemplate(path)
	id := op.OperationID
	if id == "" {
		id = deriveOperationID(method, tpl)
	}
	ptr := "#/paths/" + escapePointerToken(path) + "/" + strings.ToLower(method)
	base := ir.NewOperationPath(id)

	out := ir.Operation{
		Method:     method,
		Path:       tpl,
		ID:         id,
		Doc:        joinDoc(op.Summary, op.Description),
		Deprecated: op.Deprecated,
		Resource:   extString(op.Extensions, "x-resource-name"),
	}
	if len(op.Tags) > 0 {
		out.Tag = op.Tags[0]
	}

	t.addParameters(&out, item.Parameters, base, ptr)
	t.addParameters(&out, op.Parameters, base, ptr)
	t.addRequestBody(&out, op.RequestBody, base, ptr)
	t.addResponses(&out, op.Responses, base, ptr)

	t.spec.AddOperation(out)
}

// addParameters appends parameter descriptors. Path parameters are always
// required and must appear in the path template.
func (t *Transformer) addParameters(out *ir.Operation, params openapi3.Parameters, base ir.Path, ptr string) {
	for _, pref := range params {
		if pref == nil || pref.Value == nil {
			continue
		}
		p := pref.Value

		loc := ir.ParamLocation(p.In)
		switch loc {
		case ir.InPath, ir.InQuery, ir.InHeader, ir.InCookie:
		default:
			loc = ir.InQuery
		}

		param := ir.Parameter{
			Name:     p.Name,
			In:       loc,
			Required: p.Required || loc == ir.InPath,
			Doc:      p.Description,
			Type:     ir.StringType(),
		}
		if p.Schema != nil {
			param.Type = t.typeOf(p.Schema, base.Child(ir.ParameterSegment(p.Name)), ptr+"/parameters/"+p.Name)
		}

		if loc == ir.InPath && !out.Path.HasParam(p.Name) {
			t.diag(debug.DiagMissingPathParameter, ptr,
				fmt.Sprintf("path parameter %q does not appear in %q", p.Name, out.Path.Raw))
		}

		out.Parameters = append(out.Parameters, param)
	}
}

func (t *Transformer) addRequestBody(out *ir.Operation, rbref *openapi3.RequestBodyRef, base ir.Path, ptr string) {
	if rbref == nil || rbref.Value == nil {
		return
	}
	rb := rbref.Value

	media := pickMediaType(rb.Content)
	if media == nil {
		return
	}

	typ := t.typeOf(media.Schema, base.Child(ir.BodySegment()), ptr+"/requestBody")
	out.RequestBody = &ir.RequestBody{
		Required: rb.Required,
		Type:     typ,
		Doc:      rb.Description,
	}
}

func (t *Transformer) addResponses(out *ir.Operation, responses *openapi3.Responses, base ir.Path, ptr string) {
	if responses == nil {
		return
	}

	respMap := responses.Map()
	statuses := make([]int, 0, len(respMap))
	byStatus := make(map[int]*openapi3.ResponseRef, len(respMap))
	for code, rref := range respMap {
		status := parseStatus(code)
		byStatus[status] = rref
		statuses = append(statuses, status)
	}
	sort.Ints(statuses)

	for _, status := range statuses {
		rref := byStatus[status]
		if rref == nil || rref.Value == nil {
			continue
		}
		resp := ir.Response{Status: status}
		if rref.Value.Description != nil {
			resp.Doc = *rref.Value.Description
		}
		if media := pickMediaType(rref.Value.Content); media != nil && media.Schema != nil {
			at := base.Child(ir.ResponseSegment(status)).Child(ir.BodySegment())
			typ := t.typeOf(media.Schema, at, ptr+"/responses/"+strconv.Itoa(status))
			resp.Type = &typ
		}
		out.Responses = append(out.Responses, resp)
	}
}

// pickMediaType prefers application/json, falling back to the
// lexicographically-first content type.
func pickMediaType(content openapi3.Content) *openapi3.MediaType {
	if len(content) == 0 {
		return nil
	}
	if mt, ok := content["application/json"]; ok {
		return mt
	}
	keys := make([]string, 0, len(content))
	for k := range content {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return content[keys[0]]
}

// parseStatus maps a response key to a status code. The "default" response
// sorts first as status 0.
func parseStatus(code string) int {
	if n, err := strconv.Atoi(code); err == nil {
		return n
	}

	return 0
}

// deriveOperationID invents a deterministic identifier for operations that
// omit operationId: the lower-case method joined with the path segments.
func deriveOperationID(method string, tpl ir.PathTemplate) string {
	parts := []string{strings.ToLower(method)}
	for _, seg := range tpl.Segments {
		if seg.IsParam() {
			parts = append(parts, seg.Param)
		} else if seg.Literal != "" {
			parts = append(parts, seg.Literal)
		}
	}

	return strings.Join(parts, "_")
}

func joinDoc(summary, description string) string {
	switch {
	case summary == "":
		return description
	case description == "":
		return summary
	default:
		return summary + "\n\n" + description
	}
}

// escapePointerToken escapes a path for use inside a JSON pointer.
func escapePointerToken(s string) string {
	s = strings.ReplaceAll(s, "~", "~0")

	return strings.ReplaceAll(s, "/", "~1")
}
