package ir

import "strings"

// ParamLocation identifies where an operation parameter travels.
type ParamLocation string

const (
	// InPath parameters appear in the path template.
	InPath ParamLocation = "path"

	// InQuery parameters appear in the query string.
	InQuery ParamLocation = "query"

	// InHeader parameters appear as HTTP headers.
	InHeader ParamLocation = "header"

	// InCookie parameters appear as cookies.
	InCookie ParamLocation = "cookie"
)

// PathSegment is one piece of a parsed path template: either a literal or
// a parameter placeholder. Exactly one of Literal, Param is set.
type PathSegment struct {
	Literal string
	Param   string
}

// IsParam reports whether the segment is a parameter placeholder.
func (s PathSegment) IsParam() bool {
	return s.Param != ""
}

// PathTemplate is a parsed operation path.
type PathTemplate struct {
	// Raw is the path as written in the document, e.g. "/users/{id}".
	Raw string

	// Segments are the parsed pieces between slashes, in order.
	Segments []PathSegment
}

// ParsePathTemplate splits an OpenAPI path into literal and parameter
// segments. "{name}" pieces become parameters; everything else is literal.
func ParsePathTemplate(raw string) PathTemplate {
	tpl := PathTemplate{Raw: raw}
	for _, part := range strings.Split(strings.TrimPrefix(raw, "/"), "/") {
		if strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") && len(part) > 2 {
			tpl.Segments = append(tpl.Segments, PathSegment{Param: part[1 : len(part)-1]})
		} else {
			tpl.Segments = append(tpl.Segments, PathSegment{Literal: part})
		}
	}

	return tpl
}

// HasParam reports whether the template contains the named parameter.
func (t PathTemplate) HasParam(name string) bool {
	for _, s := range t.Segments {
		if s.Param == name {
			return true
		}
	}

	return false
}

// Parameter describes one operation parameter.
type Parameter struct {
	Name     string
	In       ParamLocation
	Required bool
	Type     Type
	Doc      string
}

// RequestBody describes an operation request body.
type RequestBody struct {
	Required bool
	Type     Type
	Doc      string
}

// Response describes one operation response. Type is nil when the response
// has no body.
type Response struct {
	Status int
	Type   *Type
	Doc    string
}

// Operation is one HTTP operation: method, parsed path, parameters, request
// body, and responses.
type Operation struct {
	// Method is the upper-case HTTP method.
	Method string

	// Path is the parsed path template.
	Path PathTemplate

	// ID is the operation identifier. When the document omits operationId,
	// the transformer derives one from the method and path.
	ID string

	// Tag is the first resource tag of the operation, if any.
	Tag string

	// Resource is the x-resource-name annotation, if any.
	Resource string

	// Doc combines the operation summary and description.
	Doc string

	// Deprecated marks the operation as deprecated.
	Deprecated bool

	// Parameters in document order: path-level parameters first, then
	// operation-level ones.
	Parameters []Parameter

	// RequestBody is nil when the operation takes no body.
	RequestBody *RequestBody

	// Responses ordered by ascending status code.
	Responses []Response
}

// Response returns the response for the given status, if present.
func (o *Operation) Response(status int) (*Response, bool) {
	for i := range o.Responses {
		if o.Responses[i].Status == status {
			return &o.Responses[i], true
		}
	}

	return nil, false
}
