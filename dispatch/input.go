package dispatch

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/bjaus/usersapi/contract"
	"github.com/bjaus/usersapi/schema"
)

// Request parts, as seen by handler request structs.
const (
	partPath  = "path"
	partQuery = "query"
	partBody  = "body"
)

// readInput validates every declared part and returns the normalized
// values keyed by part. Issue paths are prefixed with the part name.
func (d *Dispatcher[S]) readInput(r *http.Request, c *contract.Contract, params contract.Params) (map[string]any, []schema.Issue) {
	input := make(map[string]any, 3)
	var issues []schema.Issue

	check := func(part string, s schema.Schema, raw any) {
		res := schema.Validate(s, raw)
		if !res.OK() {
			for _, issue := range res.Issues() {
				issue.Path = rootAt(part, issue.Path)
				issues = append(issues, issue)
			}
			return
		}
		if v := res.Value(); v != nil {
			input[part] = v
		}
	}

	if s := c.Input.Path; s != nil {
		raw := make(map[string]any, len(params))
		for k, v := range params {
			raw[k] = v
		}
		check(partPath, *s, raw)
	}

	if s := c.Input.Query; s != nil {
		check(partQuery, *s, queryValue(r.URL.Query()))
	}

	if s := c.Input.Body; s != nil {
		raw, present, issue := d.readBody(r, c.Input)
		switch {
		case issue != nil:
			issues = append(issues, *issue)
		case !present && schema.IsOptional(s):
		case !present:
			issues = append(issues, schema.Issue{Path: partBody, Code: schema.CodeRequired, Message: "is required"})
		default:
			check(partBody, s, raw)
		}
	}

	return input, issues
}

// readBody decodes the request body with the decoder for its content type.
// present is false for an empty body.
func (d *Dispatcher[S]) readBody(r *http.Request, in contract.Input) (raw any, present bool, issue *schema.Issue) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, false, &schema.Issue{
				Path:    partBody,
				Code:    schema.CodeTooBig,
				Message: fmt.Sprintf("must be at most %d bytes", tooLarge.Limit),
			}
		}
		return nil, false, &schema.Issue{Path: partBody, Code: schema.CodeMalformed, Message: "could not be read"}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, false, nil
	}

	mt, err := mediaType(r.Header.Get("Content-Type"))
	if err != nil || !in.AcceptsBody(mt) {
		return nil, false, &schema.Issue{
			Path:    partBody,
			Code:    schema.CodeUnsupportedMediaType,
			Message: fmt.Sprintf("content type %q is not accepted; use one of %s", r.Header.Get("Content-Type"), strings.Join(in.BodyTypes, ", ")),
		}
	}

	dec, _ := d.codecs.decoderFor(mt)
	if err := dec.Decode(bytes.NewReader(data), &raw); err != nil {
		return nil, false, &schema.Issue{
			Path:    partBody,
			Code:    schema.CodeMalformed,
			Message: fmt.Sprintf("is not valid %s: %v", mt, err),
		}
	}
	return raw, true, nil
}

// queryValue turns query parameters into an object: a parameter given
// once is a string, a repeated one an array of strings.
func queryValue(q url.Values) map[string]any {
	out := make(map[string]any, len(q))
	for k, vs := range q {
		if len(vs) == 1 {
			out[k] = vs[0]
			continue
		}
		arr := make([]any, len(vs))
		for i, v := range vs {
			arr[i] = v
		}
		out[k] = arr
	}
	return out
}

// rootAt roots an issue path at the request part it came from.
func rootAt(part, path string) string {
	switch {
	case path == "":
		return part
	case strings.HasPrefix(path, "["):
		return part + path
	default:
		return part + "." + path
	}
}
