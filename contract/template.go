package contract

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var paramName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// segment is one slash-separated piece of a path template. Exactly one of
// literal or param is set.
type segment struct {
	literal string
	param   string
}

// Params maps path template parameter names to their unescaped values.
type Params map[string]string

// parseTemplate splits a template such as "/users/{id}" into segments.
func parseTemplate(tmpl string) ([]segment, error) {
	if !strings.HasPrefix(tmpl, "/") {
		return nil, fmt.Errorf("%w: %q must start with /", ErrInvalidTemplate, tmpl)
	}
	if tmpl == "/" {
		return nil, nil
	}

	parts := strings.Split(tmpl[1:], "/")
	segs := make([]segment, 0, len(parts))
	seen := make(map[string]bool)
	for _, part := range parts {
		switch {
		case part == "":
			return nil, fmt.Errorf("%w: %q has an empty segment", ErrInvalidTemplate, tmpl)
		case strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}"):
			name := part[1 : len(part)-1]
			if !paramName.MatchString(name) {
				return nil, fmt.Errorf("%w: %q has invalid parameter %q", ErrInvalidTemplate, tmpl, name)
			}
			if seen[name] {
				return nil, fmt.Errorf("%w: %q repeats parameter %q", ErrInvalidTemplate, tmpl, name)
			}
			seen[name] = true
			segs = append(segs, segment{param: name})
		case strings.ContainsAny(part, "{}"):
			return nil, fmt.Errorf("%w: %q has a malformed segment %q", ErrInvalidTemplate, tmpl, part)
		default:
			segs = append(segs, segment{literal: part})
		}
	}
	return segs, nil
}

// shape identifies templates that match the same paths, ignoring parameter
// names: "/users/{id}" and "/users/{uid}" share a shape.
func shape(segs []segment) string {
	var b strings.Builder
	for _, seg := range segs {
		b.WriteByte('/')
		if seg.param != "" {
			b.WriteString("{}")
			continue
		}
		b.WriteString(seg.literal)
	}
	if b.Len() == 0 {
		return "/"
	}
	return b.String()
}

// splitPath breaks an escaped request path into unescaped segments.
func splitPath(path string) ([]string, bool) {
	if !strings.HasPrefix(path, "/") {
		return nil, false
	}
	if path == "/" {
		return nil, true
	}

	parts := strings.Split(path[1:], "/")
	for i, part := range parts {
		v, err := url.PathUnescape(part)
		if err != nil {
			return nil, false
		}
		parts[i] = v
	}
	return parts, true
}

// match reports whether parts fit segs and returns the captured parameters.
func match(segs []segment, parts []string) (Params, bool) {
	if len(segs) != len(parts) {
		return nil, false
	}

	params := make(Params)
	for i, seg := range segs {
		if seg.param == "" {
			if seg.literal != parts[i] {
				return nil, false
			}
			continue
		}
		if parts[i] == "" {
			return nil, false
		}
		params[seg.param] = parts[i]
	}
	return params, true
}

// moreSpecific reports whether a should win over b when both match the same
// path: the first position where one has a literal and the other a
// parameter decides.
func moreSpecific(a, b []segment) bool {
	for i := range a {
		aLit, bLit := a[i].param == "", b[i].param == ""
		if aLit != bLit {
			return aLit
		}
	}
	return false
}
