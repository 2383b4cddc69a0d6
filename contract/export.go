package contract

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"

	"github.com/bjaus/usersapi/schema"
)

// Export builds an OpenAPI 3.0 document from every bound contract. It reads
// only the bindings, so it can be called at any time.
func (b *Binder) Export() *openapi3.T {
	doc := &openapi3.T{
		OpenAPI: "3.0.0",
		Info: &openapi3.Info{
			Title:       b.title,
			Version:     b.version,
			Description: b.description,
		},
		Paths: openapi3.NewPaths(),
	}

	seen := make(map[string]bool)
	for _, c := range b.Contracts() {
		item := doc.Paths.Value(c.Path)
		if item == nil {
			item = &openapi3.PathItem{}
			doc.Paths.Set(c.Path, item)
		}
		item.SetOperation(c.Method, buildOperation(c))

		for _, tag := range c.Tags {
			if !seen[tag] {
				seen[tag] = true
				doc.Tags = append(doc.Tags, &openapi3.Tag{Name: tag})
			}
		}
	}
	return doc
}

func buildOperation(c *Contract) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.Summary = c.Summary
	op.Description = c.Description
	op.Tags = c.Tags
	op.OperationID = c.OperationID
	op.Deprecated = c.Deprecated

	if c.Input.Path != nil {
		for _, f := range c.Input.Path.Fields() {
			p := openapi3.NewPathParameter(f.Name).
				WithSchema(f.Schema.OpenAPI()).
				WithDescription(f.Schema.Doc().Description)
			op.AddParameter(p)
		}
	}
	if c.Input.Query != nil {
		for _, f := range c.Input.Query.Fields() {
			p := openapi3.NewQueryParameter(f.Name).
				WithSchema(f.Schema.OpenAPI()).
				WithDescription(f.Schema.Doc().Description).
				WithRequired(!schema.IsOptional(f.Schema))
			op.AddParameter(p)
		}
	}
	if c.Input.Body != nil {
		body := openapi3.NewRequestBody().
			WithRequired(!schema.IsOptional(c.Input.Body)).
			WithContent(openapi3.NewContentWithSchema(c.Input.Body.OpenAPI(), c.Input.BodyTypes))
		op.RequestBody = &openapi3.RequestBodyRef{Value: body}
	}

	statuses := c.Statuses()
	opts := make([]openapi3.NewResponsesOption, 0, len(statuses))
	for _, status := range statuses {
		r := c.responses[status]
		resp := openapi3.NewResponse().WithDescription(r.Description)
		if r.Schema != nil {
			resp.WithContent(openapi3.NewContentWithSchema(r.Schema.OpenAPI(), []string{r.ContentType}))
		}
		opts = append(opts, openapi3.WithStatus(status, &openapi3.ResponseRef{Value: resp}))
	}
	op.Responses = openapi3.NewResponses(opts...)

	return op
}

// WriteJSON writes the exported document as indented JSON.
func (b *Binder) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(b.Export())
}

// WriteYAML writes the exported document as YAML, keeping the key order of
// the JSON form.
func (b *Binder) WriteYAML(w io.Writer) error {
	raw, err := json.Marshal(b.Export())
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	var node yaml.Node
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return fmt.Errorf("convert document: %w", err)
	}
	blockStyle(&node)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	return enc.Close()
}

// blockStyle clears the flow and quoting styles that parsing JSON leaves on
// every node. The encoder re-quotes scalars that need it.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, child := range n.Content {
		blockStyle(child)
	}
}
