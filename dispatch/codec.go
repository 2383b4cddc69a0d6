package dispatch

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"

	"gopkg.in/yaml.v3"

	"github.com/bjaus/usersapi/contract"
)

// Encoder writes a validated response value in one wire format.
type Encoder interface {
	ContentType() string
	Encode(w io.Writer, v any) error
}

// Decoder reads a request body into a generic value: maps, slices,
// strings, booleans, numbers and nil.
type Decoder interface {
	ContentType() string
	Decode(r io.Reader, v *any) error
}

// jsonCodec implements both Encoder and Decoder for JSON. Numbers decode
// as json.Number so integer checks see the literal digits.
type jsonCodec struct{}

func (jsonCodec) ContentType() string { return contract.ContentTypeJSON }

func (jsonCodec) Encode(w io.Writer, v any) error {
	return json.NewEncoder(w).Encode(v)
}

func (jsonCodec) Decode(r io.Reader, v *any) error {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after top-level value")
	}
	return nil
}

// yamlCodec implements both Encoder and Decoder for YAML. A body holds a
// single document.
type yamlCodec struct{}

func (yamlCodec) ContentType() string { return contract.ContentTypeYAML }

func (yamlCodec) Encode(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func (yamlCodec) Decode(r io.Reader, v *any) error {
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(v); err != nil {
		return err
	}
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return errors.New("unexpected document after the first")
	}
	return nil
}

// codecRegistry holds the encoders and decoders by media type. JSON and
// YAML are always present; user codecs replace them on a type clash.
type codecRegistry struct {
	encoders map[string]Encoder
	decoders map[string]Decoder
}

func newCodecRegistry(userEncoders []Encoder, userDecoders []Decoder) *codecRegistry {
	cr := &codecRegistry{
		encoders: make(map[string]Encoder, 2+len(userEncoders)),
		decoders: make(map[string]Decoder, 2+len(userDecoders)),
	}
	for _, enc := range append([]Encoder{jsonCodec{}, yamlCodec{}}, userEncoders...) {
		cr.encoders[enc.ContentType()] = enc
	}
	for _, dec := range append([]Decoder{jsonCodec{}, yamlCodec{}}, userDecoders...) {
		cr.decoders[dec.ContentType()] = dec
	}
	return cr
}

// encoderFor returns the encoder for a declared response content type.
func (cr *codecRegistry) encoderFor(contentType string) (Encoder, bool) {
	enc, ok := cr.encoders[contentType]
	return enc, ok
}

// decoderFor returns the decoder for a declared body content type.
func (cr *codecRegistry) decoderFor(contentType string) (Decoder, bool) {
	dec, ok := cr.decoders[contentType]
	return dec, ok
}

// check reports a content type of c that no codec can serve.
func (cr *codecRegistry) check(c *contract.Contract) error {
	for _, ct := range c.Input.BodyTypes {
		if _, ok := cr.decoderFor(ct); !ok {
			return fmt.Errorf("%w: %s body %q", ErrNoCodec, c, ct)
		}
	}
	for _, status := range c.Statuses() {
		r, _ := c.Response(status)
		if r.Schema == nil {
			continue
		}
		if _, ok := cr.encoderFor(r.ContentType); !ok {
			return fmt.Errorf("%w: %s response %d %q", ErrNoCodec, c, status, r.ContentType)
		}
	}
	return nil
}

// mediaType strips parameters such as charset from a Content-Type header.
// An empty header means JSON.
func mediaType(header string) (string, error) {
	if header == "" {
		return contract.ContentTypeJSON, nil
	}
	mt, _, err := mime.ParseMediaType(header)
	return mt, err
}

// encode renders v fully before anything is written, so an encoding
// failure can still become a clean error response.
func encode(enc Encoder, v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := enc.Encode(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
