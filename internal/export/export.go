// Package export renders decoded sentences as structured documents with
// schema field names, in JSON, YAML, CBOR or a one-line text form.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"

	"nmea-ng/internal/nmea"
)

const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatCBOR = "cbor"
)

// Formats lists every supported output format.
func Formats() []string {
	return []string{FormatText, FormatJSON, FormatYAML, FormatCBOR}
}

// Document is the structured form of one sentence.
type Document struct {
	Talker string  `json:"talker" yaml:"talker" cbor:"talker"`
	Kind   string  `json:"kind" yaml:"kind" cbor:"kind"`
	Fields []Field `json:"fields" yaml:"fields" cbor:"fields"`
}

// Field is one named sentence value. Value holds a float32, a uint8 or
// uint16, a one-character string, or an "hh:mm:ss" string.
type Field struct {
	Name  string `json:"name" yaml:"name" cbor:"name"`
	Type  string `json:"type" yaml:"type" cbor:"type"`
	Value any    `json:"value" yaml:"value" cbor:"value"`
}

// FromSentence builds the document for a sentence that satisfies its schema.
func FromSentence(s nmea.Sentence) (Document, error) {
	if err := s.Validate(); err != nil {
		return Document{}, err
	}
	code, _ := s.Talker.Code()
	doc := Document{Talker: code, Kind: s.Kind.Name(), Fields: make([]Field, len(s.Fields))}
	for i, spec := range s.Kind.Schema() {
		doc.Fields[i] = Field{Name: spec.Name, Type: spec.Type.String(), Value: value(s.Fields[i])}
	}
	return doc, nil
}

func value(f nmea.Field) any {
	switch v := f.(type) {
	case nmea.Float:
		return float32(v)
	case nmea.Char:
		return string(rune(v))
	case nmea.Uint8:
		return uint8(v)
	case nmea.Uint16:
		return uint16(v)
	case nmea.TimeOfDay:
		return v.String()
	default:
		return nil
	}
}

// Encoder writes documents to an output stream. Close flushes anything
// still buffered; it does not close the underlying writer.
type Encoder interface {
	Encode(doc Document) error
	Close() error
}

// NewEncoder returns an encoder for the named format.
func NewEncoder(format string, w io.Writer) (Encoder, error) {
	switch format {
	case FormatText:
		return textEncoder{w: w}, nil
	case FormatJSON:
		return jsonEncoder{enc: json.NewEncoder(w)}, nil
	case FormatYAML:
		return yamlEncoder{enc: yaml.NewEncoder(w)}, nil
	case FormatCBOR:
		return cborEncoder{enc: encMode.NewEncoder(w)}, nil
	default:
		return nil, fmt.Errorf("export: unknown format %q (want one of %s)", format, strings.Join(Formats(), ", "))
	}
}

type textEncoder struct {
	w io.Writer
}

// Encode writes "GP GGA Latitude=0 LatitudeHemisphere=N ...".
func (e textEncoder) Encode(doc Document) error {
	var b strings.Builder
	b.WriteString(doc.Talker)
	b.WriteByte(' ')
	b.WriteString(doc.Kind)
	for _, f := range doc.Fields {
		fmt.Fprintf(&b, " %s=%v", f.Name, f.Value)
	}
	b.WriteByte('\n')
	_, err := io.WriteString(e.w, b.String())
	return err
}

func (textEncoder) Close() error { return nil }

type jsonEncoder struct {
	enc *json.Encoder
}

func (e jsonEncoder) Encode(doc Document) error {
	return e.enc.Encode(doc)
}

func (jsonEncoder) Close() error { return nil }

type yamlEncoder struct {
	enc *yaml.Encoder
}

func (e yamlEncoder) Encode(doc Document) error {
	return e.enc.Encode(doc)
}

func (e yamlEncoder) Close() error {
	return e.enc.Close()
}

type cborEncoder struct {
	enc *cbor.Encoder
}

func (e cborEncoder) Encode(doc Document) error {
	return e.enc.Encode(doc)
}

func (cborEncoder) Close() error { return nil }

// encMode uses Core Deterministic Encoding: the same document always
// produces the same bytes.
var encMode = func() cbor.EncMode {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("export: CBOR encoder initialization failed: " + err.Error())
	}
	return em
}()
