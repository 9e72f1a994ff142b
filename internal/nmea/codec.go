package nmea

import (
	"fmt"
	"strings"
)

const (
	startDelim    = '$'
	checksumDelim = '*'
	fieldSep      = ','
	terminator    = "\r\n"
)

// Sentence is one decoded or to-be-encoded NMEA sentence.
type Sentence struct {
	Talker Talker
	Kind   SentenceKind
	Fields []Field
}

// Field returns the value at the named schema position.
func (s Sentence) Field(name string) (Field, bool) {
	i := s.Kind.FieldIndex(name)
	if i < 0 || i >= len(s.Fields) {
		return nil, false
	}
	return s.Fields[i], true
}

// Encode renders the sentence with its checksum and CRLF terminator.
func (s Sentence) Encode() (string, error) {
	return Encode(s.Talker, s.Kind, s.Fields)
}

// Validate checks the sentence against its kind's schema without rendering it.
func (s Sentence) Validate() error {
	if _, err := s.Talker.Code(); err != nil {
		return err
	}
	return validateFields(s.Kind, s.Fields)
}

func validateFields(kind SentenceKind, fields []Field) error {
	if !kind.valid() {
		return fmt.Errorf("%w: kind %d", ErrUnknownSentenceKind, uint8(kind))
	}
	schema := schemas[kind].fields
	if len(fields) != len(schema) {
		return &ArityError{Kind: kind, Expected: len(schema), Actual: len(fields)}
	}
	for i, f := range fields {
		spec := schema[i]
		if f == nil || f.Type() != spec.Type {
			var actual FieldType
			if f != nil {
				actual = f.Type()
			}
			return &FieldError{Position: i, Name: spec.Name, Expected: spec.Type, Actual: actual, Err: ErrFieldTypeMismatch}
		}
		if err := f.check(); err != nil {
			return &FieldError{Position: i, Name: spec.Name, Expected: spec.Type, Actual: spec.Type, Err: ErrInvalidFieldValue}
		}
	}
	return nil
}

// Encode renders talker, kind and fields as a wire sentence:
//
//	$<talker><kind>,<f1>,...,<fN>*<CC>\r\n
//
// Nothing is returned unless every field matches the kind's schema.
func Encode(talker Talker, kind SentenceKind, fields []Field) (string, error) {
	code, err := talker.Code()
	if err != nil {
		return "", err
	}
	if err := validateFields(kind, fields); err != nil {
		return "", err
	}

	b := make([]byte, 0, 16+len(fields)*8)
	b = append(b, startDelim)
	b = append(b, code...)
	b = append(b, schemas[kind].name...)
	for _, f := range fields {
		b = append(b, fieldSep)
		b = f.appendText(b)
	}
	ck := Checksum(b[1:])
	b = append(b, checksumDelim, hexDigits[ck>>4], hexDigits[ck&0x0F])
	b = append(b, terminator...)
	return string(b), nil
}

// Decode parses one wire sentence. The checksum is verified before any field
// is looked at, and the first failing step ends decoding; a Sentence is only
// returned when every field parsed as its schema type.
//
// The line may end right after the checksum or carry "\r\n" or "\n".
func Decode(line string) (Sentence, error) {
	if len(line) == 0 || line[0] != startDelim {
		return Sentence{}, fmt.Errorf("%w: missing '$'", ErrMalformedFrame)
	}
	star := strings.LastIndexByte(line, checksumDelim)
	if star == -1 {
		return Sentence{}, fmt.Errorf("%w: missing '*'", ErrMalformedFrame)
	}
	body := line[1:star]

	claimed, err := splitChecksum(line[star+1:])
	if err != nil {
		return Sentence{}, err
	}
	if got := checksumString(body); got != claimed {
		return Sentence{}, &ChecksumError{Expected: got, Actual: claimed}
	}

	tokens := strings.Split(body, string(fieldSep))
	head := tokens[0]
	if len(head) < 2 {
		return Sentence{}, fmt.Errorf("%w: %q", ErrUnknownTalker, head)
	}
	talker, err := ParseTalker(head[:2])
	if err != nil {
		return Sentence{}, err
	}
	kind, err := ParseSentenceKind(head[2:])
	if err != nil {
		return Sentence{}, err
	}

	texts := tokens[1:]
	schema := schemas[kind].fields
	if len(texts) != len(schema) {
		return Sentence{}, &ArityError{Kind: kind, Expected: len(schema), Actual: len(texts)}
	}

	fields := make([]Field, len(schema))
	for i, spec := range schema {
		f, err := ParseField(spec.Type, texts[i])
		if err != nil {
			return Sentence{}, &FieldError{Position: i, Name: spec.Name, Expected: spec.Type, Text: texts[i], Err: ErrFieldTypeMismatch}
		}
		fields[i] = f
	}
	return Sentence{Talker: talker, Kind: kind, Fields: fields}, nil
}

// splitChecksum parses the text after '*': two hex digits, then an optional
// line terminator and nothing else.
func splitChecksum(rest string) (byte, error) {
	n := 0
	for n < len(rest) {
		if _, ok := hexNibble(rest[n]); !ok {
			break
		}
		n++
	}
	if n != 2 {
		return 0, fmt.Errorf("%w: %q", ErrBadChecksumFormat, rest)
	}
	switch rest[2:] {
	case "", terminator, "\n":
	default:
		return 0, fmt.Errorf("%w: trailing %q after checksum", ErrMalformedFrame, rest[2:])
	}
	ck, _ := parseChecksum(rest[:2])
	return ck, nil
}
