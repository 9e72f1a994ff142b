package nmea

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedFrame      = errors.New("nmea: malformed frame")
	ErrBadChecksumFormat   = errors.New("nmea: bad checksum format")
	ErrChecksumMismatch    = errors.New("nmea: checksum mismatch")
	ErrUnknownTalker       = errors.New("nmea: unknown talker")
	ErrUnknownSentenceKind = errors.New("nmea: unknown sentence kind")
	ErrArityMismatch       = errors.New("nmea: arity mismatch")
	ErrFieldTypeMismatch   = errors.New("nmea: field type mismatch")
	ErrInvalidFieldValue   = errors.New("nmea: invalid field value")
)

// ChecksumError reports a sentence whose claimed checksum differs from the
// one computed over its payload.
type ChecksumError struct {
	Expected byte // computed over the payload
	Actual   byte // claimed by the sentence
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("nmea: checksum mismatch: computed %s, sentence claims %s",
		FormatChecksum(e.Expected), FormatChecksum(e.Actual))
}

func (e *ChecksumError) Unwrap() error { return ErrChecksumMismatch }

// ArityError reports a field count that does not match the sentence kind.
type ArityError struct {
	Kind     SentenceKind
	Expected int
	Actual   int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("nmea: arity mismatch: %s expects %d fields, got %d", e.Kind, e.Expected, e.Actual)
}

func (e *ArityError) Unwrap() error { return ErrArityMismatch }

// FieldError reports a field that does not fit its schema position.
//
// Err is ErrFieldTypeMismatch when the variant (encode) or the text (decode)
// does not match the expected type, and ErrInvalidFieldValue when the variant
// is right but the value cannot be put on the wire.
type FieldError struct {
	Position int // zero-based
	Name     string
	Expected FieldType
	Actual   FieldType // zero on decode, where only Text is known
	Text     string    // decode only
	Err      error
}

func (e *FieldError) Error() string {
	switch {
	case e.Text != "" || e.Actual == 0:
		return fmt.Sprintf("%v: field %d (%s): %q is not a valid %s", e.Err, e.Position, e.Name, e.Text, e.Expected)
	case e.Actual != e.Expected:
		return fmt.Sprintf("%v: field %d (%s): want %s, got %s", e.Err, e.Position, e.Name, e.Expected, e.Actual)
	default:
		return fmt.Sprintf("%v: field %d (%s): %s value cannot be encoded", e.Err, e.Position, e.Name, e.Expected)
	}
}

func (e *FieldError) Unwrap() error { return e.Err }

// ErrorKind returns a short stable label for a codec error, suitable for
// counting and structured logs. Errors from outside the codec yield "other".
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMalformedFrame):
		return "malformed_frame"
	case errors.Is(err, ErrBadChecksumFormat):
		return "bad_checksum_format"
	case errors.Is(err, ErrChecksumMismatch):
		return "checksum_mismatch"
	case errors.Is(err, ErrUnknownTalker):
		return "unknown_talker"
	case errors.Is(err, ErrUnknownSentenceKind):
		return "unknown_sentence_kind"
	case errors.Is(err, ErrArityMismatch):
		return "arity_mismatch"
	case errors.Is(err, ErrFieldTypeMismatch):
		return "field_type_mismatch"
	case errors.Is(err, ErrInvalidFieldValue):
		return "invalid_field_value"
	default:
		return "other"
	}
}
