package nmea

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Field is one comma-separated sentence value. The set of implementations
// is closed: Float, Char, Uint8, Uint16 and TimeOfDay.
type Field interface {
	Type() FieldType
	// appendText appends the wire rendering. The value must have passed check.
	appendText(b []byte) []byte
	// check reports whether the value has a wire rendering at all.
	check() error
}

type (
	Float  float32
	Char   rune
	Uint8  uint8
	Uint16 uint16
)

// TimeOfDay is a UTC time of day rendered as hhmmss.
type TimeOfDay struct {
	Hour   uint8
	Minute uint8
	Second uint8
}

func (Float) Type() FieldType     { return FieldFloat }
func (Char) Type() FieldType      { return FieldChar }
func (Uint8) Type() FieldType     { return FieldUint8 }
func (Uint16) Type() FieldType    { return FieldUint16 }
func (TimeOfDay) Type() FieldType { return FieldTimeOfDay }

func (f Float) appendText(b []byte) []byte {
	return strconv.AppendFloat(b, float64(f), 'f', -1, 32)
}

func (c Char) appendText(b []byte) []byte { return append(b, byte(c)) }

func (u Uint8) appendText(b []byte) []byte { return strconv.AppendUint(b, uint64(u), 10) }

func (u Uint16) appendText(b []byte) []byte { return strconv.AppendUint(b, uint64(u), 10) }

func (t TimeOfDay) appendText(b []byte) []byte {
	return append(b,
		'0'+t.Hour/10, '0'+t.Hour%10,
		'0'+t.Minute/10, '0'+t.Minute%10,
		'0'+t.Second/10, '0'+t.Second%10,
	)
}

func (f Float) check() error {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("non-finite float %v", v)
	}
	return nil
}

func (c Char) check() error {
	if !isFieldChar(rune(c)) {
		return fmt.Errorf("character %q cannot appear in a field", rune(c))
	}
	return nil
}

func (Uint8) check() error  { return nil }
func (Uint16) check() error { return nil }

func (t TimeOfDay) check() error {
	if t.Hour > 23 || t.Minute > 59 || t.Second > 59 {
		return fmt.Errorf("time of day %02d:%02d:%02d out of range", t.Hour, t.Minute, t.Second)
	}
	return nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// isFieldChar reports whether r is printable ASCII and not a framing or
// separator character.
func isFieldChar(r rune) bool {
	if r < 0x21 || r > 0x7E {
		return false
	}
	switch r {
	case ',', '*', '$':
		return false
	}
	return true
}

// FieldText renders a single field the way Encode does.
func FieldText(f Field) (string, error) {
	if f == nil {
		return "", fmt.Errorf("%w: nil field", ErrFieldTypeMismatch)
	}
	if err := f.check(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidFieldValue, err)
	}
	return string(f.appendText(nil)), nil
}

// ParseField parses field text as the given type. It accepts exactly the
// renderings Encode produces.
func ParseField(t FieldType, s string) (Field, error) {
	var (
		f  Field
		ok bool
	)
	switch t {
	case FieldFloat:
		f, ok = parseFloat(s)
	case FieldChar:
		f, ok = parseChar(s)
	case FieldUint8:
		var v uint64
		v, ok = parseUint(s, 8)
		f = Uint8(v)
	case FieldUint16:
		var v uint64
		v, ok = parseUint(s, 16)
		f = Uint16(v)
	case FieldTimeOfDay:
		f, ok = parseTimeOfDay(s)
	default:
		return nil, fmt.Errorf("%w: unknown field type %d", ErrFieldTypeMismatch, uint8(t))
	}
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a valid %s", ErrFieldTypeMismatch, s, t)
	}
	return f, nil
}

// parseFloat accepts plain decimal text only: an optional leading '-', at
// least one integer digit, and optionally '.' followed by at least one
// digit. Zero padding is allowed so fixed-width dddmm.mmm coordinates
// decode. Exponents, hex floats and "NaN" are refused.
func parseFloat(s string) (Float, bool) {
	num := strings.TrimPrefix(s, "-")
	whole, frac, hasDot := strings.Cut(num, ".")
	if !allDigits(whole) || (hasDot && !allDigits(frac)) {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 32)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return Float(v), true
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func parseChar(s string) (Char, bool) {
	if len(s) != 1 || !isFieldChar(rune(s[0])) {
		return 0, false
	}
	return Char(s[0]), true
}

// parseUint rejects signs, empty text and leading zeros.
func parseUint(s string, bits int) (uint64, bool) {
	if !allDigits(s) || (len(s) > 1 && s[0] == '0') {
		return 0, false
	}
	v, err := strconv.ParseUint(s, 10, bits)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseTimeOfDay(s string) (TimeOfDay, bool) {
	if len(s) != 6 {
		return TimeOfDay{}, false
	}
	var d [6]uint8
	for i := 0; i < 6; i++ {
		if s[i] < '0' || s[i] > '9' {
			return TimeOfDay{}, false
		}
		d[i] = s[i] - '0'
	}
	t := TimeOfDay{Hour: d[0]*10 + d[1], Minute: d[2]*10 + d[3], Second: d[4]*10 + d[5]}
	if t.check() != nil {
		return TimeOfDay{}, false
	}
	return t, true
}
