package nmea

// DefaultFields returns the field list of an empty report of the given kind:
// zero numbers and times, northern/eastern hemispheres, metre units, GLL
// status 'A', GSA automatic selection with no fix. It returns nil for an
// unknown kind.
func DefaultFields(kind SentenceKind) []Field {
	if !kind.valid() {
		return nil
	}
	fields := make([]Field, 0, kind.ElementsCount())
	for _, spec := range schemas[kind].fields {
		fields = append(fields, zeroField(spec.Type))
	}

	set := func(name string, f Field) {
		fields[kind.FieldIndex(name)] = f
	}
	switch kind {
	case KindGGA:
		set("LatitudeHemisphere", Char('N'))
		set("LongitudeHemisphere", Char('E'))
		set("AltitudeUnits", Char('M'))
		set("GeoidalSeparationUnits", Char('M'))
	case KindGLL:
		set("LatitudeHemisphere", Char('N'))
		set("LongitudeHemisphere", Char('E'))
		set("Status", Char('A'))
	case KindGSA:
		set("SelectionMode", Char('A'))
		set("FixMode", Uint8(1))
	}
	return fields
}

// NewSentence returns a sentence of the given kind filled with DefaultFields.
func NewSentence(talker Talker, kind SentenceKind) Sentence {
	return Sentence{Talker: talker, Kind: kind, Fields: DefaultFields(kind)}
}

func zeroField(t FieldType) Field {
	switch t {
	case FieldFloat:
		return Float(0)
	case FieldChar:
		return Char('0')
	case FieldUint8:
		return Uint8(0)
	case FieldUint16:
		return Uint16(0)
	case FieldTimeOfDay:
		return TimeOfDay{}
	default:
		return nil
	}
}
