package nmea

import "fmt"

// FieldType tags the variant a schema position expects.
type FieldType uint8

const (
	FieldFloat FieldType = iota + 1
	FieldChar
	FieldUint8
	FieldUint16
	FieldTimeOfDay
)

func (t FieldType) String() string {
	switch t {
	case FieldFloat:
		return "float"
	case FieldChar:
		return "char"
	case FieldUint8:
		return "uint8"
	case FieldUint16:
		return "uint16"
	case FieldTimeOfDay:
		return "time-of-day"
	default:
		return fmt.Sprintf("FieldType(%d)", uint8(t))
	}
}

// FieldSpec describes one schema position.
type FieldSpec struct {
	Name string
	Type FieldType
}

// SentenceKind is the three-letter sentence type.
type SentenceKind uint8

const (
	KindGGA SentenceKind = iota + 1
	KindGLL
	KindGSA
	KindGSV
)

// Kinds lists every supported sentence kind.
func Kinds() []SentenceKind {
	return []SentenceKind{KindGGA, KindGLL, KindGSA, KindGSV}
}

type kindInfo struct {
	name   string
	fields []FieldSpec
}

// schemas is the single source of arity and field typing for both
// directions of the codec. It is never modified after init.
var schemas = [...]kindInfo{
	KindGGA: {
		name: "GGA",
		fields: []FieldSpec{
			{"Latitude", FieldFloat},
			{"LatitudeHemisphere", FieldChar},
			{"Longitude", FieldFloat},
			{"LongitudeHemisphere", FieldChar},
			{"PositionTime", FieldTimeOfDay},
			{"QualityIndicator", FieldUint8},
			{"SatellitesCount", FieldUint8},
			{"HorizontalDilution", FieldFloat},
			{"AntennaAltitude", FieldFloat},
			{"AltitudeUnits", FieldChar},
			{"GeoidalSeparation", FieldFloat},
			{"GeoidalSeparationUnits", FieldChar},
			{"AgeOfDifferentialData", FieldFloat},
			{"DifferentialReferenceStationID", FieldUint16},
		},
	},
	KindGLL: {
		name: "GLL",
		fields: []FieldSpec{
			{"Latitude", FieldFloat},
			{"LatitudeHemisphere", FieldChar},
			{"Longitude", FieldFloat},
			{"LongitudeHemisphere", FieldChar},
			{"PositionTime", FieldTimeOfDay},
			{"Status", FieldChar},
		},
	},
	KindGSA: {
		name:   "GSA",
		fields: gsaFields(),
	},
	KindGSV: {
		name:   "GSV",
		fields: gsvFields(),
	},
}

// GSA: selection mode, fix mode, twelve satellite slots, then DOPs.
func gsaFields() []FieldSpec {
	fields := []FieldSpec{
		{"SelectionMode", FieldChar},
		{"FixMode", FieldUint8},
	}
	for i := 1; i <= 12; i++ {
		fields = append(fields, FieldSpec{fmt.Sprintf("SatelliteID%02d", i), FieldUint8})
	}
	return append(fields,
		FieldSpec{"PDOP", FieldFloat},
		FieldSpec{"HDOP", FieldFloat},
		FieldSpec{"VDOP", FieldFloat},
	)
}

// GSV: message counters, then four satellite blocks.
func gsvFields() []FieldSpec {
	fields := []FieldSpec{
		{"MessagesTotal", FieldUint8},
		{"MessageNumber", FieldUint8},
		{"SatellitesInView", FieldUint8},
	}
	for i := 1; i <= 4; i++ {
		fields = append(fields,
			FieldSpec{fmt.Sprintf("SatelliteID%d", i), FieldUint8},
			FieldSpec{fmt.Sprintf("Elevation%d", i), FieldUint8},
			FieldSpec{fmt.Sprintf("Azimuth%d", i), FieldUint16},
			FieldSpec{fmt.Sprintf("SNR%d", i), FieldUint8},
		)
	}
	return fields
}

func (k SentenceKind) valid() bool {
	return k != 0 && int(k) < len(schemas)
}

// Name returns the three-letter wire name, or "" for an unknown kind.
func (k SentenceKind) Name() string {
	if !k.valid() {
		return ""
	}
	return schemas[k].name
}

func (k SentenceKind) String() string {
	if !k.valid() {
		return fmt.Sprintf("SentenceKind(%d)", uint8(k))
	}
	return schemas[k].name
}

// ElementsCount is the number of fields a sentence of this kind carries.
func (k SentenceKind) ElementsCount() int {
	if !k.valid() {
		return 0
	}
	return len(schemas[k].fields)
}

// Schema returns the ordered field specs of the kind. The returned slice is
// a copy and may be modified by the caller.
func (k SentenceKind) Schema() []FieldSpec {
	if !k.valid() {
		return nil
	}
	return append([]FieldSpec(nil), schemas[k].fields...)
}

// FieldIndex returns the schema position of the named field, or -1.
func (k SentenceKind) FieldIndex(name string) int {
	if !k.valid() {
		return -1
	}
	for i, f := range schemas[k].fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// ParseSentenceKind maps a three-letter wire name back to its kind.
func ParseSentenceKind(name string) (SentenceKind, error) {
	for _, k := range Kinds() {
		if schemas[k].name == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSentenceKind, name)
}
