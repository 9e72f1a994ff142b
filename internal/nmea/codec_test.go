package nmea

import (
	"errors"
	"reflect"
	"testing"
)

func TestEncode_DefaultSentencesGolden(t *testing.T) {
	cases := []struct {
		kind SentenceKind
		want string
	}{
		{KindGGA, "$GPGGA,0,N,0,E,000000,0,0,0,0,M,0,M,0,0*6D\r\n"},
		{KindGLL, "$GPGLL,0,N,0,E,000000,A*1A\r\n"},
		{KindGSA, "$GPGSA,A,1,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0*2E\r\n"},
		{KindGSV, "$GPGSV,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0*49\r\n"},
	}
	for _, tc := range cases {
		t.Run(tc.kind.Name(), func(t *testing.T) {
			got, err := Encode(TalkerGPS, tc.kind, DefaultFields(tc.kind))
			if err != nil {
				t.Fatalf("Encode() error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("Encode()=%q want %q", got, tc.want)
			}
		})
	}
}

func TestEncode_GGAExplicitFields(t *testing.T) {
	fields := []Field{
		Float(0), Char('N'), Float(0), Char('E'),
		TimeOfDay{},
		Uint8(0), Uint8(0),
		Float(0), Float(0), Char('M'),
		Float(0), Char('M'),
		Float(0), Uint16(0),
	}
	got, err := Encode(TalkerGPS, KindGGA, fields)
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	if want := "$GPGGA,0,N,0,E,000000,0,0,0,0,M,0,M,0,0*6D\r\n"; got != want {
		t.Fatalf("Encode()=%q want %q", got, want)
	}
}

func TestEncode_NonDefaultValues(t *testing.T) {
	s := NewSentence(TalkerEchoSounder, KindGLL)
	s.Fields[0] = Float(4916.45)
	s.Fields[2] = Float(12311.12)
	s.Fields[3] = Char('W')
	s.Fields[4] = TimeOfDay{Hour: 22, Minute: 54, Second: 44}

	got, err := s.Encode()
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	if want := "$ESGLL,4916.45,N,12311.12,W,225444,A*30\r\n"; got != want {
		t.Fatalf("Encode()=%q want %q", got, want)
	}
}

func TestEncode_ArityMismatch(t *testing.T) {
	fields := DefaultFields(KindGGA)[:13]
	out, err := Encode(TalkerGPS, KindGGA, fields)
	if out != "" {
		t.Fatalf("expected no output, got %q", out)
	}
	var ae *ArityError
	if !errors.As(err, &ae) {
		t.Fatalf("expected *ArityError, got %v", err)
	}
	if ae.Expected != 14 || ae.Actual != 13 {
		t.Fatalf("arity expected=%d actual=%d want 14/13", ae.Expected, ae.Actual)
	}
	if !errors.Is(err, ErrArityMismatch) {
		t.Fatalf("expected ErrArityMismatch, got %v", err)
	}
}

func TestEncode_FieldTypeMismatch(t *testing.T) {
	fields := DefaultFields(KindGLL)
	fields[4] = Uint8(0) // PositionTime

	_, err := Encode(TalkerGPS, KindGLL, fields)
	var fe *FieldError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FieldError, got %v", err)
	}
	if fe.Position != 4 || fe.Expected != FieldTimeOfDay || fe.Actual != FieldUint8 {
		t.Fatalf("unexpected field error: %+v", fe)
	}
	if !errors.Is(err, ErrFieldTypeMismatch) {
		t.Fatalf("expected ErrFieldTypeMismatch, got %v", err)
	}
}

func TestEncode_NilFieldIsTypeMismatch(t *testing.T) {
	fields := DefaultFields(KindGLL)
	fields[1] = nil
	_, err := Encode(TalkerGPS, KindGLL, fields)
	if !errors.Is(err, ErrFieldTypeMismatch) {
		t.Fatalf("expected ErrFieldTypeMismatch, got %v", err)
	}
}

func TestEncode_UnknownTalker(t *testing.T) {
	_, err := Encode(TalkerNone, KindGLL, DefaultFields(KindGLL))
	if !errors.Is(err, ErrUnknownTalker) {
		t.Fatalf("expected ErrUnknownTalker, got %v", err)
	}
	_, err = Encode(Talker(42), KindGLL, DefaultFields(KindGLL))
	if !errors.Is(err, ErrUnknownTalker) {
		t.Fatalf("expected ErrUnknownTalker for out-of-range talker, got %v", err)
	}
}

func TestEncode_UnknownKind(t *testing.T) {
	_, err := Encode(TalkerGPS, SentenceKind(0), nil)
	if !errors.Is(err, ErrUnknownSentenceKind) {
		t.Fatalf("expected ErrUnknownSentenceKind, got %v", err)
	}
}

func TestEncode_InvalidFieldValues(t *testing.T) {
	cases := []struct {
		name string
		pos  int
		f    Field
	}{
		{"Comma", 1, Char(',')},
		{"Star", 1, Char('*')},
		{"Dollar", 5, Char('$')},
		{"Space", 5, Char(' ')},
		{"NonASCII", 5, Char('é')},
		{"HourRange", 4, TimeOfDay{Hour: 24}},
		{"MinuteRange", 4, TimeOfDay{Minute: 60}},
		{"SecondRange", 4, TimeOfDay{Second: 60}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fields := DefaultFields(KindGLL)
			fields[tc.pos] = tc.f
			out, err := Encode(TalkerGPS, KindGLL, fields)
			if out != "" {
				t.Fatalf("expected no output, got %q", out)
			}
			var fe *FieldError
			if !errors.As(err, &fe) || fe.Position != tc.pos {
				t.Fatalf("expected field error at %d, got %v", tc.pos, err)
			}
			if !errors.Is(err, ErrInvalidFieldValue) {
				t.Fatalf("expected ErrInvalidFieldValue, got %v", err)
			}
		})
	}
}

func TestEncode_NonFiniteFloatRejected(t *testing.T) {
	for _, v := range []float32{float32NaN(), float32Inf(1), float32Inf(-1)} {
		fields := DefaultFields(KindGLL)
		fields[0] = Float(v)
		if _, err := Encode(TalkerGPS, KindGLL, fields); !errors.Is(err, ErrInvalidFieldValue) {
			t.Fatalf("value %v: expected ErrInvalidFieldValue, got %v", v, err)
		}
	}
}

func TestDecode_GLLScenario(t *testing.T) {
	s, err := Decode("$GPGLL,0,N,0,E,000000,A*1A\r\n")
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	want := Sentence{Talker: TalkerGPS, Kind: KindGLL, Fields: DefaultFields(KindGLL)}
	if !reflect.DeepEqual(s, want) {
		t.Fatalf("Decode()=%+v want %+v", s, want)
	}
}

func TestDecode_AllDefaultSentences(t *testing.T) {
	for _, talker := range Talkers() {
		for _, kind := range Kinds() {
			line, err := Encode(talker, kind, DefaultFields(kind))
			if err != nil {
				t.Fatalf("%s/%s: Encode() error: %v", talker, kind, err)
			}
			s, err := Decode(line)
			if err != nil {
				t.Fatalf("%s/%s: Decode(%q) error: %v", talker, kind, line, err)
			}
			if s.Talker != talker || s.Kind != kind {
				t.Fatalf("Decode()=%s/%s want %s/%s", s.Talker, s.Kind, talker, kind)
			}
			if !reflect.DeepEqual(s.Fields, DefaultFields(kind)) {
				t.Fatalf("%s/%s: fields=%v", talker, kind, s.Fields)
			}
		}
	}
}

func TestDecode_RealisticValues(t *testing.T) {
	s, err := Decode("$RDGSA,A,3,4,5,0,9,0,0,24,0,0,0,0,0,2.5,1.3,2.1*0B\r\n")
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if s.Talker != TalkerRadar || s.Kind != KindGSA {
		t.Fatalf("unexpected header %s/%s", s.Talker, s.Kind)
	}
	if f, _ := s.Field("FixMode"); f != Uint8(3) {
		t.Fatalf("FixMode=%v want 3", f)
	}
	if f, _ := s.Field("SatelliteID07"); f != Uint8(24) {
		t.Fatalf("SatelliteID07=%v want 24", f)
	}
	if f, _ := s.Field("HDOP"); f != Float(1.3) {
		t.Fatalf("HDOP=%v want 1.3", f)
	}

	s, err = Decode("$GPGGA,4807.038,N,1131,E,123519,1,8,0.9,545.4,M,46.9,M,0,0*59")
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if f, _ := s.Field("PositionTime"); f != (TimeOfDay{Hour: 12, Minute: 35, Second: 19}) {
		t.Fatalf("PositionTime=%v want 12:35:19", f)
	}
	if f, _ := s.Field("Latitude"); f != Float(4807.038) {
		t.Fatalf("Latitude=%v want 4807.038", f)
	}
}

func TestDecode_ChecksumOffByOne(t *testing.T) {
	_, err := Decode("$GPGLL,0,N,0,E,000000,A*1B\r\n")
	var ce *ChecksumError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *ChecksumError, got %v", err)
	}
	if ce.Expected != 0x1A || ce.Actual != 0x1B {
		t.Fatalf("checksum expected=%02X actual=%02X want 1A/1B", ce.Expected, ce.Actual)
	}
}

func TestDecode_LowercaseChecksumAccepted(t *testing.T) {
	if _, err := Decode("$ESGLL,4916.45,N,12311.12,W,225444,A*30"); err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if _, err := Decode("$GPGGA,0,N,0,E,000000,0,0,0,0,M,0,M,0,0*6d\n"); err != nil {
		t.Fatalf("Decode() lowercase error: %v", err)
	}
}

func TestDecode_Errors(t *testing.T) {
	cases := []struct {
		name string
		line string
		want error
	}{
		{"Empty", "", ErrMalformedFrame},
		{"NoDollar", "GPGLL,0,N,0,E,000000,A*1A\r\n", ErrMalformedFrame},
		{"LeadingSpace", " $GPGLL,0,N,0,E,000000,A*1A\r\n", ErrMalformedFrame},
		{"NoStar", "$GPGLL,0,N,0,E,000000,A\r\n", ErrMalformedFrame},
		{"TrailingGarbage", "$GPGLL,0,N,0,E,000000,A*1A\r\nxx", ErrMalformedFrame},
		{"ShortChecksum", "$GPGLL,0,N,0,E,000000,A*1\r\n", ErrBadChecksumFormat},
		{"LongChecksum", "$GPGLL,0,N,0,E,000000,A*1A0\r\n", ErrBadChecksumFormat},
		{"NonHexChecksum", "$GPGLL,0,N,0,E,000000,A*1G\r\n", ErrBadChecksumFormat},
		{"EmptyChecksum", "$GPGLL,0,N,0,E,000000,A*", ErrBadChecksumFormat},
		{"ChecksumMismatch", "$GPGLL,0,N,0,E,000000,A*00\r\n", ErrChecksumMismatch},
		{"UnknownTalker", withChecksum("XXGLL,0,N,0,E,000000,A"), ErrUnknownTalker},
		{"LowercaseTalker", withChecksum("gpGLL,0,N,0,E,000000,A"), ErrUnknownTalker},
		{"ShortHead", withChecksum("G"), ErrUnknownTalker},
		{"UnknownKind", withChecksum("GPRMC,0,N,0,E,000000,A"), ErrUnknownSentenceKind},
		{"LongKind", withChecksum("GPGLLX,0,N,0,E,000000,A"), ErrUnknownSentenceKind},
		{"MissingKind", withChecksum("GP,0,N,0,E,000000,A"), ErrUnknownSentenceKind},
		{"TooFewFields", withChecksum("GPGLL,0,N,0,E,000000"), ErrArityMismatch},
		{"TooManyFields", withChecksum("GPGLL,0,N,0,E,000000,A,A"), ErrArityMismatch},
		{"NoFields", withChecksum("GPGLL"), ErrArityMismatch},
		{"EmptyFloat", withChecksum("GPGLL,,N,0,E,000000,A"), ErrFieldTypeMismatch},
		{"ExponentFloat", withChecksum("GPGLL,1e3,N,0,E,000000,A"), ErrFieldTypeMismatch},
		{"NaNFloat", withChecksum("GPGLL,NaN,N,0,E,000000,A"), ErrFieldTypeMismatch},
		{"TwoDots", withChecksum("GPGLL,1.2.3,N,0,E,000000,A"), ErrFieldTypeMismatch},
		{"BareLeadingDot", withChecksum("GPGLL,.5,N,0,E,000000,A"), ErrFieldTypeMismatch},
		{"BareTrailingDot", withChecksum("GPGLL,1.,N,0,E,000000,A"), ErrFieldTypeMismatch},
		{"NegativeBareDot", withChecksum("GPGLL,-.5,N,0,E,000000,A"), ErrFieldTypeMismatch},
		{"LoneMinus", withChecksum("GPGLL,-,N,0,E,000000,A"), ErrFieldTypeMismatch},
		{"LongChar", withChecksum("GPGLL,0,NN,0,E,000000,A"), ErrFieldTypeMismatch},
		{"EmptyChar", withChecksum("GPGLL,0,N,0,E,000000,"), ErrFieldTypeMismatch},
		{"ShortTime", withChecksum("GPGLL,0,N,0,E,00000,A"), ErrFieldTypeMismatch},
		{"FractionalTime", withChecksum("GPGLL,0,N,0,E,123519.00,A"), ErrFieldTypeMismatch},
		{"TimeOutOfRange", withChecksum("GPGLL,0,N,0,E,250000,A"), ErrFieldTypeMismatch},
		{"SignedUint", withChecksum("GPGSA,A,+1,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0"), ErrFieldTypeMismatch},
		{"LeadingZeroUint", withChecksum("GPGSA,A,01,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0"), ErrFieldTypeMismatch},
		{"Uint8Overflow", withChecksum("GPGSA,A,256,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0"), ErrFieldTypeMismatch},
		{"Uint16Overflow", withChecksum("GPGGA,0,N,0,E,000000,0,0,0,0,M,0,M,0,65536"), ErrFieldTypeMismatch},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := Decode(tc.line)
			if !errors.Is(err, tc.want) {
				t.Fatalf("Decode(%q) error=%v want %v", tc.line, err, tc.want)
			}
			if s.Fields != nil || s.Talker != TalkerNone || s.Kind != 0 {
				t.Fatalf("expected zero Sentence on error, got %+v", s)
			}
		})
	}
}

func TestDecode_ZeroPaddedFloats(t *testing.T) {
	s, err := Decode(withChecksum("GPGLL,0916.450,S,01131.000,E,225444,A"))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if got := s.Fields[0]; got != Float(916.45) {
		t.Fatalf("latitude=%v want %v", got, Float(916.45))
	}
	if got := s.Fields[2]; got != Float(1131) {
		t.Fatalf("longitude=%v want %v", got, Float(1131))
	}
}

func TestDecode_ChecksumCheckedBeforeFields(t *testing.T) {
	// Unknown talker, bad arity and bad fields, but the checksum is wrong:
	// the checksum failure must be the one reported.
	_, err := Decode("$XXZZZ,oops*00\r\n")
	if !errors.Is(err, ErrChecksumMismatch) {
		t.Fatalf("expected ErrChecksumMismatch, got %v", err)
	}
}

func TestDecode_FieldErrorPosition(t *testing.T) {
	_, err := Decode(withChecksum("GPGGA,0,N,0,E,000000,0,x,0,0,M,0,M,0,0"))
	var fe *FieldError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FieldError, got %v", err)
	}
	if fe.Position != 6 || fe.Name != "SatellitesCount" || fe.Text != "x" || fe.Expected != FieldUint8 {
		t.Fatalf("unexpected field error: %+v", fe)
	}
}

func TestDecode_ReturnsFreshFieldSlice(t *testing.T) {
	line := "$GPGLL,0,N,0,E,000000,A*1A\r\n"
	a, err := Decode(line)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	a.Fields[0] = Float(99)
	b, err := Decode(line)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if b.Fields[0] != Float(0) {
		t.Fatalf("second decode observed mutation: %v", b.Fields[0])
	}
}

func TestSentenceValidate(t *testing.T) {
	if err := NewSentence(TalkerRadar, KindGSV).Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if err := NewSentence(TalkerNone, KindGSV).Validate(); !errors.Is(err, ErrUnknownTalker) {
		t.Fatalf("expected ErrUnknownTalker, got %v", err)
	}
}

func TestErrorKind(t *testing.T) {
	cases := map[string]error{
		"malformed_frame":       firstErr(Decode("x")),
		"bad_checksum_format":   firstErr(Decode("$GPGLL*G0")),
		"checksum_mismatch":     firstErr(Decode("$GPGLL*00")),
		"unknown_talker":        firstErr(Decode(withChecksum("ZZGLL"))),
		"unknown_sentence_kind": firstErr(Decode(withChecksum("GPZZZ"))),
		"arity_mismatch":        firstErr(Decode(withChecksum("GPGLL"))),
		"field_type_mismatch":   firstErr(Decode(withChecksum("GPGLL,a,N,0,E,000000,A"))),
		"other":                 errors.New("boom"),
		"":                      nil,
	}
	for want, err := range cases {
		if got := ErrorKind(err); got != want {
			t.Fatalf("ErrorKind(%v)=%q want %q", err, got, want)
		}
	}
}

func withChecksum(body string) string {
	return "$" + body + "*" + FormatChecksum(Checksum([]byte(body))) + "\r\n"
}

func firstErr(_ Sentence, err error) error { return err }
