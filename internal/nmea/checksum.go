package nmea

const hexDigits = "0123456789ABCDEF"

// Checksum folds every payload byte through XOR, seeded at zero.
// The payload is the text strictly between '$' and '*'.
func Checksum(payload []byte) byte {
	var ck byte
	for _, b := range payload {
		ck ^= b
	}
	return ck
}

// checksumString is Checksum without the []byte conversion.
func checksumString(payload string) byte {
	var ck byte
	for i := 0; i < len(payload); i++ {
		ck ^= payload[i]
	}
	return ck
}

// FormatChecksum renders a checksum as two uppercase hex digits.
func FormatChecksum(ck byte) string {
	return string([]byte{hexDigits[ck>>4], hexDigits[ck&0x0F]})
}

// parseChecksum accepts exactly two hex digits in either case.
func parseChecksum(s string) (byte, bool) {
	if len(s) != 2 {
		return 0, false
	}
	hi, ok := hexNibble(s[0])
	if !ok {
		return 0, false
	}
	lo, ok := hexNibble(s[1])
	if !ok {
		return 0, false
	}
	return hi<<4 | lo, true
}

func hexNibble(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	default:
		return 0, false
	}
}
