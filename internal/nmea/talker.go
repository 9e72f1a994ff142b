package nmea

import "fmt"

// Talker identifies the class of device that produced a sentence.
type Talker uint8

const (
	// TalkerNone is the zero value. It has no code and cannot be encoded.
	TalkerNone Talker = iota
	TalkerGPS
	TalkerEchoSounder
	TalkerRadar
)

var talkerCodes = [...]string{
	TalkerGPS:         "GP",
	TalkerEchoSounder: "ES",
	TalkerRadar:       "RD",
}

// Talkers lists every talker that has a wire code.
func Talkers() []Talker {
	return []Talker{TalkerGPS, TalkerEchoSounder, TalkerRadar}
}

// Code returns the two-letter wire code of the talker.
func (t Talker) Code() (string, error) {
	if t == TalkerNone || int(t) >= len(talkerCodes) {
		return "", fmt.Errorf("%w: talker %d has no code", ErrUnknownTalker, uint8(t))
	}
	return talkerCodes[t], nil
}

func (t Talker) String() string {
	switch t {
	case TalkerGPS:
		return "GPS"
	case TalkerEchoSounder:
		return "EchoSounder"
	case TalkerRadar:
		return "Radar"
	case TalkerNone:
		return "None"
	default:
		return fmt.Sprintf("Talker(%d)", uint8(t))
	}
}

// ParseTalker maps a two-letter wire code back to its talker.
func ParseTalker(code string) (Talker, error) {
	for _, t := range Talkers() {
		if talkerCodes[t] == code {
			return t, nil
		}
	}
	return TalkerNone, fmt.Errorf("%w: %q", ErrUnknownTalker, code)
}
