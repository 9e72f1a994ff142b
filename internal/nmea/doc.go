// Package nmea encodes and decodes NMEA-0183 sentences of the form
//
//	$<talker><kind>,<field>,...,<field>*<CC>\r\n
//
// Each sentence kind has a fixed, ordered field schema. Encode refuses field
// lists that do not match it; Decode verifies framing and the XOR checksum
// before interpreting any field, and fails the whole sentence on the first
// field that does not parse as its schema type.
//
// The package holds no mutable state and is safe for concurrent use.
package nmea
