package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"nmea-ng/internal/nmea"
)

func runEncode(_ context.Context, e *env, args []string) error {
	fs := newFlagSet(e, "encode", "")
	kindName := fs.StringP("kind", "k", "", "Sentence kind: GGA, GLL, GSA or GSV.")
	talkerCode := fs.StringP("talker", "t", e.cfg.Talker, "Two-letter talker code: GP, ES or RD.")
	fieldArgs := fs.StringArrayP("field", "f", nil, "Field override NAME=VALUE, repeatable. Unset fields keep their defaults.")
	listFields := fs.Bool("list-fields", false, "Print the field schema of --kind and exit.")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 0 {
		return fmt.Errorf("%w: unexpected arguments %v", errUsage, fs.Args())
	}
	if *kindName == "" {
		return fmt.Errorf("%w: --kind is required", errUsage)
	}

	kind, err := nmea.ParseSentenceKind(strings.ToUpper(*kindName))
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if *listFields {
		return printSchema(e.stdout, kind)
	}
	talker, err := nmea.ParseTalker(strings.ToUpper(*talkerCode))
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	s, err := buildSentence(talker, kind, *fieldArgs)
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	line, err := s.Encode()
	if err != nil {
		return err
	}
	e.log.Debug("encoded sentence", "talker", talker, "kind", kind, "sentence", strings.TrimSpace(line))
	_, err = io.WriteString(e.stdout, line)
	return err
}

// buildSentence starts from the kind's defaults and applies NAME=VALUE
// overrides, parsing each value as its schema type.
func buildSentence(talker nmea.Talker, kind nmea.SentenceKind, overrides []string) (nmea.Sentence, error) {
	s := nmea.NewSentence(talker, kind)
	schema := kind.Schema()
	for _, arg := range overrides {
		name, text, ok := strings.Cut(arg, "=")
		if !ok {
			return nmea.Sentence{}, fmt.Errorf("field override %q is not NAME=VALUE", arg)
		}
		i := kind.FieldIndex(name)
		if i < 0 {
			return nmea.Sentence{}, fmt.Errorf("%s has no field %q", kind, name)
		}
		f, err := nmea.ParseField(schema[i].Type, text)
		if err != nil {
			return nmea.Sentence{}, fmt.Errorf("field %s: %w", name, err)
		}
		s.Fields[i] = f
	}
	return s, nil
}

func printSchema(w io.Writer, kind nmea.SentenceKind) error {
	for i, spec := range kind.Schema() {
		if _, err := fmt.Fprintf(w, "%2d %-32s %s\n", i, spec.Name, spec.Type); err != nil {
			return err
		}
	}
	return nil
}
