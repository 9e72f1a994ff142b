package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"nmea-ng/internal/export"
	"nmea-ng/internal/nmea"
)

func runDecode(_ context.Context, e *env, args []string) error {
	fs := newFlagSet(e, "decode", "[FILE|-]...")
	format := fs.StringP("format", "o", e.cfg.Output.Format, "Output format: text, json, yaml or cbor.")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	enc, err := export.NewEncoder(*format, e.stdout)
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	inputs := fs.Args()
	if len(inputs) == 0 {
		inputs = []string{"-"}
	}

	var total lineStats
	for _, name := range inputs {
		st, err := withInput(e, name, func(r io.Reader) (lineStats, error) {
			return decodeLines(e, name, r, enc)
		})
		total.add(st)
		if err != nil {
			return err
		}
	}
	if err := enc.Close(); err != nil {
		return err
	}

	e.log.Debug("decode finished", "sentences", total.ok, "failed", total.failed)
	if total.failed > 0 {
		return fmt.Errorf("%d of %d lines failed to decode", total.failed, total.ok+total.failed)
	}
	return nil
}

type lineStats struct {
	ok     int
	failed int
}

func (s *lineStats) add(o lineStats) {
	s.ok += o.ok
	s.failed += o.failed
}

// decodeLines decodes one sentence per non-blank line. Bad lines are logged
// and counted; they do not stop the run.
func decodeLines(e *env, name string, r io.Reader, enc export.Encoder) (lineStats, error) {
	var st lineStats
	err := scanLines(r, func(lineNum int, line string) error {
		s, err := nmea.Decode(line)
		if err != nil {
			st.failed++
			e.log.Warn("decode failed", "input", name, "line", lineNum, "kind", nmea.ErrorKind(err), "err", err)
			return nil
		}
		doc, err := export.FromSentence(s)
		if err != nil {
			return err
		}
		st.ok++
		return enc.Encode(doc)
	})
	return st, err
}

// scanLines calls fn for every non-blank line. The line terminator is
// removed; surrounding spaces are kept so framing errors stay visible.
func scanLines(r io.Reader, fn func(lineNum int, line string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), 1024*1024)
	lineNum := 0
	for sc.Scan() {
		lineNum++
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := fn(lineNum, line); err != nil {
			return err
		}
	}
	return sc.Err()
}

// withInput opens name ("-" is stdin) and hands it to fn.
func withInput[T any](e *env, name string, fn func(io.Reader) (T, error)) (T, error) {
	if name == "-" {
		return fn(e.stdin)
	}
	f, err := os.Open(name)
	if err != nil {
		var zero T
		return zero, err
	}
	defer f.Close()
	return fn(f)
}
