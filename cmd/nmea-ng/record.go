package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"nmea-ng/internal/capture"
	"nmea-ng/internal/nmea"
)

func runRecord(_ context.Context, e *env, args []string) error {
	fs := newFlagSet(e, "record", "[FILE|-]...")
	out := fs.String("out", "", "Capture log to create.")
	keepInvalid := fs.Bool("keep-invalid", false, "Record lines that fail to decode instead of dropping them.")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *out == "" {
		return fmt.Errorf("%w: --out is required", errUsage)
	}

	w, err := capture.CreateWriter(*out)
	if err != nil {
		return err
	}
	defer w.Close()

	inputs := fs.Args()
	if len(inputs) == 0 {
		inputs = []string{"-"}
	}

	var total lineStats
	for _, name := range inputs {
		st, err := withInput(e, name, func(r io.Reader) (lineStats, error) {
			return recordLines(e, name, r, w, *keepInvalid)
		})
		total.add(st)
		if err != nil {
			return err
		}
	}
	if err := w.Close(); err != nil {
		return err
	}
	e.log.Info("capture written", "path", *out, "recorded", total.ok, "invalid", total.failed)
	return nil
}

func recordLines(e *env, name string, r io.Reader, w *capture.Writer, keepInvalid bool) (lineStats, error) {
	var st lineStats
	err := scanLines(r, func(lineNum int, line string) error {
		if _, err := nmea.Decode(line); err != nil {
			st.failed++
			e.log.Warn("invalid sentence", "input", name, "line", lineNum, "kind", nmea.ErrorKind(err), "err", err)
			if !keepInvalid {
				return nil
			}
		} else {
			st.ok++
		}
		return w.WriteSentence(time.Now(), line)
	})
	return st, err
}
