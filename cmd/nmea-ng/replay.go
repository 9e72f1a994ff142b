package main

import (
	"context"
	"errors"
	"fmt"

	"nmea-ng/internal/capture"
	"nmea-ng/internal/export"
	"nmea-ng/internal/nmea"
)

func runReplay(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet(e, "replay", "FILE")
	speed := fs.Float64("speed", e.cfg.Capture.Speed, "Playback speed multiplier; 2 plays twice as fast.")
	loop := fs.Bool("loop", e.cfg.Capture.Loop, "Restart from the beginning after the last sentence.")
	format := fs.StringP("format", "o", e.cfg.Output.Format, "Output format: text, json, yaml or cbor.")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: exactly one capture log is required", errUsage)
	}
	if *speed <= 0 {
		return fmt.Errorf("%w: --speed must be > 0", errUsage)
	}

	enc, err := export.NewEncoder(*format, e.stdout)
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	path := fs.Arg(0)
	recs, err := capture.ReadFile(path)
	if err != nil {
		return err
	}
	e.log.Info("replay starting", "path", path, "records", len(recs), "speed", *speed, "loop", *loop)

	var st lineStats
	err = capture.Play(ctx, recs, *speed, *loop, nil, func(line string) error {
		s, err := nmea.Decode(line)
		if err != nil {
			st.failed++
			e.log.Warn("decode failed", "kind", nmea.ErrorKind(err), "err", err)
			return nil
		}
		doc, err := export.FromSentence(s)
		if err != nil {
			return err
		}
		st.ok++
		return enc.Encode(doc)
	})
	if errors.Is(err, context.Canceled) {
		e.log.Info("replay stopped")
		err = nil
	}
	if closeErr := enc.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}
	e.log.Info("replay finished", "sentences", st.ok, "failed", st.failed)
	return nil
}
