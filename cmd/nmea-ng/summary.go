package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"nmea-ng/internal/capture"
	"nmea-ng/internal/nmea"
)

type captureSummary struct {
	Segments    int
	Sentences   int
	Invalid     int
	MaxDuration time.Duration
	KindCounts  map[string]int
	ErrorCounts map[string]int
}

func summarizeCapture(records []capture.Record) captureSummary {
	s := captureSummary{KindCounts: map[string]int{}, ErrorCounts: map[string]int{}}
	if len(records) == 0 {
		return s
	}

	origin := time.Duration(0)
	hasSentences := false
	segments := 0

	for _, r := range records {
		if r.Sentence == "" {
			segments++
			origin = r.At
			continue
		}
		hasSentences = true

		s.Sentences++
		at := r.At - origin
		if at < 0 {
			at = 0
		}
		if at > s.MaxDuration {
			s.MaxDuration = at
		}

		sent, err := nmea.Decode(r.Sentence)
		if err != nil {
			s.Invalid++
			s.ErrorCounts[nmea.ErrorKind(err)]++
			continue
		}
		code, _ := sent.Talker.Code()
		s.KindCounts[code+sent.Kind.Name()]++
	}
	if segments == 0 && hasSentences {
		segments = 1
	}
	s.Segments = segments

	return s
}

func runSummary(_ context.Context, e *env, args []string) error {
	fs := newFlagSet(e, "summary", "FILE")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: exactly one capture log is required", errUsage)
	}
	path := fs.Arg(0)

	recs, err := capture.ReadFile(path)
	if err != nil {
		return err
	}
	return printCaptureSummary(e.stdout, path, summarizeCapture(recs))
}

func printCaptureSummary(w io.Writer, path string, s captureSummary) error {
	var err error
	printf := func(format string, args ...any) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}

	printf("path: %s\n", path)
	printf("segments: %d\n", s.Segments)
	printf("sentences: %d\n", s.Sentences)
	printf("invalid_sentences: %d\n", s.Invalid)
	printf("max_duration: %s\n", s.MaxDuration)
	for _, k := range sortedKeys(s.KindCounts) {
		printf("kind %s: %d\n", k, s.KindCounts[k])
	}
	for _, k := range sortedKeys(s.ErrorCounts) {
		printf("error %s: %d\n", k, s.ErrorCounts[k])
	}
	return err
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
