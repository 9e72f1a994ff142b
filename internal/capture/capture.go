package capture

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// A capture log is plain text, one record per line:
//
//	START
//	<t_ns>,<sentence>
//
// START opens a segment and t_ns counts nanoseconds from it. Everything
// after the first comma is the sentence exactly as received, minus its line
// terminator. Blank lines and lines starting with '#' are skipped.

// Record is one line of a capture log.
type Record struct {
	At time.Duration
	// Sentence is empty for START markers.
	Sentence string
}

type Reader struct {
	r io.Reader
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

func (rr *Reader) ReadAll() ([]Record, error) {
	s := bufio.NewScanner(rr.r)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	recs := make([]Record, 0, 1024)
	lineNum := 0
	for s.Scan() {
		lineNum++
		line := s.Text()
		switch key := strings.TrimSpace(line); {
		case key == "" || strings.HasPrefix(key, "#"):
			continue
		case key == "START":
			recs = append(recs, Record{})
			continue
		}

		tsStr, sentence, ok := strings.Cut(line, ",")
		if !ok {
			return nil, fmt.Errorf("capture: line %d: missing comma: %q", lineNum, line)
		}
		tsStr = strings.TrimSpace(tsStr)
		if tsStr == "" || strings.TrimSpace(sentence) == "" {
			return nil, fmt.Errorf("capture: line %d: empty field: %q", lineNum, line)
		}

		tsNs, err := strconv.ParseInt(tsStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("capture: line %d: invalid timestamp %q: %w", lineNum, tsStr, err)
		}
		if tsNs < 0 {
			return nil, fmt.Errorf("capture: line %d: negative timestamp %d", lineNum, tsNs)
		}

		recs = append(recs, Record{At: time.Duration(tsNs), Sentence: sentence})
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return recs, nil
}

// ReadFile reads every record of the capture log at path.
func ReadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return NewReader(f).ReadAll()
}

// ErrClosed is returned by writes to a closed Writer.
var ErrClosed = errors.New("capture: writer is closed")

// Writer appends sentences to one START segment. Offsets are taken from the
// monotonic clock reading in start.
type Writer struct {
	dst   io.WriteCloser
	buf   *bufio.Writer
	start time.Time
	done  bool
}

// CreateWriter truncates path and starts a new capture segment in it.
func CreateWriter(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w, err := NewWriter(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return w, nil
}

// NewWriter starts a capture segment on wc. Close closes wc.
func NewWriter(wc io.WriteCloser) (*Writer, error) {
	w := &Writer{dst: wc, buf: bufio.NewWriterSize(wc, 64*1024), start: time.Now()}
	if _, err := w.buf.WriteString("START\n"); err != nil {
		return nil, err
	}
	return w, nil
}

// WriteSentence appends one sentence stamped with its offset from the
// segment start. A trailing CRLF is stripped; the sentence must otherwise be
// a single line and is stored byte for byte.
func (w *Writer) WriteSentence(now time.Time, sentence string) error {
	if w.done {
		return ErrClosed
	}
	sentence = strings.TrimRight(sentence, "\r\n")
	switch {
	case sentence == "":
		return errors.New("capture: sentence is empty")
	case strings.ContainsAny(sentence, "\r\n"):
		return fmt.Errorf("capture: sentence spans lines: %q", sentence)
	}

	off := max(now.Sub(w.start), 0)
	w.buf.WriteString(strconv.FormatInt(off.Nanoseconds(), 10))
	w.buf.WriteByte(',')
	w.buf.WriteString(sentence)
	return w.buf.WriteByte('\n')
}

// Flush pushes buffered records to the underlying writer.
func (w *Writer) Flush() error {
	if w.done {
		return nil
	}
	return w.buf.Flush()
}

// Close flushes and closes the destination. Later calls do nothing.
func (w *Writer) Close() error {
	if w.done {
		return nil
	}
	w.done = true
	return errors.Join(w.buf.Flush(), w.dst.Close())
}

// Sleeper waits between records. It returns early with ctx.Err() when ctx
// is done.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

type realSleeper struct{}

func (realSleeper) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// pacer turns absolute record offsets into waits within one segment.
type pacer struct {
	speed  float64
	origin time.Duration
	last   time.Duration
	primed bool
}

// restart begins a new segment whose offsets count from origin.
func (p *pacer) restart(origin time.Duration) {
	*p = pacer{speed: p.speed, origin: origin}
}

// next returns how long to wait before the record at offset at. The first
// record of a segment plays immediately.
func (p *pacer) next(at time.Duration) time.Duration {
	rel := max(at-p.origin, 0)
	var wait time.Duration
	if p.primed {
		wait = time.Duration(float64(max(rel-p.last, 0)) / p.speed)
	}
	p.last, p.primed = rel, true
	return wait
}

// Play hands every sentence in records to cb, spaced as it was captured and
// scaled by speed (2 plays twice as fast). With loop set it starts over after
// the last record until ctx is done or cb fails.
func Play(ctx context.Context, records []Record, speed float64, loop bool, sleeper Sleeper, cb func(sentence string) error) error {
	switch {
	case speed <= 0:
		return fmt.Errorf("capture: speed must be > 0, got %v", speed)
	case cb == nil:
		return errors.New("capture: callback is nil")
	case !hasSentences(records):
		return errors.New("capture: no sentences to play")
	}
	if sleeper == nil {
		sleeper = realSleeper{}
	}

	for {
		if err := playOnce(ctx, records, &pacer{speed: speed}, sleeper, cb); err != nil {
			return err
		}
		if !loop {
			return nil
		}
	}
}

func playOnce(ctx context.Context, records []Record, p *pacer, sleeper Sleeper, cb func(string) error) error {
	for _, r := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		if r.Sentence == "" {
			p.restart(r.At)
			continue
		}
		if wait := p.next(r.At); wait > 0 {
			if err := sleeper.Sleep(ctx, wait); err != nil {
				return err
			}
		}
		if err := cb(r.Sentence); err != nil {
			return err
		}
	}
	return nil
}

func hasSentences(records []Record) bool {
	for _, r := range records {
		if r.Sentence != "" {
			return true
		}
	}
	return false
}
