package rtsignal

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Detection is one decoded frame
type Detection struct {
	ID         string
	Line       Line
	Raw        string
	ReceivedAt time.Time
}

// ParseFrame decodes "<route>;<from>;<to>[;<dev>,<dev>...]" into a Line
func ParseFrame(reg *Registry, frame string) (Line, error) {
	fields := lo.Map(strings.Split(strings.TrimSpace(frame), ";"), func(s string, _ int) string {
		return strings.TrimSpace(s)
	})
	if len(fields) < 3 || len(fields) > 4 {
		return NoLine, NewMalformedFrameError(frame, fmt.Sprintf("expected 3 or 4 fields, got %d", len(fields)))
	}
	if fields[0] == "" || fields[1] == "" || fields[2] == "" {
		return NoLine, NewMalformedFrameError(frame, "empty field")
	}

	route, err := reg.ResolveRoute(fields[0])
	if err != nil {
		return NoLine, err
	}

	var devs []Deviation
	if len(fields) == 4 && fields[3] != "" {
		for _, d := range strings.Split(fields[3], ",") {
			if d = strings.TrimSpace(d); d != "" {
				devs = append(devs, Deviation(d))
			}
		}
	}

	return reg.MakeLine(route, Terminus(fields[1]), Terminus(fields[2]), devs...)
}

// LineReader decodes frames from a byte stream in the background and hands them to
// the polling loop through Poll.
type LineReader struct {
	registry *Registry
	now      func() time.Time

	mutex   sync.Mutex
	pending []Detection
	err     error
	done    chan struct{}
	started bool

	rejected int
}

// NewLineReader creates a reader resolving frames against reg
func NewLineReader(reg *Registry) *LineReader {
	return &LineReader{
		registry: reg,
		now:      time.Now,
		pending:  make([]Detection, 0),
		done:     make(chan struct{}),
	}
}

// Start decodes r until EOF or a read error. It may be called once.
func (lr *LineReader) Start(r io.Reader) error {
	lr.mutex.Lock()
	if lr.started {
		lr.mutex.Unlock()
		return NewConfigurationError("reader", "already started")
	}
	lr.started = true
	lr.mutex.Unlock()

	go lr.loop(r)
	return nil
}

func (lr *LineReader) loop(r io.Reader) {
	defer close(lr.done)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lr.Feed(scanner.Text())
	}

	lr.mutex.Lock()
	lr.err = scanner.Err()
	lr.mutex.Unlock()
	if err := scanner.Err(); err != nil {
		log.WithError(err).Error("line reader stopped")
	} else {
		log.Info("line reader reached end of input")
	}
}

// Feed decodes one frame synchronously. Blank lines and # comments are ignored.
func (lr *LineReader) Feed(frame string) {
	frame = strings.TrimSpace(frame)
	if frame == "" || strings.HasPrefix(frame, "#") {
		return
	}

	line, err := ParseFrame(lr.registry, frame)
	if err != nil {
		log.WithError(err).Warnf("dropping frame %q", frame)
		lr.mutex.Lock()
		lr.rejected++
		lr.mutex.Unlock()
		return
	}

	d := Detection{
		ID:         uuid.NewString(),
		Line:       line,
		Raw:        frame,
		ReceivedAt: lr.now(),
	}
	log.WithField("detection", d.ID).Tracef("detected %s", line)

	lr.mutex.Lock()
	lr.pending = append(lr.pending, d)
	lr.mutex.Unlock()
}

// Poll returns the detections decoded since the previous call. It never blocks.
func (lr *LineReader) Poll() []Detection {
	lr.mutex.Lock()
	defer lr.mutex.Unlock()
	if len(lr.pending) == 0 {
		return nil
	}
	out := lr.pending
	lr.pending = make([]Detection, 0, len(out))
	return out
}

// Done is closed when the decode goroutine stops
func (lr *LineReader) Done() <-chan struct{} {
	return lr.done
}

// Err returns the error that stopped the decode goroutine, if any
func (lr *LineReader) Err() error {
	lr.mutex.Lock()
	defer lr.mutex.Unlock()
	return lr.err
}

// Rejected returns the number of frames dropped so far
func (lr *LineReader) Rejected() int {
	lr.mutex.Lock()
	defer lr.mutex.Unlock()
	return lr.rejected
}
