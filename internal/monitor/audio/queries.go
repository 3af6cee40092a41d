package audio

import (
	"context"
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/tmstorey/barkeep/internal/errors"
	"github.com/tmstorey/barkeep/internal/exec"
)

// runFunc is the command runner used by Queries; swapped out in tests.
type runFunc func(ctx context.Context, argv ...string) (string, error)

// Queries issues one-shot pactl/wpctl invocations.
type Queries struct {
	run runFunc
}

// NewQueries creates a Queries against the real tools.
func NewQueries() *Queries {
	return &Queries{run: exec.Run}
}

// volumeRe matches `wpctl get-volume` output: "Volume: 0.40" or
// "Volume: 1.50 [MUTED]".
var volumeRe = regexp.MustCompile(`^Volume: (\d+(?:\.\d+)?)( \[MUTED\])?\s*$`)

// parseVolume converts wpctl's 0.00..1.50 scale to a 0..150 percentage.
func parseVolume(out string) (Status, error) {
	m := volumeRe.FindStringSubmatch(strings.TrimRight(out, "\n"))
	if m == nil {
		return Status{}, errors.New(errors.ErrParse,
			"Unexpected wpctl volume output: "+strings.TrimSpace(out),
			"Check that wpctl is PipeWire's (wireplumber).")
	}
	f, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return Status{}, errors.WrapWithCode(err, errors.ErrParse,
			"Unparseable volume value: "+m[1], "")
	}
	return Status{
		Volume: int(math.Round(f * 100)),
		Muted:  m[2] != "",
	}, nil
}

// GetVolume returns the combined volume and mute state of the default sink.
func (q *Queries) GetVolume(ctx context.Context) (Status, error) {
	out, err := q.run(ctx, "wpctl", "get-volume", "@DEFAULT_AUDIO_SINK@")
	if err != nil {
		return Status{}, err
	}
	return parseVolume(out)
}

// DefaultSink returns the name of the default sink.
func (q *Queries) DefaultSink(ctx context.Context) (string, error) {
	out, err := q.run(ctx, "pactl", "get-default-sink")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// SetDefaultSink makes name the default sink.
func (q *Queries) SetDefaultSink(ctx context.Context, name string) error {
	_, err := q.run(ctx, "pactl", "set-default-sink", name)
	return err
}

// DefaultSource returns the name of the default source.
func (q *Queries) DefaultSource(ctx context.Context) (string, error) {
	out, err := q.run(ctx, "pactl", "get-default-source")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// SetDefaultSource makes name the default source.
func (q *Queries) SetDefaultSource(ctx context.Context, name string) error {
	_, err := q.run(ctx, "pactl", "set-default-source", name)
	return err
}

// Sinks lists the available sinks.
func (q *Queries) Sinks(ctx context.Context) ([]Sink, error) {
	return q.listObjects(ctx, "sinks")
}

// Sources lists the available sources.
func (q *Queries) Sources(ctx context.Context) ([]Sink, error) {
	return q.listObjects(ctx, "sources")
}

func (q *Queries) listObjects(ctx context.Context, kind string) ([]Sink, error) {
	out, err := q.run(ctx, "pactl", "-f", "json", "list", kind)
	if err != nil {
		return nil, err
	}
	var objects []Sink
	if err := json.Unmarshal([]byte(out), &objects); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrParse,
			"Couldn't decode pactl JSON for "+kind,
			"pactl >= 16 is needed for -f json.")
	}
	return objects, nil
}
