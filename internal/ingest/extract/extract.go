// Package extract parses telemetry events out of the ingest worker's
// merged output.
package extract

import (
	"fmt"
	"regexp"
	"strconv"
)

// Telemetry lines are searched, not anchored, since the worker may prepend
// timestamps or log levels. Numeric fields are captured as raw tokens and
// parsed separately, so a malformed value surfaces as an error instead of
// silently degrading to a non-match.
var (
	ackPattern     = regexp.MustCompile(`JET_ACK\s+seq_local=(\S+)\s+subj=(\S+)\s+ack=.*ack_time_us=(\S+)`)
	publishPattern = regexp.MustCompile(`PUB\s+seq_local=(\S+)\s+subj=(\S+)\s+bytes=(\S+)\s+flush_time_us=(\S+)`)
)

// Event is a telemetry record extracted from one worker output line.
type Event interface {
	event()
}

// AckEvent reports a JetStream publish acknowledgement round trip.
type AckEvent struct {
	Seq          uint64
	Subject      string
	AckLatencyUS uint64
}

func (AckEvent) event() {}

// PublishEvent reports a publish+flush round trip.
type PublishEvent struct {
	Seq            uint64
	Subject        string
	FlushLatencyUS uint64
}

func (PublishEvent) event() {}

// FieldError reports a line that matched a telemetry pattern but carried a
// numeric field that did not parse.
type FieldError struct {
	Kind  string
	Field string
	Token string
	err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: field %s: bad value %q", e.Kind, e.Field, e.Token)
}

func (e *FieldError) Unwrap() error {
	return e.err
}

// Extract parses one output line. It returns (nil, nil) for lines carrying
// no telemetry, an AckEvent or PublishEvent for well-formed telemetry, and
// a *FieldError for telemetry with unparsable numeric fields. The ack
// pattern is tried first; the first matching pattern wins.
func Extract(line string) (Event, error) {
	if m := ackPattern.FindStringSubmatch(line); m != nil {
		return ackEvent(m)
	}

	if m := publishPattern.FindStringSubmatch(line); m != nil {
		return publishEvent(m)
	}

	return nil, nil
}

func ackEvent(m []string) (Event, error) {
	seq, err := parseField("JET_ACK", "seq_local", m[1])
	if err != nil {
		return nil, err
	}

	latency, err := parseField("JET_ACK", "ack_time_us", m[3])
	if err != nil {
		return nil, err
	}

	return AckEvent{Seq: seq, Subject: m[2], AckLatencyUS: latency}, nil
}

func publishEvent(m []string) (Event, error) {
	seq, err := parseField("PUB", "seq_local", m[1])
	if err != nil {
		return nil, err
	}

	// the byte count is not exported, but a malformed one still marks the
	// whole line as bad telemetry
	if _, err := parseField("PUB", "bytes", m[3]); err != nil {
		return nil, err
	}

	latency, err := parseField("PUB", "flush_time_us", m[4])
	if err != nil {
		return nil, err
	}

	return PublishEvent{Seq: seq, Subject: m[2], FlushLatencyUS: latency}, nil
}

func parseField(kind, field, token string) (uint64, error) {
	v, err := strconv.ParseUint(token, 10, 64)
	if err != nil {
		return 0, &FieldError{Kind: kind, Field: field, Token: token, err: err}
	}

	return v, nil
}
