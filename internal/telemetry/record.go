package telemetry

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeLayout is the wall-clock format of the first field of a log line.
const TimeLayout = "15:04:05.000"

const fieldSep = ';'

// Record is a single committed move.
type Record struct {
	Time   time.Time
	BallID int64
	X      float64
	Y      float64
}

func (r Record) Fields() []string {
	return []string{
		r.Time.Format(TimeLayout),
		strconv.FormatInt(r.BallID, 10),
		strconv.FormatFloat(r.X, 'f', 2, 64),
		strconv.FormatFloat(r.Y, 'f', 2, 64),
	}
}

// Format renders r as a log line without the trailing newline.
func Format(r Record) string {
	return strings.Join(r.Fields(), string(fieldSep))
}

// Parse reads a line produced by Format. The returned time carries only the
// clock part; the date is zero.
func Parse(line string) (Record, error) {
	return parseFields(strings.Split(strings.TrimSpace(line), string(fieldSep)))
}

func parseFields(fields []string) (Record, error) {
	if len(fields) != 4 {
		return Record{}, fmt.Errorf("expected 4 fields, got %d", len(fields))
	}

	ts, err := time.Parse(TimeLayout, fields[0])
	if err != nil {
		return Record{}, fmt.Errorf("timestamp %q: %w", fields[0], err)
	}
	id, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return Record{}, fmt.Errorf("ball id %q: %w", fields[1], err)
	}
	x, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return Record{}, fmt.Errorf("x %q: %w", fields[2], err)
	}
	y, err := strconv.ParseFloat(fields[3], 64)
	if err != nil {
		return Record{}, fmt.Errorf("y %q: %w", fields[3], err)
	}

	return Record{Time: ts, BallID: id, X: x, Y: y}, nil
}
