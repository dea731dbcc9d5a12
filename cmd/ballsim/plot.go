package main

import (
	"fmt"
	"strconv"

	"github.com/san-kum/ballsim/internal/telemetry"
)

func parseBallID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid ball id: %q", s)
	}
	return id, nil
}

// trajectory extracts one ball's x and y series in log order.
func trajectory(records []telemetry.Record, id int64) (xs, ys []float64) {
	for _, r := range records {
		if r.BallID != id {
			continue
		}
		xs = append(xs, r.X)
		ys = append(ys, r.Y)
	}
	return xs, ys
}

// downsample keeps at most n evenly spaced points.
func downsample(data []float64, n int) []float64 {
	if n <= 0 || len(data) <= n {
		return data
	}
	out := make([]float64, n)
	step := float64(len(data)-1) / float64(n-1)
	for i := range out {
		out[i] = data[int(float64(i)*step+0.5)]
	}
	return out
}
