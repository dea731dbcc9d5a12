package physics

import "testing"

func TestReflect(t *testing.T) {
	tests := []struct {
		name      string
		candidate float64
		radius    float64
		dim       float64
		wantPos   float64
		wantSign  float64
	}{
		{"inside", 50, 10, 100, 50, 1},
		{"on lower bound", 10, 10, 100, 10, 1},
		{"on upper bound", 90, 10, 100, 90, 1},
		{"below", 4, 10, 100, 10, -1},
		{"above", 97, 10, 100, 90, -1},
		{"far outside", -500, 10, 100, 10, -1},
		{"table narrower than ball", 3, 10, 12, 6, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, s := Reflect(tt.candidate, tt.radius, tt.dim)
			if pos != tt.wantPos || s != tt.wantSign {
				t.Errorf("Reflect(%v) = (%v, %v), want (%v, %v)", tt.candidate, pos, s, tt.wantPos, tt.wantSign)
			}
		})
	}
}

func TestAdvanceCorner(t *testing.T) {
	table := Table{Width: 100, Height: 80}
	b := Body{Position: V(89, 69), Velocity: V(5, 5), Mass: 1, Radius: 10}

	got, hits := table.Advance(b, 1)
	if hits != 2 {
		t.Errorf("expected 2 wall hits, got %d", hits)
	}
	if got.Position != V(90, 70) {
		t.Errorf("expected clamped position (90, 70), got %v", got.Position)
	}
	if got.Velocity != V(-5, -5) {
		t.Errorf("expected both components flipped, got %v", got.Velocity)
	}
}

func TestAdvanceKeepsBallOnTable(t *testing.T) {
	table := Table{Width: 800, Height: 600}
	b := Body{Position: V(400, 300), Velocity: V(37.3, -91.1), Mass: 1, Radius: 10}

	for i := 0; i < 1000; i++ {
		b, _ = table.Advance(b, 1)
		if !table.Contains(b.Position, b.Radius) {
			t.Fatalf("step %d: ball left the table at %v", i, b.Position)
		}
	}

	if speed := b.Velocity.Norm(); speed < 98.4 || speed > 98.5 {
		t.Errorf("reflection should be lossless, speed is %f", speed)
	}
}

func TestAdvanceFreeFlight(t *testing.T) {
	table := Table{Width: 800, Height: 600}
	b := Body{Position: V(100, 100), Velocity: V(2, -3), Mass: 1, Radius: 10}

	got, hits := table.Advance(b, 0.5)
	if hits != 0 {
		t.Errorf("expected no wall hits, got %d", hits)
	}
	if got.Position != V(101, 98.5) {
		t.Errorf("expected (101, 98.5), got %v", got.Position)
	}
}
