package widgets

import "testing"

func TestCarouselWraps(t *testing.T) {
	c := NewCarousel([]string{"a", "b", "c"})
	if c.Current() != "a" {
		t.Fatalf("expected a, got %s", c.Current())
	}

	got := []string{c.Next(), c.Next(), c.Next(), c.Next()}
	want := []string{"b", "c", "a", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("step %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestCarouselEmpty(t *testing.T) {
	c := NewCarousel(nil)
	if c.Next() != "" || c.Current() != "" {
		t.Error("empty carousel should yield empty strings")
	}
}

func TestCounterReachesTarget(t *testing.T) {
	c := NewCounter(2500)
	if c.Step() {
		t.Fatal("counter should not move before Start")
	}
	if !c.Start() || c.Start() {
		t.Fatal("only the first Start should arm the counter")
	}

	steps := 0
	for !c.Step() {
		steps++
		if steps > 200 {
			t.Fatal("counter never finished")
		}
	}
	if steps+1 != CounterSteps {
		t.Errorf("expected %d steps, got %d", CounterSteps, steps+1)
	}
	if c.Value() != 2500 || !c.Done() {
		t.Errorf("expected 2500 and done, got %d done=%v", c.Value(), c.Done())
	}
}

func TestCounterClampsOvershoot(t *testing.T) {
	c := NewCounter(7)
	c.Start()
	for i := 0; i < 150; i++ {
		c.Step()
	}
	if c.Value() != 7 {
		t.Errorf("expected clamp to 7, got %d", c.Value())
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		offset, content, viewport int
		want                      int
	}{
		{0, 100, 20, 0},
		{40, 100, 20, 50},
		{80, 100, 20, 100},
		{0, 10, 20, 100},
	}
	for _, tt := range tests {
		if got := Percent(tt.offset, tt.content, tt.viewport); got != tt.want {
			t.Errorf("Percent(%d,%d,%d) = %d, want %d", tt.offset, tt.content, tt.viewport, got, tt.want)
		}
	}
}

func TestScrollDepthMilestones(t *testing.T) {
	var s ScrollDepth
	var milestones []int
	for _, p := range []int{10, 25, 20, 25, 40, 50, 75, 60, 100} {
		if depth, ok := s.Observe(p); ok {
			milestones = append(milestones, depth)
		}
	}

	want := []int{25, 50, 75, 100}
	if len(milestones) != len(want) {
		t.Fatalf("expected %v, got %v", want, milestones)
	}
	for i := range want {
		if milestones[i] != want[i] {
			t.Errorf("expected %v, got %v", want, milestones)
		}
	}
	if s.Max() != 100 {
		t.Errorf("expected max 100, got %d", s.Max())
	}
}
