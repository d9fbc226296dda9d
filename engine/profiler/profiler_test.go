package profiler

import (
	"testing"
	"time"
)

type clock struct {
	t time.Time
}

func (c *clock) now() time.Time { return c.t }

func TestTickReportsRate(t *testing.T) {
	c := &clock{t: time.Unix(0, 0)}
	p := NewProfiler("render", WithClock(c.now), WithInterval(time.Second))

	for range 29 {
		c.t = c.t.Add(time.Second / 60)
		if _, logged := p.Tick(); logged {
			t.Fatal("logged before the interval elapsed")
		}
	}
	c.t = time.Unix(0, 0).Add(time.Second)
	rate, logged := p.Tick()
	if !logged {
		t.Fatal("did not log after the interval")
	}
	if rate != 30 {
		t.Fatalf("rate\nhave %v\nwant 30", rate)
	}

	// counters reset
	c.t = c.t.Add(time.Second)
	if rate, _ := p.Tick(); rate != 1 {
		t.Fatalf("rate after reset\nhave %v\nwant 1", rate)
	}
}
