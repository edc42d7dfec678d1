package observ

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// stepClock возвращает время, сдвигаясь на step при каждом вызове.
func stepClock(step time.Duration) func() time.Time {
	cur := time.Unix(0, 0)
	return func() time.Time {
		cur = cur.Add(step)
		return cur
	}
}

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	tm.now = stepClock(2 * time.Millisecond)

	cfg := tm.Begin("config")
	tm.End(cfg, "hidl.toml")
	tm.End(cfg, "ignored")
	_ = tm.Begin("resolve") // не закрыта

	r := tm.Report()
	if len(r.Phases) != 1 {
		t.Fatalf("open phases must be skipped, got %+v", r.Phases)
	}
	if r.Phases[0].Note != "hidl.toml" || r.Phases[0].DurationMS != 2 {
		t.Fatalf("unexpected phase: %+v", r.Phases[0])
	}
	if r.TotalMS != 2 {
		t.Fatalf("total = %v", r.TotalMS)
	}
}

func TestTimerMeasure(t *testing.T) {
	tm := NewTimer()
	tm.now = stepClock(time.Millisecond)

	if err := tm.Measure("discover", func() (string, error) { return "12 modules", nil }); err != nil {
		t.Fatal(err)
	}
	boom := errors.New("boom")
	if err := tm.Measure("resolve", func() (string, error) { return "", boom }); !errors.Is(err, boom) {
		t.Fatalf("Measure must return fn error, got %v", err)
	}

	out := tm.Summary()
	for _, want := range []string{"discover", "// 12 modules", "resolve", "// failed", "total"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary misses %q:\n%s", want, out)
		}
	}
}

func TestTimerEndOutOfRange(t *testing.T) {
	tm := NewTimer()
	tm.End(-1, "")
	tm.End(3, "")
	if got := tm.Report(); len(got.Phases) != 0 || got.TotalMS != 0 {
		t.Fatalf("empty timer expected, got %+v", got)
	}
}
