package ui

import (
	"errors"
	"strings"
	"testing"

	"hidl/internal/driver"
	"hidl/internal/fqname"
)

func TestProgressModelAppliesEvents(t *testing.T) {
	foo := fqname.MustParse("android.hardware.foo@1.0::IFoo")
	types := fqname.MustParse("android.hardware.foo@1.0::types")
	bar := fqname.MustParse("android.hardware.bar@1.0::IBar")

	model := NewProgressModel("check", []string{foo.String(), types.String(), bar.String()}, nil)
	m, ok := model.(*progressModel)
	if !ok {
		t.Fatalf("unexpected model type %T", model)
	}

	m.Update(eventMsg(driver.Event{Name: foo, Status: driver.StatusStarted}))
	m.Update(eventMsg(driver.Event{Name: types, Status: driver.StatusStarted, Depth: 1}))
	if m.current != types.String() {
		t.Fatalf("current = %q", m.current)
	}
	if m.items[1].status != "queued" {
		t.Fatalf("nested start must not touch the row, got %q", m.items[1].status)
	}
	m.Update(eventMsg(driver.Event{Name: types, Status: driver.StatusResolved, Depth: 1}))
	m.Update(eventMsg(driver.Event{Name: foo, Status: driver.StatusResolved}))
	m.Update(eventMsg(driver.Event{Name: types, Status: driver.StatusCached}))
	m.Update(eventMsg(driver.Event{Name: bar, Status: driver.StatusStarted}))
	m.Update(eventMsg(driver.Event{Name: bar, Status: driver.StatusFailed, Err: errors.New("boom")}))

	want := []string{"ok", "ok", "error"}
	for i, item := range m.items {
		if item.status != want[i] {
			t.Errorf("%s: status %q, want %q", item.name, item.status, want[i])
		}
	}

	m.Update(doneMsg{})
	view := m.View()
	if !strings.Contains(view, "done: check") {
		t.Errorf("finished view must carry done header:\n%s", view)
	}
	if !strings.Contains(view, bar.String()) {
		t.Errorf("view must list modules:\n%s", view)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("android.hardware.foo@1.0::IFoo", 10); got != "android..." {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("abcdef", 2); got != "ab" {
		t.Errorf("truncate = %q", got)
	}
}
