package driver

import (
	"hidl/internal/fqname"
)

// Status is the outcome carried by an Event.
type Status uint8

const (
	// StatusStarted: entry inserted as in-progress, parsing begins.
	StatusStarted Status = iota
	StatusResolved
	StatusFailed
	// StatusCycle: a request hit an in-progress entry.
	StatusCycle
	// StatusCached: a request was answered from an existing entry.
	StatusCached
)

var statusNames = [...]string{
	StatusStarted:  "started",
	StatusResolved: "resolved",
	StatusFailed:   "failed",
	StatusCycle:    "cycle",
	StatusCached:   "cached",
}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "unknown"
}

// Event describes one step of module resolution.
type Event struct {
	Name   fqname.FQName
	Path   string
	Status Status
	Depth  int // глубина рекурсии, 0 для запроса верхнего уровня
	Err    error
}

// Observer receives events emitted by the Coordinator. It runs synchronously
// on the resolving goroutine.
type Observer func(Event)

// MultiObserver calls every non-nil observer in order.
func MultiObserver(obs ...Observer) Observer {
	var live []Observer
	for _, o := range obs {
		if o != nil {
			live = append(live, o)
		}
	}
	switch len(live) {
	case 0:
		return nil
	case 1:
		return live[0]
	}
	return func(ev Event) {
		for _, o := range live {
			o(ev)
		}
	}
}
