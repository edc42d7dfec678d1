package trace

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"time"
)

// Format represents the output format for trace events.
type Format uint8

const (
	FormatAuto   Format = iota // выбирается по расширению файла
	FormatText                 // human-readable text
	FormatNDJSON               // newline-delimited JSON
	FormatChrome               // chrome://tracing / Perfetto
)

// FormatEvent renders one event. In Chrome format span begins render as nil:
// a span is written once, as a complete event, when it ends.
func FormatEvent(ev *Event, format Format) []byte {
	switch format {
	case FormatNDJSON:
		return formatNDJSON(ev)
	case FormatChrome:
		return formatChrome(ev)
	default:
		return formatText(ev)
	}
}

func formatNDJSON(ev *Event) []byte {
	type jsonEvent struct {
		Time      string            `json:"time"`
		Seq       uint64            `json:"seq"`
		Kind      string            `json:"kind"`
		Scope     string            `json:"scope"`
		SpanID    uint64            `json:"span_id,omitempty"`
		ParentID  uint64            `json:"parent_id,omitempty"`
		Name      string            `json:"name"`
		Module    string            `json:"module,omitempty"`
		Path      string            `json:"path,omitempty"`
		Depth     int               `json:"depth,omitempty"`
		ElapsedUS int64             `json:"elapsed_us,omitempty"`
		Detail    string            `json:"detail,omitempty"`
		Extra     map[string]string `json:"extra,omitempty"`
	}
	data, _ := json.Marshal(jsonEvent{
		Time:      ev.Time.Format("2006-01-02T15:04:05.000000Z07:00"),
		Seq:       ev.Seq,
		Kind:      ev.Kind.String(),
		Scope:     ev.Scope.String(),
		SpanID:    ev.SpanID,
		ParentID:  ev.ParentID,
		Name:      ev.Name,
		Module:    ev.Module,
		Path:      ev.Path,
		Depth:     ev.Depth,
		ElapsedUS: ev.Elapsed.Microseconds(),
		Detail:    ev.Detail,
		Extra:     ev.Extra,
	})
	return append(data, '\n')
}

type chromeEvent struct {
	Name string            `json:"name"`
	Cat  string            `json:"cat"`
	Ph   string            `json:"ph"`
	Ts   int64             `json:"ts"`
	Dur  int64             `json:"dur,omitempty"`
	Pid  int               `json:"pid"`
	Tid  int               `json:"tid"`
	S    string            `json:"s,omitempty"`
	Args map[string]string `json:"args,omitempty"`
}

// formatChrome пишет одно событие Trace Event Format без обрамляющего
// массива. Модуль становится именем события, чтобы в Perfetto было видно,
// что именно разрешалось.
func formatChrome(ev *Event) []byte {
	if ev.Kind == KindSpanBegin {
		return nil
	}
	args := maps.Clone(ev.Extra)
	set := func(k, v string) {
		if v == "" {
			return
		}
		if args == nil {
			args = make(map[string]string, 2)
		}
		args[k] = v
	}
	set("detail", ev.Detail)
	set("path", ev.Path)

	name := ev.Name
	if ev.Module != "" {
		name = ev.Name + " " + ev.Module
	}
	c := chromeEvent{Name: name, Cat: ev.Scope.String(), Ph: "i", S: "t", Ts: ev.Time.UnixMicro(), Pid: 1, Tid: 1, Args: args}
	if ev.Kind == KindSpanEnd {
		c.Ph, c.S = "X", ""
		c.Ts = ev.Time.Add(-ev.Elapsed).UnixMicro()
		c.Dur = max(ev.Elapsed.Microseconds(), 1)
	}
	data, _ := json.Marshal(c)
	return data
}

// writeChrome writes a complete Trace Event Format document.
func writeChrome(w io.Writer, events []Event) error {
	if _, err := io.WriteString(w, "{\"traceEvents\":[\n"); err != nil {
		return err
	}
	first := true
	for i := range events {
		data := formatChrome(&events[i])
		if data == nil {
			continue
		}
		if !first {
			if _, err := io.WriteString(w, ",\n"); err != nil {
				return err
			}
		}
		first = false
		if _, err := w.Write(data); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "\n]}\n")
	return err
}

// formatText: [seq] <indent by depth>→/← name module (detail) path=... {k=v}
func formatText(ev *Event) []byte {
	var sb strings.Builder

	fmt.Fprintf(&sb, "[%6d] ", ev.Seq)
	sb.WriteString(strings.Repeat("  ", ev.Depth))

	switch ev.Kind {
	case KindSpanBegin:
		sb.WriteString("→ ")
	case KindSpanEnd:
		sb.WriteString("← ")
	case KindCycle:
		sb.WriteString("↺ ")
	case KindHeartbeat:
		sb.WriteString("♡ ")
	}

	sb.WriteString(ev.Name)
	if ev.Module != "" {
		sb.WriteString(" ")
		sb.WriteString(ev.Module)
	}
	if ev.Detail != "" {
		sb.WriteString(" (")
		sb.WriteString(ev.Detail)
		sb.WriteString(")")
	}
	if ev.Path != "" {
		sb.WriteString(" path=")
		sb.WriteString(ev.Path)
	}
	if ev.Kind == KindSpanEnd && ev.Elapsed > 0 {
		sb.WriteString(" in ")
		sb.WriteString(ev.Elapsed.Round(time.Microsecond).String())
	}

	// ключи сортируются, чтобы вывод был стабильным
	if len(ev.Extra) > 0 {
		sb.WriteString(" {")
		for i, k := range slices.Sorted(maps.Keys(ev.Extra)) {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(k)
			sb.WriteString("=")
			sb.WriteString(ev.Extra[k])
		}
		sb.WriteString("}")
	}

	sb.WriteString("\n")
	return []byte(sb.String())
}
