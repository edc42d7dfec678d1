package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"hidl/internal/diag"
	"hidl/internal/source"
)

func sampleBag(fs *source.FileSet) *diag.Bag {
	content := []byte("package android.hardware.foo@1.0;\nimport android.hardware.foo@1.0::IMissing;\ninterface IFoo {};\n")
	fileID := fs.AddVirtual("hardware/foo/1.0/IFoo.hal", content)

	bag := diag.NewBag(10)
	start := uint32(len("package android.hardware.foo@1.0;\nimport "))
	bag.Add(diag.New(
		diag.SevError,
		diag.ResImportFailed,
		source.Span{File: fileID, Start: start, End: start + uint32(len("android.hardware.foo@1.0::IMissing"))},
		"cannot import android.hardware.foo@1.0::IMissing",
	).WithNote(source.NoSpan, "android.hardware.foo@1.0::IMissing: file not found"))
	bag.Add(diag.New(diag.SevWarning, diag.ResCircularImport, source.Span{File: fileID, Start: 0, End: 7}, "circular import"))
	bag.Add(diag.New(diag.SevError, diag.ResNoPackageRoot, source.NoSpan, "no package root matches vendor.acme"))
	return bag
}

// TestJSONBasic проверяет базовое JSON форматирование
func TestJSONBasic(t *testing.T) {
	fs := source.NewFileSet()
	bag := sampleBag(fs)

	var buf bytes.Buffer
	opts := JSONOpts{
		IncludePositions: true,
		PathMode:         PathModeBasename,
		IncludeNotes:     true,
	}
	if err := JSON(&buf, bag, fs, opts); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Failed to parse JSON output: %v\n%s", err, buf.String())
	}

	if output.Count != 3 || output.Errors != 2 || output.Warnings != 1 {
		t.Fatalf("unexpected counters: %+v", output)
	}

	d := output.Diagnostics[0]
	if d.Severity != "ERROR" || d.Code != "RES3006" {
		t.Errorf("severity/code = %s/%s", d.Severity, d.Code)
	}
	if d.Title != diag.ResImportFailed.Title() {
		t.Errorf("title = %q", d.Title)
	}
	if d.Location == nil {
		t.Fatal("expected location")
	}
	if d.Location.File != "IFoo.hal" {
		t.Errorf("file = %q, want IFoo.hal", d.Location.File)
	}
	if d.Location.StartLine != 2 || d.Location.StartCol != 8 {
		t.Errorf("position = %d:%d, want 2:8", d.Location.StartLine, d.Location.StartCol)
	}
	if len(d.Notes) != 1 || d.Notes[0].Location != nil {
		t.Errorf("expected one location-less note, got %+v", d.Notes)
	}

	if output.Diagnostics[2].Location != nil {
		t.Errorf("diagnostic without file must omit location")
	}
}

func TestJSONOmitsPositionsAndNotes(t *testing.T) {
	fs := source.NewFileSet()
	bag := sampleBag(fs)

	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{PathMode: PathModeAuto})
	d := out.Diagnostics[0]
	if d.Location == nil || d.Location.StartLine != 0 {
		t.Errorf("positions must be omitted: %+v", d.Location)
	}
	if d.Location.EndByte-d.Location.StartByte != uint32(len("android.hardware.foo@1.0::IMissing")) {
		t.Errorf("byte range = %d..%d", d.Location.StartByte, d.Location.EndByte)
	}
	if len(d.Notes) != 0 {
		t.Errorf("notes must be omitted")
	}

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{}); err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(buf.Bytes(), []byte(`"start_line"`)) {
		t.Errorf("start_line must be omitted:\n%s", buf.String())
	}
}

func TestJSONMaxLimit(t *testing.T) {
	fs := source.NewFileSet()
	bag := sampleBag(fs)

	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 1})
	if out.Count != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("expected one diagnostic, got %d", out.Count)
	}
	if out.Dropped != 2 {
		t.Errorf("dropped = %d, want 2", out.Dropped)
	}
	// счётчики считаются по всему Bag
	if out.Errors != 2 || out.Warnings != 1 {
		t.Errorf("counters = %d/%d", out.Errors, out.Warnings)
	}
}

func TestJSONNilBag(t *testing.T) {
	var buf bytes.Buffer
	if err := JSON(&buf, nil, nil, JSONOpts{}); err != nil {
		t.Fatal(err)
	}
	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatal(err)
	}
	if output.Diagnostics == nil || output.Count != 0 {
		t.Errorf("empty output expected, got %+v", output)
	}
}

func TestSarif(t *testing.T) {
	fs := source.NewFileSet()
	bag := sampleBag(fs)

	var buf bytes.Buffer
	err := Sarif(&buf, bag, fs, SarifRunMeta{ToolVersion: "0.1.0", InvocationArgs: []string{"check", "--all"}})
	if err != nil {
		t.Fatalf("Sarif() error: %v", err)
	}

	var log struct {
		Version string `json:"version"`
		Runs    []struct {
			Tool struct {
				Driver struct {
					Name  string `json:"name"`
					Rules []struct {
						ID string `json:"id"`
					} `json:"rules"`
				} `json:"driver"`
			} `json:"tool"`
			Invocations []struct {
				ExecutionSuccessful bool `json:"executionSuccessful"`
			} `json:"invocations"`
			Results []struct {
				RuleID    string            `json:"ruleId"`
				Level     string            `json:"level"`
				Locations []json.RawMessage `json:"locations"`
			} `json:"results"`
		} `json:"runs"`
	}
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("invalid SARIF JSON: %v", err)
	}
	if log.Version != "2.1.0" || len(log.Runs) != 1 {
		t.Fatalf("unexpected SARIF envelope: %+v", log)
	}
	run := log.Runs[0]
	if run.Tool.Driver.Name != "hidl" {
		t.Errorf("tool name = %q", run.Tool.Driver.Name)
	}
	if len(run.Tool.Driver.Rules) != 3 || run.Tool.Driver.Rules[0].ID != "RES3005" {
		t.Errorf("rules must be unique and sorted: %+v", run.Tool.Driver.Rules)
	}
	if len(run.Results) != 3 || run.Results[1].Level != "warning" {
		t.Errorf("unexpected results: %+v", run.Results)
	}
	if len(run.Results[2].Locations) != 0 {
		t.Errorf("location-less result must omit locations")
	}
	if len(run.Invocations) != 1 || run.Invocations[0].ExecutionSuccessful {
		t.Errorf("errors must mark the invocation as failed")
	}
}
