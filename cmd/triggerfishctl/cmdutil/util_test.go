package cmdutil

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseCommaSeparatedList(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"single", "onput", []string{"onput"}},
		{"multiple", "onput,onget,ontimer", []string{"onput", "onget", "ontimer"}},
		{"whitespace", " onput , onget ", []string{"onput", "onget"}},
		{"empty items", "onput,,onget,", []string{"onput", "onget"}},
		{"only commas", ",,,", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseCommaSeparatedList(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("ParseCommaSeparatedList(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("item %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestBoolToYesNo(t *testing.T) {
	if got := BoolToYesNo(true); got != "yes" {
		t.Errorf("BoolToYesNo(true) = %q, want yes", got)
	}
	if got := BoolToYesNo(false); got != "no" {
		t.Errorf("BoolToYesNo(false) = %q, want no", got)
	}
}

func TestEmptyOr(t *testing.T) {
	if got := EmptyOr("value", "-"); got != "value" {
		t.Errorf("EmptyOr(value, -) = %q, want value", got)
	}
	if got := EmptyOr("", "-"); got != "-" {
		t.Errorf("EmptyOr(empty, -) = %q, want -", got)
	}
}

func TestPrintOutputEmptyTable(t *testing.T) {
	orig := Flags.Output
	Flags.Output = "table"
	defer func() { Flags.Output = orig }()

	var buf bytes.Buffer
	if err := PrintOutput(&buf, []string{}, true, "No deployments found.", nil); err != nil {
		t.Fatalf("PrintOutput: %v", err)
	}

	if !strings.Contains(buf.String(), "No deployments found.") {
		t.Errorf("expected empty message, got %q", buf.String())
	}
}

func TestPrintOutputJSON(t *testing.T) {
	orig := Flags.Output
	Flags.Output = "json"
	defer func() { Flags.Output = orig }()

	var buf bytes.Buffer
	data := map[string]string{"name": "thumbnailer"}
	if err := PrintOutput(&buf, data, false, "", nil); err != nil {
		t.Fatalf("PrintOutput: %v", err)
	}

	if !strings.Contains(buf.String(), `"name": "thumbnailer"`) {
		t.Errorf("expected JSON output, got %q", buf.String())
	}
}

func TestPrintOutputInvalidFormat(t *testing.T) {
	orig := Flags.Output
	Flags.Output = "xml"
	defer func() { Flags.Output = orig }()

	var buf bytes.Buffer
	if err := PrintOutput(&buf, nil, true, "empty", nil); err == nil {
		t.Error("expected error for invalid output format")
	}
}
