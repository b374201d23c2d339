package catalog

import (
	"strings"
	"testing"
)

func TestLoadEmbedded(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if c.Len() != 13 {
		t.Errorf("Len() = %d, want 13", c.Len())
	}

	excluded := []string{"DRTL", "DSHR", "IRON", "MEMD", "DWKD", "LTDR", "LTDS"}
	for _, code := range excluded {
		if !c.HellfireQuestsExcluded(code) {
			t.Errorf("HellfireQuestsExcluded(%q) = false, want true", code)
		}
	}

	for _, code := range []string{"HRTL", "HSHR", "DRDX", "HWKD", "LTHR", "LTHS", "ZZZZ"} {
		if c.HellfireQuestsExcluded(code) {
			t.Errorf("HellfireQuestsExcluded(%q) = true, want false", code)
		}
	}

	if c.Icon("DRTL") == "" {
		t.Error("Icon(DRTL) is empty")
	}
	if c.Icon("ZZZZ") != "" {
		t.Error("Icon(unknown) should be empty")
	}
}

func TestNewRejectsBadTables(t *testing.T) {
	tests := []struct {
		name  string
		types []GameType
		want  string
	}{
		{"short code", []GameType{{Code: "DRT"}}, "4 upper-case"},
		{"lower case code", []GameType{{Code: "drtl"}}, "4 upper-case"},
		{"duplicate", []GameType{{Code: "DRTL"}, {Code: "DRTL"}}, "duplicate"},
		{"relative icon", []GameType{{Code: "DRTL", Icon: "/img/x.png"}}, "invalid icon"},
		{"ftp icon", []GameType{{Code: "DRTL", Icon: "ftp://host/x.png"}}, "invalid icon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.types...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	c, err := Parse([]byte(`[{"code":"ABCD","name":"Test","icon":"https://example.com/a.png","diablo":true}]`))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	gt, ok := c.Lookup("ABCD")
	if !ok || gt.Name != "Test" {
		t.Errorf("Lookup(ABCD) = %+v, %v", gt, ok)
	}

	if _, err := Parse([]byte(`{`)); err == nil {
		t.Error("Parse() of malformed JSON should fail")
	}
}
