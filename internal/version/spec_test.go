package version

import (
	"testing"
)

func TestParseSpec(t *testing.T) {
	tests := []struct {
		raw      string
		wantKind Kind
		wantText string
	}{
		{"", Latest, "latest"},
		{"latest", Latest, "latest"},
		{"LATEST", Latest, "latest"},
		{"4.19.2", Exact, "4.19.2"},
		{"v4.19.2", Exact, "4.19.2"},
		{"V4.19.2", Exact, "4.19.2"},
		{"4.19.2-rc.3", Exact, "4.19.2-rc.3"},
		{"4.19", MajorMinor, "4.19"},
		{"v4.19", MajorMinor, "4.19"},
		{"  4.19  ", MajorMinor, "4.19"},
		{"4", Pattern, "4"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			spec, err := ParseSpec(tt.raw)
			if err != nil {
				t.Fatalf("ParseSpec(%q) error: %v", tt.raw, err)
			}
			if spec.Kind != tt.wantKind {
				t.Errorf("kind = %v, want %v", spec.Kind, tt.wantKind)
			}
			if spec.Text != tt.wantText {
				t.Errorf("text = %q, want %q", spec.Text, tt.wantText)
			}
		})
	}
}

func TestParseSpecRejectsMalformedInput(t *testing.T) {
	tests := []string{
		"abc",
		"v",
		"4.x",
		"4..19",
		"4.19.2.1",
		"4.19-rc",
		"-4.19",
		"4.19.2+meta+meta",
	}

	for _, raw := range tests {
		t.Run(raw, func(t *testing.T) {
			if spec, err := ParseSpec(raw); err == nil {
				t.Errorf("ParseSpec(%q) = %+v, want error", raw, spec)
			}
		})
	}
}

func TestSpecString(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"", "latest"},
		{"4.19", "4.19"},
		{"v4.19.2", "4.19.2"},
	}

	for _, tt := range tests {
		spec, err := ParseSpec(tt.raw)
		if err != nil {
			t.Fatalf("ParseSpec(%q) error: %v", tt.raw, err)
		}
		if got := spec.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
