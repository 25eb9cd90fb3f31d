package pyrt

import "testing"

func TestParseVersion(t *testing.T) {
	tests := []struct {
		input   string
		want    Version
		wantErr bool
	}{
		{"3.12", Version{3, 12}, false},
		{"3.12\n", Version{3, 12}, false},
		{"3.8.10", Version{3, 8}, false},
		{"2.7", Version{2, 7}, false},
		{"3", Version{}, true},
		{"", Version{}, true},
		{"three.twelve", Version{}, true},
	}

	for _, tt := range tests {
		got, err := ParseVersion(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseVersion(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseVersion(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestVersionDirNames(t *testing.T) {
	v := Version{Major: 3, Minor: 12}

	if v.MinorDir() != "3.12" {
		t.Errorf("MinorDir() = %q, want 3.12", v.MinorDir())
	}
	if v.MajorDir() != "3" {
		t.Errorf("MajorDir() = %q, want 3", v.MajorDir())
	}
}
