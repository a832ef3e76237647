package util

import "testing"

func TestParseSize(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"25MB", 25 << 20},
		{"512KB", 512 << 10},
		{"2GB", 2 << 30},
		{"1024", 1024},
		{"100B", 100},
		{"  10 mb  ", 10 << 20},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			if got := ParseSize(tc.input, 0); got != tc.want {
				t.Errorf("expected %d, got %d", tc.want, got)
			}
		})
	}
}

func TestParseSize_Default(t *testing.T) {
	const def = 5 << 20
	for _, in := range []string{"", "invalid", "-1MB", "1.5MB"} {
		if got := ParseSize(in, def); got != def {
			t.Errorf("ParseSize(%q): expected default %d, got %d", in, def, got)
		}
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{512, "512B"},
		{2048, "2.0KB"},
		{3 << 20, "3.0MB"},
		{1536 << 20, "1.5GB"},
	}
	for _, tc := range tests {
		if got := FormatSize(tc.n); got != tc.want {
			t.Errorf("FormatSize(%d): expected %q, got %q", tc.n, tc.want, got)
		}
	}
}

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		input  string
		prefix int
		want   string
	}{
		{"gladia-key-123456", 4, "glad***"},
		{"short", 10, "***"},
		{"", 5, "***"},
		{"ключ-секрет", 4, "ключ***"},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			if got := MaskSecret(tc.input, tc.prefix); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
