package bytesize

import "testing"

func TestFormat(t *testing.T) {
	tests := []struct {
		input    int64
		expected string
	}{
		{0, "0 B"},
		{100, "100 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{1024 * 1024, "1.0 MiB"},
		{256 * 1024 * 1024, "256 MiB"},
		{1024 * 1024 * 1024, "1.0 GiB"},
		{1024 * 1024 * 1024 * 1024, "1.0 TiB"},
		{2.5 * 1024 * 1024 * 1024 * 1024, "2.5 TiB"},
	}

	for _, tt := range tests {
		result := Format(tt.input)
		if result != tt.expected {
			t.Errorf("Format(%d) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{"100", 100},
		{"100B", 100},
		{"1KiB", 1024},
		{"1.5KiB", 1536},
		{"32 MiB", 32 * 1024 * 1024},
		{"1GiB", 1024 * 1024 * 1024},
		{"1TiB", 1024 * 1024 * 1024 * 1024},
		// SI units
		{"1KB", 1000},
		{"1MB", 1000 * 1000},
		{"1GB", 1000 * 1000 * 1000},
	}

	for _, tt := range tests {
		result, err := Parse(tt.input)
		if err != nil {
			t.Errorf("Parse(%q): %v", tt.input, err)
			continue
		}
		if result != tt.expected {
			t.Errorf("Parse(%q) = %d, want %d", tt.input, result, tt.expected)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	for _, input := range []string{
		"", "MiB", "abc", "-5MB", "1.2.3KB",
		"NaN", "NaNMiB", "Inf", "+InfKB", "-Inf", "infinity",
		"1e30TiB", "9223372036854775808", "8388608TiB", "1e400",
	} {
		if _, err := Parse(input); err == nil {
			t.Errorf("Parse(%q): expected error", input)
		}
	}
}
