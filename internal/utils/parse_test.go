package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseIntOr(t *testing.T) {
	testCases := []struct {
		value       string
		def         int
		expected    int
		description string
	}{
		{"2", 1, 2, "Plain integer"},
		{" 3 ", 1, 3, "Surrounding whitespace"},
		{"banana", 1, 1, "Garbage falls back"},
		{"", 7, 7, "Empty falls back"},
		{"-1", 0, -1, "Negative parses"},
		{"2.5", 4, 4, "Float is not an int"},
	}

	for _, tc := range testCases {
		if got := ParseIntOr(tc.value, tc.def); got != tc.expected {
			t.Errorf("%s: ParseIntOr(%q, %d) = %d, want %d",
				tc.description, tc.value, tc.def, got, tc.expected)
		}
	}
}

func TestParseBoolOr(t *testing.T) {
	testCases := []struct {
		value       string
		def         bool
		expected    bool
		description string
	}{
		{"1", false, true, "Numeric true"},
		{"true", false, true, "Word true"},
		{"0", true, false, "Numeric false"},
		{"False", true, false, "Capitalized false"},
		{"yes", false, false, "Unrecognized falls back"},
		{"", true, true, "Empty falls back"},
	}

	for _, tc := range testCases {
		if got := ParseBoolOr(tc.value, tc.def); got != tc.expected {
			t.Errorf("%s: ParseBoolOr(%q, %t) = %t, want %t",
				tc.description, tc.value, tc.def, got, tc.expected)
		}
	}
}

func TestParseTOMLWithRecovery(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "partial.toml")
	content := "[menu]\ninitial_page = 2\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	data, err := ParseTOMLWithRecovery(path)
	if err != nil {
		t.Fatalf("ParseTOMLWithRecovery: %v", err)
	}
	section, ok := ExtractSection(data, "menu")
	if !ok {
		t.Fatal("menu section missing")
	}
	if val, ok := ExtractInt64(section, "initial_page"); !ok || val != 2 {
		t.Errorf("initial_page = %d, %v", val, ok)
	}
	if _, ok := ExtractBool(section, "initial_page"); ok {
		t.Error("ExtractBool accepted an integer")
	}
	if _, ok := ExtractString(section, "missing"); ok {
		t.Error("ExtractString found a missing key")
	}
}
