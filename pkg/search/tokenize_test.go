package search

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	testCases := []struct {
		input       string
		expected    []string
		description string
	}{
		{"Foo-Bar_Baz", []string{"foo", "bar", "baz"}, "Separators become word breaks"},
		{"", nil, "Empty input"},
		{"   ", nil, "Whitespace only"},
		{"Firefox", []string{"firefox"}, "Single word lowercased"},
		{"qubes-app menu", []string{"qubes", "app", "menu"}, "Mixed separators"},
		{"a--b", []string{"a", "b"}, "Consecutive separators drop empty tokens"},
		{"_leading-trailing_", []string{"leading", "trailing"}, "Separators at both ends"},
		{"Text  Editor", []string{"text", "editor"}, "Double space"},
	}

	for _, tc := range testCases {
		got := Tokenize(tc.input)
		if len(got) == 0 && len(tc.expected) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tc.expected) {
			t.Errorf("%s: Tokenize(%q) = %v, want %v", tc.description, tc.input, got, tc.expected)
		}
	}
}

func TestTokenizeOrderIsDeterministic(t *testing.T) {
	first := Tokenize("gedit Text-Editor gnome")
	for i := 0; i < 10; i++ {
		if got := Tokenize("gedit Text-Editor gnome"); !reflect.DeepEqual(got, first) {
			t.Fatalf("Tokenize order changed between runs: %v vs %v", got, first)
		}
	}
	want := []string{"gedit", "text", "editor", "gnome"}
	if !reflect.DeepEqual(first, want) {
		t.Errorf("Tokenize order does not follow source order: %v, want %v", first, want)
	}
}
