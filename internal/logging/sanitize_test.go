package logging

import (
	"reflect"
	"testing"

	"github.com/rs/zerolog"
)

func TestSanitizeMasksCredentials(t *testing.T) {
	in := map[string]any{
		"email":    "d@jwt.com",
		"password": "diner",
		"nested": map[string]any{
			"jwt":   "aaa.bbb.ccc",
			"price": 0.05,
		},
		"items": []any{map[string]any{"Token": "x", "menuId": "m1"}},
	}
	got := Sanitize(in)
	want := map[string]any{
		"email":    "d@jwt.com",
		"password": redacted,
		"nested": map[string]any{
			"jwt":   redacted,
			"price": 0.05,
		},
		"items": []any{map[string]any{"Token": redacted, "menuId": "m1"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Sanitize() = %#v, want %#v", got, want)
	}
	if in["password"] != "diner" {
		t.Fatal("Sanitize must not mutate its input")
	}
}

func TestSanitizeScalars(t *testing.T) {
	if got := Sanitize("plain"); got != "plain" {
		t.Fatalf("Sanitize(string) = %v", got)
	}
	if got := Sanitize(nil); got != nil {
		t.Fatalf("Sanitize(nil) = %v", got)
	}
}

func TestLevelForStatus(t *testing.T) {
	tests := []struct {
		status int
		want   zerolog.Level
	}{
		{200, zerolog.InfoLevel},
		{302, zerolog.InfoLevel},
		{404, zerolog.WarnLevel},
		{500, zerolog.ErrorLevel},
		{503, zerolog.ErrorLevel},
	}
	for _, tt := range tests {
		if got := LevelForStatus(tt.status); got != tt.want {
			t.Fatalf("LevelForStatus(%d) = %v, want %v", tt.status, got, tt.want)
		}
	}
}
