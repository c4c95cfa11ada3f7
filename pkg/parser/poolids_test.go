package parser

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func loadFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("read fixture %s: %v", name, err)
	}
	return string(data)
}

func TestParsePoolIDs(t *testing.T) {
	html := loadFixture(t, "pool_scores.html")

	list, err := ParsePoolIDs(html, "round-1")
	if err != nil {
		t.Fatalf("ParsePoolIDs() error = %v", err)
	}

	if list.RoundID != "round-1" {
		t.Errorf("RoundID = %q, want %q", list.RoundID, "round-1")
	}

	want := []string{
		"AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA1",
		"BBBBBBBBBBBBBBBBBBBBBBBBBBBBBBB2",
		"CCCCCCCCCCCCCCCCCCCCCCCCCCCCCCC3",
	}
	if !reflect.DeepEqual(list.PoolIDs, want) {
		t.Errorf("PoolIDs = %v, want %v", list.PoolIDs, want)
	}
}

func TestParsePoolIDsErrors(t *testing.T) {
	tests := []struct {
		name string
		html string
	}{
		{
			name: "no script array",
			html: "<html><body><p>nothing here</p></body></html>",
		},
		{
			name: "array without identifiers",
			html: "<script>var ids = [];</script>",
		},
		{
			name: "array with malformed entries",
			html: `<script>var ids = ["not-a-hex-id"];</script>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePoolIDs(tt.html, "round-1")
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Errorf("error type = %T, want *ParseError", err)
			}
		})
	}
}

func TestParsePoolIDsDedupePreservesFirstSeen(t *testing.T) {
	html := `<script>var ids = ["bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb2", "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA1", "BBBBBBBBBBBBBBBBBBBBBBBBBBBBBBB2"];</script>`

	list, err := ParsePoolIDs(html, "r")
	if err != nil {
		t.Fatalf("ParsePoolIDs() error = %v", err)
	}

	want := []string{
		"BBBBBBBBBBBBBBBBBBBBBBBBBBBBBBB2",
		"AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA1",
	}
	if !reflect.DeepEqual(list.PoolIDs, want) {
		t.Errorf("PoolIDs = %v, want %v", list.PoolIDs, want)
	}
}
