package slug_test

import (
	"context"
	"testing"

	"github.com/coursebase/coursebase-api/internal/pkg/slug"
)

func TestMake(t *testing.T) {
	cases := map[string]string{
		"Web Development":       "web-development",
		"  Go & Cloud!  ":       "go-cloud",
		"C++ 101":               "c-101",
		"Data---Science":        "data-science",
		"ALL CAPS":              "all-caps",
		"":                      "",
	}
	for in, want := range cases {
		if got := slug.Make(in); got != want {
			t.Errorf("Make(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMakeUniqueSuffixes(t *testing.T) {
	taken := map[string]bool{}
	exists := func(ctx context.Context, s string) (bool, error) {
		return taken[s], nil
	}

	ctx := context.Background()
	for i, want := range []string{"web-development", "web-development-1", "web-development-2"} {
		got, err := slug.MakeUnique(ctx, "Web Development", exists)
		if err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
		if got != want {
			t.Fatalf("call %d: got %q, want %q", i, got, want)
		}
		taken[got] = true
	}
}

func TestMakeUniqueEmptyName(t *testing.T) {
	got, err := slug.MakeUnique(context.Background(), "!!!", func(ctx context.Context, s string) (bool, error) {
		return false, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if got == "" {
		t.Fatal("expected non-empty fallback slug")
	}
}
