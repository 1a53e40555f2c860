package money_test

import (
	"errors"
	"testing"

	"github.com/coursebase/coursebase-api/internal/pkg/money"
)

func TestParse(t *testing.T) {
	cases := []struct {
		raw  string
		want int64
	}{
		{"0", 0},
		{"100", 10000},
		{"99.9", 9990},
		{"99.90", 9990},
		{"0.01", 1},
		{"-12.34", -1234},
	}
	for _, c := range cases {
		got, err := money.Parse(c.raw)
		if err != nil {
			t.Fatalf("Parse(%q): %v", c.raw, err)
		}
		if got != c.want {
			t.Fatalf("Parse(%q) = %d, want %d", c.raw, got, c.want)
		}
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := money.Parse("ten dollars"); !errors.Is(err, money.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if _, err := money.Parse("1.005"); !errors.Is(err, money.ErrTooPrecise) {
		t.Fatalf("expected ErrTooPrecise, got %v", err)
	}
}

func TestFormat(t *testing.T) {
	if s := money.Format(9990); s != "99.90" {
		t.Fatalf("Format(9990) = %q", s)
	}
	if s := money.Format(-1); s != "-0.01" {
		t.Fatalf("Format(-1) = %q", s)
	}
	if s := money.Format(0); s != "0.00" {
		t.Fatalf("Format(0) = %q", s)
	}
}
