package order

import (
	"regexp"
	"strings"
	"testing"
	"time"
)

func TestGeneratorGenerate(t *testing.T) {
	t.Parallel()

	g := &Generator{
		now:  func() time.Time { return time.Date(2024, time.March, 5, 12, 0, 0, 0, time.Local) },
		intN: func(n int) int { return 0 },
	}

	got := g.Generate("逆水寒")
	want := "逆水寒-20240305-1000"
	if got != want {
		t.Errorf("Generate() = %q, want %q", got, want)
	}
}

func TestGeneratorFormat(t *testing.T) {
	t.Parallel()

	pattern := regexp.MustCompile(`^逆水寒-\d{8}-\d{4}$`)

	g := NewGenerator()
	for range 100 {
		id := g.Generate("逆水寒")
		if !pattern.MatchString(id) {
			t.Fatalf("Generate() = %q, want match for %v", id, pattern)
		}

		suffix := id[strings.LastIndex(id, "-")+1:]
		if suffix < "1000" || suffix > "9999" {
			t.Fatalf("Generate() suffix = %s, want in [1000,9999]", suffix)
		}
	}
}

func TestGeneratorZeroPadsDate(t *testing.T) {
	t.Parallel()

	g := &Generator{
		now:  func() time.Time { return time.Date(2026, time.January, 2, 0, 0, 0, 0, time.Local) },
		intN: func(n int) int { return n - 1 },
	}

	got := g.Generate("A")
	want := "A-20260102-9999"
	if got != want {
		t.Errorf("Generate() = %q, want %q", got, want)
	}
}
