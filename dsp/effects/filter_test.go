package effects

import "testing"

func TestPassThroughIdentity(t *testing.T) {
	p := NewPassThrough()

	for _, in := range []float32{0, 1, -1, 0.5, -0.25} {
		if got := p.ProcessSample(in); got != in {
			t.Fatalf("ProcessSample(%v): got %v", in, got)
		}
	}

	p.Reset()

	if got := p.ProcessSample(0.75); got != 0.75 {
		t.Fatalf("after Reset: got %v want 0.75", got)
	}
}

func TestTypeStrings(t *testing.T) {
	cases := []struct {
		typ  Type
		want string
	}{
		{TypePassThrough, "pass"},
		{TypeDelay, "delay"},
		{TypeFlange, "flange"},
		{TypeDistort, "distort"},
	}

	for _, c := range cases {
		if got := c.typ.String(); got != c.want {
			t.Fatalf("String(%d): got %q want %q", int(c.typ), got, c.want)
		}

		parsed, err := ParseType(c.want)
		if err != nil {
			t.Fatalf("ParseType(%q): %v", c.want, err)
		}
		if parsed != c.typ {
			t.Fatalf("ParseType(%q): got %v want %v", c.want, parsed, c.typ)
		}
	}
}

func TestParseTypeAliasesAndErrors(t *testing.T) {
	if typ, err := ParseType("passthrough"); err != nil || typ != TypePassThrough {
		t.Fatalf("ParseType(passthrough): got (%v, %v)", typ, err)
	}

	if _, err := ParseType("chorus"); err == nil {
		t.Fatal("expected error for unknown type")
	}

	if _, err := ParseType(""); err == nil {
		t.Fatal("expected error for empty type")
	}
}

// Compile-time interface checks.
var (
	_ Filter = (*PassThrough)(nil)
	_ Filter = (*Delay)(nil)
	_ Filter = (*Flange)(nil)
	_ Filter = (*Distort)(nil)
)
