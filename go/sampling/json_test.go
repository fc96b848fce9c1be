package sampling

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseFactory(t *testing.T) {
	tests := []struct {
		spec string
		want Factory
	}{
		{"mod:16", Mod(16)},
		{"pow2:4", PowerOfTwo(4)},
		{"pow2:0", PowerOfTwo(0)},
		{"float:0.0625", Float(0.0625)},
		{"float:1", Float(1)},
		{"hash:0.1", Hash(0.1)},
	}
	for _, test := range tests {
		got, err := ParseFactory(test.spec)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", test.spec, err)
			continue
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("%s: diff (-want +got):\n%s", test.spec, diff)
		}
		if got.String() != test.spec {
			t.Errorf("%s: String() = %q", test.spec, got.String())
		}
	}
}

func TestParseFactoryErrors(t *testing.T) {
	bad := []string{
		"",
		"mod",
		"mod:0",
		"mod:-1",
		"mod:abc",
		"pow2:32",
		"float:1.5",
		"float:-0.1",
		"float:NaN",
		"hash:2",
		"rand:0.1",
	}
	for _, spec := range bad {
		if f, err := ParseFactory(spec); err == nil {
			t.Errorf("%q: got %+v, want error", spec, f)
		}
	}
	if _, err := ParseFactory("rand:0.1"); !errors.Is(err, errUnknownKind) {
		t.Errorf("unknown kind error = %v, want wrapped %v", err, errUnknownKind)
	}
}

func TestFactoryNew(t *testing.T) {
	tests := []struct {
		f    Factory
		want Predicate
	}{
		{Mod(10), NewModPredicate(10)},
		{PowerOfTwo(4), NewPowerOfTwoPredicate(4)},
		{Float(0.03456), NewFloatPredicate(0.03456)},
		{Hash(0.5), NewHashPredicate(0.5)},
	}
	for _, test := range tests {
		got, err := test.f.New()
		if err != nil {
			t.Errorf("%v: unexpected error: %v", test.f, err)
			continue
		}
		if got != test.want {
			t.Errorf("%v: got %#v, want %#v", test.f, got, test.want)
		}
	}

	if p, err := Mod(0).New(); err == nil {
		t.Errorf("Mod(0).New() = %v, want error", p)
	}
	if p, err := (Factory{Kind: "bogus"}).New(); err == nil {
		t.Errorf("bogus kind: got %v, want error", p)
	}
}

func TestFactoryNominalRate(t *testing.T) {
	tests := []struct {
		f    Factory
		want float64
	}{
		{Mod(16), 1.0 / 16},
		{Mod(10), 0.1},
		{PowerOfTwo(4), 1.0 / 16},
		{PowerOfTwo(0), 1},
		{Float(0.03456), 0.03456},
	}
	for _, test := range tests {
		if got := test.f.NominalRate(); got != test.want {
			t.Errorf("%v: nominal rate = %g, want %g", test.f, got, test.want)
		}
	}
}

func TestFactoryJSON(t *testing.T) {
	var got []Factory
	data := `[{"kind": "mod", "modulus": 16}, {"kind": "pow2", "shift": 4}, {"kind": "float", "prob": 0.1}]`
	if err := json.Unmarshal([]byte(data), &got); err != nil {
		t.Fatal(err)
	}
	want := []Factory{Mod(16), PowerOfTwo(4), Float(0.1)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("diff (-want +got):\n%s", diff)
	}
}
