package stencil_test

import (
	"errors"
	"testing"

	"github.com/zoobzio/stencil"
)

func isLowerHex(s string) bool {
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

func TestXXHash32_Format(t *testing.T) {
	inputs := []string{"", "a", "length:5", "circular:a.b{x,y}", "type:record"}
	for _, in := range inputs {
		got := stencil.XXHash32(in)
		if len(got) != 8 {
			t.Errorf("XXHash32(%q) length = %d, want 8", in, len(got))
		}
		if !isLowerHex(got) {
			t.Errorf("XXHash32(%q) = %q, want lowercase hex", in, got)
		}
	}
}

func TestXXHash32_Deterministic(t *testing.T) {
	if a, b := stencil.XXHash32("key"), stencil.XXHash32("key"); a != b {
		t.Errorf("XXHash32 not deterministic: %q != %q", a, b)
	}
	if a, b := stencil.XXHash32("key"), stencil.XXHash32("key2"); a == b {
		t.Errorf("XXHash32 collides on trivially different input: %q", a)
	}
}

func TestDigesters(t *testing.T) {
	tests := []struct {
		name string
		d    stencil.Digester
	}{
		{"sha256", stencil.SHA256Digester()},
		{"sha512", stencil.SHA512Digester()},
		{"blake2b", stencil.BLAKE2bDigester()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.d.Digest([]byte("L0:842-L1:1962424934"))
			if err != nil {
				t.Fatalf("Digest() error: %v", err)
			}
			if len(got) != 64 {
				t.Errorf("Digest() length = %d, want 64", len(got))
			}
			if !isLowerHex(got) {
				t.Errorf("Digest() = %q, want lowercase hex", got)
			}

			again, err := tt.d.Digest([]byte("L0:842-L1:1962424934"))
			if err != nil {
				t.Fatalf("Digest() error: %v", err)
			}
			if got != again {
				t.Errorf("Digest() not deterministic: %q != %q", got, again)
			}
		})
	}
}

func TestDigesters_Distinct(t *testing.T) {
	in := []byte("L0:1")
	a, _ := stencil.SHA256Digester().Digest(in)
	b, _ := stencil.SHA512Digester().Digest(in)
	c, _ := stencil.BLAKE2bDigester().Digest(in)

	if a == b || a == c || b == c {
		t.Error("different digest algorithms produced identical output")
	}
}

func TestDigesterFor(t *testing.T) {
	for _, algo := range []stencil.DigestAlgo{stencil.DigestSHA256, stencil.DigestSHA512, stencil.DigestBLAKE2b} {
		d, err := stencil.DigesterFor(algo)
		if err != nil {
			t.Errorf("DigesterFor(%q) error: %v", algo, err)
		}
		if d == nil {
			t.Errorf("DigesterFor(%q) returned nil digester", algo)
		}
	}

	d, err := stencil.DigesterFor("md5")
	if d != nil {
		t.Error("DigesterFor(md5) returned a digester")
	}
	if !errors.Is(err, stencil.ErrMissingDigester) {
		t.Errorf("DigesterFor(md5) error = %v, want ErrMissingDigester", err)
	}
}

func TestWithDigestAlgo(t *testing.T) {
	v := stencil.FromAny(map[string]any{"a": 1})

	def := stencil.New()
	blake := stencil.New(stencil.WithDigestAlgo(stencil.DigestBLAKE2b))

	a, err := def.CompactID(v)
	if err != nil {
		t.Fatalf("CompactID() error: %v", err)
	}
	b, err := blake.CompactID(v)
	if err != nil {
		t.Fatalf("CompactID() error: %v", err)
	}
	if a == b {
		t.Error("WithDigestAlgo(blake2b) did not change the compact ID")
	}

	// An unknown algorithm keeps the default digest.
	unknown := stencil.New(stencil.WithDigestAlgo("md5"))
	c, err := unknown.CompactID(v)
	if err != nil {
		t.Fatalf("CompactID() error: %v", err)
	}
	if c != a {
		t.Errorf("unknown algorithm changed the digest: %q != %q", c, a)
	}
}

func TestIsValidDigestAlgo(t *testing.T) {
	for _, algo := range []stencil.DigestAlgo{stencil.DigestSHA256, stencil.DigestSHA512, stencil.DigestBLAKE2b} {
		if !stencil.IsValidDigestAlgo(algo) {
			t.Errorf("IsValidDigestAlgo(%q) = false, want true", algo)
		}
	}
	if stencil.IsValidDigestAlgo("md5") {
		t.Error("IsValidDigestAlgo(md5) = true, want false")
	}
}

func TestWithDigester(t *testing.T) {
	v := stencil.FromAny(map[string]any{"a": 1})

	sha := stencil.New()
	blake := stencil.New(stencil.WithDigester(stencil.BLAKE2bDigester()))

	a, err := sha.CompactID(v)
	if err != nil {
		t.Fatalf("CompactID() error: %v", err)
	}
	b, err := blake.CompactID(v)
	if err != nil {
		t.Fatalf("CompactID() error: %v", err)
	}
	if a == b {
		t.Error("different digesters produced identical compact IDs")
	}
}

func TestWithHash32(t *testing.T) {
	constant := func(string) string { return "0000002a" }

	eng := stencil.New(stencil.WithHash32(constant))
	def := stencil.New()
	v := stencil.FromAny(map[string]any{"a": 1})

	if eng.ID(v) == def.ID(v) {
		t.Error("custom hash primitive had no effect on the identifier")
	}
}
