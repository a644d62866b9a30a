package ca

import "testing"

type rawBytes []byte

func (r rawBytes) Canonical() ([]byte, error) {
	return []byte(r), nil
}

// TestContentAddressingIsAFunction exercises testable property #1 from
// spec.md §8: hashing is deterministic, and distinct canonical encodings
// produce distinct ids (treated as a cryptographic assumption over a
// deterministic corpus, not proven here).
func TestContentAddressingIsAFunction(t *testing.T) {
	corpus := []rawBytes{
		rawBytes("unit"),
		rawBytes("hello world"),
		rawBytes(""),
		rawBytes{0x00, 0x01, 0x02, 0xff},
	}

	seen := map[EntityId]rawBytes{}
	for _, v := range corpus {
		id1, err := FromContent(v)
		if err != nil {
			t.Fatalf("FromContent(%v): %v", v, err)
		}
		id2, err := FromContent(v)
		if err != nil {
			t.Fatalf("FromContent(%v) (again): %v", v, err)
		}
		if id1 != id2 {
			t.Fatalf("hash(%v) not deterministic: %v != %v", v, id1, id2)
		}
		if other, ok := seen[id1]; ok && string(other) != string(v) {
			t.Fatalf("distinct content %v and %v collided on %v", v, other, id1)
		}
		seen[id1] = v
	}
}

func TestEntityIdCompareTotalOrder(t *testing.T) {
	a := EntityId{0x01}
	b := EntityId{0x02}

	if a.Compare(b) >= 0 {
		t.Fatalf("expected a < b")
	}
	if b.Compare(a) <= 0 {
		t.Fatalf("expected b > a")
	}
	if a.Compare(a) != 0 {
		t.Fatalf("expected a == a")
	}
}

func TestEntityIdHexRoundTrip(t *testing.T) {
	id, err := FromContent(rawBytes("round trip me"))
	if err != nil {
		t.Fatal(err)
	}

	parsed, err := ParseHex(id.ToHex())
	if err != nil {
		t.Fatal(err)
	}
	if parsed != id {
		t.Fatalf("hex round trip mismatch: %v != %v", parsed, id)
	}
}

func TestFromBytesRejectsWrongWidth(t *testing.T) {
	if _, err := FromBytes([]byte{1, 2, 3}); err == nil {
		t.Fatal("expected error for short byte slice")
	}
}

func TestCircuitHasherIsDeterministicAndDistinct(t *testing.T) {
	h := New(HasherCircuit)

	a := h.Hash(CurrentVersion, []byte("alpha"))
	aAgain := h.Hash(CurrentVersion, []byte("alpha"))
	b := h.Hash(CurrentVersion, []byte("beta"))

	if a != aAgain {
		t.Fatalf("circuit hasher not deterministic")
	}
	if a == b {
		t.Fatalf("circuit hasher collided on distinct content")
	}
}

func TestVersionTagChangesHash(t *testing.T) {
	h := Default()
	a := h.Hash(1, []byte("same content"))
	b := h.Hash(2, []byte("same content"))
	if a == b {
		t.Fatalf("expected version bump to change the hash")
	}
}
