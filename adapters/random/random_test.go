package random_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/artpar/sportsgate/adapters/random"
)

func TestReal_Bytes(t *testing.T) {
	r := random.Real{}

	b1, err := r.Bytes(16)
	if err != nil {
		t.Fatalf("Bytes failed: %v", err)
	}
	b2, _ := r.Bytes(16)

	if len(b1) != 16 {
		t.Errorf("len = %d, want 16", len(b1))
	}
	if bytes.Equal(b1, b2) {
		t.Error("random bytes should differ")
	}
}

func TestFake_PresetValues(t *testing.T) {
	f := random.NewFake().WithValues([]byte{1, 2}, []byte{9, 9, 9, 9})

	first, _ := f.Bytes(4)
	second, _ := f.Bytes(2)

	if !bytes.Equal(first, []byte{1, 2, 0, 0}) {
		t.Errorf("first = %v, want padded preset", first)
	}
	if !bytes.Equal(second, []byte{9, 9}) {
		t.Errorf("second = %v, want truncated preset", second)
	}
}

func TestFake_RepeatedPresetForCollisions(t *testing.T) {
	same := []byte{7, 7, 7}
	f := random.NewFake().WithValues(same, same)

	a, _ := f.Bytes(3)
	b, _ := f.Bytes(3)
	c, _ := f.Bytes(3)

	if !bytes.Equal(a, b) {
		t.Error("preset duplicates should be returned as given")
	}
	if bytes.Equal(b, c) {
		t.Error("after presets run out the fake should produce fresh bytes")
	}
}

func TestFake_CounterBytesDiffer(t *testing.T) {
	f := random.NewFake()

	a, _ := f.Bytes(8)
	b, _ := f.Bytes(8)

	if bytes.Equal(a, b) {
		t.Error("successive counter bytes should differ")
	}
}

func TestFake_WithError(t *testing.T) {
	boom := errors.New("entropy exhausted")
	f := random.NewFake().WithError(boom)

	if _, err := f.Bytes(4); !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}
}
