package envelope

import (
	"bytes"
	"errors"
	"testing"
)

func newTestCodec(t *testing.T) *Codec {
	t.Helper()

	c, err := NewCodec([]byte("unit-test-pre-shared-secret"))
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	return c
}

func TestNewCodecEmptySecret(t *testing.T) {
	if _, err := NewCodec(nil); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestRoundTrip(t *testing.T) {
	c := newTestCodec(t)

	plaintexts := [][]byte{
		[]byte(`{"type":"create_asset","specs":{"type":"image"}}`),
		[]byte(""),
		bytes.Repeat([]byte{0xff}, 4096),
	}

	for _, p := range plaintexts {
		sealed, err := c.Encrypt(p)
		if err != nil {
			t.Fatalf("Encrypt: %v", err)
		}
		if bytes.Equal(sealed, p) {
			t.Fatal("ciphertext should differ from plaintext")
		}

		got, err := c.Decrypt(sealed)
		if err != nil {
			t.Fatalf("Decrypt: %v", err)
		}
		if !bytes.Equal(got, p) {
			t.Fatalf("round-trip mismatch: got %d bytes, want %d", len(got), len(p))
		}
	}
}

func TestDecryptTampered(t *testing.T) {
	c := newTestCodec(t)

	sealed, err := c.Encrypt([]byte("classified payload"))
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	sealed[len(sealed)-1] ^= 0x01

	if _, err := c.Decrypt(sealed); !errors.Is(err, ErrDecrypt) {
		t.Fatalf("expected ErrDecrypt, got %v", err)
	}
}

func TestDecryptTooShort(t *testing.T) {
	c := newTestCodec(t)

	if _, err := c.Decrypt([]byte{0x01, 0x02}); !errors.Is(err, ErrDecrypt) {
		t.Fatalf("expected ErrDecrypt, got %v", err)
	}
}

func TestDistinctKeysCannotDecrypt(t *testing.T) {
	a := newTestCodec(t)
	b, err := NewCodec([]byte("a-different-secret"))
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}

	sealed, err := a.Encrypt([]byte("payload"))
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if _, err := b.Decrypt(sealed); !errors.Is(err, ErrDecrypt) {
		t.Fatalf("expected ErrDecrypt across keys, got %v", err)
	}
}
