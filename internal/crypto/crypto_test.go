package crypto

import (
	"errors"
	"strings"
	"testing"
)

const testKey = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	c, err := NewCodec(testKey)
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	return c
}

func TestNewCodecRejectsBadKeys(t *testing.T) {
	tests := []struct {
		name string
		key  string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"short", "abcd"},
		{"long", testKey + "00"},
		{"not hex", strings.Repeat("zz", 32)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewCodec(tt.key); err == nil {
				t.Errorf("NewCodec(%q) accepted invalid key", tt.key)
			}
		})
	}
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	c := newTestCodec(t)

	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"ascii", `{"businessName":"Example Inc."}`},
		{"multibyte", `{"businessName":"株式会社マルット","address":"東京都渋谷区"}`},
		{"large multibyte", strings.Repeat("特定商取引法に基づく表記ページの内容です。", 5000)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := c.Encrypt(tt.in)
			if err != nil {
				t.Fatalf("Encrypt: %v", err)
			}
			if !c.IsEncrypted(env) {
				t.Fatalf("envelope missing prefix: %q", env[:min(len(env), 20)])
			}
			got, err := c.Decrypt(env)
			if err != nil {
				t.Fatalf("Decrypt: %v", err)
			}
			if got != tt.in {
				t.Errorf("round trip mismatch: got %d bytes, want %d", len(got), len(tt.in))
			}
		})
	}
}

func TestEncryptNonceUniqueness(t *testing.T) {
	c := newTestCodec(t)

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		env, err := c.Encrypt("same plaintext")
		if err != nil {
			t.Fatalf("Encrypt: %v", err)
		}
		if seen[env] {
			t.Fatal("two encryptions produced an identical envelope")
		}
		seen[env] = true
	}
}

func TestEnvelopeFormat(t *testing.T) {
	c := newTestCodec(t)
	env, err := c.Encrypt("hello")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	parts := strings.Split(env, ":")
	if len(parts) != 4 || parts[0] != "v1" {
		t.Fatalf("envelope = %q", env)
	}
	if len(parts[1]) != 24 { // 12-byte nonce, hex
		t.Errorf("nonce length = %d hex chars", len(parts[1]))
	}
	if len(parts[2]) != 32 { // 16-byte tag, hex
		t.Errorf("tag length = %d hex chars", len(parts[2]))
	}
}

func TestDecryptPassthroughForLegacyPlaintext(t *testing.T) {
	c := newTestCodec(t)

	legacy := `{"businessName":"migrated later"}`
	got, err := c.Decrypt(legacy)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if got != legacy {
		t.Errorf("passthrough altered input: %q", got)
	}
}

func TestDecryptRejectsMalformedEnvelope(t *testing.T) {
	c := newTestCodec(t)

	tests := []string{
		"v1:",
		"v1:abc",
		"v1:abc:def",
		"v1:xyz!:00112233445566778899aabbccddeeff:QUFBQQ==",
		"v1:000102030405060708090a0b:shorttag:QUFBQQ==",
		"v1:000102030405060708090a0b:00112233445566778899aabbccddeeff:!!notb64!!",
	}
	for _, in := range tests {
		if _, err := c.Decrypt(in); !errors.Is(err, ErrInvalidFormat) {
			t.Errorf("Decrypt(%q) = %v, want ErrInvalidFormat", in, err)
		}
	}
}

func TestDecryptDetectsTampering(t *testing.T) {
	c := newTestCodec(t)
	env, err := c.Encrypt(`{"secret":"data"}`)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	// Flip a nibble in the auth tag.
	parts := strings.Split(env, ":")
	tag := []byte(parts[2])
	if tag[0] == 'a' {
		tag[0] = 'b'
	} else {
		tag[0] = 'a'
	}
	parts[2] = string(tag)
	tampered := strings.Join(parts, ":")

	if _, err := c.Decrypt(tampered); !errors.Is(err, ErrDecryptFailed) {
		t.Errorf("tampered decrypt = %v, want ErrDecryptFailed", err)
	}
}

func TestDecryptWrongKey(t *testing.T) {
	c1 := newTestCodec(t)
	c2, err := NewCodec(strings.Repeat("ff", 32))
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}

	env, err := c1.Encrypt("payload")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if _, err := c2.Decrypt(env); !errors.Is(err, ErrDecryptFailed) {
		t.Errorf("wrong-key decrypt = %v, want ErrDecryptFailed", err)
	}
}
