package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/scrypt"
)

const (
	// scrypt parameters for the credential cipher
	//
	// The key is derived once per process at construction (the salt is a
	// constant), so a deliberately slow N is affordable: it only taxes
	// startup, while keeping offline brute-force of the master secret
	// expensive.
	scryptN      = 1 << 15
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 32

	nonceLen = 12
	tagLen   = 16

	// blobSeparator delimits the iv, tag and ciphertext components of an
	// encrypted blob. The separator is authoritative: anything that does
	// not split into exactly three hex components is corrupt.
	blobSeparator = ":"
	blobParts     = 3
)

// keySalt is a constant, non-secret domain-separation salt for scrypt.
// Changing it invalidates every blob encrypted under the old value.
var keySalt = []byte("chainvault-credential-cipher-v1")

// additionalData binds every ciphertext to this application context so a
// blob lifted from another deployment fails authentication here.
var additionalData = []byte("chainvault-api")

// MinSecretLen is the minimum length of the master encryption secret.
const MinSecretLen = 32

// Cipher provides authenticated encryption for opaque credential strings.
// Blobs are serialized as ivHex:tagHex:ciphertextHex.
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher derives the symmetric key from the master secret and returns a
// ready cipher. The secret must be at least MinSecretLen characters.
func NewCipher(secret string) (*Cipher, error) {
	if len(secret) < MinSecretLen {
		return nil, fmt.Errorf("encryption secret must be at least %d characters, got %d", MinSecretLen, len(secret))
	}

	key, err := scrypt.Key([]byte(secret), keySalt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &Cipher{aead: aead}, nil
}

// Encrypt seals plaintext under a fresh random IV and returns the
// iv:tag:ciphertext blob. Two calls with the same plaintext yield different
// blobs; IV reuse under GCM would leak the authentication key.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, nonceLen)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", cryptoErr(PrimitiveError, fmt.Errorf("failed to generate nonce: %w", err))
	}

	// Seal appends the 16-byte tag to the ciphertext; the blob format
	// carries it as a separate component.
	sealed := c.aead.Seal(nil, nonce, []byte(plaintext), additionalData)
	ciphertext := sealed[:len(sealed)-tagLen]
	tag := sealed[len(sealed)-tagLen:]

	return strings.Join([]string{
		hex.EncodeToString(nonce),
		hex.EncodeToString(tag),
		hex.EncodeToString(ciphertext),
	}, blobSeparator), nil
}

// Decrypt parses an iv:tag:ciphertext blob, verifies the authentication tag
// and returns the plaintext. No plaintext byte is released on failure.
func (c *Cipher) Decrypt(blob string) (string, error) {
	parts := strings.Split(blob, blobSeparator)
	if len(parts) != blobParts {
		return "", cryptoErr(MalformedBlob, fmt.Errorf("expected %d components, got %d", blobParts, len(parts)))
	}

	nonce, err := hex.DecodeString(parts[0])
	if err != nil {
		return "", cryptoErr(MalformedBlob, fmt.Errorf("iv component is not hex: %w", err))
	}
	if len(nonce) != nonceLen {
		return "", cryptoErr(MalformedBlob, fmt.Errorf("iv component must be %d bytes, got %d", nonceLen, len(nonce)))
	}

	tag, err := hex.DecodeString(parts[1])
	if err != nil {
		return "", cryptoErr(MalformedBlob, fmt.Errorf("tag component is not hex: %w", err))
	}

	ciphertext, err := hex.DecodeString(parts[2])
	if err != nil {
		return "", cryptoErr(MalformedBlob, fmt.Errorf("ciphertext component is not hex: %w", err))
	}

	plaintext, err := c.aead.Open(nil, nonce, append(ciphertext, tag...), additionalData)
	if err != nil {
		return "", cryptoErr(AuthenticationFailed, errors.New("authentication tag mismatch"))
	}

	return string(plaintext), nil
}

// Hash returns the hex-encoded SHA-256 digest of data. One-way: use for
// equality checks and identifiers, never for secrets that must be recovered.
func (c *Cipher) Hash(data string) string {
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}

// SecureToken returns length cryptographically secure random bytes,
// hex-encoded.
func (c *Cipher) SecureToken(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return "", cryptoErr(PrimitiveError, fmt.Errorf("failed to read random bytes: %w", err))
	}
	return hex.EncodeToString(buf), nil
}
