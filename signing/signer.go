// Package signing provides the secp256k1 signing capability used to sign
// transaction and batch headers, and loads signing keys from disk.
package signing

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
)

var (
	// ErrKeyFile is returned when a signing key is unreadable or malformed.
	ErrKeyFile = errors.New("key file error")
	// ErrSign is returned when the signing primitive itself fails.
	ErrSign = errors.New("signing failed")
)

// PrivateKeySize is the length of a raw secp256k1 private key.
const PrivateKeySize = 32

// SignatureSize is the length of a compact R||S signature.
const SignatureSize = 64

// Signer signs canonical byte sequences. Implementations must be
// deterministic for a given key and message only as far as the underlying
// scheme is; callers never inspect the key material.
type Signer interface {
	// Sign returns the signature over message.
	Sign(message []byte) ([]byte, error)
	// PublicKey returns the serialized public key matching the signing key.
	PublicKey() []byte
}

// Secp256k1Signer signs the SHA-256 digest of a message with a secp256k1 key.
type Secp256k1Signer struct {
	key    *ecdsa.PrivateKey
	pubKey []byte
}

// NewSecp256k1Signer builds a signer from a raw 32-byte private key.
func NewSecp256k1Signer(priv []byte) (*Secp256k1Signer, error) {
	key, err := toECDSA(priv)
	if err != nil {
		return nil, err
	}
	return &Secp256k1Signer{
		key:    key,
		pubKey: crypto.CompressPubkey(&key.PublicKey),
	}, nil
}

// NewSecp256k1SignerFromHex builds a signer from a hex-encoded private key.
func NewSecp256k1SignerFromHex(privHex string) (*Secp256k1Signer, error) {
	priv, err := hex.DecodeString(privHex)
	if err != nil {
		return nil, fmt.Errorf("%w: private key is not hex: %v", ErrKeyFile, err)
	}
	return NewSecp256k1Signer(priv)
}

// GenerateSecp256k1Signer creates a signer with a fresh random key.
func GenerateSecp256k1Signer() (*Secp256k1Signer, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	return &Secp256k1Signer{
		key:    key,
		pubKey: crypto.CompressPubkey(&key.PublicKey),
	}, nil
}

// Sign returns the 64-byte compact signature over sha256(message).
func (s *Secp256k1Signer) Sign(message []byte) ([]byte, error) {
	digest := sha256.Sum256(message)
	sig, err := crypto.Sign(digest[:], s.key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSign, err)
	}
	// Drop the recovery id.
	return sig[:SignatureSize], nil
}

// PublicKey returns the 33-byte compressed public key.
func (s *Secp256k1Signer) PublicKey() []byte {
	out := make([]byte, len(s.pubKey))
	copy(out, s.pubKey)
	return out
}

// PrivateKey returns the raw 32-byte private key.
func (s *Secp256k1Signer) PrivateKey() []byte {
	return crypto.FromECDSA(s.key)
}

// DerivePublicKey returns the compressed public key for a raw private key.
func DerivePublicKey(priv []byte) ([]byte, error) {
	key, err := toECDSA(priv)
	if err != nil {
		return nil, err
	}
	return crypto.CompressPubkey(&key.PublicKey), nil
}

// Verify checks a compact signature over sha256(message) against a
// compressed or uncompressed public key.
func Verify(pubKey, message, sig []byte) bool {
	if len(sig) != SignatureSize {
		return false
	}
	digest := sha256.Sum256(message)
	return crypto.VerifySignature(pubKey, digest[:], sig)
}

func toECDSA(priv []byte) (*ecdsa.PrivateKey, error) {
	if len(priv) != PrivateKeySize {
		return nil, fmt.Errorf("%w: private key must be %d bytes, got %d", ErrKeyFile, PrivateKeySize, len(priv))
	}
	key, err := crypto.ToECDSA(priv)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyFile, err)
	}
	return key, nil
}
