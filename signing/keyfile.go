package signing

import (
	"encoding/hex"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
)

// DefaultKeyPath returns ~/.sawtooth/keys/<user>.wif for the current user.
func DefaultKeyPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("%w: cannot resolve home directory: %v", ErrKeyFile, err)
	}
	u, err := user.Current()
	if err != nil {
		return "", fmt.Errorf("%w: cannot resolve current user: %v", ErrKeyFile, err)
	}
	name := u.Username
	// Windows usernames come back as DOMAIN\user.
	if i := strings.LastIndex(name, `\`); i >= 0 {
		name = name[i+1:]
	}
	return filepath.Join(home, ".sawtooth", "keys", name+".wif"), nil
}

// LoadSigner reads a private key file and returns a signer for it. An empty
// path selects DefaultKeyPath.
func LoadSigner(path string) (*Secp256k1Signer, error) {
	if path == "" {
		p, err := DefaultKeyPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to read key file: %v", ErrKeyFile, err)
	}

	priv, err := ParsePrivateKey(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return NewSecp256k1Signer(priv)
}

// ParsePrivateKey accepts a hex private key (optionally 0x-prefixed) or a
// WIF-encoded key and returns the raw 32 bytes.
func ParsePrivateKey(text string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: key is empty", ErrKeyFile)
	}

	hexText := strings.TrimPrefix(text, "0x")
	if len(hexText) == 2*PrivateKeySize {
		if priv, err := hex.DecodeString(hexText); err == nil {
			return priv, nil
		}
	}

	wif, err := btcutil.DecodeWIF(text)
	if err != nil {
		return nil, fmt.Errorf("%w: key is neither hex nor WIF: %v", ErrKeyFile, err)
	}
	return wif.PrivKey.Serialize(), nil
}
