// Package address maps setting keys to locations in the global state tree.
//
// Every address owned by the settings store is the 6-character namespace
// followed by the hex SHA-256 of the setting key.
package address

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Namespace is the reserved subtree of global state owned by the settings store.
const Namespace = "000000"

// Length is the number of hex characters in a derived address.
const Length = len(Namespace) + 2*sha256.Size

// Governance keys read or written by every proposal transaction.
const (
	AuthorizationTypeKey     = "sawtooth.config.authorization_type"
	VoteProposalsKey         = "sawtooth.config.vote.proposals"
	VoteAuthorizedKeysKey    = "sawtooth.config.vote.authorized_keys"
	VoteApprovalThresholdKey = "sawtooth.config.vote.approval_threshold"
)

// ProposalsAddress holds the pending-proposal ledger. Its contents are
// bookkeeping, not a user setting.
var ProposalsAddress = KeyToAddress(VoteProposalsKey)

// readKeys and writeKeys are the governance part of a proposal's declared
// footprint. Order matters; the target key is always appended last.
var (
	readKeys = []string{
		AuthorizationTypeKey,
		VoteProposalsKey,
		VoteAuthorizedKeysKey,
		VoteApprovalThresholdKey,
	}
	writeKeys = []string{
		VoteProposalsKey,
	}
)

// KeyToAddress derives the state address for a setting key.
func KeyToAddress(key string) string {
	sum := sha256.Sum256([]byte(key))
	return Namespace + hex.EncodeToString(sum[:])
}

// Inputs returns the read-set of a proposal for key.
func Inputs(key string) []string {
	return withTarget(readKeys, key)
}

// Outputs returns the write-set of a proposal for key.
func Outputs(key string) []string {
	return withTarget(writeKeys, key)
}

// GovernanceKeys returns a copy of the governance keys read by proposals.
func GovernanceKeys() []string {
	out := make([]string, len(readKeys))
	copy(out, readKeys)
	return out
}

// IsValid reports whether addr looks like an address in this namespace.
func IsValid(addr string) bool {
	if len(addr) != Length || !strings.HasPrefix(addr, Namespace) {
		return false
	}
	for _, c := range addr {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

func withTarget(keys []string, target string) []string {
	addrs := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		addrs = append(addrs, KeyToAddress(k))
	}
	return append(addrs, KeyToAddress(target))
}
