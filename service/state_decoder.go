package service

import (
	"encoding/base64"
	"fmt"
	"sort"
	"strings"

	"config-cli/address"
	"config-cli/models"
)

// DecodeSettings decodes every leaf of a settings subtree listing and
// returns the entries whose key starts with prefix, sorted by key. The
// proposals ledger is skipped. Any undecodable leaf fails the whole call.
func DecodeSettings(entries []models.StateEntry, prefix string) ([]models.SettingEntry, error) {
	out := make([]models.SettingEntry, 0)
	for _, leaf := range entries {
		if leaf.Address == address.ProposalsAddress {
			continue
		}

		setting, err := decodeSettingLeaf(leaf.Data)
		if err != nil {
			return nil, fmt.Errorf("%w: address %s: %v", ErrSerialization, leaf.Address, err)
		}
		for _, e := range setting.Entries {
			if strings.HasPrefix(e.Key, prefix) {
				out = append(out, e)
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Key < out[j].Key
	})
	return out, nil
}

// DecodeCandidates decodes the proposals leaf and returns the pending
// candidates on settings starting with prefix and, when publicKey is set,
// proposed by that key. A nil leaf means nothing is pending. Order follows
// the stored collection.
func DecodeCandidates(leaf *models.StateEntry, publicKey, prefix string) ([]models.Candidate, error) {
	out := make([]models.Candidate, 0)
	if leaf == nil {
		return out, nil
	}

	setting, err := decodeSettingLeaf(leaf.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: proposals leaf: %v", ErrSerialization, err)
	}

	value, ok := setting.Lookup(address.VoteProposalsKey)
	if !ok {
		return out, nil
	}

	candidates, err := decodeCandidatesValue(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s value: %v", ErrSerialization, address.VoteProposalsKey, err)
	}

	for _, c := range candidates.Candidates {
		if acceptCandidate(&c, publicKey, prefix) {
			out = append(out, c)
		}
	}
	return out, nil
}

func acceptCandidate(c *models.Candidate, publicKey, prefix string) bool {
	if !strings.HasPrefix(c.Proposal.Setting, prefix) {
		return false
	}
	return publicKey == "" || c.Proposer() == publicKey
}

// decodeSettingLeaf is the outer layer: base64 leaf data holding a Setting.
func decodeSettingLeaf(data string) (*models.Setting, error) {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}
	return models.UnmarshalSetting(raw)
}

// decodeCandidatesValue is the inner layer: a setting value that is itself
// base64 of a Candidates collection.
func decodeCandidatesValue(value string) (*models.Candidates, error) {
	raw, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}
	return models.UnmarshalCandidates(raw)
}
