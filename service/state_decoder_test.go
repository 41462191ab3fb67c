package service

import (
	"encoding/base64"
	"errors"
	"testing"

	"config-cli/address"
	"config-cli/models"
)

func settingLeaf(addr string, entries ...models.SettingEntry) models.StateEntry {
	s := &models.Setting{Entries: entries}
	return models.StateEntry{
		Address: addr,
		Data:    base64.StdEncoding.EncodeToString(s.Marshal()),
	}
}

func proposalsLeaf(cs *models.Candidates) *models.StateEntry {
	value := base64.StdEncoding.EncodeToString(cs.Marshal())
	leaf := settingLeaf(address.ProposalsAddress, models.SettingEntry{
		Key:   address.VoteProposalsKey,
		Value: value,
	})
	return &leaf
}

func testCandidates() *models.Candidates {
	return &models.Candidates{Candidates: []models.Candidate{
		{
			ProposalID: "id1",
			Proposal:   models.Proposal{Setting: "x.y", Value: "1", Nonce: "n1"},
			Votes:      []models.VoteRecord{{PublicKey: "PK1", Vote: models.BallotAccept}},
		},
		{
			ProposalID: "id2",
			Proposal:   models.Proposal{Setting: "x.z", Value: "2", Nonce: "n2"},
			Votes: []models.VoteRecord{
				{PublicKey: "PK2", Vote: models.BallotAccept},
				{PublicKey: "PK1", Vote: models.BallotReject},
			},
		},
	}}
}

func TestDecodeSettingsSkipsProposalsAndSorts(t *testing.T) {
	entries := []models.StateEntry{
		settingLeaf(address.KeyToAddress("b.two"), models.SettingEntry{Key: "b.two", Value: "2"}),
		settingLeaf(address.ProposalsAddress, models.SettingEntry{Key: address.VoteProposalsKey, Value: "internal"}),
		settingLeaf(address.KeyToAddress("a.one"), models.SettingEntry{Key: "a.one", Value: "1"}),
	}

	got, err := DecodeSettings(entries, "")
	if err != nil {
		t.Fatalf("DecodeSettings failed: %v", err)
	}
	want := []models.SettingEntry{{Key: "a.one", Value: "1"}, {Key: "b.two", Value: "2"}}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDecodeSettingsPrefix(t *testing.T) {
	entries := []models.StateEntry{
		settingLeaf("addr1",
			models.SettingEntry{Key: "sawtooth.config.vote.authorized_keys", Value: "k"},
			models.SettingEntry{Key: "other.setting", Value: "o"},
		),
		settingLeaf("addr2", models.SettingEntry{Key: "sawtooth.config.authorization_type", Value: "Ballot"}),
	}

	got, err := DecodeSettings(entries, "sawtooth.")
	if err != nil {
		t.Fatalf("DecodeSettings failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %v", got)
	}
	if got[0].Key != "sawtooth.config.authorization_type" {
		t.Errorf("entries not sorted: %v", got)
	}

	none, err := DecodeSettings(entries, "q.")
	if err != nil {
		t.Fatal(err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("expected empty non-nil result, got %#v", none)
	}
}

func TestDecodeSettingsMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad protobuf", base64.StdEncoding.EncodeToString([]byte{0x0a, 0x05, 'a'})},
		{"bad base64", "not base64!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := []models.StateEntry{
				settingLeaf("good", models.SettingEntry{Key: "a", Value: "1"}),
				{Address: "bad", Data: tt.data},
			}
			got, err := DecodeSettings(entries, "")
			if !errors.Is(err, ErrSerialization) {
				t.Fatalf("expected ErrSerialization, got %v", err)
			}
			if got != nil {
				t.Errorf("expected no partial result, got %v", got)
			}
		})
	}
}

func TestDecodeSettingsIgnoresMalformedProposalsLeaf(t *testing.T) {
	entries := []models.StateEntry{
		{Address: address.ProposalsAddress, Data: "garbage"},
		settingLeaf("addr", models.SettingEntry{Key: "a", Value: "1"}),
	}
	got, err := DecodeSettings(entries, "")
	if err != nil {
		t.Fatalf("DecodeSettings failed: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected 1 entry, got %v", got)
	}
}

func TestDecodeCandidatesFilters(t *testing.T) {
	leaf := proposalsLeaf(testCandidates())

	tests := []struct {
		name      string
		publicKey string
		prefix    string
		wantIDs   []string
	}{
		{"no filter", "", "", []string{"id1", "id2"}},
		{"by proposer", "PK1", "", []string{"id1"}},
		{"by other proposer", "PK2", "", []string{"id2"}},
		{"by prefix", "", "x.", []string{"id1", "id2"}},
		{"prefix miss", "", "q.", nil},
		{"both", "PK2", "x.z", []string{"id2"}},
		{"both miss", "PK1", "x.z", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeCandidates(leaf, tt.publicKey, tt.prefix)
			if err != nil {
				t.Fatalf("DecodeCandidates failed: %v", err)
			}
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("got %d candidates, want %d", len(got), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if got[i].ProposalID != id {
					t.Errorf("candidate %d: got %s, want %s", i, got[i].ProposalID, id)
				}
			}
		})
	}
}

func TestDecodeCandidatesAbsentLeaf(t *testing.T) {
	got, err := DecodeCandidates(nil, "PK1", "x.")
	if err != nil {
		t.Fatalf("absent leaf should not be an error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty list, got %#v", got)
	}
}

func TestDecodeCandidatesNoProposalsKey(t *testing.T) {
	leaf := settingLeaf(address.ProposalsAddress, models.SettingEntry{Key: "unrelated", Value: "v"})
	got, err := DecodeCandidates(&leaf, "", "")
	if err != nil {
		t.Fatalf("DecodeCandidates failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no candidates, got %v", got)
	}
}

func TestDecodeCandidatesMalformed(t *testing.T) {
	outer := &models.StateEntry{Address: address.ProposalsAddress, Data: base64.StdEncoding.EncodeToString([]byte{0xff})}
	if _, err := DecodeCandidates(outer, "", ""); !errors.Is(err, ErrSerialization) {
		t.Errorf("outer layer: expected ErrSerialization, got %v", err)
	}

	inner := settingLeaf(address.ProposalsAddress, models.SettingEntry{
		Key:   address.VoteProposalsKey,
		Value: base64.StdEncoding.EncodeToString([]byte{0x0a, 0x09}),
	})
	if _, err := DecodeCandidates(&inner, "", ""); !errors.Is(err, ErrSerialization) {
		t.Errorf("inner layer: expected ErrSerialization, got %v", err)
	}

	notBase64 := settingLeaf(address.ProposalsAddress, models.SettingEntry{
		Key:   address.VoteProposalsKey,
		Value: "%%%",
	})
	if _, err := DecodeCandidates(&notBase64, "", ""); !errors.Is(err, ErrSerialization) {
		t.Errorf("inner base64: expected ErrSerialization, got %v", err)
	}
}

func TestDecodeCandidatesWithoutVotes(t *testing.T) {
	cs := &models.Candidates{Candidates: []models.Candidate{
		{ProposalID: "lonely", Proposal: models.Proposal{Setting: "x.y"}},
	}}
	leaf := proposalsLeaf(cs)

	got, err := DecodeCandidates(leaf, "PK1", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Error("candidate without votes should not match a proposer filter")
	}

	got, err = DecodeCandidates(leaf, "", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Error("candidate without votes should pass an empty proposer filter")
	}
}
