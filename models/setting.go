package models

import "fmt"

// SettingEntry is one key/value pair stored in a Setting record.
type SettingEntry struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// Setting is the record stored at one address. Several keys may share an
// address.
type Setting struct {
	Entries []SettingEntry
}

func (s *Setting) Marshal() []byte {
	var b []byte
	for _, e := range s.Entries {
		var entry []byte
		entry = appendString(entry, 1, e.Key)
		entry = appendString(entry, 2, e.Value)
		b = appendMessage(b, 1, entry)
	}
	return b
}

func UnmarshalSetting(data []byte) (*Setting, error) {
	s := &Setting{}
	err := walkFields(data, func(f field) error {
		if f.num != 1 {
			return nil
		}
		raw, err := f.bytes()
		if err != nil {
			return err
		}
		var e SettingEntry
		err = walkFields(raw, func(ef field) (err error) {
			switch ef.num {
			case 1:
				e.Key, err = ef.str()
			case 2:
				e.Value, err = ef.str()
			}
			return err
		})
		if err != nil {
			return fmt.Errorf("entry %d: %w", len(s.Entries), err)
		}
		s.Entries = append(s.Entries, e)
		return nil
	})
	if err != nil {
		return nil, malformed("setting", err)
	}
	return s, nil
}

// Lookup returns the value stored under key. If the key repeats, the last
// entry wins.
func (s *Setting) Lookup(key string) (value string, ok bool) {
	for _, e := range s.Entries {
		if e.Key == key {
			value, ok = e.Value, true
		}
	}
	return value, ok
}

// Ballot is a single vote cast on a candidate.
type Ballot int32

const (
	BallotUnset  Ballot = 0
	BallotAccept Ballot = 1
	BallotReject Ballot = 2
)

func (v Ballot) String() string {
	switch v {
	case BallotUnset:
		return "VOTE_UNSET"
	case BallotAccept:
		return "ACCEPT"
	case BallotReject:
		return "REJECT"
	default:
		return fmt.Sprintf("Ballot(%d)", int32(v))
	}
}

// VoteRecord is one voter's ballot on a candidate.
type VoteRecord struct {
	PublicKey string `json:"public_key" yaml:"public_key"`
	Vote      Ballot `json:"vote" yaml:"vote"`
}

// Candidate is a pending proposal and the votes cast so far. Votes[0] is
// the proposer.
type Candidate struct {
	ProposalID string       `json:"proposal_id" yaml:"proposal_id"`
	Proposal   Proposal     `json:"proposal" yaml:"proposal"`
	Votes      []VoteRecord `json:"votes" yaml:"votes"`
}

// Proposer returns the public key of the first vote, or "" if there is none.
func (c *Candidate) Proposer() string {
	if len(c.Votes) == 0 {
		return ""
	}
	return c.Votes[0].PublicKey
}

func (c *Candidate) Marshal() []byte {
	var b []byte
	b = appendString(b, 1, c.ProposalID)
	b = appendMessage(b, 2, c.Proposal.Marshal())
	for _, v := range c.Votes {
		var vote []byte
		vote = appendString(vote, 1, v.PublicKey)
		vote = appendEnum(vote, 2, int32(v.Vote))
		b = appendMessage(b, 3, vote)
	}
	return b
}

func unmarshalCandidate(data []byte) (Candidate, error) {
	var c Candidate
	err := walkFields(data, func(f field) error {
		switch f.num {
		case 1:
			s, err := f.str()
			c.ProposalID = s
			return err
		case 2:
			raw, err := f.bytes()
			if err != nil {
				return err
			}
			p, err := UnmarshalProposal(raw)
			if err != nil {
				return err
			}
			c.Proposal = *p
		case 3:
			raw, err := f.bytes()
			if err != nil {
				return err
			}
			var v VoteRecord
			err = walkFields(raw, func(vf field) error {
				switch vf.num {
				case 1:
					s, err := vf.str()
					v.PublicKey = s
					return err
				case 2:
					n, err := vf.enum()
					v.Vote = Ballot(n)
					return err
				}
				return nil
			})
			if err != nil {
				return fmt.Errorf("vote %d: %w", len(c.Votes), err)
			}
			c.Votes = append(c.Votes, v)
		}
		return nil
	})
	return c, err
}

// Candidates is the collection kept under the proposals key.
type Candidates struct {
	Candidates []Candidate
}

func (cs *Candidates) Marshal() []byte {
	var b []byte
	for i := range cs.Candidates {
		b = appendMessage(b, 1, cs.Candidates[i].Marshal())
	}
	return b
}

func UnmarshalCandidates(data []byte) (*Candidates, error) {
	cs := &Candidates{}
	err := walkFields(data, func(f field) error {
		if f.num != 1 {
			return nil
		}
		raw, err := f.bytes()
		if err != nil {
			return err
		}
		c, err := unmarshalCandidate(raw)
		if err != nil {
			return fmt.Errorf("candidate %d: %w", len(cs.Candidates), err)
		}
		cs.Candidates = append(cs.Candidates, c)
		return nil
	})
	if err != nil {
		return nil, malformed("candidates", err)
	}
	return cs, nil
}
