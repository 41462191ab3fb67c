package models

import "fmt"

// Action selects what a payload asks the settings store to do.
type Action int32

const (
	ActionUnset   Action = 0
	ActionPropose Action = 1
	ActionVote    Action = 2
)

func (a Action) String() string {
	switch a {
	case ActionUnset:
		return "ACTION_UNSET"
	case ActionPropose:
		return "PROPOSE"
	case ActionVote:
		return "VOTE"
	default:
		return fmt.Sprintf("Action(%d)", int32(a))
	}
}

// Proposal is a requested change to one setting key. Nonce only makes
// otherwise identical proposals distinguishable.
type Proposal struct {
	Setting string `json:"setting" yaml:"setting"`
	Value   string `json:"value" yaml:"value"`
	Nonce   string `json:"nonce" yaml:"nonce"`
}

func (p *Proposal) Marshal() []byte {
	var b []byte
	b = appendString(b, 1, p.Setting)
	b = appendString(b, 2, p.Value)
	b = appendString(b, 3, p.Nonce)
	return b
}

func UnmarshalProposal(data []byte) (*Proposal, error) {
	p := &Proposal{}
	err := walkFields(data, func(f field) (err error) {
		switch f.num {
		case 1:
			p.Setting, err = f.str()
		case 2:
			p.Value, err = f.str()
		case 3:
			p.Nonce, err = f.str()
		}
		return err
	})
	if err != nil {
		return nil, malformed("proposal", err)
	}
	return p, nil
}

// Payload is the body of a settings transaction.
type Payload struct {
	Action Action
	Data   []byte
}

func (p *Payload) Marshal() []byte {
	var b []byte
	b = appendEnum(b, 1, int32(p.Action))
	b = appendBytes(b, 2, p.Data)
	return b
}

func UnmarshalPayload(data []byte) (*Payload, error) {
	p := &Payload{}
	err := walkFields(data, func(f field) error {
		switch f.num {
		case 1:
			v, err := f.enum()
			p.Action = Action(v)
			return err
		case 2:
			v, err := f.bytes()
			p.Data = v
			return err
		}
		return nil
	})
	if err != nil {
		return nil, malformed("payload", err)
	}
	return p, nil
}
