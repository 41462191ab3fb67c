package models

// TransactionHeader is the signed part of a transaction. Its serialized form
// is what gets signed, so field order on the wire is fixed.
type TransactionHeader struct {
	BatcherPubkey   string
	Dependencies    []string
	FamilyName      string
	FamilyVersion   string
	Inputs          []string
	Nonce           string
	Outputs         []string
	PayloadEncoding string
	PayloadSHA512   string
	SignerPubkey    string
}

func (h *TransactionHeader) Marshal() []byte {
	var b []byte
	b = appendString(b, 1, h.BatcherPubkey)
	b = appendStrings(b, 2, h.Dependencies)
	b = appendString(b, 3, h.FamilyName)
	b = appendString(b, 4, h.FamilyVersion)
	b = appendStrings(b, 5, h.Inputs)
	b = appendString(b, 6, h.Nonce)
	b = appendStrings(b, 7, h.Outputs)
	b = appendString(b, 8, h.PayloadEncoding)
	b = appendString(b, 9, h.PayloadSHA512)
	b = appendString(b, 10, h.SignerPubkey)
	return b
}

func UnmarshalTransactionHeader(data []byte) (*TransactionHeader, error) {
	h := &TransactionHeader{}
	err := walkFields(data, func(f field) error {
		var (
			s   string
			err error
		)
		if f.num >= 1 && f.num <= 10 {
			if s, err = f.str(); err != nil {
				return err
			}
		}
		switch f.num {
		case 1:
			h.BatcherPubkey = s
		case 2:
			h.Dependencies = append(h.Dependencies, s)
		case 3:
			h.FamilyName = s
		case 4:
			h.FamilyVersion = s
		case 5:
			h.Inputs = append(h.Inputs, s)
		case 6:
			h.Nonce = s
		case 7:
			h.Outputs = append(h.Outputs, s)
		case 8:
			h.PayloadEncoding = s
		case 9:
			h.PayloadSHA512 = s
		case 10:
			h.SignerPubkey = s
		}
		return nil
	})
	if err != nil {
		return nil, malformed("transaction header", err)
	}
	return h, nil
}

// Transaction carries the serialized header, the hex signature over exactly
// those bytes, and the payload whose digest the header records.
type Transaction struct {
	Header          []byte
	HeaderSignature string
	Payload         []byte
}

func (t *Transaction) Marshal() []byte {
	var b []byte
	b = appendBytes(b, 1, t.Header)
	b = appendString(b, 2, t.HeaderSignature)
	b = appendBytes(b, 3, t.Payload)
	return b
}

func UnmarshalTransaction(data []byte) (*Transaction, error) {
	t := &Transaction{}
	err := walkFields(data, func(f field) (err error) {
		switch f.num {
		case 1:
			t.Header, err = f.bytes()
		case 2:
			t.HeaderSignature, err = f.str()
		case 3:
			t.Payload, err = f.bytes()
		}
		return err
	})
	if err != nil {
		return nil, malformed("transaction", err)
	}
	return t, nil
}
