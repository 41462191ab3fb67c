package models

// BatchHeader lists the header signatures of the batch's transactions in
// execution order.
type BatchHeader struct {
	SignerPubkey   string
	TransactionIDs []string
}

func (h *BatchHeader) Marshal() []byte {
	var b []byte
	b = appendString(b, 1, h.SignerPubkey)
	b = appendStrings(b, 2, h.TransactionIDs)
	return b
}

func UnmarshalBatchHeader(data []byte) (*BatchHeader, error) {
	h := &BatchHeader{}
	err := walkFields(data, func(f field) error {
		switch f.num {
		case 1:
			s, err := f.str()
			h.SignerPubkey = s
			return err
		case 2:
			s, err := f.str()
			h.TransactionIDs = append(h.TransactionIDs, s)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, malformed("batch header", err)
	}
	return h, nil
}

// Batch is accepted or rejected by the store as a whole.
type Batch struct {
	Header          []byte
	HeaderSignature string
	Transactions    []*Transaction
}

func (bt *Batch) Marshal() []byte {
	var b []byte
	b = appendBytes(b, 1, bt.Header)
	b = appendString(b, 2, bt.HeaderSignature)
	for _, txn := range bt.Transactions {
		b = appendMessage(b, 3, txn.Marshal())
	}
	return b
}

func UnmarshalBatch(data []byte) (*Batch, error) {
	bt := &Batch{}
	err := walkFields(data, func(f field) (err error) {
		switch f.num {
		case 1:
			bt.Header, err = f.bytes()
		case 2:
			bt.HeaderSignature, err = f.str()
		case 3:
			raw, err := f.bytes()
			if err != nil {
				return err
			}
			txn, err := UnmarshalTransaction(raw)
			if err != nil {
				return err
			}
			bt.Transactions = append(bt.Transactions, txn)
		}
		return err
	})
	if err != nil {
		return nil, malformed("batch", err)
	}
	return bt, nil
}

// BatchList is the unit submitted to the store or written to a batch file.
type BatchList struct {
	Batches []*Batch
}

func (l *BatchList) Marshal() []byte {
	var b []byte
	for _, bt := range l.Batches {
		b = appendMessage(b, 1, bt.Marshal())
	}
	return b
}

func UnmarshalBatchList(data []byte) (*BatchList, error) {
	l := &BatchList{}
	err := walkFields(data, func(f field) error {
		if f.num != 1 {
			return nil
		}
		raw, err := f.bytes()
		if err != nil {
			return err
		}
		bt, err := UnmarshalBatch(raw)
		if err != nil {
			return err
		}
		l.Batches = append(l.Batches, bt)
		return nil
	})
	if err != nil {
		return nil, malformed("batch list", err)
	}
	return l, nil
}
