package service

import (
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"strings"

	"config-cli/address"
	"config-cli/models"
	"config-cli/signing"
)

// Transaction family constants stamped into every header.
const (
	FamilyName      = "config"
	FamilyVersion   = "1.0"
	PayloadEncoding = "application/protobuf"
)

// SettingArg is one parsed key=value argument.
type SettingArg struct {
	Key   string
	Value string
}

// ParseSettingArg splits arg on its first '='. The value may be empty or
// contain further '=' characters; the key may not be empty.
func ParseSettingArg(arg string) (SettingArg, error) {
	key, value, found := strings.Cut(arg, "=")
	if !found {
		return SettingArg{}, fmt.Errorf("%w: setting %q must be of the form <key>=<value>", ErrValidation, arg)
	}
	if key == "" {
		return SettingArg{}, fmt.Errorf("%w: setting %q has an empty key", ErrValidation, arg)
	}
	return SettingArg{Key: key, Value: value}, nil
}

// ParseSettingArgs parses every argument, failing on the first bad one.
func ParseSettingArgs(args []string) ([]SettingArg, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: at least one <key>=<value> setting is required", ErrValidation)
	}
	out := make([]SettingArg, 0, len(args))
	for _, arg := range args {
		s, err := ParseSettingArg(arg)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// ProposalBuilder turns settings into signed transactions and batches. The
// same signer signs transaction headers and the batch header.
type ProposalBuilder struct {
	signer signing.Signer
	pubKey string
	nonces NonceSource
}

// NewProposalBuilder returns a builder signing with signer. A nil nonces
// selects ClockNonce.
func NewProposalBuilder(signer signing.Signer, nonces NonceSource) *ProposalBuilder {
	if nonces == nil {
		nonces = ClockNonce{}
	}
	return &ProposalBuilder{
		signer: signer,
		pubKey: hex.EncodeToString(signer.PublicKey()),
		nonces: nonces,
	}
}

// PublicKey returns the hex public key placed in every header.
func (b *ProposalBuilder) PublicKey() string {
	return b.pubKey
}

// BuildProposalTransaction builds and signs a PROPOSE transaction setting
// key to value.
func (b *ProposalBuilder) BuildProposalTransaction(key, value string) (*models.Transaction, error) {
	if key == "" {
		return nil, fmt.Errorf("%w: setting key is empty", ErrValidation)
	}

	proposal := &models.Proposal{
		Setting: key,
		Value:   value,
		Nonce:   b.nonces.Nonce(),
	}
	payload := (&models.Payload{
		Action: models.ActionPropose,
		Data:   proposal.Marshal(),
	}).Marshal()

	digest := sha512.Sum512(payload)
	header := (&models.TransactionHeader{
		SignerPubkey:    b.pubKey,
		FamilyName:      FamilyName,
		FamilyVersion:   FamilyVersion,
		Inputs:          address.Inputs(key),
		Outputs:         address.Outputs(key),
		PayloadEncoding: PayloadEncoding,
		PayloadSHA512:   hex.EncodeToString(digest[:]),
		BatcherPubkey:   b.pubKey,
	}).Marshal()

	sig, err := b.sign(header)
	if err != nil {
		return nil, fmt.Errorf("transaction for %s: %w", key, err)
	}

	return &models.Transaction{
		Header:          header,
		HeaderSignature: sig,
		Payload:         payload,
	}, nil
}

// BuildBatch signs a batch over txns. Transaction order is preserved and
// fixes execution order.
func (b *ProposalBuilder) BuildBatch(txns []*models.Transaction) (*models.Batch, error) {
	if len(txns) == 0 {
		return nil, fmt.Errorf("%w: a batch needs at least one transaction", ErrValidation)
	}

	ids := make([]string, len(txns))
	for i, txn := range txns {
		if txn == nil || txn.HeaderSignature == "" {
			return nil, fmt.Errorf("%w: transaction %d is not signed", ErrValidation, i)
		}
		ids[i] = txn.HeaderSignature
	}

	header := (&models.BatchHeader{
		SignerPubkey:   b.pubKey,
		TransactionIDs: ids,
	}).Marshal()

	sig, err := b.sign(header)
	if err != nil {
		return nil, fmt.Errorf("batch: %w", err)
	}

	transactions := make([]*models.Transaction, len(txns))
	copy(transactions, txns)
	return &models.Batch{
		Header:          header,
		HeaderSignature: sig,
		Transactions:    transactions,
	}, nil
}

// BuildBatchList builds one transaction per setting, wraps them in a single
// batch, and returns the list holding that batch.
func (b *ProposalBuilder) BuildBatchList(settings []SettingArg) (*models.BatchList, error) {
	txns := make([]*models.Transaction, 0, len(settings))
	for _, s := range settings {
		txn, err := b.BuildProposalTransaction(s.Key, s.Value)
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}

	batch, err := b.BuildBatch(txns)
	if err != nil {
		return nil, err
	}
	return &models.BatchList{Batches: []*models.Batch{batch}}, nil
}

func (b *ProposalBuilder) sign(header []byte) (string, error) {
	sig, err := b.signer.Sign(header)
	if err != nil {
		return "", fmt.Errorf("sign header: %w", err)
	}
	return hex.EncodeToString(sig), nil
}
