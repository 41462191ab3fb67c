package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"config-cli/address"
	"config-cli/models"
)

// Transport is the remote settings store as seen by ConfigService.
type Transport interface {
	SubmitBatches(ctx context.Context, list *models.BatchList) error
	GetLeaf(ctx context.Context, addr string) (*models.StateEntry, error)
	ListState(ctx context.Context, subtree string) (*models.StateList, error)
}

// ConfigService reads and writes the settings store through a Transport.
type ConfigService struct {
	transport Transport
	metrics   *MetricsCollector
}

func NewConfigService(transport Transport) *ConfigService {
	return &ConfigService{
		transport: transport,
		metrics:   NewMetricsCollector(),
	}
}

// Metrics exposes the timings of calls made through this service.
func (cs *ConfigService) Metrics() *MetricsCollector {
	return cs.metrics
}

// SubmitProposals signs one batch proposing every setting and submits it.
func (cs *ConfigService) SubmitProposals(ctx context.Context, builder *ProposalBuilder, settings []SettingArg) (list *models.BatchList, err error) {
	defer func(start time.Time) { cs.metrics.Record(OpSubmitProposals, start, err) }(time.Now())

	list, err = builder.BuildBatchList(settings)
	if err != nil {
		return nil, err
	}
	if err := cs.transport.SubmitBatches(ctx, list); err != nil {
		return nil, err
	}
	log.Printf("Submitted batch %s with %d proposal(s)", shortID(list.Batches[0].HeaderSignature), len(settings))
	return list, nil
}

// ListProposals returns pending candidates filtered by proposer and prefix.
func (cs *ConfigService) ListProposals(ctx context.Context, publicKey, prefix string) (candidates []models.Candidate, err error) {
	defer func(start time.Time) { cs.metrics.Record(OpListProposals, start, err) }(time.Now())

	leaf, err := cs.transport.GetLeaf(ctx, address.ProposalsAddress)
	if err != nil {
		return nil, err
	}
	if leaf == nil {
		log.Printf("No proposals leaf at %s", address.ProposalsAddress)
	}
	return DecodeCandidates(leaf, publicKey, prefix)
}

// ListSettings returns the chain head and the current settings whose key
// starts with prefix.
func (cs *ConfigService) ListSettings(ctx context.Context, prefix string) (head string, entries []models.SettingEntry, err error) {
	defer func(start time.Time) { cs.metrics.Record(OpListSettings, start, err) }(time.Now())

	state, err := cs.transport.ListState(ctx, address.Namespace)
	if err != nil {
		return "", nil, err
	}
	if state == nil {
		return "", nil, fmt.Errorf("%w: empty state listing", ErrSerialization)
	}
	log.Printf("Fetched %d leaves at head %s", len(state.Entries), shortID(state.Head))

	entries, err = DecodeSettings(state.Entries, prefix)
	if err != nil {
		return "", nil, err
	}
	return state.Head, entries, nil
}

func shortID(id string) string {
	if len(id) > 16 {
		return id[:16] + "..."
	}
	return id
}
