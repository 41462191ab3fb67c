package cli

import (
	"context"
	"io"
	"log"

	"config-cli/api"
	"config-cli/format"
	"config-cli/service"
	"config-cli/signing"
	"config-cli/storage"
)

var _ service.Transport = (*api.Client)(nil)

func runProposalCreate(ctx context.Context, args []string, stderr io.Writer) error {
	cfg, err := parseCreate(args, stderr)
	if err != nil {
		return err
	}
	setupLogging(cfg.Verbose, stderr)

	signer, err := signing.LoadSigner(cfg.KeyPath)
	if err != nil {
		return err
	}
	nonces, err := service.NonceSourceByName(cfg.Nonce)
	if err != nil {
		return err
	}
	builder := service.NewProposalBuilder(signer, nonces)
	log.Printf("Signing %d proposal(s) as %s", len(cfg.Settings), builder.PublicKey())

	if cfg.Output != "" {
		list, err := builder.BuildBatchList(cfg.Settings)
		if err != nil {
			return err
		}
		return storage.WriteBatchList(cfg.Output, list)
	}

	client, err := cfg.newClient()
	if err != nil {
		return err
	}
	svc := service.NewConfigService(client)
	_, err = svc.SubmitProposals(ctx, builder, cfg.Settings)
	logMetrics(svc)
	return err
}

func runProposalList(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, err := parseList("proposal list", true, args, stderr)
	if err != nil {
		return err
	}
	setupLogging(cfg.Verbose, stderr)

	client, err := cfg.newClient()
	if err != nil {
		return err
	}
	svc := service.NewConfigService(client)
	candidates, err := svc.ListProposals(ctx, cfg.PublicKey, cfg.Filter)
	logMetrics(svc)
	if err != nil {
		return err
	}
	return format.Candidates(stdout, cfg.Format, candidates)
}

func runSettingsList(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, err := parseList("settings list", false, args, stderr)
	if err != nil {
		return err
	}
	setupLogging(cfg.Verbose, stderr)

	client, err := cfg.newClient()
	if err != nil {
		return err
	}
	svc := service.NewConfigService(client)
	head, entries, err := svc.ListSettings(ctx, cfg.Filter)
	logMetrics(svc)
	if err != nil {
		return err
	}
	return format.Settings(stdout, cfg.Format, head, entries)
}

func logMetrics(svc *service.ConfigService) {
	for _, m := range svc.Metrics().GetMetrics() {
		log.Printf("%s: %d call(s), %d failed, %dms", m.Name, m.Count, m.Failures, m.ProcessingTime)
	}
}
