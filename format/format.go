// Package format renders settings and pending proposals for the terminal.
package format

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"config-cli/models"
)

const (
	Default = "default"
	CSV     = "csv"
	JSON    = "json"
	YAML    = "yaml"
)

// Names lists the accepted output formats.
var Names = []string{Default, CSV, JSON, YAML}

// ErrUnknownFormat is returned for a format name not in Names.
var ErrUnknownFormat = errors.New("unknown format")

// DefaultColumnWidth is where the default settings view truncates values.
const DefaultColumnWidth = 15

// Validate checks that name is an accepted format.
func Validate(name string) error {
	for _, n := range Names {
		if n == name {
			return nil
		}
	}
	return fmt.Errorf("%w %q (want one of %s)", ErrUnknownFormat, name, strings.Join(Names, ", "))
}

type settingsSnapshot struct {
	Head     string            `json:"head" yaml:"head"`
	Settings map[string]string `json:"settings" yaml:"settings"`
}

// Settings writes the settings listing. Entries are printed in the order
// given.
func Settings(w io.Writer, format, head string, entries []models.SettingEntry) error {
	switch format {
	case Default:
		for _, e := range entries {
			if _, err := fmt.Fprintf(w, "%s: %s\n", e.Key, truncate(e.Value, DefaultColumnWidth)); err != nil {
				return err
			}
		}
		return nil
	case CSV:
		rows := [][]string{{"KEY", "VALUE"}}
		for _, e := range entries {
			rows = append(rows, []string{e.Key, e.Value})
		}
		return writeQuotedCSV(w, rows)
	case JSON, YAML:
		snap := settingsSnapshot{Head: head, Settings: make(map[string]string, len(entries))}
		for _, e := range entries {
			snap.Settings[e.Key] = e.Value
		}
		return writeSnapshot(w, format, snap)
	default:
		return Validate(format)
	}
}

// Candidates writes the pending proposal listing.
func Candidates(w io.Writer, format string, candidates []models.Candidate) error {
	switch format {
	case Default:
		for _, c := range candidates {
			if _, err := fmt.Fprintf(w, "%s: %s => %s\n", c.ProposalID, c.Proposal.Setting, c.Proposal.Value); err != nil {
				return err
			}
		}
		return nil
	case CSV:
		rows := [][]string{{"PROPOSAL_ID", "KEY", "VALUE"}}
		for _, c := range candidates {
			rows = append(rows, []string{c.ProposalID, c.Proposal.Setting, c.Proposal.Value})
		}
		return writeQuotedCSV(w, rows)
	case JSON, YAML:
		snap := make(map[string]map[string]string, len(candidates))
		for _, c := range candidates {
			snap[c.ProposalID] = map[string]string{c.Proposal.Setting: c.Proposal.Value}
		}
		return writeSnapshot(w, format, snap)
	default:
		return Validate(format)
	}
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width]) + "..."
}

// writeQuotedCSV quotes every field. encoding/csv only quotes when needed.
func writeQuotedCSV(w io.Writer, rows [][]string) error {
	var buf bytes.Buffer
	for _, row := range rows {
		for i, field := range row {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteByte('"')
			buf.WriteString(strings.ReplaceAll(field, `"`, `""`))
			buf.WriteByte('"')
		}
		buf.WriteByte('\n')
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("error writing CSV: %w", err)
	}
	return nil
}

// writeSnapshot prints v as indented JSON or YAML. Map keys come out
// sorted in both encodings.
func writeSnapshot(w io.Writer, format string, v any) error {
	var buf bytes.Buffer
	switch format {
	case JSON:
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
	case YAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
	}
	_, err := w.Write(buf.Bytes())
	return err
}
