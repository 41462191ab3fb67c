package storage

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"config-cli/models"
)

func testBatchList() *models.BatchList {
	return &models.BatchList{Batches: []*models.Batch{{
		Header:          []byte{0x0a, 0x02, 0x61, 0x62},
		HeaderSignature: "cafe",
		Transactions: []*models.Transaction{{
			Header:          []byte{0x1a, 0x06, 'c', 'o', 'n', 'f', 'i', 'g'},
			HeaderSignature: "beef",
			Payload:         []byte{0x08, 0x01},
		}},
	}}}
}

func TestWriteBatchList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.batch")
	list := testBatchList()

	if err := WriteBatchList(path, list); err != nil {
		t.Fatalf("WriteBatchList failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, list.Marshal()) {
		t.Error("file does not hold the serialized batch list")
	}

	got, err := ReadBatchList(path)
	if err != nil {
		t.Fatalf("ReadBatchList failed: %v", err)
	}
	if len(got.Batches) != 1 || got.Batches[0].HeaderSignature != "cafe" {
		t.Errorf("unexpected batch list %+v", got)
	}
	if len(got.Batches[0].Transactions) != 1 || got.Batches[0].Transactions[0].HeaderSignature != "beef" {
		t.Errorf("unexpected transactions %+v", got.Batches[0].Transactions)
	}
}

func TestWriteBatchListOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.batch")
	if err := os.WriteFile(path, []byte("old contents that are longer"), 0644); err != nil {
		t.Fatal(err)
	}

	list := testBatchList()
	if err := WriteBatchList(path, list); err != nil {
		t.Fatalf("WriteBatchList failed: %v", err)
	}
	data, _ := os.ReadFile(path)
	if !bytes.Equal(data, list.Marshal()) {
		t.Error("existing file was not replaced")
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %d entries", len(entries))
	}
}

func TestWriteBatchListErrors(t *testing.T) {
	missingDir := filepath.Join(t.TempDir(), "missing", "config.batch")

	tests := []struct {
		name string
		path string
		list *models.BatchList
	}{
		{"missing directory", missingDir, testBatchList()},
		{"empty path", "", testBatchList()},
		{"nil list", filepath.Join(t.TempDir(), "x.batch"), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := WriteBatchList(tt.path, tt.list)
			if !errors.Is(err, ErrWrite) {
				t.Fatalf("expected ErrWrite, got %v", err)
			}
			if !strings.HasPrefix(err.Error(), "Unable to write to batch file") {
				t.Errorf("unexpected message %q", err.Error())
			}
		})
	}
}

func TestReadBatchListMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.batch")
	if err := os.WriteFile(path, []byte{0x0a, 0x05, 0x01}, 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadBatchList(path); !errors.Is(err, models.ErrMalformed) {
		t.Errorf("expected ErrMalformed, got %v", err)
	}
}
