package api_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"config-cli/address"
	"config-cli/api"
	"config-cli/internal/httpx"
	"config-cli/models"
)

// fakeValidator serves the subset of the REST API the client uses.
type fakeValidator struct {
	mu       sync.Mutex
	leaves   map[string]string
	order    []string
	pageSize int
	batches  [][]byte
	fail     int
}

func newFakeValidator() *fakeValidator {
	return &fakeValidator{leaves: make(map[string]string), pageSize: 100}
}

func (f *fakeValidator) put(addr string, s *models.Setting) {
	f.leaves[addr] = base64.StdEncoding.EncodeToString(s.Marshal())
	f.order = append(f.order, addr)
}

func (f *fakeValidator) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fail != 0 {
		http.Error(w, `{"error":"unavailable"}`, f.fail)
		return
	}

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/batches":
		if ct := r.Header.Get("Content-Type"); ct != "application/octet-stream" {
			http.Error(w, "bad content type "+ct, http.StatusBadRequest)
			return
		}
		body, _ := io.ReadAll(r.Body)
		f.batches = append(f.batches, body)
		w.WriteHeader(http.StatusAccepted)
		io.WriteString(w, `{"link":"http://localhost/batch_status"}`)
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/state/"):
		data, ok := f.leaves[strings.TrimPrefix(r.URL.Path, "/state/")]
		if !ok {
			http.Error(w, `{"error":{"code":75}}`, http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"data": data, "head": "h1"})
	case r.Method == http.MethodGet && r.URL.Path == "/state":
		prefix := r.URL.Query().Get("address")
		var matched []models.StateEntry
		for _, addr := range f.order {
			if strings.HasPrefix(addr, prefix) {
				matched = append(matched, models.StateEntry{Address: addr, Data: f.leaves[addr]})
			}
		}
		start := 0
		if s := r.URL.Query().Get("start"); s != "" {
			for i, e := range matched {
				if e.Address == s {
					start = i
				}
			}
		}
		end := start + f.pageSize
		resp := map[string]any{"head": "h1"}
		if end < len(matched) {
			resp["paging"] = map[string]string{
				"next": "http://validator/state?address=" + prefix + "&start=" + matched[end].Address,
			}
		} else {
			end = len(matched)
		}
		resp["data"] = matched[start:end]
		json.NewEncoder(w).Encode(resp)
	default:
		http.NotFound(w, r)
	}
}

func newClient(t *testing.T, f *fakeValidator) *api.Client {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	c, err := api.New(srv.URL)
	if err != nil {
		t.Fatalf("api.New failed: %v", err)
	}
	return c
}

func TestSubmitBatches(t *testing.T) {
	f := newFakeValidator()
	c := newClient(t, f)

	list := &models.BatchList{Batches: []*models.Batch{{Header: []byte{1}, HeaderSignature: "ab"}}}
	if err := c.SubmitBatches(context.Background(), list); err != nil {
		t.Fatalf("SubmitBatches failed: %v", err)
	}
	if len(f.batches) != 1 || string(f.batches[0]) != string(list.Marshal()) {
		t.Error("validator did not receive the serialized batch list")
	}
}

func TestGetLeaf(t *testing.T) {
	f := newFakeValidator()
	f.put(address.ProposalsAddress, &models.Setting{Entries: []models.SettingEntry{{Key: "k", Value: "v"}}})
	c := newClient(t, f)

	leaf, err := c.GetLeaf(context.Background(), address.ProposalsAddress)
	if err != nil {
		t.Fatalf("GetLeaf failed: %v", err)
	}
	if leaf == nil || leaf.Address != address.ProposalsAddress || leaf.Data != f.leaves[address.ProposalsAddress] {
		t.Fatalf("unexpected leaf %+v", leaf)
	}

	missing, err := c.GetLeaf(context.Background(), address.KeyToAddress("nope"))
	if err != nil {
		t.Fatalf("missing leaf should not be an error: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil leaf, got %+v", missing)
	}

	if _, err := c.GetLeaf(context.Background(), "zz"); !errors.Is(err, api.ErrTransport) {
		t.Errorf("invalid address: expected ErrTransport, got %v", err)
	}
}

func TestListStateFollowsPaging(t *testing.T) {
	f := newFakeValidator()
	f.pageSize = 2
	for _, k := range []string{"a", "b", "c", "d", "e"} {
		f.put(address.KeyToAddress(k), &models.Setting{Entries: []models.SettingEntry{{Key: k, Value: k}}})
	}
	c := newClient(t, f)

	list, err := c.ListState(context.Background(), address.Namespace)
	if err != nil {
		t.Fatalf("ListState failed: %v", err)
	}
	if list.Head != "h1" {
		t.Errorf("head = %q", list.Head)
	}
	if len(list.Entries) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(list.Entries))
	}
	for i, e := range list.Entries {
		if e.Address != f.order[i] {
			t.Errorf("entry %d out of order", i)
		}
	}
}

func TestTransportErrors(t *testing.T) {
	f := newFakeValidator()
	f.fail = http.StatusInternalServerError
	c := newClient(t, f)
	ctx := context.Background()

	err := c.SubmitBatches(ctx, &models.BatchList{})
	if !errors.Is(err, api.ErrTransport) {
		t.Errorf("SubmitBatches: expected ErrTransport, got %v", err)
	}
	var httpErr *httpx.HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("SubmitBatches: expected wrapped HTTPError, got %v", err)
	}

	if _, err := c.GetLeaf(ctx, address.ProposalsAddress); !errors.Is(err, api.ErrTransport) {
		t.Errorf("GetLeaf: expected ErrTransport, got %v", err)
	}
	if _, err := c.ListState(ctx, address.Namespace); !errors.Is(err, api.ErrTransport) {
		t.Errorf("ListState: expected ErrTransport, got %v", err)
	}
}

func TestUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := api.New(url)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.ListState(context.Background(), address.Namespace); !errors.Is(err, api.ErrTransport) {
		t.Errorf("expected ErrTransport, got %v", err)
	}
}
