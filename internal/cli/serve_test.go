package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/matzehuels/portgraph/pkg/model"
	"github.com/matzehuels/portgraph/pkg/modelio"
	"github.com/matzehuels/portgraph/pkg/nodes"
	"github.com/matzehuels/portgraph/pkg/store"
)

// testDocument returns a valid serialized model.
func testDocument(t *testing.T) []byte {
	t.Helper()
	m := model.New()
	c := nodes.NewConstant(m, 1.0, 2.0)
	if _, err := nodes.NewSum(m, c.Output()); err != nil {
		t.Fatalf("NewSum: %v", err)
	}
	data, err := modelio.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	return data
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	st, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return newRouter(BackendFile, st)
}

func TestServeHealth(t *testing.T) {
	r := newTestRouter(t)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("health status = %d", rec.Code)
	}
}

func TestServeModelLifecycle(t *testing.T) {
	r := newTestRouter(t)
	doc := testDocument(t)

	// Store
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/models/demo", bytes.NewReader(doc)))
	if rec.Code != http.StatusOK {
		t.Fatalf("put status = %d: %s", rec.Code, rec.Body)
	}
	var snap store.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode put response: %v", err)
	}
	if snap.Name != "demo" || snap.ID == "" {
		t.Errorf("put snapshot = %+v", snap)
	}
	if snap.Model != nil {
		t.Error("put response should omit the payload")
	}

	// Fetch
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/models/demo", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	if !bytes.Equal(rec.Body.Bytes(), doc) {
		t.Error("get should return the stored document verbatim")
	}

	// List
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/models", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var snaps []store.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snaps); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(snaps) != 1 || snaps[0].Name != "demo" {
		t.Errorf("list = %+v", snaps)
	}

	// Delete
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/models/demo", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/models/demo", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d", rec.Code)
	}
}

func TestServeRejectsInvalidDocument(t *testing.T) {
	r := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/models/bad", bytes.NewReader([]byte("not a model"))))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid put status = %d", rec.Code)
	}

	// Nothing was stored
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/models/bad", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after rejected put status = %d", rec.Code)
	}
}

func TestServeMissingModel(t *testing.T) {
	r := newTestRouter(t)

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/models/ghost", nil),
		httptest.NewRequest(http.MethodDelete, "/models/ghost", nil),
		httptest.NewRequest(http.MethodGet, "/models/ghost/render", nil),
	} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s %s status = %d, want 404", req.Method, req.URL.Path, rec.Code)
		}
	}
}
