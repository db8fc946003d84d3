package storage

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// fakeCouch 内存版 CouchDB，只实现存储层用到的接口
type fakeCouch struct {
	mu       sync.Mutex
	user     string
	password string
	dbs      map[string]bool
	docs     map[string]map[string]any
	order    []string
	revs     map[string]int

	// failFind 为 true 时 _find 返回 500
	failFind bool
}

func newFakeCouch(t *testing.T, user, password string) (*fakeCouch, *httptest.Server) {
	t.Helper()

	fc := &fakeCouch{
		user:     user,
		password: password,
		dbs:      make(map[string]bool),
		docs:     make(map[string]map[string]any),
		revs:     make(map[string]int),
	}
	srv := httptest.NewServer(fc)
	t.Cleanup(srv.Close)
	return fc, srv
}

func (fc *fakeCouch) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user, password, ok := r.BasicAuth()
	if !ok || user != fc.user || password != fc.password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized", "reason": "Name or password is incorrect."})
		return
	}

	fc.mu.Lock()
	defer fc.mu.Unlock()

	parts := strings.SplitN(strings.Trim(r.URL.Path, "/"), "/", 2)
	db := parts[0]

	if len(parts) == 1 {
		if r.Method != http.MethodPut {
			writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method_not_allowed"})
			return
		}
		if fc.dbs[db] {
			writeJSON(w, http.StatusPreconditionFailed, map[string]string{"error": "file_exists", "reason": "The database could not be created, the file already exists."})
			return
		}
		fc.dbs[db] = true
		writeJSON(w, http.StatusCreated, map[string]bool{"ok": true})
		return
	}

	if !fc.dbs[db] {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "reason": "Database does not exist."})
		return
	}

	id := parts[1]
	switch {
	case id == "_find" && r.Method == http.MethodPost:
		fc.handleFind(w, r)
	case id == "_bulk_docs" && r.Method == http.MethodPost:
		fc.handleBulk(w, r)
	case r.Method == http.MethodGet:
		doc, ok := fc.docs[id]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "reason": "missing"})
			return
		}
		writeJSON(w, http.StatusOK, doc)
	case r.Method == http.MethodPut:
		var doc map[string]any
		if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad_request", "reason": err.Error()})
			return
		}
		rev, _ := doc["_rev"].(string)
		if !fc.revMatches(id, rev) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "conflict", "reason": "Document update conflict."})
			return
		}
		newRev := fc.store(id, doc)
		writeJSON(w, http.StatusCreated, map[string]any{"ok": true, "id": id, "rev": newRev})
	case r.Method == http.MethodDelete:
		if _, ok := fc.docs[id]; !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "reason": "deleted"})
			return
		}
		if !fc.revMatches(id, r.URL.Query().Get("rev")) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "conflict", "reason": "Document update conflict."})
			return
		}
		fc.remove(id)
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "id": id})
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method_not_allowed"})
	}
}

func (fc *fakeCouch) handleFind(w http.ResponseWriter, r *http.Request) {
	if fc.failFind {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal_server_error", "reason": "boom"})
		return
	}

	var req findRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad_request", "reason": err.Error()})
		return
	}

	var matched []map[string]any
	for _, id := range fc.order {
		doc := fc.docs[id]
		if matches(doc, req.Selector) {
			matched = append(matched, doc)
		}
	}

	offset := 0
	if req.Bookmark != "" {
		offset, _ = strconv.Atoi(req.Bookmark)
	}
	if offset > len(matched) {
		offset = len(matched)
	}
	end := len(matched)
	if req.Limit > 0 && offset+req.Limit < end {
		end = offset + req.Limit
	}

	page := matched[offset:end]
	if page == nil {
		page = []map[string]any{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"docs":     page,
		"bookmark": strconv.Itoa(end),
	})
}

func (fc *fakeCouch) handleBulk(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Docs []map[string]any `json:"docs"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad_request", "reason": err.Error()})
		return
	}

	results := make([]map[string]any, 0, len(req.Docs))
	for _, doc := range req.Docs {
		id, _ := doc["_id"].(string)
		rev, _ := doc["_rev"].(string)
		if _, ok := fc.docs[id]; !ok {
			results = append(results, map[string]any{"id": id, "error": "not_found", "reason": "missing"})
			continue
		}
		if !fc.revMatches(id, rev) {
			results = append(results, map[string]any{"id": id, "error": "conflict", "reason": "Document update conflict."})
			continue
		}
		if deleted, _ := doc["_deleted"].(bool); deleted {
			fc.remove(id)
			results = append(results, map[string]any{"id": id, "ok": true})
			continue
		}
		results = append(results, map[string]any{"id": id, "ok": true, "rev": fc.store(id, doc)})
	}
	writeJSON(w, http.StatusCreated, results)
}

// revMatches 新文档不能带 _rev，已有文档必须带当前 _rev
func (fc *fakeCouch) revMatches(id, rev string) bool {
	doc, ok := fc.docs[id]
	if !ok {
		return rev == ""
	}
	return doc["_rev"] == rev
}

func (fc *fakeCouch) store(id string, doc map[string]any) string {
	if _, ok := fc.docs[id]; !ok {
		fc.order = append(fc.order, id)
	}
	fc.revs[id]++
	rev := fmt.Sprintf("%d-fake", fc.revs[id])
	doc["_id"] = id
	doc["_rev"] = rev
	fc.docs[id] = doc
	return rev
}

func (fc *fakeCouch) remove(id string) {
	delete(fc.docs, id)
	for i, existing := range fc.order {
		if existing == id {
			fc.order = append(fc.order[:i], fc.order[i+1:]...)
			break
		}
	}
}

// putRaw 直接写入文档，绕过存储层
func (fc *fakeCouch) putRaw(db string, doc map[string]any) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.dbs[db] = true
	fc.store(doc["_id"].(string), doc)
}

func (fc *fakeCouch) setFailFind(v bool) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.failFind = v
}

func (fc *fakeCouch) docCount() int {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return len(fc.docs)
}

func matches(doc map[string]any, selector map[string]any) bool {
	for key, want := range selector {
		if doc[key] != want {
			return false
		}
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
