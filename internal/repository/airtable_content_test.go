package repository

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/seo-dashboard-api/internal/airtable"
	"github.com/seo-dashboard-api/internal/apperr"
	"github.com/seo-dashboard-api/internal/models"
)

// fakeContentStore is an httptest-backed stand-in for the record store's
// content table.
type fakeContentStore struct {
	mu       sync.Mutex
	records  map[string]map[string]interface{}
	requests int64
	failAll  bool
}

func newFakeContentStore() *fakeContentStore {
	return &fakeContentStore{records: make(map[string]map[string]interface{})}
}

func (f *fakeContentStore) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&f.requests, 1)

		if f.failAll {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":"INTERNAL"}`))
			return
		}

		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		// /{base}/{table}[/{id}]
		switch r.Method {
		case http.MethodGet:
			f.mu.Lock()
			var records []map[string]interface{}
			for id, fields := range f.records {
				records = append(records, map[string]interface{}{
					"id": id, "fields": fields, "createdTime": time.Now().Format(time.RFC3339),
				})
			}
			f.mu.Unlock()
			json.NewEncoder(w).Encode(map[string]interface{}{"records": records})

		case http.MethodPost:
			var body struct {
				Fields map[string]interface{} `json:"fields"`
			}
			json.NewDecoder(r.Body).Decode(&body)
			f.mu.Lock()
			id := "rec" + strings.Repeat("X", 3+len(f.records))
			f.records[id] = body.Fields
			f.mu.Unlock()
			json.NewEncoder(w).Encode(map[string]interface{}{
				"id": id, "fields": body.Fields, "createdTime": time.Now().Format(time.RFC3339),
			})

		case http.MethodPatch:
			id := parts[len(parts)-1]
			f.mu.Lock()
			fields, ok := f.records[id]
			if !ok {
				f.mu.Unlock()
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte(`{"error":"NOT_FOUND"}`))
				return
			}
			var body struct {
				Fields map[string]interface{} `json:"fields"`
			}
			json.NewDecoder(r.Body).Decode(&body)
			for k, v := range body.Fields {
				if v == nil {
					delete(fields, k)
					continue
				}
				fields[k] = v
			}
			f.mu.Unlock()
			json.NewEncoder(w).Encode(map[string]interface{}{
				"id": id, "fields": fields, "createdTime": time.Now().Format(time.RFC3339),
			})

		case http.MethodDelete:
			id := parts[len(parts)-1]
			f.mu.Lock()
			_, ok := f.records[id]
			delete(f.records, id)
			f.mu.Unlock()
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte(`{"error":"NOT_FOUND"}`))
				return
			}
			json.NewEncoder(w).Encode(map[string]interface{}{"deleted": true, "id": id})
		}
	}
}

func newContentRepo(t *testing.T, store *fakeContentStore) (*AirtableContentRepo, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(store.handler())
	t.Cleanup(srv.Close)
	client := airtable.NewClient(srv.URL, "test-key", "appTEST", 5*time.Second, zerolog.Nop())
	return NewAirtableContentRepo(client, "Contenus", zerolog.Nop()), srv
}

func seedContent(store *fakeContentStore, ids ...string) {
	for _, id := range ids {
		store.records[id] = map[string]interface{}{
			"ID Site":             "1",
			"Type de contenu":     "blog",
			"Contenu":             "seeded",
			"Statut":              "pending",
			"Date de publication": "2026-08-01",
		}
	}
}

func TestBulkUpdateStatusPartialFailure(t *testing.T) {
	store := newFakeContentStore()
	seedContent(store, "rec1", "rec2", "rec3", "rec4")
	repo, _ := newContentRepo(t, store)

	// 5 IDs, one of which does not exist in the store.
	ids := []string{"rec1", "rec2", "recMISSING", "rec3", "rec4"}
	updated, err := repo.BulkUpdateStatus(context.Background(), ids, models.StatusApproved)
	if err != nil {
		t.Fatalf("BulkUpdateStatus should not fail on a partial miss: %v", err)
	}
	if len(updated) != 4 {
		t.Fatalf("Expected exactly 4 updated items, got %d", len(updated))
	}
	for _, item := range updated {
		if item.Status != models.StatusApproved {
			t.Errorf("Expected status approved, got %q", item.Status)
		}
	}
}

func TestBulkUpdateStatusAllFailDegradesToEmpty(t *testing.T) {
	store := newFakeContentStore()
	store.failAll = true
	repo, _ := newContentRepo(t, store)

	updated, err := repo.BulkUpdateStatus(context.Background(),
		[]string{"rec1", "rec2", "rec3", "rec4", "rec5"}, models.StatusPending)
	if err != nil {
		t.Fatalf("All-fail must degrade to an empty result, not an error: %v", err)
	}
	if len(updated) != 0 {
		t.Fatalf("Expected empty result, got %d items", len(updated))
	}
}

func TestBulkUpdateStatusRejectsPublishBeforeNetwork(t *testing.T) {
	store := newFakeContentStore()
	seedContent(store, "rec1")
	repo, _ := newContentRepo(t, store)

	_, err := repo.BulkUpdateStatus(context.Background(), []string{"rec1"}, models.StatusPublished)
	if err == nil {
		t.Fatal("Expected publish to be rejected in bulk updates")
	}
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Errorf("Expected a validation error, got kind %q", apperr.KindOf(err))
	}
	if n := atomic.LoadInt64(&store.requests); n != 0 {
		t.Errorf("Expected rejection before any network call, but store saw %d requests", n)
	}
}

func TestCreateContentRoundTrip(t *testing.T) {
	store := newFakeContentStore()
	repo, _ := newContentRepo(t, store)
	ctx := context.Background()

	created, err := repo.Create(ctx, &models.CreateContentRequest{
		SiteID:      3,
		Type:        models.TypeInstagram,
		Text:        "Summer promo post",
		ImageURL:    "https://cdn.example/promo.jpg",
		Status:      models.StatusNeedsReview,
		PublishDate: "2026-09-01T08:00:00Z",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == "" {
		t.Fatal("Expected store-assigned ID")
	}

	items, err := repo.List(ctx, models.ContentFilter{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(items))
	}

	got := items[0]
	if got.Text != "Summer promo post" {
		t.Errorf("Text mismatch: %q", got.Text)
	}
	if got.Type != models.TypeInstagram {
		t.Errorf("Type mismatch: %q", got.Type)
	}
	if got.Status != models.StatusNeedsReview {
		t.Errorf("Status mismatch: %q", got.Status)
	}
	if got.PublishDate != "2026-09-01" {
		t.Errorf("Expected bare date, got %q", got.PublishDate)
	}
	if !got.HasImage || got.ImageURL == nil || *got.ImageURL != "https://cdn.example/promo.jpg" {
		t.Errorf("Image fields did not round-trip: hasImage=%v url=%v", got.HasImage, got.ImageURL)
	}
	if got.ImageSource == nil || *got.ImageSource != models.ImageSourceAI {
		t.Errorf("Expected ai provenance for external URL, got %v", got.ImageSource)
	}
}

func TestUpdateContentClearingImage(t *testing.T) {
	store := newFakeContentStore()
	seedContent(store, "rec1")
	store.records["rec1"]["URL Image"] = "https://cdn.example/old.png"
	repo, _ := newContentRepo(t, store)

	noImage := false
	stray := "https://cdn.example/new.png"
	item, err := repo.Update(context.Background(), "rec1", &models.UpdateContentRequest{
		HasImage: &noImage,
		// A stray URL in the same payload must not survive the clear.
		ImageURL: &stray,
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if item.HasImage || item.ImageURL != nil || item.ImageSource != nil {
		t.Errorf("Expected both image fields cleared, got hasImage=%v url=%v source=%v",
			item.HasImage, item.ImageURL, item.ImageSource)
	}
}

func TestUpdateContentNotFound(t *testing.T) {
	store := newFakeContentStore()
	repo, _ := newContentRepo(t, store)

	text := "hello"
	_, err := repo.Update(context.Background(), "recNOPE", &models.UpdateContentRequest{Text: &text})
	if !apperr.IsNotFound(err) {
		t.Errorf("Expected not-found error, got %v", err)
	}
}
