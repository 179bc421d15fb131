package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/c-library/catalog-admin/internal/core/domain"
	"github.com/c-library/catalog-admin/internal/core/ports"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL}, zerolog.Nop())
}

func TestStats_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/stats" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		if accept := r.Header.Get("Accept"); accept != "application/json" {
			t.Fatalf("missing Accept header, got %q", accept)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"total_theses": 42, "master_theses": 30, "phd_theses": 12}`))
	})

	stats, err := client.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalTheses != 42 || stats.PhdTheses != 12 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestErrorEnvelope_Parsed(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"validation failed","errors":{"title":["title is required"]}}`))
	})

	_, err := client.Stats(context.Background())
	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *domain.APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", apiErr.StatusCode)
	}
	if apiErr.Message != "validation failed" {
		t.Fatalf("message = %q", apiErr.Message)
	}
	if got := apiErr.Errors["title"]; len(got) != 1 || got[0] != "title is required" {
		t.Fatalf("field errors = %+v", apiErr.Errors)
	}
}

// An unparseable error body falls back to a synthetic message carrying the
// HTTP status.
func TestErrorEnvelope_FallbackMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<html>upstream exploded</html>`))
	})

	_, err := client.Stats(context.Background())
	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *domain.APIError, got %T", err)
	}
	if apiErr.Message != "HTTP error! status: 502" {
		t.Fatalf("message = %q", apiErr.Message)
	}
}

func TestArchiveThesis_NoContent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/theses/7" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	if err := client.ArchiveThesis(context.Background(), 7); err != nil {
		t.Fatalf("ArchiveThesis: %v", err)
	}
}

func TestSearchTheses_QueryParams(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("title") != "networks" {
			t.Fatalf("title param = %q", q.Get("title"))
		}
		if q.Get("year") != "2021" {
			t.Fatalf("year param = %q", q.Get("year"))
		}
		// Empty optional filters must not be sent at all.
		if _, present := q["author"]; present {
			t.Fatalf("empty author param sent")
		}
		_, _ = w.Write([]byte(`[{"id":1,"title":"networks thesis"}]`))
	})

	theses, err := client.SearchTheses(context.Background(), ports.ThesisSearchParams{Title: "networks", Year: "2021"})
	if err != nil {
		t.Fatalf("SearchTheses: %v", err)
	}
	if len(theses) != 1 || theses[0].Title != "networks thesis" {
		t.Fatalf("unexpected result: %+v", theses)
	}
}

// Updates tunnel through POST with a _method=PUT multipart field, matching
// the remote API's upload convention.
func TestUpdateThesis_MethodOverride(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/theses/5" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if r.FormValue("_method") != "PUT" {
			t.Fatalf("_method = %q", r.FormValue("_method"))
		}
		if r.FormValue("title") != "updated title" {
			t.Fatalf("title = %q", r.FormValue("title"))
		}
		file, header, err := r.FormFile("pdf")
		if err != nil {
			t.Fatalf("pdf part missing: %v", err)
		}
		defer file.Close()
		if header.Filename != "thesis.pdf" {
			t.Fatalf("pdf filename = %q", header.Filename)
		}
		_, _ = w.Write([]byte(`{"message":"ok","thesis":{"id":5,"title":"updated title"}}`))
	})

	thesis, err := client.UpdateThesis(context.Background(), 5, ports.ThesisUpload{
		Title:       "updated title",
		Year:        "2020",
		AuthorName:  "sara",
		PDFFileName: "thesis.pdf",
		PDF:         strings.NewReader("%PDF-1.4"),
	})
	if err != nil {
		t.Fatalf("UpdateThesis: %v", err)
	}
	if thesis.ID != 5 {
		t.Fatalf("unexpected thesis: %+v", thesis)
	}
}

func TestAddThesis_NoMethodOverride(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if _, present := r.MultipartForm.Value["_method"]; present {
			t.Fatalf("create must not send _method")
		}
		_, _ = w.Write([]byte(`{"message":"created","thesis":{"id":9,"title":"new"}}`))
	})

	thesis, err := client.AddThesis(context.Background(), ports.ThesisUpload{
		Title:       "new",
		PDFFileName: "new.pdf",
		PDF:         strings.NewReader("%PDF-1.4"),
	})
	if err != nil {
		t.Fatalf("AddThesis: %v", err)
	}
	if thesis.ID != 9 {
		t.Fatalf("unexpected thesis: %+v", thesis)
	}
}

func TestUpdateReservedTitle_FormEncoded(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/reserved-thesis-titles/3" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Fatalf("content type = %q", ct)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if r.PostFormValue("person_name") != "sara" {
			t.Fatalf("person_name = %q", r.PostFormValue("person_name"))
		}
		_, _ = w.Write([]byte(`{"id":3,"title":"reserved","person_name":"sara"}`))
	})

	title, err := client.UpdateReservedTitle(context.Background(), 3, ports.ReservedTitleInput{
		Title:      "reserved",
		PersonName: "sara",
		University: "cairo",
	})
	if err != nil {
		t.Fatalf("UpdateReservedTitle: %v", err)
	}
	if title.ID != 3 || title.PersonName != "sara" {
		t.Fatalf("unexpected title: %+v", title)
	}
}

func TestRestoreArchivedThesis(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/archived-theses/11/restore" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"message":"restored"}`))
	})

	if err := client.RestoreArchivedThesis(context.Background(), 11); err != nil {
		t.Fatalf("RestoreArchivedThesis: %v", err)
	}
}
