package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/desertthunder/ytlikes/internal/models"
	"github.com/desertthunder/ytlikes/internal/shared"
)

func fakePage(videoID string) map[string]any {
	return map[string]any{
		"object": "page",
		"id":     "page-" + videoID,
		"url":    "https://www.notion.so/page-" + videoID,
		"properties": map[string]any{
			PropTitle: map[string]any{"type": "title", "title": []any{
				map[string]any{"type": "text", "plain_text": "Song " + videoID},
			}},
			PropVideoID: map[string]any{"type": "rich_text", "rich_text": []any{
				map[string]any{"type": "text", "text": map[string]any{"content": videoID}, "plain_text": videoID},
			}},
			PropDurationSeconds: map[string]any{"type": "number", "number": 201},
			PropVideo:           map[string]any{"type": "url", "url": "https://youtube.com/watch?v=" + videoID},
		},
	}
}

func newTestNotion(url string) *NotionService {
	return NewNotionService(NotionOpts{APIKey: "secret_key", DatabaseID: "db-1", BaseURL: url})
}

func TestNotionService(t *testing.T) {
	t.Run("NewNotionService", func(t *testing.T) {
		t.Run("applies defaults", func(t *testing.T) {
			svc := NewNotionService(NotionOpts{APIKey: "k", DatabaseID: "db"})
			if svc.baseURL != defaultNotionBaseURL {
				t.Errorf("expected base URL %s, got %s", defaultNotionBaseURL, svc.baseURL)
			}
			if svc.version != defaultNotionVersion {
				t.Errorf("expected version %s, got %s", defaultNotionVersion, svc.version)
			}
			if svc.pageSize != notionMaxPageSize {
				t.Errorf("expected page size %d, got %d", notionMaxPageSize, svc.pageSize)
			}
		})

		t.Run("caps page size", func(t *testing.T) {
			svc := NewNotionService(NotionOpts{PageSize: 500})
			if svc.pageSize != notionMaxPageSize {
				t.Errorf("expected page size %d, got %d", notionMaxPageSize, svc.pageSize)
			}
		})

		t.Run("trims trailing slash", func(t *testing.T) {
			svc := NewNotionService(NotionOpts{BaseURL: "http://localhost/v1/"})
			if svc.baseURL != "http://localhost/v1" {
				t.Errorf("unexpected base URL %s", svc.baseURL)
			}
		})
	})

	t.Run("DatabaseURL", func(t *testing.T) {
		svc := NewNotionService(NotionOpts{DatabaseID: "1234-abcd-5678"})
		if got := svc.DatabaseURL(); got != "https://www.notion.so/1234abcd5678" {
			t.Errorf("unexpected database URL %s", got)
		}
	})

	t.Run("Headers", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("Authorization"); got != "Bearer secret_key" {
				t.Errorf("expected bearer token, got %q", got)
			}
			if got := r.Header.Get("Notion-Version"); got != defaultNotionVersion {
				t.Errorf("expected Notion-Version %s, got %q", defaultNotionVersion, got)
			}
			if got := r.Header.Get("Content-Type"); got != "application/json" {
				t.Errorf("expected JSON content type, got %q", got)
			}
			if got := r.Header.Get("Accept"); got != "application/json" {
				t.Errorf("expected JSON accept, got %q", got)
			}
			w.Write([]byte(`{"object":"list","results":[],"next_cursor":null,"has_more":false}`))
		}))
		defer server.Close()

		if _, err := newTestNotion(server.URL).QueryPage(context.Background(), ""); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("QueryRows", func(t *testing.T) {
		t.Run("follows cursors until exhausted", func(t *testing.T) {
			sizes := []int{100, 100, 37}
			var calls atomic.Int32

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost || r.URL.Path != "/databases/db-1/query" {
					t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
				}

				var body map[string]any
				json.NewDecoder(r.Body).Decode(&body)

				n := int(calls.Add(1)) - 1
				if body["page_size"] != float64(100) {
					t.Errorf("expected page_size 100, got %v", body["page_size"])
				}

				wantCursor := ""
				if n > 0 {
					wantCursor = fmt.Sprintf("cursor-%d", n)
				}
				gotCursor, _ := body["start_cursor"].(string)
				if gotCursor != wantCursor {
					t.Errorf("request %d: expected cursor %q, got %q", n, wantCursor, gotCursor)
				}

				results := make([]any, sizes[n])
				for i := range results {
					results[i] = fakePage(fmt.Sprintf("v%d-%d", n, i))
				}

				var next any
				if n < len(sizes)-1 {
					next = fmt.Sprintf("cursor-%d", n+1)
				}

				json.NewEncoder(w).Encode(map[string]any{
					"object":      "list",
					"results":     results,
					"next_cursor": next,
					"has_more":    next != nil,
				})
			}))
			defer server.Close()

			rows, err := newTestNotion(server.URL).QueryRows(context.Background())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(rows) != 237 {
				t.Errorf("expected 237 rows, got %d", len(rows))
			}
			if calls.Load() != 3 {
				t.Errorf("expected 3 requests, got %d", calls.Load())
			}
			if rows[0].VideoID != "v0-0" || rows[236].VideoID != "v2-36" {
				t.Errorf("unexpected row order: first %s, last %s", rows[0].VideoID, rows[236].VideoID)
			}
		})

		t.Run("empty database", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"object":"list","results":[],"next_cursor":null,"has_more":false}`))
			}))
			defer server.Close()

			rows, err := newTestNotion(server.URL).QueryRows(context.Background())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if rows == nil || len(rows) != 0 {
				t.Errorf("expected empty non-nil rows, got %v", rows)
			}
		})

		t.Run("repeated cursor is malformed", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"object":"list","results":[],"next_cursor":"same","has_more":true}`))
			}))
			defer server.Close()

			_, err := newTestNotion(server.URL).QueryRows(context.Background())
			if !errors.Is(err, shared.ErrMalformedResponse) {
				t.Fatalf("expected ErrMalformedResponse, got %v", err)
			}
		})

		t.Run("missing results is malformed", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"object":"list"}`))
			}))
			defer server.Close()

			_, err := newTestNotion(server.URL).QueryRows(context.Background())
			if !errors.Is(err, shared.ErrMalformedResponse) {
				t.Fatalf("expected ErrMalformedResponse, got %v", err)
			}
		})

		t.Run("error object propagates", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte(`{"object":"error","status":404,"code":"object_not_found","message":"Could not find database"}`))
			}))
			defer server.Close()

			_, err := newTestNotion(server.URL).QueryRows(context.Background())

			var nerr *NotionError
			if !errors.As(err, &nerr) {
				t.Fatalf("expected *NotionError, got %v", err)
			}
			if nerr.Status != 404 || nerr.Code != "object_not_found" {
				t.Errorf("unexpected error object %+v", nerr)
			}
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Error("expected error object to match ErrAPIRequest")
			}
		})

		t.Run("undecodable error status", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				w.Write([]byte(`<html>bad gateway</html>`))
			}))
			defer server.Close()

			_, err := newTestNotion(server.URL).QueryRows(context.Background())
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Fatalf("expected ErrAPIRequest, got %v", err)
			}

			var nerr *NotionError
			if errors.As(err, &nerr) {
				t.Error("expected a transport fault, not an error object")
			}
		})
	})

	t.Run("CreateRow", func(t *testing.T) {
		track := models.Track{
			VideoID:         "abc123",
			Title:           "Song",
			Artists:         []models.Artist{{Name: "A"}, {Name: "B"}},
			Duration:        "3:21",
			DurationSeconds: 201,
		}

		t.Run("posts payload and returns row", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost || r.URL.Path != "/pages" {
					t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
				}

				var body map[string]any
				json.NewDecoder(r.Body).Decode(&body)
				parent := body["parent"].(map[string]any)
				if parent["database_id"] != "db-1" {
					t.Errorf("unexpected parent %v", parent)
				}

				json.NewEncoder(w).Encode(fakePage("abc123"))
			}))
			defer server.Close()

			row, err := newTestNotion(server.URL).CreateRow(context.Background(), track)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if row.PageID != "page-abc123" || row.VideoID != "abc123" {
				t.Errorf("unexpected row %+v", row)
			}
			if row.DurationSeconds != 201 {
				t.Errorf("expected 201 seconds, got %d", row.DurationSeconds)
			}
			if row.Link != "https://youtube.com/watch?v=abc123" {
				t.Errorf("unexpected link %s", row.Link)
			}
		})

		t.Run("returns error object", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"object":"error","status":400,"code":"validation_error","message":"Artist is not a property that exists."}`))
			}))
			defer server.Close()

			_, err := newTestNotion(server.URL).CreateRow(context.Background(), track)

			var nerr *NotionError
			if !errors.As(err, &nerr) {
				t.Fatalf("expected *NotionError, got %v", err)
			}
			if nerr.Code != "validation_error" {
				t.Errorf("unexpected code %s", nerr.Code)
			}
		})

		t.Run("error object with 200 status", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"object":"error","code":"conflict_error","message":"retry"}`))
			}))
			defer server.Close()

			_, err := newTestNotion(server.URL).CreateRow(context.Background(), track)

			var nerr *NotionError
			if !errors.As(err, &nerr) {
				t.Fatalf("expected *NotionError, got %v", err)
			}
			if nerr.Status != http.StatusOK {
				t.Errorf("expected status to fall back to 200, got %d", nerr.Status)
			}
		})
	})

	t.Run("toRow", func(t *testing.T) {
		t.Run("missing identifier yields empty video ID", func(t *testing.T) {
			page := notionPage{ID: "p1", Properties: map[string]notionProperty{}}
			if row := page.toRow(); row.VideoID != "" || row.PageID != "p1" {
				t.Errorf("unexpected row %+v", row)
			}
		})

		t.Run("reads cover from first file", func(t *testing.T) {
			files := []notionFile{{Name: coverFileName, Type: "external", External: &notionExternal{URL: "https://img/544.jpg"}}}
			page := notionPage{ID: "p2", Properties: map[string]notionProperty{PropCover: {Files: &files}}}
			if row := page.toRow(); row.Cover != "https://img/544.jpg" {
				t.Errorf("unexpected cover %s", row.Cover)
			}
		})

		t.Run("falls back to text content", func(t *testing.T) {
			items := []notionRichText{textItem("xyz")}
			page := notionPage{Properties: map[string]notionProperty{PropVideoID: {RichText: items}}}
			if row := page.toRow(); row.VideoID != "xyz" {
				t.Errorf("expected xyz, got %s", row.VideoID)
			}
		})
	})
}

func TestBuildPagePayload(t *testing.T) {
	track := models.Track{
		VideoID:         "abc123",
		Title:           "Song",
		Artists:         []models.Artist{{Name: "A"}, {Name: "B"}},
		Duration:        "3:21",
		DurationSeconds: 201,
		Thumbnails: []models.Thumbnail{
			{URL: "https://img/60.jpg"},
			{URL: "https://img/544.jpg"},
		},
	}

	// decode through JSON so the assertions see the wire shape
	encode := func(t *testing.T, p PagePayload) map[string]any {
		t.Helper()
		data, err := json.Marshal(p)
		if err != nil {
			t.Fatalf("failed to marshal payload: %v", err)
		}
		var out map[string]any
		if err := json.Unmarshal(data, &out); err != nil {
			t.Fatalf("failed to unmarshal payload: %v", err)
		}
		return out
	}

	firstText := func(t *testing.T, props map[string]any, name, kind string) map[string]any {
		t.Helper()
		prop, ok := props[name].(map[string]any)
		if !ok {
			t.Fatalf("missing property %s", name)
		}
		items, ok := prop[kind].([]any)
		if !ok || len(items) != 1 {
			t.Fatalf("expected one %s item in %s, got %v", kind, name, prop[kind])
		}
		return items[0].(map[string]any)
	}

	t.Run("maps track properties", func(t *testing.T) {
		out := encode(t, BuildPagePayload("db-1", track))
		props := out["properties"].(map[string]any)

		tests := []struct {
			name string
			kind string
			want string
		}{
			{name: PropTitle, kind: "title", want: "Song"},
			{name: PropArtist, kind: "rich_text", want: "A,B"},
			{name: PropAlbum, kind: "rich_text", want: ""},
			{name: PropDuration, kind: "rich_text", want: "3:21"},
			{name: PropVideoID, kind: "rich_text", want: "abc123"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				item := firstText(t, props, tt.name, tt.kind)
				if item["type"] != "text" {
					t.Errorf("expected text item, got %v", item["type"])
				}
				text := item["text"].(map[string]any)
				if text["content"] != tt.want {
					t.Errorf("expected %q, got %v", tt.want, text["content"])
				}
				if link, ok := text["link"]; !ok || link != nil {
					t.Errorf("expected explicit null link, got %v", link)
				}
			})
		}

		if n := props[PropDurationSeconds].(map[string]any)["number"]; n != float64(201) {
			t.Errorf("expected 201 seconds, got %v", n)
		}
		if u := props[PropVideo].(map[string]any)["url"]; u != "https://youtube.com/watch?v=abc123" {
			t.Errorf("unexpected video url %v", u)
		}

		files := props[PropCover].(map[string]any)["files"].([]any)
		if len(files) != 1 {
			t.Fatalf("expected one cover file, got %d", len(files))
		}
		file := files[0].(map[string]any)
		if file["name"] != coverFileName || file["type"] != "external" {
			t.Errorf("unexpected cover file %v", file)
		}
		if file["external"].(map[string]any)["url"] != "https://img/544.jpg" {
			t.Errorf("expected largest thumbnail, got %v", file["external"])
		}
	})

	t.Run("sets icon and cover", func(t *testing.T) {
		out := encode(t, BuildPagePayload("db-1", track))
		icon := out["icon"].(map[string]any)["external"].(map[string]any)
		cover := out["cover"].(map[string]any)["external"].(map[string]any)
		if icon["url"] != "https://img/60.jpg" {
			t.Errorf("expected smallest thumbnail icon, got %v", icon["url"])
		}
		if cover["url"] != "https://img/544.jpg" {
			t.Errorf("expected largest thumbnail cover, got %v", cover["url"])
		}
		if out["parent"].(map[string]any)["database_id"] != "db-1" {
			t.Errorf("unexpected parent %v", out["parent"])
		}
	})

	t.Run("no thumbnails", func(t *testing.T) {
		bare := track
		bare.Thumbnails = nil
		bare.DurationSeconds = 0

		out := encode(t, BuildPagePayload("db-1", bare))
		if _, ok := out["icon"]; ok {
			t.Error("expected icon to be omitted")
		}
		if _, ok := out["cover"]; ok {
			t.Error("expected cover to be omitted")
		}

		props := out["properties"].(map[string]any)
		files, ok := props[PropCover].(map[string]any)["files"].([]any)
		if !ok || len(files) != 0 {
			t.Errorf("expected empty cover files list, got %v", props[PropCover])
		}
		if n := props[PropDurationSeconds].(map[string]any)["number"]; n != float64(0) {
			t.Errorf("expected zero seconds, got %v", n)
		}
	})
}
