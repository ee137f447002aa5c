package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"reflect"
	"testing"

	"jyotikabilling/models"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *MemoryTokenStore) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	tokens := &MemoryTokenStore{}
	return New(srv.URL, tokens), tokens
}

func TestErrorNormalization(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		kind    ErrorKind
		message string
		errs    []string
	}{
		{"structured", 400, `{"success":false,"message":"Validation failed","errors":["Patient name is required"]}`,
			KindValidation, "Validation failed", []string{"Patient name is required"}},
		{"json string", 500, `"database down"`, KindServer, "database down", nil},
		{"plain text", 502, "bad gateway\n", KindServer, "bad gateway", nil},
		{"error key", 404, `{"error":"Bill not found"}`, KindNotFound, "Bill not found", nil},
		{"empty", 404, "", KindNotFound, "Not Found", nil},
		{"field map", 422, `{"message":"bad","errors":{"phone":"too short"}}`, KindValidation, "bad", []string{"phone: too short"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			})
			_, err := c.GetBill(context.Background(), "x")
			apiErr := AsAPIError(err)
			if apiErr == nil {
				t.Fatal("expected an error")
			}
			if apiErr.Kind != tc.kind || apiErr.Message != tc.message || apiErr.Status != tc.status {
				t.Fatalf("got %+v", apiErr)
			}
			if !reflect.DeepEqual(apiErr.Errors, tc.errs) {
				t.Fatalf("errors = %v, want %v", apiErr.Errors, tc.errs)
			}
		})
	}
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url, nil)
	_, err := c.ListBills(context.Background())
	apiErr := AsAPIError(err)
	if apiErr.Kind != KindNetwork || apiErr.Status != 0 {
		t.Fatalf("got %+v", apiErr)
	}
	if apiErr.Message != "No response from server. Check your network connection." {
		t.Fatalf("message = %q", apiErr.Message)
	}
}

func TestUnauthorizedClearsSession(t *testing.T) {
	c, tokens := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer stale" {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Invalid or expired token"}`))
	})
	tokens.Save(&models.Session{Email: "a@b.c", Token: "stale"})

	_, err := c.ListBills(context.Background())
	if AsAPIError(err).Kind != KindUnauthorized {
		t.Fatalf("err = %v", err)
	}
	if sess, _ := tokens.Load(); sess != nil {
		t.Fatalf("session should be cleared, got %+v", sess)
	}
}

func TestLoginSavesSession(t *testing.T) {
	c, tokens := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    models.Session{ID: "1", Email: "doc@clinic.in", Token: "tok"},
		})
	})
	sess, err := c.Login(context.Background(), "doc@clinic.in", "secret")
	if err != nil {
		t.Fatal(err)
	}
	stored, _ := tokens.Load()
	if stored == nil || stored.Token != "tok" || sess.Email != "doc@clinic.in" {
		t.Fatalf("stored = %+v", stored)
	}
	if err := c.Logout(); err != nil {
		t.Fatal(err)
	}
	if stored, _ := tokens.Load(); stored != nil {
		t.Fatal("logout should clear the session")
	}
}

func TestDecodeBulkPrint(t *testing.T) {
	want := []string{"a", "b"}
	for _, body := range []string{
		`[{"_id":"a"},{"_id":"b"}]`,
		`{"bills":[{"_id":"a"},{"_id":"b"}]}`,
		`{"success":true,"data":[{"_id":"a"},{"_id":"b"}]}`,
	} {
		bills, err := decodeBulkPrint([]byte(body))
		if err != nil {
			t.Fatalf("%s: %v", body, err)
		}
		var got []string
		for _, b := range bills {
			got = append(got, b.Key())
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("%s: got %v", body, got)
		}
	}

	for _, body := range []string{`{"data":{"_id":"a"}}`, `{"message":"ok"}`, `"nope"`, `42`} {
		if _, err := decodeBulkPrint([]byte(body)); !errors.Is(err, ErrUnexpectedFormat) {
			t.Fatalf("%s: err = %v, want ErrUnexpectedFormat", body, err)
		}
	}
}

func TestPostBulkPrintSendsIDs(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			BillIDs []string `json:"billIds"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		if r.Method != http.MethodPost || r.URL.Path != "/bills/print/bulk" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		out := make([]models.Bill, 0, len(body.BillIDs))
		for _, id := range body.BillIDs {
			out = append(out, models.Bill{ID: id})
		}
		json.NewEncoder(w).Encode(map[string]any{"bills": out})
	})
	bills, err := c.PostBulkPrint(context.Background(), "/bills/print/bulk", []string{"x", "y"})
	if err != nil {
		t.Fatal(err)
	}
	if len(bills) != 2 || bills[1].ID != "y" {
		t.Fatalf("bills = %+v", bills)
	}
}

func TestFileTokenStore(t *testing.T) {
	store := NewFileTokenStore(filepath.Join(t.TempDir(), "nested", "session.json"))

	if sess, err := store.Load(); err != nil || sess != nil {
		t.Fatalf("empty store: %v %v", sess, err)
	}
	if err := store.Save(&models.Session{Name: "Dr. Jyotika", Token: "abc"}); err != nil {
		t.Fatal(err)
	}
	sess, err := store.Load()
	if err != nil || sess.Token != "abc" {
		t.Fatalf("load: %+v %v", sess, err)
	}
	if err := store.Clear(); err != nil {
		t.Fatal(err)
	}
	if sess, _ := store.Load(); sess != nil {
		t.Fatal("clear should drop the session")
	}
}
