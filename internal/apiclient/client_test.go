package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"complaint-insights-go/internal/logger"
)

func TestComplaints(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/complaints" {
			t.Errorf("path = %q, want /complaints", r.URL.Path)
		}
		if got := r.URL.Query().Get("domain"); got != "fabric" {
			t.Errorf("domain = %q, want fabric", got)
		}
		fmt.Fprint(w, `{"success":true,"data":[{"unit_no":1,"market":"Export"},{"unit_no":"2"}]}`)
	}))
	defer srv.Close()

	c := New(srv.URL, logger.New())
	records, err := c.Complaints(context.Background(), "fabric", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Field("unit_no") != "1" || records[0].Field("market") != "Export" {
		t.Errorf("record 0: %v", records[0])
	}
}

func TestComplaintsFailureEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success":false,"error":"table locked"}`)
	}))
	defer srv.Close()

	c := New(srv.URL, logger.New())
	if _, err := c.Complaints(context.Background(), "yarn", nil); err == nil {
		t.Fatal("expected error for success:false, got nil")
	}
}

func TestComplaintsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, logger.New())
	if _, err := c.Complaints(context.Background(), "yarn", nil); err == nil {
		t.Fatal("expected error for status 500, got nil")
	}
}

func TestUniqueValuesCoercion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/unique-values/yarn_complaints/unit_no" {
			t.Errorf("path = %q", r.URL.Path)
		}
		fmt.Fprint(w, `{"success":true,"data":[1,2,"Export",null]}`)
	}))
	defer srv.Close()

	c := New(srv.URL, logger.New())
	values, err := c.UniqueValues(context.Background(), "yarn_complaints", "unit_no")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"1", "2", "Export", "Unknown"}
	if len(values) != len(want) {
		t.Fatalf("got %v, want %v", values, want)
	}
	for i := range want {
		if values[i] != want[i] {
			t.Errorf("value %d = %q, want %q", i, values[i], want[i])
		}
	}
}

func TestDispatchStats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success":true,"stats":{"unit":{"Unit 1":1200,"Unit 2":800},"total":5000}}`)
	}))
	defer srv.Close()

	c := New(srv.URL, logger.New())
	stats, err := c.DispatchStats(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Total != 5000 {
		t.Errorf("total = %v, want 5000", stats.Total)
	}
	if stats.Stats["unit"]["Unit 1"] != 1200 {
		t.Errorf("unit baseline = %v", stats.Stats["unit"])
	}
}

func TestDeleteComplaint(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		fmt.Fprint(w, `{"success":true}`)
	}))
	defer srv.Close()

	c := New(srv.URL, logger.New())
	if err := c.DeleteComplaint(context.Background(), "yarn", "42"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/complaints/42" {
		t.Errorf("got %s %s, want DELETE /complaints/42", gotMethod, gotPath)
	}
}

func TestUpdateComplaint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/complaints/7" {
			t.Errorf("got %s %s", r.Method, r.URL.Path)
		}
		fmt.Fprint(w, `{"success":true,"data":{"id":"7","status":"Closed"}}`)
	}))
	defer srv.Close()

	c := New(srv.URL, logger.New())
	out, err := c.UpdateComplaint(context.Background(), "yarn", "7", map[string]any{"status": "Closed"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Field("status") != "Closed" {
		t.Errorf("updated record: %v", out)
	}
}
