package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestAdminClient_CreateKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/admin/create-key" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("X-Admin-Token") != "tok" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"Admin token required"}`))
			return
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{
			"apiKey":    "rz_abc",
			"userId":    body["userId"],
			"plan":      body["plan"],
			"createdAt": "2024-01-15T12:00:00.000Z",
		})
	}))
	defer srv.Close()

	got, err := newAdminClient(srv.URL+"/", "tok").CreateKey(context.Background(), "alice", "pro")
	if err != nil {
		t.Fatalf("CreateKey: %v", err)
	}
	if got.APIKey != "rz_abc" || got.UserID != "alice" || got.Plan != "pro" {
		t.Errorf("got %+v", got)
	}

	_, err = newAdminClient(srv.URL, "wrong").CreateKey(context.Background(), "alice", "pro")
	if err == nil || !strings.Contains(err.Error(), "Admin token required") {
		t.Errorf("err = %v, want server error message", err)
	}
}

func TestAdminClient_RevokeKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["apiKey"] != "rz_known" {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"API key not found"}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"success": true, "apiKey": body["apiKey"]})
	}))
	defer srv.Close()

	c := newAdminClient(srv.URL, "tok")
	if err := c.RevokeKey(context.Background(), "rz_known"); err != nil {
		t.Errorf("RevokeKey: %v", err)
	}
	if err := c.RevokeKey(context.Background(), "rz_other"); err == nil || !strings.Contains(err.Error(), "404") {
		t.Errorf("err = %v, want 404", err)
	}
}

func TestAdminClient_NonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	err := newAdminClient(srv.URL, "tok").RevokeKey(context.Background(), "rz_x")
	if err == nil || err.Error() != "server returned 502" {
		t.Errorf("err = %v", err)
	}
}
