package infra

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func registrarFor(ts *httptest.Server) *Registrar {
	cfg := DefaultConfig()
	cfg.Session.Host = strings.TrimPrefix(ts.URL, "http://")
	return NewRegistrar(cfg)
}

func TestRegisterSuccess(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/register" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req["team"] != "alpha" || req["password"] != "secret" || req["scenario"] != "round1" {
			t.Errorf("unexpected credentials: %v", req)
		}
		json.NewEncoder(w).Encode(map[string]string{"token": "tok-1", "run_id": "run-9"})
	}))
	defer ts.Close()

	sess, err := registrarFor(ts).Register(context.Background(), "alpha", "secret", "round1")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if sess.Token != "tok-1" || sess.RunID != "run-9" {
		t.Errorf("session = %+v", sess)
	}
}

func TestRegisterRejected(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad credentials", http.StatusForbidden)
	}))
	defer ts.Close()

	if _, err := registrarFor(ts).Register(context.Background(), "alpha", "wrong", "round1"); err == nil {
		t.Error("expected error on non-success status")
	}
}

func TestRegisterMissingFields(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"token": "tok-1"}) // no run_id
	}))
	defer ts.Close()

	if _, err := registrarFor(ts).Register(context.Background(), "alpha", "secret", "round1"); err == nil {
		t.Error("expected error on missing session fields")
	}
}

func TestRegisterMalformedBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer ts.Close()

	if _, err := registrarFor(ts).Register(context.Background(), "alpha", "secret", "round1"); err == nil {
		t.Error("expected error on malformed response")
	}
}
