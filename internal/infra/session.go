package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Session is the opaque identity returned by the exchange on
// registration.
type Session struct {
	Token string `json:"token"`
	RunID string `json:"run_id"`
}

type registerRequest struct {
	Team     string `json:"team"`
	Password string `json:"password"`
	Scenario string `json:"scenario"`
}

// Registrar performs the HTTP registration handshake. Token
// acquisition is a black box: one POST, no retry, and a failed
// registration aborts startup.
type Registrar struct {
	url        string
	httpClient *http.Client
}

// NewRegistrar builds a registrar for the configured endpoint.
func NewRegistrar(cfg *Config) *Registrar {
	return &Registrar{
		url: cfg.RegisterURL(),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Register exchanges team credentials for a session token and run id.
func (r *Registrar) Register(ctx context.Context, team, password, scenario string) (Session, error) {
	body, err := json.Marshal(registerRequest{
		Team:     team,
		Password: password,
		Scenario: scenario,
	})
	if err != nil {
		return Session{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return Session{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return Session{}, fmt.Errorf("registration request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Session{}, fmt.Errorf("registration rejected: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Session{}, err
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return Session{}, fmt.Errorf("registration response: %w", err)
	}
	if sess.Token == "" || sess.RunID == "" {
		return Session{}, fmt.Errorf("registration response missing session fields")
	}

	slog.Info("Registered with exchange",
		slog.String("team", team),
		slog.String("scenario", scenario),
		slog.String("run_id", sess.RunID))
	return sess, nil
}
