package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ignite/footprint/internal/signal"
)

// Analysis run states.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// ErrNotFound is returned when a session id is unknown or expired.
var ErrNotFound = fmt.Errorf("session not found")

// Status is the externally visible state of one analysis run.
type Status struct {
	SessionID string         `json:"session_id"`
	Email     string         `json:"email"`
	Status    string         `json:"status"`
	Progress  int            `json:"progress"`
	Message   string         `json:"message"`
	Error     string         `json:"error,omitempty"`
	Result    *signal.Report `json:"result,omitempty"`
	StartedAt time.Time      `json:"started_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Store keeps analysis session state in Redis with a TTL, so status
// survives server restarts and expires on its own.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a Redis-backed session store.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func sessionKey(id string) string { return "footprint:session:" + id }

// Create registers a new pending session.
func (s *Store) Create(ctx context.Context, id, email string) (*Status, error) {
	now := time.Now().UTC()
	status := &Status{
		SessionID: id,
		Email:     email,
		Status:    StatusPending,
		Progress:  0,
		Message:   "analysis queued",
		StartedAt: now,
		UpdatedAt: now,
	}
	if err := s.write(ctx, status); err != nil {
		return nil, err
	}
	return status, nil
}

// Get returns the current state of a session.
func (s *Store) Get(ctx context.Context, id string) (*Status, error) {
	blob, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	var status Status
	if err := json.Unmarshal(blob, &status); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &status, nil
}

// Update sets progress and message on an existing session.
func (s *Store) Update(ctx context.Context, id, state string, progress int, message string) error {
	status, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	status.Status = state
	status.Progress = progress
	status.Message = message
	status.UpdatedAt = time.Now().UTC()
	return s.write(ctx, status)
}

// Complete marks a session finished and attaches the report.
func (s *Store) Complete(ctx context.Context, id string, report *signal.Report) error {
	status, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	status.Status = StatusCompleted
	status.Progress = 100
	status.Message = "analysis complete"
	status.Result = report
	status.UpdatedAt = time.Now().UTC()
	return s.write(ctx, status)
}

// Fail marks a session failed with the given reason.
func (s *Store) Fail(ctx context.Context, id, reason string) error {
	status, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	status.Status = StatusFailed
	status.Error = reason
	status.Message = "analysis failed"
	status.UpdatedAt = time.Now().UTC()
	return s.write(ctx, status)
}

func (s *Store) write(ctx context.Context, status *Status) error {
	blob, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(status.SessionID), blob, s.ttl).Err(); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}
