// Package apiclient talks to a pathwise server. A Client bound to a
// learner satisfies session.Backend, so a terminal session can run
// against a remote server.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/abhisek/pathwise/internal/capability"
	"github.com/abhisek/pathwise/internal/quiz"
	"github.com/abhisek/pathwise/internal/roadmap"
)

// APIError is a failure reported by the server.
type APIError struct {
	Status  int
	Kind    string
	Message string
}

func (e *APIError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("%s (%s, %d)", e.Message, e.Kind, e.Status)
}

// Client is an HTTP client for the pathwise API.
type Client struct {
	base *url.URL
	http *http.Client
}

// New creates a client for the server at baseURL. A nil httpClient uses
// one with a timeout long enough for generation requests.
func New(baseURL string, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server url must be http or https, got %q", baseURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 2 * time.Minute}
	}
	return &Client{base: u, http: httpClient}, nil
}

type envelope struct {
	Success        bool            `json:"success"`
	Response       json.RawMessage `json:"response"`
	UpdatedProfile json.RawMessage `json:"updatedProfile"`
	Message        string          `json:"message"`
	Kind           string          `json:"kind"`
}

func (c *Client) call(ctx context.Context, method, path string, body any) (*envelope, error) {
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, rd)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
	}
	if !env.Success {
		return nil, &APIError{Status: resp.StatusCode, Kind: env.Kind, Message: env.Message}
	}
	return &env, nil
}

func decode[T any](raw json.RawMessage, what string) (T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("decode %s: %w", what, err)
	}
	return v, nil
}

// CreateLearner registers a learner.
func (c *Client) CreateLearner(ctx context.Context, in capability.NewLearner) (capability.Profile, error) {
	env, err := c.call(ctx, http.MethodPost, "/learners", in)
	if err != nil {
		return capability.Profile{}, err
	}
	return decode[capability.Profile](env.Response, "learner")
}

// Learner fetches a stored profile.
func (c *Client) Learner(ctx context.Context, id string) (capability.Profile, error) {
	env, err := c.call(ctx, http.MethodGet, "/learners/"+url.PathEscape(id), nil)
	if err != nil {
		return capability.Profile{}, err
	}
	return decode[capability.Profile](env.Response, "learner")
}

// ForLearner binds the client to a learner for a session.
func (c *Client) ForLearner(id string) *Backend {
	return &Backend{client: c, learnerID: id}
}

// Backend is a Client bound to one learner.
type Backend struct {
	client    *Client
	learnerID string
}

func (b *Backend) Roadmap(ctx context.Context, topic string) (roadmap.Roadmap, error) {
	env, err := b.client.call(ctx, http.MethodPost, "/roadmap", map[string]any{
		"topic":     topic,
		"learnerId": b.learnerID,
	})
	if err != nil {
		return nil, err
	}
	return decode[roadmap.Roadmap](env.Response, "roadmap")
}

func (b *Backend) Content(ctx context.Context, topic, subtopic string) ([]roadmap.ContentBlock, error) {
	env, err := b.client.call(ctx, http.MethodPost, "/content", map[string]any{
		"topic":     topic,
		"subtopic":  subtopic,
		"learnerId": b.learnerID,
	})
	if err != nil {
		return nil, err
	}
	return decode[[]roadmap.ContentBlock](env.Response, "content")
}

func (b *Backend) Quiz(ctx context.Context, topic, subtopic string) ([]quiz.Question, error) {
	env, err := b.client.call(ctx, http.MethodPost, "/quiz", map[string]any{
		"topic":     topic,
		"subtopic":  subtopic,
		"learnerId": b.learnerID,
	})
	if err != nil {
		return nil, err
	}
	return decode[[]quiz.Question](env.Response, "quiz")
}

func (b *Backend) Clarify(ctx context.Context, topic, subtopic, doubt string) (string, error) {
	env, err := b.client.call(ctx, http.MethodPost, "/feedback", map[string]any{
		"topic":    topic,
		"subtopic": subtopic,
		"text":     doubt,
	})
	if err != nil {
		return "", err
	}
	c, err := decode[roadmap.Clarification](env.Response, "clarification")
	return c.Answer, err
}

// SubmitQuiz posts the quiz telemetry together with the derived average
// and confidence the capability endpoint accepts.
func (b *Backend) SubmitQuiz(ctx context.Context, t capability.Telemetry) (capability.Profile, error) {
	body := struct {
		LearnerID string `json:"learnerId"`
		capability.Telemetry
		AvgTimeQuestions float64 `json:"avgTimeQuestions"`
		ConfidenceScore  float64 `json:"confidenceScore"`
	}{
		LearnerID:        b.learnerID,
		Telemetry:        t,
		AvgTimeQuestions: t.AvgTimePerQuestion(),
		ConfidenceScore:  t.ConfidencePct(),
	}
	env, err := b.client.call(ctx, http.MethodPost, "/capability", body)
	if err != nil {
		return capability.Profile{}, err
	}
	return decode[capability.Profile](env.UpdatedProfile, "profile")
}
