package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry() RetryConfig {
	return RetryConfig{MaxAttempts: 3, InitialWait: time.Millisecond, MaxWait: 5 * time.Millisecond, Multiplier: 2}
}

func down() MockResponse {
	return MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}}
}

func TestRetry_Policy(t *testing.T) {
	tests := []struct {
		name      string
		queue     []MockResponse
		schema    *Schema
		wantCalls int
		wantErr   func(error) bool
		wantBody  string
	}{
		{
			name:      "first attempt succeeds",
			queue:     []MockResponse{MockText(`{"ok":true}`)},
			wantCalls: 1,
			wantBody:  `{"ok":true}`,
		},
		{
			name:      "outage then success",
			queue:     []MockResponse{down(), MockText(`{"ok":true}`)},
			wantCalls: 2,
			wantBody:  `{"ok":true}`,
		},
		{
			name:      "outage exhausts attempts",
			queue:     []MockResponse{down(), down(), down(), MockText(`{}`)},
			wantCalls: 3,
			wantErr:   func(err error) bool { return errors.As(err, new(*ErrProviderUnavailable)) },
		},
		{
			name: "rate limit honours retry-after",
			queue: []MockResponse{
				{Err: &ErrRateLimit{RetryAfter: time.Millisecond, Err: errors.New("429")}},
				MockText(`{"ok":true}`),
			},
			wantCalls: 2,
			wantBody:  `{"ok":true}`,
		},
		{
			name:      "truncation is final",
			queue:     []MockResponse{{Err: &ErrMaxTokensExceeded{Content: json.RawMessage(`{}`)}}, MockText(`{}`)},
			wantCalls: 1,
			wantErr:   func(err error) bool { return errors.As(err, new(*ErrMaxTokensExceeded)) },
		},
		{
			name: "rejected request is final",
			queue: []MockResponse{
				{Err: &ErrRequestRejected{Status: 401, Err: errors.New("bad key")}},
				MockText(`{}`),
			},
			wantCalls: 1,
			wantErr:   func(err error) bool { return errors.As(err, new(*ErrRequestRejected)) },
		},
		{
			name:      "deadline is final",
			queue:     []MockResponse{{Err: context.DeadlineExceeded}, MockText(`{}`)},
			wantCalls: 1,
			wantErr:   func(err error) bool { return errors.Is(err, context.DeadlineExceeded) },
		},
		{
			name:      "malformed output retried once",
			queue:     []MockResponse{MockText(`not json`), MockText("```json\n{\"name\":\"A\"}\n```"), MockText(`{"name":"A","age":1}`)},
			schema:    testSchema(),
			wantCalls: 2,
			wantErr: func(err error) bool {
				var inv *ErrInvalidResponse
				return errors.As(err, &inv) && inv.Stage == StageSchema
			},
		},
		{
			name:      "malformed then valid",
			queue:     []MockResponse{MockText(`{"name":"A"}`), MockText(`{"name":"A","age":1}`)},
			schema:    testSchema(),
			wantCalls: 2,
			wantBody:  `{"name":"A","age":1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.queue...)
			resp, err := WithRetry(mock, fastRetry(), nil).Generate(context.Background(), Request{Schema: tt.schema})

			assert.Equal(t, tt.wantCalls, mock.CallCount())
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, tt.wantErr(err), "unexpected error %T: %v", err, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBody, string(resp.Content))
		})
	}
}

func TestRetry_CancelledWhileWaiting(t *testing.T) {
	mock := NewMockProvider(down(), MockText(`{"ok":true}`))
	p := WithRetry(mock, RetryConfig{MaxAttempts: 3, InitialWait: time.Hour, MaxWait: time.Hour, Multiplier: 1}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Generate(ctx, Request{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, mock.CallCount())
}

func TestRetry_ZeroAttemptsMeansOne(t *testing.T) {
	mock := NewMockProvider(down(), MockText(`{}`))
	_, err := WithRetry(mock, RetryConfig{}, nil).Generate(context.Background(), Request{})
	assert.Error(t, err)
	assert.Equal(t, 1, mock.CallCount())
}

func TestRetry_DelayIsCapped(t *testing.T) {
	r := &RetryProvider{config: RetryConfig{InitialWait: time.Second, MaxWait: 2 * time.Second, Multiplier: 10}}
	for attempt := 1; attempt <= 4; attempt++ {
		d := r.delay(attempt, errors.New("x"))
		assert.LessOrEqual(t, d, time.Duration(float64(2*time.Second)*1.2), "attempt %d", attempt)
	}
	assert.Equal(t, 3*time.Second, r.delay(1, &ErrRateLimit{RetryAfter: 3 * time.Second}))
	assert.Equal(t, "mock", WithRetry(NewMockProvider(), fastRetry(), nil).ModelID())
}
