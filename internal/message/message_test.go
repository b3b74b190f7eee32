package message

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recSender struct {
	mu   sync.Mutex
	sent []Email
}

func (r *recSender) Send(_ context.Context, e Email) error {
	r.mu.Lock()
	r.sent = append(r.sent, e)
	r.mu.Unlock()
	return nil
}

func TestOutbox_DeliversOnShutdown(t *testing.T) {
	rec := &recSender{}
	o := NewOutbox(rec, 4, "site@example.com")

	require.NoError(t, o.EnqueueEmail(context.Background(), Email{To: []string{"a@example.com"}, Subject: "hi"}))
	require.NoError(t, o.EnqueueEmail(context.Background(), Email{To: []string{"b@example.com"}, From: "x@example.com"}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	o.Run(ctx) // returns after flushing

	require.Len(t, rec.sent, 2)
	assert.Equal(t, 0, o.Pending())
	from := map[string]string{}
	for _, e := range rec.sent {
		from[e.To[0]] = e.From
	}
	assert.Equal(t, "site@example.com", from["a@example.com"])
	assert.Equal(t, "x@example.com", from["b@example.com"])
}

func TestOutbox_Full(t *testing.T) {
	o := NewOutbox(&recSender{}, 1, "")
	require.NoError(t, o.EnqueueEmail(context.Background(), Email{To: []string{"a@example.com"}}))
	assert.ErrorIs(t, o.EnqueueEmail(context.Background(), Email{To: []string{"a@example.com"}}), ErrFull)
	assert.Error(t, o.EnqueueEmail(context.Background(), Email{}))
}

func TestOutbox_Webhook(t *testing.T) {
	got := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got <- r.Header.Get("Content-Type")
	}))
	defer srv.Close()

	o := NewOutbox(&recSender{}, 2, "")
	req, err := http.NewRequest(http.MethodPost, srv.URL, strings.NewReader(`{}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	require.NoError(t, o.EnqueueWebhook(context.Background(), req))

	ctx, cancel := context.WithCancel(context.Background())
	go o.Run(ctx)
	defer cancel()

	select {
	case ct := <-got:
		assert.Equal(t, "application/json", ct)
	case <-time.After(5 * time.Second):
		t.Fatal("webhook not delivered")
	}
}
