// internal/message/message.go
//
// Outbound message queue for form notifications.
//
// Context
//   Contact submissions and job applications notify the office by email, and
//   a form may also declare a webhook.  Handlers must not wait on either, so
//   both are queued on a bounded in-process outbox and drained by one worker
//   goroutine.  Delivery goes through a Sender; the default LogSender writes
//   the message to the structured log, which the mail relay on the host
//   tails.
//
// Workflow
//   •  EnqueueEmail / EnqueueWebhook push a job or return ErrFull.
//   •  Run drains jobs until ctx is cancelled, then flushes what is left.
//   •  Delivery failures are logged and dropped; there is no retry.
//
//------------------------------------------------------------------------------

package message

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// ErrFull is returned when the outbox buffer is saturated.
var ErrFull = errors.New("message: outbox full")

// Email represents one outbound email.
type Email struct {
	From    string
	To      []string
	Subject string
	Text    string
}

// Sender delivers emails.
type Sender interface {
	Send(ctx context.Context, e Email) error
}

// LogSender "delivers" by logging the message.
type LogSender struct{ L *zap.Logger }

// Send implements Sender.
func (s LogSender) Send(_ context.Context, e Email) error {
	l := s.L
	if l == nil {
		l = zap.L()
	}
	l.Info("outbound email",
		zap.String("from", e.From),
		zap.Strings("to", e.To),
		zap.String("subject", e.Subject),
		zap.String("text", e.Text))
	return nil
}

type job struct {
	email   *Email
	webhook *http.Request
}

// Outbox queues messages for the worker.
type Outbox struct {
	jobs   chan job
	sender Sender
	client *http.Client
	from   string
}

// NewOutbox returns an Outbox with room for size pending jobs.  from is the
// default sender address for emails that leave it empty.
func NewOutbox(sender Sender, size int, from string) *Outbox {
	if size <= 0 {
		size = 64
	}
	return &Outbox{
		jobs:   make(chan job, size),
		sender: sender,
		client: &http.Client{Timeout: 10 * time.Second},
		from:   from,
	}
}

// EnqueueEmail queues e.
func (o *Outbox) EnqueueEmail(_ context.Context, e Email) error {
	if len(e.To) == 0 {
		return errors.New("message: email has no recipients")
	}
	if e.From == "" {
		e.From = o.from
	}
	return o.push(job{email: &e})
}

// EnqueueWebhook queues req.  The request is sent with its own context
// replaced by the worker's, so it outlives the HTTP handler that built it.
func (o *Outbox) EnqueueWebhook(_ context.Context, req *http.Request) error {
	return o.push(job{webhook: req})
}

func (o *Outbox) push(j job) error {
	select {
	case o.jobs <- j:
		return nil
	default:
		return ErrFull
	}
}

// Pending reports queued jobs.
func (o *Outbox) Pending() int { return len(o.jobs) }

// Run drains the outbox until ctx is done, then delivers what is queued.
func (o *Outbox) Run(ctx context.Context) {
	for {
		select {
		case j := <-o.jobs:
			o.deliver(ctx, j)
		case <-ctx.Done():
			flush := context.Background()
			for {
				select {
				case j := <-o.jobs:
					o.deliver(flush, j)
				default:
					return
				}
			}
		}
	}
}

func (o *Outbox) deliver(ctx context.Context, j job) {
	switch {
	case j.email != nil:
		if err := o.sender.Send(ctx, *j.email); err != nil {
			zap.L().Warn("email delivery failed", zap.Strings("to", j.email.To), zap.Error(err))
		}
	case j.webhook != nil:
		if err := o.sendWebhook(ctx, j.webhook); err != nil {
			zap.L().Warn("webhook delivery failed", zap.String("url", j.webhook.URL.String()), zap.Error(err))
		}
	}
}

func (o *Outbox) sendWebhook(ctx context.Context, req *http.Request) error {
	resp, err := o.client.Do(req.Clone(ctx))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook: status %d", resp.StatusCode)
	}
	return nil
}
