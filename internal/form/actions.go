// internal/form/actions.go
//
// Forms subsystem: post-submit actions.
//
// Context
//   A FormDef may declare actions.  ExecuteActions dispatches to runEmail
//   or runWebhook after the handler has stored the submission.  Both queue
//   work on the message outbox so HTTP requests return promptly.
//
//   YAML:
//
//     actions:
//       - type: email
//         to: $notify            # or a list of addresses
//         subject: "New contact message"
//       - type: webhook
//         url: https://hooks.example.com/contact
//         header.X-Token: abc
//
//------------------------------------------------------------------------------

package form

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/yanizio/agrocms/internal/logger"
	"github.com/yanizio/agrocms/internal/message"
)

// ExecuteActions performs all YAML-declared actions for sub.  Errors are
// logged, not returned, keeping the user flow uninterrupted.  extra is
// merged into the payload (e.g. the stored row id or CV path).
func (e *Engine) ExecuteActions(ctx context.Context, sub *Submission, extra map[string]any) {
	fd, ok := e.Def(sub.FormID)
	if !ok || len(fd.Actions) == 0 {
		return
	}
	data := make(map[string]any, len(sub.Values)+len(extra))
	for k, v := range sub.Values {
		data[k] = v
	}
	for k, v := range extra {
		data[k] = v
	}

	for _, ac := range fd.Actions {
		var err error
		switch ac.Type {
		case "email":
			err = e.runEmail(ctx, fd, ac.Params, data)
		case "webhook":
			err = e.runWebhook(ctx, ac.Params, data)
		default:
			logger.FromContext(ctx).Warnw("form action unsupported", "form", fd.ID, "action", ac.Type)
			continue
		}
		if err != nil {
			logger.FromContext(ctx).Errorw("form action failed", "form", fd.ID, "action", ac.Type, "error", err)
		}
	}
}

// -----------------------------------------------------------------------------
// Email action
// -----------------------------------------------------------------------------

func (e *Engine) recipients(p map[string]any) []string {
	var to []string
	switch v := p["to"].(type) {
	case string:
		if v == "$notify" {
			return e.notify
		}
		to = []string{v}
	case []any:
		for _, x := range v {
			if s, ok := x.(string); ok {
				to = append(to, s)
			}
		}
	}
	return to
}

func (e *Engine) runEmail(ctx context.Context, fd *FormDef, p map[string]any, data map[string]any) error {
	if e.outbox == nil {
		return fmt.Errorf("no outbox configured")
	}
	to := e.recipients(p)
	if len(to) == 0 {
		return fmt.Errorf("'to' parameter missing or empty")
	}
	subject, _ := p["subject"].(string)
	if subject == "" {
		subject = "Website form submission: " + fd.Title
	}
	return e.outbox.EnqueueEmail(ctx, message.Email{To: to, Subject: subject, Text: textBody(data)})
}

// textBody renders "key: value" lines in key order.
func textBody(data map[string]any) string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %v\n", k, data[k])
	}
	return b.String()
}

// -----------------------------------------------------------------------------
// Webhook action
// -----------------------------------------------------------------------------

func (e *Engine) runWebhook(ctx context.Context, p map[string]any, data map[string]any) error {
	if e.outbox == nil {
		return fmt.Errorf("no outbox configured")
	}
	url, _ := p["url"].(string)
	if url == "" {
		return fmt.Errorf("webhook action requires 'url'")
	}
	method, _ := p["method"].(string)
	if method == "" {
		method = http.MethodPost
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range p {
		if h, ok := strings.CutPrefix(k, "header."); ok {
			req.Header.Set(h, fmt.Sprint(v))
		}
	}
	return e.outbox.EnqueueWebhook(ctx, req)
}
