// ABOUTME: Standard interceptors for the canonical client
// ABOUTME: Bearer injection, request IDs, error classification and failure handling

package client

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/markalston/study-portal/internal/session"
)

// User-facing notices
const (
	MsgLoginExpired = "Login expired, please sign in again"
	MsgNetworkError = "Network error, please retry later"
)

// BearerToken attaches the stored token, if any. The header is set, not
// appended, so re-running the chain never duplicates it.
func BearerToken(sess *session.Session) RequestInterceptor {
	return func(req *http.Request) error {
		if token := sess.Token(req.Context()); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		return nil
	}
}

// RequestID tags requests with X-Request-ID unless the caller set one
func RequestID() RequestInterceptor {
	return func(req *http.Request) error {
		if req.Header.Get("X-Request-ID") == "" {
			req.Header.Set("X-Request-ID", uuid.NewString())
		}
		return nil
	}
}

// LogExchange logs each completed exchange at debug level
func LogExchange() ResponseInterceptor {
	return func(ctx context.Context, resp *Response, err error) (*Response, error) {
		if err != nil {
			slog.Debug("Request failed", "error", err)
			return resp, err
		}
		slog.Debug("Request completed", "status", resp.StatusCode, "bytes", len(resp.Body))
		return resp, err
	}
}

// ClassifyErrors turns non-2xx responses into typed errors.
// The response is still returned so callers can inspect it.
func ClassifyErrors() ResponseInterceptor {
	return func(ctx context.Context, resp *Response, err error) (*Response, error) {
		if err != nil || resp.OK() {
			return resp, err
		}
		return resp, classify(resp)
	}
}

// HandleFailures surfaces errors to the user after ClassifyErrors has run.
// A 401 clears the whole session, notifies once and redirects to entryPoint;
// the error always propagates to the caller.
func HandleFailures(sess *session.Session, notifier Notifier, navigator Navigator, entryPoint string) ResponseInterceptor {
	h := &failureHandler{
		sess:       sess,
		notifier:   notifier,
		navigator:  navigator,
		entryPoint: entryPoint,
	}
	return h.intercept
}

type failureHandler struct {
	sess       *session.Session
	notifier   Notifier
	navigator  Navigator
	entryPoint string
	expired    singleflight.Group
}

func (h *failureHandler) intercept(ctx context.Context, resp *Response, err error) (*Response, error) {
	if err == nil {
		return resp, nil
	}

	var authErr *AuthExpiredError
	var apiErr *APIError
	switch {
	case errors.As(err, &authErr):
		// Overlapping 401s share one teardown; later ones find the token gone.
		h.expired.Do("expired", func() (interface{}, error) {
			h.expire(context.WithoutCancel(ctx))
			return nil, nil
		})
	case errors.As(err, &apiErr):
		h.notifier.Notify(apiErr.Message)
	default:
		h.notifier.Notify(MsgNetworkError)
	}
	return resp, err
}

func (h *failureHandler) expire(ctx context.Context) {
	if h.sess.Token(ctx) == "" {
		slog.Debug("Session already cleared, skipping expiry handling")
		return
	}
	slog.Info("Authentication expired, clearing session")
	if err := h.sess.ClearLoginInfo(ctx); err != nil {
		slog.Error("Failed to clear session", "error", err)
	}
	h.notifier.Notify(MsgLoginExpired)
	h.navigator.Redirect(h.entryPoint)
}
