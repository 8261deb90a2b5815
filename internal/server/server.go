// Package server exposes a minimal HTTP trigger for one-shot message
// dispatch, plus health and metrics endpoints.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/msgrelay/msgrelay/internal/config"
	"github.com/msgrelay/msgrelay/internal/logging"
	"github.com/msgrelay/msgrelay/internal/metrics"
	"github.com/msgrelay/msgrelay/internal/notify"
	"github.com/msgrelay/msgrelay/internal/phone"
)

// maxBodySize caps request bodies at 1 MB; messages are short text.
const maxBodySize = 1 << 20

// Handler serves the dispatch trigger endpoints.
type Handler struct {
	Cfg       *config.Config
	Store     config.Store
	StartTime time.Time
	Version   string

	// Overridable channel constructors, for tests.
	SMS      *notify.SMS
	Pushover *notify.Pushover
	Email    *notify.Email
}

// New creates a Handler with channels built from the configuration.
func New(cfg *config.Config, store config.Store, version string) *Handler {
	return &Handler{
		Cfg:       cfg,
		Store:     store,
		StartTime: time.Now(),
		Version:   version,
		SMS:       &notify.SMS{Store: store},
		Pushover:  &notify.Pushover{Store: store},
		Email: &notify.Email{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Sender:   cfg.SMTPSender,
			Password: cfg.SMTPPassword,
		},
	}
}

// RegisterRoutes registers all HTTP routes on the given mux. The
// metrics endpoints are exposed only when enabled in the configuration.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.Health)
	if h.Cfg.MetricsEnabled {
		mux.Handle("GET /metrics", metrics.PromHandler())
		mux.Handle("GET /stats", metrics.JSONHandler())
	}
	mux.HandleFunc("POST /send", h.Send)
}

// HealthResponse is the JSON body served by /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

// Health handles the health check endpoint.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	resp := HealthResponse{
		Status:  "ok",
		Version: h.Version,
		Uptime:  time.Since(h.StartTime).Round(time.Second).String(),
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.Get().Error().Err(err).Msg("health: failed to encode response")
	}
}

// SendRequest is the JSON body accepted by POST /send.
type SendRequest struct {
	Channel    string   `json:"channel"`
	Body       string   `json:"body"`
	Subject    string   `json:"subject"`
	Recipients []string `json:"recipients"`
}

// RecipientResult mirrors one per-recipient SMS outcome.
type RecipientResult struct {
	Recipient   string `json:"recipient"`
	Successful  bool   `json:"successful"`
	ErrorDetail string `json:"error_detail,omitempty"`
}

// SendResponse is the JSON body returned by POST /send.
type SendResponse struct {
	Success bool              `json:"success"`
	Channel string            `json:"channel"`
	Error   string            `json:"error,omitempty"`
	Results []RecipientResult `json:"results,omitempty"`
}

// Send dispatches exactly one message through the requested channel.
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	defer func() { _ = r.Body.Close() }()

	var req SendRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		h.fail(w, http.StatusBadRequest, "", fmt.Sprintf("invalid JSON: %v", err))
		return
	}
	if req.Body == "" {
		h.fail(w, http.StatusBadRequest, req.Channel, "body is required")
		return
	}
	channel := req.Channel
	if channel == "" {
		channel = h.Cfg.DefaultChannel
	}

	metrics.SetLastDispatch(time.Now())
	resp, status := h.dispatch(r.Context(), channel, req)
	if resp.Success {
		metrics.IncSent(channel)
	} else {
		metrics.IncFailed(channel)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.Get().Error().Err(err).Msg("send: failed to encode response")
	}
}

func (h *Handler) dispatch(ctx context.Context, channel string, req SendRequest) (SendResponse, int) {
	msg := notify.Message{Body: req.Body, Subject: req.Subject}

	switch channel {
	case "email":
		recipients := req.Recipients
		if len(recipients) == 0 {
			recipients = h.Cfg.EmailTo
		}
		if err := h.Email.Send(ctx, msg, recipients...); err != nil {
			return errorResponse(channel, err)
		}
		return SendResponse{Success: true, Channel: channel}, http.StatusOK

	case "gmail":
		gmail, err := notify.NewGmail(h.Store, h.Cfg.GmailSender, h.Cfg.GmailPassword)
		if err != nil {
			return errorResponse(channel, err)
		}
		if err := gmail.Send(ctx, msg, req.Recipients...); err != nil {
			return errorResponse(channel, err)
		}
		return SendResponse{Success: true, Channel: channel}, http.StatusOK

	case "sms":
		results, err := h.SMS.Send(ctx, req.Body, req.Recipients...)
		if err != nil {
			return errorResponse(channel, err)
		}
		resp := SendResponse{Success: true, Channel: channel}
		for _, res := range results {
			if !res.Successful {
				resp.Success = false
			}
			resp.Results = append(resp.Results, RecipientResult{
				Recipient:   res.Recipient,
				Successful:  res.Successful,
				ErrorDetail: res.ErrorDetail,
			})
		}
		return resp, http.StatusOK

	case "pushover":
		res, err := h.Pushover.Send(ctx, req.Body)
		if err != nil {
			return errorResponse(channel, err)
		}
		if !res.Successful() {
			detail := fmt.Sprintf("pushover api returned status %d", res.StatusCode)
			return SendResponse{Channel: channel, Error: detail}, http.StatusBadGateway
		}
		return SendResponse{Success: true, Channel: channel}, http.StatusOK

	default:
		return SendResponse{Channel: channel, Error: fmt.Sprintf("unknown channel %q", channel)}, http.StatusBadRequest
	}
}

// errorResponse maps dispatch errors: caller mistakes (bad numbers,
// missing recipients or credentials) are 400s, everything else is a
// transport-side 502.
func errorResponse(channel string, err error) (SendResponse, int) {
	status := http.StatusBadGateway
	if errors.Is(err, phone.ErrInvalidNumber) ||
		errors.Is(err, notify.ErrMissingRecipients) ||
		errors.Is(err, notify.ErrMissingCredentials) {
		status = http.StatusBadRequest
	}
	logging.Get().Error().Err(err).Str("channel", channel).Msg("dispatch failed")
	return SendResponse{Channel: channel, Error: err.Error()}, status
}

func (h *Handler) fail(w http.ResponseWriter, status int, channel, detail string) {
	logging.Get().Error().Str("channel", channel).Msg(detail)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(SendResponse{Channel: channel, Error: detail})
}
