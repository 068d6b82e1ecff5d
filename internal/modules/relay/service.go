package relay

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const defaultTimeout = 10 * time.Second

// Service forwards JSON payloads to allow-listed automation webhooks.
// There are no retries and nothing is stored.
type Service struct {
	client       *http.Client
	allowedHosts map[string]bool
	allowHTTP    bool
	log          *zap.Logger
}

func NewService(allowedHosts []string, log *zap.Logger) *Service {
	hosts := make(map[string]bool, len(allowedHosts))
	for _, h := range allowedHosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			hosts[h] = true
		}
	}
	return &Service{
		client:       &http.Client{Timeout: defaultTimeout},
		allowedHosts: hosts,
		log:          log,
	}
}

// Allowed reports whether raw is an https URL on an allow-listed host.
func (s *Service) Allowed(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" || u.User != nil {
		return false
	}
	if u.Scheme != "https" && !(s.allowHTTP && u.Scheme == "http") {
		return false
	}
	// explicit ports are refused; test servers (allowHTTP) listen on random ones
	if u.Port() != "" && !s.allowHTTP {
		return false
	}
	return s.allowedHosts[strings.ToLower(u.Hostname())]
}

func (s *Service) Send(ctx context.Context, req SendRequest) error {
	data := bytes.TrimSpace(req.Data)
	if strings.TrimSpace(req.WebhookURL) == "" || len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return ErrMissingFields
	}
	if !s.Allowed(req.WebhookURL) {
		s.log.Warn("webhook relay rejected url", zap.String("url", req.WebhookURL))
		return ErrHostNotAllowed
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.WebhookURL, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w with status %d", ErrUpstream, resp.StatusCode)
	}

	s.log.Info("webhook relayed", zap.String("host", httpReq.URL.Host), zap.Int("status", resp.StatusCode))
	return nil
}
