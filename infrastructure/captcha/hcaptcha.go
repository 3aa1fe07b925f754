package captcha

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"mediastore/infrastructure/logger"

	"github.com/google/go-querystring/query"
)

var ErrMissingSecret = errors.New("captcha: secret is not configured")

type verifyForm struct {
	Response string `url:"response"`
	Secret   string `url:"secret"`
	RemoteIP string `url:"remoteip,omitempty"`
}

type verifyResult struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// HCaptcha verifies client tokens against the hCaptcha siteverify endpoint.
type HCaptcha struct {
	secret    string
	verifyURL string
	client    *http.Client
}

func NewHCaptcha(secret, verifyURL string) *HCaptcha {
	return &HCaptcha{
		secret:    secret,
		verifyURL: verifyURL,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (h *HCaptcha) Verify(ctx context.Context, response, remoteIP string) (bool, error) {
	if h.secret == "" {
		return false, ErrMissingSecret
	}
	if strings.TrimSpace(response) == "" {
		return false, nil
	}
	form, err := query.Values(verifyForm{Response: response, Secret: h.secret, RemoteIP: remoteIP})
	if err != nil {
		return false, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := h.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("captcha verify: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("captcha verify: unexpected status %d", resp.StatusCode)
	}

	var result verifyResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, fmt.Errorf("captcha verify: %w", err)
	}
	if !result.Success {
		logger.GetLogger().WithField("codes", result.ErrorCodes).Debug("Captcha rejected")
	}
	return result.Success, nil
}
