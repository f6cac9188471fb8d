package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// PayJPProvider talks to the PAY.JP charge API with a merchant secret key.
type PayJPProvider struct {
	BaseURL   string
	SecretKey string
	client    *http.Client
}

func NewPayJPProvider(baseURL, secretKey string) *PayJPProvider {
	if baseURL == "" {
		baseURL = "https://api.pay.jp"
	}
	return &PayJPProvider{
		BaseURL:   baseURL,
		SecretKey: secretKey,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

type payjpCharge struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Captured bool   `json:"captured"`
	Refunded bool   `json:"refunded"`
	// expired_at is unix seconds; zero when already captured.
	ExpiredAt int64 `json:"expired_at"`
}

func (p *PayJPProvider) CreateHold(ctx context.Context, req HoldRequest) (*Charge, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(req.AmountInYen, 10))
	form.Set("currency", "jpy")
	form.Set("card", req.CardToken)
	form.Set("capture", "false")
	if req.ExpiryDays > 0 {
		form.Set("expiry_days", strconv.Itoa(req.ExpiryDays))
	}
	if req.ThreeDSecure {
		form.Set("three_d_secure", "true")
	}
	if req.TenantID != "" {
		form.Set("tenant", req.TenantID)
	}
	if req.Description != "" {
		form.Set("description", req.Description)
	}
	return p.post(ctx, "/v1/charges", form)
}

func (p *PayJPProvider) Capture(ctx context.Context, chargeID string) (*Charge, error) {
	return p.post(ctx, "/v1/charges/"+chargeID+"/capture", url.Values{})
}

func (p *PayJPProvider) Refund(ctx context.Context, chargeID string) (*Charge, error) {
	return p.post(ctx, "/v1/charges/"+chargeID+"/refund", url.Values{})
}

func (p *PayJPProvider) post(ctx context.Context, path string, form url.Values) (*Charge, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(p.SecretKey, "")
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("payjp %s: status %d: %s", path, resp.StatusCode, string(body))
	}
	var out payjpCharge
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("payjp %s: decode: %w", path, err)
	}
	c := &Charge{
		ID:          out.ID,
		AmountInYen: out.Amount,
		Captured:    out.Captured,
		Refunded:    out.Refunded,
	}
	if out.ExpiredAt > 0 {
		c.ExpiresAt = time.Unix(out.ExpiredAt, 0)
	}
	return c, nil
}
