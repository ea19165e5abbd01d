package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"isp-selfcare/internal/config"
	"isp-selfcare/internal/domain/ports/adapter"
	"isp-selfcare/internal/infra/metrics"
)

var _ adapter.PaymentGateway = (*PaystackClient)(nil)

// PaystackClient talks to the Paystack transaction API over HTTPS.
// Credentials and timeout come from the injected config; the client holds
// no mutable state and is safe for concurrent use.
//
// Failure semantics: every transport, deserialization or non-2xx fault is
// folded into the returned result (OK=false with a message). Exactly one
// HTTP attempt per invocation; a timeout counts as a plain failure.
type PaystackClient struct {
	secretKey string
	baseURL   string
	client    *http.Client
}

func NewPaystackClient(cfg config.GatewayConfig) *PaystackClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &PaystackClient{
		secretKey: cfg.SecretKey,
		baseURL:   cfg.BaseURL,
		client:    &http.Client{Timeout: timeout},
	}
}

func (g *PaystackClient) Name() string { return "paystack" }

// initializeResponse mirrors POST /transaction/initialize.
type initializeResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

// verifyResponse mirrors GET /transaction/verify/{reference}.
type verifyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		ID     json.Number `json:"id"`
		Status string      `json:"status"`
		Amount int64       `json:"amount"`
		PaidAt string      `json:"paid_at"`
	} `json:"data"`
}

// Initialize opens a transaction and returns the hosted checkout URL.
func (g *PaystackClient) Initialize(ctx context.Context, req adapter.InitializeRequest) adapter.InitializeResult {
	started := time.Now()
	res := g.initialize(ctx, req)
	metrics.ObserveGatewayCall("initialize", res.OK, time.Since(started).Milliseconds())
	return res
}

func (g *PaystackClient) initialize(ctx context.Context, req adapter.InitializeRequest) adapter.InitializeResult {
	payload := map[string]any{
		"email":     req.Email,
		"amount":    req.AmountMinor,
		"reference": req.Reference,
	}
	if req.CallbackURL != "" {
		payload["callback_url"] = req.CallbackURL
	}
	meta := map[string]any{}
	for k, v := range req.Metadata {
		meta[k] = v
	}
	if req.PlanName != "" {
		meta["custom_fields"] = []map[string]string{{
			"display_name":  "Plan",
			"variable_name": "plan",
			"value":         req.PlanName,
		}}
	}
	if len(meta) > 0 {
		payload["metadata"] = meta
	}

	body, status, err := g.post(ctx, "/transaction/initialize", payload)
	if err != nil {
		return adapter.InitializeResult{Message: err.Error()}
	}

	var resp initializeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return adapter.InitializeResult{Message: fmt.Sprintf("decode initialize response: %v", err)}
	}
	if status < 200 || status >= 300 || !resp.Status {
		msg := resp.Message
		if msg == "" {
			msg = fmt.Sprintf("gateway returned HTTP %d", status)
		}
		return adapter.InitializeResult{Message: msg}
	}
	if resp.Data.AuthorizationURL == "" {
		return adapter.InitializeResult{Message: "gateway returned no authorization_url"}
	}
	return adapter.InitializeResult{OK: true, AuthorizationURL: resp.Data.AuthorizationURL}
}

// Verify fetches the terminal status of a transaction by reference.
func (g *PaystackClient) Verify(ctx context.Context, reference string) adapter.VerifyResult {
	started := time.Now()
	res := g.verify(ctx, reference)
	metrics.ObserveGatewayCall("verify", res.OK, time.Since(started).Milliseconds())
	return res
}

func (g *PaystackClient) verify(ctx context.Context, reference string) adapter.VerifyResult {
	url := fmt.Sprintf("%s/transaction/verify/%s", g.baseURL, reference)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return adapter.VerifyResult{Message: fmt.Sprintf("build verify request: %v", err)}
	}
	g.setHeaders(httpReq)

	httpResp, err := g.client.Do(httpReq)
	if err != nil {
		return adapter.VerifyResult{Message: fmt.Sprintf("gateway request failed: %v", err)}
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return adapter.VerifyResult{Message: fmt.Sprintf("read verify response: %v", err)}
	}

	var resp verifyResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return adapter.VerifyResult{Message: fmt.Sprintf("decode verify response: %v", err)}
	}
	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 || !resp.Status {
		msg := resp.Message
		if msg == "" {
			msg = fmt.Sprintf("gateway returned HTTP %d", httpResp.StatusCode)
		}
		return adapter.VerifyResult{Message: msg}
	}

	out := adapter.VerifyResult{
		OK:            true,
		GatewayStatus: resp.Data.Status,
		TransactionID: resp.Data.ID.String(),
	}
	if resp.Data.PaidAt != "" {
		if t, err := time.Parse(time.RFC3339, resp.Data.PaidAt); err == nil {
			out.PaidAt = &t
		}
	}
	return out
}

func (g *PaystackClient) post(ctx context.Context, path string, payload map[string]any) ([]byte, int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	g.setHeaders(req)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read response: %w", err)
	}
	return raw, resp.StatusCode, nil
}

func (g *PaystackClient) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+g.secretKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}
