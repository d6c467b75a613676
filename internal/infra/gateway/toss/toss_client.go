package toss

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
)

const DefaultAPIBase = "https://api.tosspayments.com/v1"

// CancelResult gateway取消(退款)結果
type CancelResult struct {
	OK         bool
	PaymentKey string
	Code       string
	Message    string
}

type IGateway interface {
	CancelPayment(ctx context.Context, paymentKey, cancelReason string) CancelResult
}

/*
Toss Payments API client

只消費confirm/cancel契約，gateway自身的帳務不在此範圍
所有呼叫都是網路round-trip，嚴禁在db transaction內使用
*/
type Client struct {
	secretKey  string
	apiBase    string
	httpClient *http.Client
}

func NewClient(secretKey, apiBase string) *Client {
	if apiBase == "" {
		apiBase = DefaultAPIBase
	}
	return &Client{
		secretKey: secretKey,
		apiBase:   apiBase,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Basic auth，secret key當username，密碼留空
func (c *Client) authHeader() string {
	encoded := base64.StdEncoding.EncodeToString([]byte(c.secretKey + ":"))
	return "Basic " + encoded
}

// CancelPayment 取消已授權/已確認的付款
// 未設定secret key時記warning並回傳ok:false，開發環境可graceful繼續
func (c *Client) CancelPayment(ctx context.Context, paymentKey, cancelReason string) CancelResult {
	if c.secretKey == "" {
		log.Warn().Str("payment_key", paymentKey).Msg("toss secret key not set, skipping cancel API call")
		return CancelResult{
			OK:      false,
			Code:    "TOSS_NOT_CONFIGURED",
			Message: "Toss API key not configured",
		}
	}

	body, _ := json.Marshal(map[string]string{"cancelReason": cancelReason})
	endpoint := fmt.Sprintf("%s/payments/%s/cancel", c.apiBase, url.PathEscape(paymentKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return CancelResult{OK: false, Code: "REQUEST_ERROR", Message: err.Error()}
	}
	req.Header.Set("Authorization", c.authHeader())
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Str("payment_key", paymentKey).Msg("toss cancel network error")
		return CancelResult{OK: false, Code: "NETWORK_ERROR", Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return CancelResult{OK: true, PaymentKey: paymentKey}
	}

	// Toss錯誤時回傳 { code, message }
	var errBody struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&errBody)
	if errBody.Code == "" {
		errBody.Code = fmt.Sprintf("HTTP_%d", resp.StatusCode)
	}
	if errBody.Message == "" {
		errBody.Message = "Toss cancel request failed"
	}

	log.Error().Int("status", resp.StatusCode).Str("code", errBody.Code).Msg("toss cancel failed")
	return CancelResult{OK: false, Code: errBody.Code, Message: errBody.Message}
}

var _ IGateway = (*Client)(nil)
