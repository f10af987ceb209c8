package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/artepuradesign/xapipainel-sub004/internal/domain"
	"github.com/artepuradesign/xapipainel-sub004/internal/gateway"
)

var ErrRemoteFailure = errors.New("remote api reported failure")

// Client fala com a API PHP do painel.
// Implementa gateway.BonusSource e gateway.UserRegistry.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

type bonusData struct {
	ReferralBonusAmount float64 `json:"referral_bonus_amount"`
}

// FetchBonusAmount busca GET /get-bonus-amount.php; o valor remoto vem em reais.
func (c *Client) FetchBonusAmount(ctx context.Context) (int64, error) {
	var data bonusData
	if err := c.do(ctx, http.MethodGet, "/get-bonus-amount.php", nil, &data); err != nil {
		return 0, err
	}
	if data.ReferralBonusAmount < 0 {
		return 0, fmt.Errorf("%w: negative bonus amount", ErrRemoteFailure)
	}
	return domain.ReaisToCents(data.ReferralBonusAmount), nil
}

type remoteUser struct {
	ID       flexibleID `json:"id"`
	Email    string     `json:"email"`
	FullName string     `json:"full_name"`
	UserRole string     `json:"user_role"`
}

type registerData struct {
	User          remoteUser `json:"user"`
	Token         string     `json:"token"`
	SessionToken  string     `json:"session_token"`
	ReferralBonus float64    `json:"referral_bonus"`
}

// Register envia POST /auth/register.
func (c *Client) Register(ctx context.Context, req gateway.RegisterRequest) (*gateway.RegisterResult, error) {
	var data registerData
	message, err := c.doWithMessage(ctx, http.MethodPost, "/auth/register", req, &data)
	if err != nil {
		return nil, err
	}
	return &gateway.RegisterResult{
		User: gateway.RegisteredUser{
			ID:       string(data.User.ID),
			Email:    data.User.Email,
			FullName: data.User.FullName,
			UserRole: data.User.UserRole,
		},
		Token:         data.Token,
		SessionToken:  data.SessionToken,
		ReferralBonus: domain.ReaisToCents(data.ReferralBonus),
		Message:       message,
	}, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, dst any) error {
	_, err := c.doWithMessage(ctx, method, path, body, dst)
	return err
}

func (c *Client) doWithMessage(ctx context.Context, method, path string, body, dst any) (string, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return "", fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return "", fmt.Errorf("%w: %s returned status %d", ErrRemoteFailure, path, resp.StatusCode)
		}
		return "", fmt.Errorf("failed to decode response from %s: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !env.Success {
		reason := env.Message
		if reason == "" {
			reason = env.Error
		}
		return "", fmt.Errorf("%w: %s (status %d): %s", ErrRemoteFailure, path, resp.StatusCode, reason)
	}

	if dst != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, dst); err != nil {
			return "", fmt.Errorf("failed to decode data from %s: %w", path, err)
		}
	}
	return env.Message, nil
}

// flexibleID aceita ids numéricos ou string.
type flexibleID string

func (f *flexibleID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	if _, err := strconv.ParseInt(n.String(), 10, 64); err != nil {
		return fmt.Errorf("invalid user id %s", n)
	}
	*f = flexibleID(n.String())
	return nil
}
