package platformsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client is a typed HTTP client for the platform API. Zero-value fields get
// sensible defaults from NewClient.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// ServiceKey, when set, is attached to admin requests via the
	// X-Service-Key header.
	ServiceKey string
}

// NewClient creates a platform API client.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out any, headers map[string]string) error {
	var body *bytes.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil || errResp.Error == "" {
			return &APIError{
				StatusCode:  resp.StatusCode,
				Code:        ErrorCodeServerError,
				Description: resp.Status,
			}
		}
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        errResp.Error,
			Description: errResp.ErrorDescription,
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) serviceHeaders(callerID string) map[string]string {
	h := map[string]string{"X-Service-Key": c.ServiceKey}
	if callerID != "" {
		h["X-Service-Caller"] = callerID
	}
	return h
}

// Register creates a new student account.
func (c *Client) Register(ctx context.Context, email, password string) (ProfileResponse, error) {
	var out ProfileResponse
	err := c.do(ctx, http.MethodPost, "/v1/register", "",
		RegisterRequest{Email: email, Password: password}, &out, nil)
	return out, err
}

// SignIn exchanges credentials for a session token.
func (c *Client) SignIn(ctx context.Context, email, password string) (SessionResponse, error) {
	var out SessionResponse
	err := c.do(ctx, http.MethodPost, "/v1/sessions", "",
		SessionRequest{Email: email, Password: password}, &out, nil)
	return out, err
}

// Profile fetches the signed-in user's profile.
func (c *Client) Profile(ctx context.Context, token string) (ProfileResponse, error) {
	var out ProfileResponse
	err := c.do(ctx, http.MethodGet, "/v1/profile", token, nil, &out, nil)
	return out, err
}

// IssueInvitation mints a role invitation (admin session required).
func (c *Client) IssueInvitation(ctx context.Context, token, email, role string) (InvitationResponse, error) {
	var out InvitationResponse
	err := c.do(ctx, http.MethodPost, "/v1/invitations", token,
		InvitationRequest{Email: email, Role: role}, &out, nil)
	return out, err
}

// AcceptInvitation redeems an invitation for the signed-in account.
func (c *Client) AcceptInvitation(ctx context.Context, token, email, inviteToken string) (InvitationAcceptResponse, error) {
	var out InvitationAcceptResponse
	err := c.do(ctx, http.MethodPost, "/v1/invitations/accept", token,
		InvitationAcceptRequest{Email: email, InviteToken: inviteToken}, &out, nil)
	return out, err
}

// StartRecovery begins password recovery for an email.
func (c *Client) StartRecovery(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/v1/recovery", "",
		RecoveryStartRequest{Email: email}, nil, nil)
}

// CompleteRecovery consumes a recovery token and sets a new password.
func (c *Client) CompleteRecovery(ctx context.Context, recoveryToken, newPassword string) error {
	return c.do(ctx, http.MethodPost, "/v1/recovery/complete", "",
		RecoveryCompleteRequest{RecoveryToken: recoveryToken, NewPassword: newPassword}, nil, nil)
}

// Pledge records a donation pledge.
func (c *Client) Pledge(ctx context.Context, req DonationRequest) (DonationResponse, error) {
	var out DonationResponse
	err := c.do(ctx, http.MethodPost, "/v1/donations", "", req, &out, nil)
	return out, err
}

// SubmitMessage sends a contact-form message.
func (c *Client) SubmitMessage(ctx context.Context, req MessageRequest) (MessageResponse, error) {
	var out MessageResponse
	err := c.do(ctx, http.MethodPost, "/v1/messages", "", req, &out, nil)
	return out, err
}

// ForcePasswordReset replaces an account's password (service key required).
// callerID names the admin identity the service is acting for.
func (c *Client) ForcePasswordReset(ctx context.Context, callerID, targetID string) (PasswordResetResponse, error) {
	var out PasswordResetResponse
	err := c.do(ctx, http.MethodPost, "/v1/admin/accounts/"+targetID+"/password-reset", "",
		nil, &out, c.serviceHeaders(callerID))
	return out, err
}

// DeleteAccount removes an account (service key required).
func (c *Client) DeleteAccount(ctx context.Context, callerID, targetID string) error {
	return c.do(ctx, http.MethodDelete, "/v1/admin/accounts/"+targetID, "",
		nil, nil, c.serviceHeaders(callerID))
}

// SetRole changes an account's role directly (service key required).
func (c *Client) SetRole(ctx context.Context, callerID, targetID, role string) error {
	return c.do(ctx, http.MethodPut, "/v1/admin/accounts/"+targetID+"/role", "",
		RoleChangeRequest{Role: role}, nil, c.serviceHeaders(callerID))
}
