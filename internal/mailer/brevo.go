package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const brevoAPIURL = "https://api.brevo.com/v3/smtp/email"

// Client sends transactional email through the Brevo API.
type Client struct {
	apiKey     string
	fromEmail  string
	fromName   string
	httpClient *http.Client
	configured bool
}

func NewClient(apiKey, fromEmail, fromName string) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	if apiKey != "" && fromEmail != "" && fromName != "" {
		c.apiKey = apiKey
		c.fromEmail = fromEmail
		c.fromName = fromName
		c.configured = true
	}
	return c
}

// IsConfigured returns true if the client has the credentials it needs.
func (c *Client) IsConfigured() bool {
	return c.configured
}

type sendEmailReq struct {
	Sender      map[string]string   `json:"sender"`
	To          []map[string]string `json:"to"`
	Subject     string              `json:"subject"`
	HtmlContent string              `json:"htmlContent"`
}

// SendResetEmail delivers a password-reset link to the given address.
func (c *Client) SendResetEmail(ctx context.Context, toEmail, resetLink string) error {
	html := fmt.Sprintf(`
		<h1>Password Reset Request</h1>
		<p>You requested a password reset. Click the link below to reset your password:</p>
		<p><a href="%s">%s</a></p>
		<p>This link will expire in 1 hour.</p>
		<p>If you didn't request this, please ignore this email.</p>`, resetLink, resetLink)
	return c.send(ctx, toEmail, "Password Reset Request", html)
}

func (c *Client) send(ctx context.Context, toEmail, subject, html string) error {
	if !c.configured {
		return fmt.Errorf("brevo client not configured, email to %s skipped", toEmail)
	}
	if toEmail == "" {
		return errors.New("recipient email cannot be empty")
	}

	reqBody := sendEmailReq{
		Sender:      map[string]string{"email": c.fromEmail, "name": c.fromName},
		To:          []map[string]string{{"email": toEmail}},
		Subject:     subject,
		HtmlContent: html,
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal email request body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, brevoAPIURL, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create HTTP request for Brevo: %w", err)
	}
	httpReq.Header.Set("api-key", c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("brevo send email request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("brevo API error: status %d", resp.StatusCode)
	}
	return nil
}
