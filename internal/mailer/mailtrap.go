// Package mailer delivers transactional mail through the Mailtrap send API.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Client struct {
	endpoint string
	apiToken string
	sender   string
	client   *http.Client
}

type Message struct {
	From    Address   `json:"from"`
	To      []Address `json:"to"`
	Subject string    `json:"subject"`
	Text    string    `json:"text,omitempty"`
	HTML    string    `json:"html,omitempty"`
}

type Address struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sendRequest struct {
	Message Message `json:"message"`
}

func New(endpoint, apiToken, sender string) *Client {
	return &Client{
		endpoint: endpoint,
		apiToken: apiToken,
		sender:   sender,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SendActivationCode mails the activation code a fresh account needs to
// become active.
func (c *Client) SendActivationCode(ctx context.Context, toEmail, toName, code string) error {
	htmlContent := fmt.Sprintf(`
		<h2>Welcome to CareerCompass</h2>
		<p>Hello %s,</p>
		<p>Your activation code is:</p>
		<p><strong>%s</strong></p>
		<p>Enter it together with your email address to activate your account.</p>
		<p>If you didn't create an account, please ignore this email.</p>
	`, displayName(toName), code)

	textContent := fmt.Sprintf(`
		Welcome to CareerCompass

		Hello %s,

		Your activation code is: %s

		Enter it together with your email address to activate your account.

		If you didn't create an account, please ignore this email.
	`, displayName(toName), code)

	message := Message{
		From: Address{
			Email: c.sender,
			Name:  "CareerCompass",
		},
		To: []Address{
			{
				Email: toEmail,
				Name:  toName,
			},
		},
		Subject: "Activate your CareerCompass account",
		HTML:    htmlContent,
		Text:    textContent,
	}

	jsonData, err := json.Marshal(sendRequest{Message: message})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func(body io.ReadCloser) {
		_ = body.Close()
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("mailtrap API returned status %d", resp.StatusCode)
	}

	return nil
}

func displayName(name string) string {
	if name == "" {
		return "there"
	}
	return name
}
