package wearable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client is the real provider client. Token flow: account token from client
// credentials, then a per-user profile token, then biomarker reads with the
// profile token.
type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client

	accountToken string
}

func NewClient(baseURL, clientID, clientSecret string) *Client {
	return &Client{
		baseURL:      baseURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (c *Client) Biomarkers(ctx context.Context, userID string, from, to time.Time) ([]Biomarker, error) {
	profileToken, err := c.profileToken(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile token: %w", err)
	}

	query := url.Values{}
	query.Set("startDateTime", from.UTC().Format(time.RFC3339))
	query.Set("endDateTime", to.UTC().Format(time.RFC3339))
	query.Add("categories", "activity")
	query.Add("categories", "vitals")
	query.Add("categories", "sleep")
	query.Add("categories", "body")

	var raw []struct {
		Type          string          `json:"type"`
		Value         json.RawMessage `json:"value"`
		Unit          string          `json:"unit"`
		StartDateTime time.Time       `json:"startDateTime"`
	}
	if err := c.getJSON(ctx, "/profile/biomarker?"+query.Encode(), profileToken, &raw); err != nil {
		return nil, fmt.Errorf("failed to fetch biomarkers: %w", err)
	}

	biomarkers := make([]Biomarker, 0, len(raw))
	for _, r := range raw {
		biomarkers = append(biomarkers, Biomarker{
			Type:          r.Type,
			Value:         rawToString(r.Value),
			Unit:          r.Unit,
			StartDateTime: r.StartDateTime,
			Source:        "wearable",
		})
	}
	return biomarkers, nil
}

func (c *Client) ensureAccountToken(ctx context.Context) (string, error) {
	if c.accountToken != "" {
		return c.accountToken, nil
	}

	var out struct {
		AccountToken string `json:"accountToken"`
	}
	err := c.postJSON(ctx, "/oauth/account/token", "", map[string]string{
		"clientId":     c.clientID,
		"clientSecret": c.clientSecret,
	}, &out)
	if err != nil {
		return "", fmt.Errorf("failed to get account token: %w", err)
	}
	c.accountToken = out.AccountToken
	return c.accountToken, nil
}

func (c *Client) profileToken(ctx context.Context, userID string) (string, error) {
	accountToken, err := c.ensureAccountToken(ctx)
	if err != nil {
		return "", err
	}

	var out struct {
		ProfileToken string `json:"profileToken"`
	}
	err = c.postJSON(ctx, "/oauth/profile/token", accountToken, map[string]string{
		"externalId": userID,
	}, &out)
	if err != nil {
		return "", err
	}
	return out.ProfileToken, nil
}

func (c *Client) postJSON(ctx context.Context, path, token string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "account "+token)
	}
	return c.do(req, out)
}

func (c *Client) getJSON(ctx context.Context, path, profileToken string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "profile "+profileToken)
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("provider returned %d: %s", resp.StatusCode, string(payload))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func rawToString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return string(raw)
}
