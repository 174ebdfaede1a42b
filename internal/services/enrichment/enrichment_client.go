package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// ProfileFields is the optional field set returned by the HR API.
// Blank fields mean the API did not supply a value.
type ProfileFields struct {
	THFirstName string `json:"th_first_name"`
	THLastName  string `json:"th_last_name"`
	ENFirstName string `json:"en_first_name"`
	ENLastName  string `json:"en_last_name"`
	Email       string `json:"email"`
	Department  string `json:"department"`
	Plant       string `json:"plant"`
	// Raw is the full response payload, kept for the fill-if-blank
	// second pass.
	Raw json.RawMessage `json:"-"`
}

// Client fetches supplementary identity fields from the internal HR API.
// Enrichment is strictly best-effort: any transport or decode failure is
// logged and reported as not-found.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient() *Client {
	return &Client{
		baseURL:    getEnv("HR_API_BASE_URL", ""),
		token:      os.Getenv("HR_API_TOKEN"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// NewClientWithBase builds a client for a fixed endpoint (used in tests)
func NewClientWithBase(baseURL, token string) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// FetchEnrichment fetches profile fields for a directory user code.
// Returns nil when the API is unreachable, responds non-200, or the body
// cannot be decoded. Never returns an error: enrichment failures must
// not fail the parent operation.
func (c *Client) FetchEnrichment(ctx context.Context, userCode string) *ProfileFields {
	if c.baseURL == "" || userCode == "" {
		return nil
	}

	url := fmt.Sprintf("%s/employees/%s", c.baseURL, userCode)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		logrus.Warnf("Enrichment request build failed for '%s': %v", userCode, err)
		return nil
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logrus.Warnf("Enrichment fetch failed for '%s': %v", userCode, err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logrus.Warnf("Enrichment fetch for '%s' returned status %d", userCode, resp.StatusCode)
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		logrus.Warnf("Enrichment body read failed for '%s': %v", userCode, err)
		return nil
	}

	fields := ParseRaw(body)
	if fields == nil {
		logrus.Warnf("Enrichment decode failed for '%s'", userCode)
		return nil
	}
	return fields
}

// rawPayload tolerates the two key spellings the HR API has used over
// time, plus an optional "data" envelope.
type rawPayload struct {
	Data *rawPayload `json:"data"`

	THFirstName string `json:"th_first_name"`
	THLastName  string `json:"th_last_name"`
	ENFirstName string `json:"en_first_name"`
	ENLastName  string `json:"en_last_name"`
	Email       string `json:"email"`
	Department  string `json:"department"`
	Plant       string `json:"plant"`

	FirstNameTH    string `json:"firstname_th"`
	LastNameTH     string `json:"lastname_th"`
	FirstNameEN    string `json:"firstname_en"`
	LastNameEN     string `json:"lastname_en"`
	UserEmail      string `json:"user_email"`
	DepartmentName string `json:"department_name"`
	PlantName      string `json:"plant_name"`
}

// ParseRaw decodes an HR API payload into the optional field set. It is
// a structured decode, not a text scrape: unknown keys are ignored and a
// payload that is not a JSON object yields nil.
func ParseRaw(raw []byte) *ProfileFields {
	var payload rawPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil
	}
	p := &payload
	if p.Data != nil {
		p = p.Data
	}
	return &ProfileFields{
		THFirstName: firstNonEmpty(p.THFirstName, p.FirstNameTH),
		THLastName:  firstNonEmpty(p.THLastName, p.LastNameTH),
		ENFirstName: firstNonEmpty(p.ENFirstName, p.FirstNameEN),
		ENLastName:  firstNonEmpty(p.ENLastName, p.LastNameEN),
		Email:       firstNonEmpty(p.Email, p.UserEmail),
		Department:  firstNonEmpty(p.Department, p.DepartmentName),
		Plant:       firstNonEmpty(p.Plant, p.PlantName),
		Raw:         json.RawMessage(raw),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// getEnv gets environment variable with fallback default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
