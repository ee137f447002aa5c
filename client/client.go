// Package client talks to the billing REST API and normalises its failures
// into APIError values.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"jyotikabilling/billfilter"
	"jyotikabilling/config"
	"jyotikabilling/models"
)

const billsPath = "/bills"

type Client struct {
	BaseURL string
	HTTP    *http.Client
	Tokens  TokenStore
	log     *logrus.Logger
}

// New builds a client for an API rooted at baseURL, e.g. http://localhost:8080/api.
func New(baseURL string, tokens TokenStore) *Client {
	if tokens == nil {
		tokens = &MemoryTokenStore{}
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 30 * time.Second},
		Tokens:  tokens,
		log:     config.GetLogger(),
	}
}

// send performs the request and returns the raw body of a 2xx response.
func (c *Client) send(ctx context.Context, method, path string, body any, accept string) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", accept)

	sess, err := c.Tokens.Load()
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if sess != nil && sess.Token != "" {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, networkError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, networkError(err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := parseErrorBody(resp.StatusCode, raw)
		if apiErr.Kind == KindUnauthorized {
			// an expired or missing credential ends the session
			if err := c.Tokens.Clear(); err != nil {
				config.LogError(c.log, "client", "send", "clear session", nil, err)
			}
		}
		c.log.WithFields(logrus.Fields{
			"method": method,
			"path":   path,
			"status": resp.StatusCode,
		}).Debug(apiErr.Message)
		return nil, apiErr
	}
	return raw, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	raw, err := c.send(ctx, method, path, body, "application/json")
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", ErrUnexpectedFormat, err)
	}
	return nil
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) authenticate(ctx context.Context, path string, body any) (*models.Session, error) {
	var env envelope
	if err := c.do(ctx, http.MethodPost, path, body, &env); err != nil {
		return nil, err
	}
	var sess models.Session
	if err := json.Unmarshal(env.Data, &sess); err != nil || sess.Token == "" {
		return nil, ErrUnexpectedFormat
	}
	if err := c.Tokens.Save(&sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return &sess, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*models.Session, error) {
	return c.authenticate(ctx, "/auth/login", map[string]string{"email": email, "password": password})
}

func (c *Client) Register(ctx context.Context, name, email, password string) (*models.Session, error) {
	return c.authenticate(ctx, "/auth/register", map[string]string{"name": name, "email": email, "password": password})
}

func (c *Client) Logout() error {
	return c.Tokens.Clear()
}

func (c *Client) ListBills(ctx context.Context) ([]models.Bill, error) {
	var bills []models.Bill
	if err := c.do(ctx, http.MethodGet, billsPath, nil, &bills); err != nil {
		return nil, err
	}
	return bills, nil
}

// ListBillsFiltered asks the server to apply the date and amount bounds.
func (c *Client) ListBillsFiltered(ctx context.Context, criteria billfilter.Criteria) ([]models.Bill, error) {
	var bills []models.Bill
	if err := c.do(ctx, http.MethodGet, billsPath+criteriaQuery(criteria), nil, &bills); err != nil {
		return nil, err
	}
	return bills, nil
}

func criteriaQuery(c billfilter.Criteria) string {
	q := url.Values{}
	if c.StartDate != nil {
		q.Set("startDate", c.StartDate.Format(time.RFC3339))
	}
	if c.EndDate != nil {
		q.Set("endDate", c.EndDate.Format(time.RFC3339))
	}
	if c.MinAmount != nil {
		q.Set("minAmount", fmt.Sprint(*c.MinAmount))
	}
	if c.MaxAmount != nil {
		q.Set("maxAmount", fmt.Sprint(*c.MaxAmount))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

func (c *Client) GetBill(ctx context.Context, id string) (*models.Bill, error) {
	var bill models.Bill
	if err := c.do(ctx, http.MethodGet, billsPath+"/"+url.PathEscape(id), nil, &bill); err != nil {
		return nil, err
	}
	return &bill, nil
}

func (c *Client) CreateBill(ctx context.Context, draft models.BillDraft) (*models.Bill, error) {
	var bill models.Bill
	if err := c.do(ctx, http.MethodPost, billsPath, draft, &bill); err != nil {
		return nil, err
	}
	return &bill, nil
}

func (c *Client) UpdateBill(ctx context.Context, id string, draft models.BillDraft) (*models.Bill, error) {
	var bill models.Bill
	if err := c.do(ctx, http.MethodPut, billsPath+"/"+url.PathEscape(id), draft, &bill); err != nil {
		return nil, err
	}
	return &bill, nil
}

func (c *Client) DeleteBill(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, billsPath+"/"+url.PathEscape(id), nil, nil)
}

// PostBulkPrint posts {billIds} to one bulk print endpoint variant.
func (c *Client) PostBulkPrint(ctx context.Context, path string, ids []string) ([]models.Bill, error) {
	raw, err := c.send(ctx, http.MethodPost, path, map[string][]string{"billIds": ids}, "application/json")
	if err != nil {
		return nil, err
	}
	return decodeBulkPrint(raw)
}

// decodeBulkPrint accepts a bare array or an object carrying the array
// under "bills" or "data".
func decodeBulkPrint(raw []byte) ([]models.Bill, error) {
	var bills []models.Bill
	if err := json.Unmarshal(raw, &bills); err == nil && bills != nil {
		return bills, nil
	}

	var wrapped struct {
		Bills json.RawMessage `json:"bills"`
		Data  json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, ErrUnexpectedFormat
	}
	for _, candidate := range []json.RawMessage{wrapped.Bills, wrapped.Data} {
		if len(candidate) == 0 {
			continue
		}
		var list []models.Bill
		if err := json.Unmarshal(candidate, &list); err == nil && list != nil {
			return list, nil
		}
	}
	return nil, ErrUnexpectedFormat
}

// BulkPrintPDF downloads the rendered invoices for ids.
func (c *Client) BulkPrintPDF(ctx context.Context, ids []string) ([]byte, error) {
	return c.send(ctx, http.MethodPost, billsPath+"/bulk-print/pdf", map[string][]string{"billIds": ids}, "application/pdf")
}

func (c *Client) Summary(ctx context.Context) (*billfilter.Summary, error) {
	var s billfilter.Summary
	if err := c.do(ctx, http.MethodGet, billsPath+"/summary", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) Clinic(ctx context.Context) (*models.ClinicProfile, error) {
	var env envelope
	if err := c.do(ctx, http.MethodGet, "/clinic", nil, &env); err != nil {
		return nil, err
	}
	var clinic models.ClinicProfile
	if err := json.Unmarshal(env.Data, &clinic); err != nil {
		return nil, ErrUnexpectedFormat
	}
	return &clinic, nil
}
