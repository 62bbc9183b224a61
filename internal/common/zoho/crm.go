package zoho

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	httpclient "factory-matching/internal/common/http"
)

const DefaultBaseURL = "https://www.zohoapis.com/crm/v2"

// Lead is the subset of Zoho CRM lead fields populated from a consultation.
type Lead struct {
	ID          string `json:"id,omitempty"`
	LastName    string `json:"Last_Name"`
	Company     string `json:"Company"`
	Phone       string `json:"Phone,omitempty"`
	Email       string `json:"Email,omitempty"`
	Designation string `json:"Designation,omitempty"`
	LeadSource  string `json:"Lead_Source,omitempty"`
	LeadStatus  string `json:"Lead_Status,omitempty"`
	Description string `json:"Description,omitempty"`
	// ExternalID carries the consultation id.
	ExternalID string `json:"Consultation_ID,omitempty"`
}

type recordResponse struct {
	Data []struct {
		Code    string `json:"code"`
		Details struct {
			ID string `json:"id"`
		} `json:"details"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"data"`
}

type CRMClient struct {
	oauthToken string
	baseURL    string
	http       *httpclient.Client
}

func NewCRMClient(baseURL, oauthToken string, client *httpclient.Client) *CRMClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if client == nil {
		client = httpclient.NewClient(30 * time.Second)
	}
	return &CRMClient{
		oauthToken: oauthToken,
		baseURL:    strings.TrimRight(baseURL, "/"),
		http:       client,
	}
}

func (c *CRMClient) headers() map[string]string {
	return map[string]string{"Authorization": "Zoho-oauthtoken " + c.oauthToken}
}

func (c *CRMClient) CreateLead(ctx context.Context, lead *Lead) (string, error) {
	var resp recordResponse
	payload := map[string]interface{}{"data": []Lead{*lead}}
	if err := c.http.PostJSON(ctx, c.baseURL+"/Leads", c.headers(), payload, &resp); err != nil {
		return "", fmt.Errorf("create lead: %w", err)
	}
	return firstRecordID(resp, "create lead")
}

func (c *CRMClient) UpdateLead(ctx context.Context, leadID string, lead *Lead) error {
	var resp recordResponse
	payload := map[string]interface{}{"data": []Lead{*lead}}
	if err := c.http.PutJSON(ctx, c.baseURL+"/Leads/"+url.PathEscape(leadID), c.headers(), payload, &resp); err != nil {
		return fmt.Errorf("update lead: %w", err)
	}
	_, err := firstRecordID(resp, "update lead")
	return err
}

// SearchLeadsByPhone returns leads whose phone matches. Zoho answers 204 when
// nothing matches.
func (c *CRMClient) SearchLeadsByPhone(ctx context.Context, phone string) ([]Lead, error) {
	endpoint := c.baseURL + "/Leads/search?phone=" + url.QueryEscape(phone)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("search leads: %w", err)
	}
	for k, v := range c.headers() {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search leads: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("search leads: %w", &httpclient.StatusError{StatusCode: resp.StatusCode, Body: string(body)})
	}

	var result struct {
		Data []Lead `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("search leads: decode response: %w", err)
	}
	return result.Data, nil
}

// UpsertLead updates the lead with the same phone number or creates one. It
// reports whether a new lead was created.
func (c *CRMClient) UpsertLead(ctx context.Context, lead *Lead) (string, bool, error) {
	existing, err := c.SearchLeadsByPhone(ctx, lead.Phone)
	if err != nil {
		return "", false, err
	}
	if len(existing) > 0 && existing[0].ID != "" {
		id := existing[0].ID
		return id, false, c.UpdateLead(ctx, id, lead)
	}
	id, err := c.CreateLead(ctx, lead)
	return id, true, err
}

func firstRecordID(resp recordResponse, op string) (string, error) {
	if len(resp.Data) == 0 {
		return "", fmt.Errorf("%s: empty response", op)
	}
	rec := resp.Data[0]
	if rec.Status != "success" {
		return "", fmt.Errorf("%s: %s (%s)", op, rec.Message, rec.Code)
	}
	return rec.Details.ID, nil
}
