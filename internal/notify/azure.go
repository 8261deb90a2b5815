package notify

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// azureAPIVersion pins the Communication Services SMS REST contract.
const azureAPIVersion = "2021-03-07"

// AzureClient sends SMS batches through the Azure Communication
// Services REST API, authenticating with the HMAC-SHA256 scheme the
// service expects.
type AzureClient struct {
	endpoint   *url.URL
	accessKey  []byte
	httpClient *http.Client
}

// NewAzureClient parses a Communication Services connection string of
// the form "endpoint=https://<resource>.communication.azure.com/;accesskey=<base64>".
func NewAzureClient(connectionString string) (*AzureClient, error) {
	var endpoint, accessKey string
	for _, part := range strings.Split(connectionString, ";") {
		k, v, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(k)) {
		case "endpoint":
			endpoint = v
		case "accesskey":
			accessKey = v
		}
	}
	if endpoint == "" || accessKey == "" {
		return nil, fmt.Errorf("azure sms: connection string must contain endpoint and accesskey")
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("azure sms: invalid endpoint: %w", err)
	}
	key, err := base64.StdEncoding.DecodeString(accessKey)
	if err != nil {
		return nil, fmt.Errorf("azure sms: invalid access key: %w", err)
	}
	return &AzureClient{
		endpoint:   u,
		accessKey:  key,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

type azureRecipient struct {
	To string `json:"to"`
}

type azureSendRequest struct {
	From          string           `json:"from"`
	SMSRecipients []azureRecipient `json:"smsRecipients"`
	Message       string           `json:"message"`
}

type azureSendEntry struct {
	To             string  `json:"to"`
	MessageID      string  `json:"messageId"`
	HTTPStatusCode int     `json:"httpStatusCode"`
	Successful     bool    `json:"successful"`
	ErrorMessage   *string `json:"errorMessage"`
}

type azureSendResponse struct {
	Value []azureSendEntry `json:"value"`
}

// Send implements SMSClient with a single POST to the /sms endpoint.
// The provider reports one entry per recipient; entries come back in
// request order.
func (c *AzureClient) Send(ctx context.Context, from string, to []string, body string) ([]SMSResult, error) {
	reqPayload := azureSendRequest{
		From:    from,
		Message: body,
	}
	for _, t := range to {
		reqPayload.SMSRecipients = append(reqPayload.SMSRecipients, azureRecipient{To: t})
	}
	payload, err := json.Marshal(reqPayload)
	if err != nil {
		return nil, err
	}

	u := *c.endpoint
	u.Path = "/sms"
	u.RawQuery = "api-version=" + azureAPIVersion

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.sign(req, u.RequestURI(), payload)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("azure sms: api returned status %d: %s", resp.StatusCode, string(detail))
	}

	var decoded azureSendResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("azure sms: decode response: %w", err)
	}

	results := make([]SMSResult, 0, len(decoded.Value))
	for _, e := range decoded.Value {
		r := SMSResult{Recipient: e.To, Successful: e.Successful}
		if e.ErrorMessage != nil {
			r.ErrorDetail = *e.ErrorMessage
		}
		results = append(results, r)
	}
	return results, nil
}

// sign adds the x-ms-date, x-ms-content-sha256, and Authorization
// headers per the Communication Services HMAC-SHA256 scheme.
func (c *AzureClient) sign(req *http.Request, pathAndQuery string, payload []byte) {
	contentHash := sha256.Sum256(payload)
	encodedHash := base64.StdEncoding.EncodeToString(contentHash[:])
	date := time.Now().UTC().Format(http.TimeFormat)

	stringToSign := strings.Join([]string{
		http.MethodPost,
		pathAndQuery,
		date + ";" + req.URL.Host + ";" + encodedHash,
	}, "\n")

	mac := hmac.New(sha256.New, c.accessKey)
	mac.Write([]byte(stringToSign))
	signature := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	req.Header.Set("x-ms-date", date)
	req.Header.Set("x-ms-content-sha256", encodedHash)
	req.Header.Set("Authorization",
		"HMAC-SHA256 SignedHeaders=x-ms-date;host;x-ms-content-sha256&Signature="+signature)
}
