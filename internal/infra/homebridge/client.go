package homebridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"smart-home-agent/internal/application"
	"smart-home-agent/internal/domain"
	"smart-home-agent/internal/infra"
)

const service = "homebridge"

// Client talks to the Homebridge UI REST API before authentication.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(baseURL string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

// Login authenticates once and returns a session bound to the returned
// bearer token. The token is never refreshed.
func (c *Client) Login(ctx context.Context, creds application.Credentials) (*Session, error) {
	c.logger.Info("authenticating with homebridge", "url", c.baseURL)

	body, err := json.Marshal(loginRequest{Username: creds.Username, Password: creds.Password})
	if err != nil {
		return nil, fmt.Errorf("marshaling login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/login", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %w", domain.ErrAuthentication, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrAuthentication, err)
	}
	defer resp.Body.Close()

	if err := infra.CheckResponse(service, resp); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrAuthentication, err)
	}

	var login loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&login); err != nil {
		return nil, fmt.Errorf("%w: parsing login response: %w", domain.ErrAuthentication, err)
	}
	if login.AccessToken == "" {
		return nil, fmt.Errorf("%w: login response has no access_token", domain.ErrAuthentication)
	}

	return &Session{
		baseURL:    c.baseURL,
		token:      login.AccessToken,
		httpClient: c.httpClient,
	}, nil
}

// Session is an authenticated, read-only view of the hub.
type Session struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func (s *Session) BaseURL() string {
	return s.baseURL
}

// accessory is the wire shape of one /api/accessories entry.
type accessory struct {
	UniqueID    string                     `json:"uniqueId"`
	ServiceName string                     `json:"serviceName"`
	Type        string                     `json:"type"`
	HumanType   string                     `json:"humanType,omitempty"`
	Values      map[string]json.RawMessage `json:"values,omitempty"`
}

func (a accessory) toDomain() domain.Accessory {
	d := domain.Accessory{
		ID:          a.UniqueID,
		Name:        a.ServiceName,
		Type:        domain.DeviceType(a.Type),
		DisplayType: a.HumanType,
	}
	if len(a.Values) > 0 {
		d.State = make(map[string]domain.CharacteristicValue, len(a.Values))
		for name, raw := range a.Values {
			d.State[name] = domain.DecodeCharacteristic(name, raw)
		}
	}
	return d
}

// Accessories fetches the full accessory list in server order.
func (s *Session) Accessories(ctx context.Context) ([]domain.Accessory, error) {
	resp, err := s.do(ctx, http.MethodGet, "/api/accessories", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching accessories: %w", domain.ErrDiscovery, err)
	}
	defer resp.Body.Close()

	var wire []accessory
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("%w: parsing accessories: %w", domain.ErrDiscovery, err)
	}

	accessories := make([]domain.Accessory, 0, len(wire))
	for _, a := range wire {
		accessories = append(accessories, a.toDomain())
	}
	return accessories, nil
}

type controlRequest struct {
	CharacteristicType string `json:"characteristicType"`
	Value              int    `json:"value"`
}

// SetCharacteristic writes one characteristic. The response body is ignored.
func (s *Session) SetCharacteristic(ctx context.Context, accessoryID, characteristic string, value int) error {
	body, err := json.Marshal(controlRequest{CharacteristicType: characteristic, Value: value})
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	resp, err := s.do(ctx, http.MethodPut, "/api/accessories/"+url.PathEscape(accessoryID), body)
	if err != nil {
		return fmt.Errorf("setting %s: %w", characteristic, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return nil
}

// do sends an authenticated request and returns the response only when the
// status is 2xx. Transport failures are reported as ErrExternalCall.
func (s *Session) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: sending request: %w", domain.ErrExternalCall, err)
	}

	if err := infra.CheckResponse(service, resp); err != nil {
		resp.Body.Close()
		return nil, err
	}

	return resp, nil
}
