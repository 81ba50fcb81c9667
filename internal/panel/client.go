package panel

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// API is the set of panel operations the provisioning workflow relies on.
type API interface {
	CreateAccount(ctx context.Context, req AccountRequest) (int64, error)
	ListServers(ctx context.Context) ([]Server, error)
	ListNodeAllocations(ctx context.Context, nodeID int64) ([]Allocation, error)
	CreateServer(ctx context.Context, req ServerRequest) (string, error)
}

// Observer receives one notification per remote call.
type Observer interface {
	ObservePanelCall(operation, result string, elapsed time.Duration)
}

// Operation names reported to Observer and carried in PanelError.Op.
const (
	OpCreateAccount       = "create_account"
	OpListServers         = "list_servers"
	OpListNodeAllocations = "list_node_allocations"
	OpCreateServer        = "create_server"
)

const (
	defaultPageSize = 100
	maxBodyBytes    = 4 << 20
	maxPages        = 1000
)

// Options configures a Client. BaseURL and APIKey are required.
type Options struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	PageSize   int
	HTTPClient *http.Client
	Observer   Observer
}

// Client talks to the panel's application API over HTTP.
type Client struct {
	baseURL  string
	apiKey   string
	pageSize int
	http     *http.Client
	observer Observer
}

var _ API = (*Client)(nil)

// New validates opts and builds a Client.
func New(opts Options) (*Client, error) {
	u, err := url.Parse(opts.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid panel base URL %q", opts.BaseURL)
	}
	if opts.APIKey == "" {
		return nil, errors.New("panel API key is required")
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	return &Client{
		baseURL:  strings.TrimRight(opts.BaseURL, "/") + "/api/application",
		apiKey:   opts.APIKey,
		pageSize: pageSize,
		http:     hc,
		observer: opts.Observer,
	}, nil
}

// CreateAccount creates a panel user and returns its numeric id.
func (c *Client) CreateAccount(ctx context.Context, req AccountRequest) (int64, error) {
	var out object[accountAttributes]
	if err := c.do(ctx, OpCreateAccount, http.MethodPost, "/users", nil, req, &out); err != nil {
		return 0, err
	}
	return out.Attributes.ID, nil
}

// ListServers returns every server known to the panel, walking all pages.
func (c *Client) ListServers(ctx context.Context) ([]Server, error) {
	return listAll[Server](ctx, c, OpListServers, "/servers")
}

// ListNodeAllocations returns the allocations of nodeID in panel order.
func (c *Client) ListNodeAllocations(ctx context.Context, nodeID int64) ([]Allocation, error) {
	return listAll[Allocation](ctx, c, OpListNodeAllocations, fmt.Sprintf("/nodes/%d/allocations", nodeID))
}

// CreateServer creates a server and returns its panel id as a string.
func (c *Client) CreateServer(ctx context.Context, req ServerRequest) (string, error) {
	var out object[serverAttributes]
	if err := c.do(ctx, OpCreateServer, http.MethodPost, "/servers", nil, req, &out); err != nil {
		return "", err
	}
	if out.Attributes.ID == "" {
		return "", &PanelError{Op: OpCreateServer, Status: http.StatusCreated, Body: "response carries no server id"}
	}
	return string(out.Attributes.ID), nil
}

func listAll[T any](ctx context.Context, c *Client, op, endpoint string) ([]T, error) {
	var items []T
	for page := 1; page <= maxPages; page++ {
		q := url.Values{}
		q.Set("page", strconv.Itoa(page))
		q.Set("per_page", strconv.Itoa(c.pageSize))

		var out list[T]
		if err := c.do(ctx, op, http.MethodGet, endpoint, q, nil, &out); err != nil {
			return nil, err
		}
		for _, d := range out.Data {
			items = append(items, d.Attributes)
		}
		if len(out.Data) == 0 || out.Meta.Pagination.TotalPages <= page {
			break
		}
	}
	return items, nil
}

func (c *Client) do(ctx context.Context, op, method, endpoint string, query url.Values, in, out any) error {
	start := time.Now()
	result := "ok"
	defer func() {
		if c.observer != nil {
			c.observer.ObservePanelCall(op, result, time.Since(start))
		}
	}()

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			result = "encode_error"
			return &PanelError{Op: op, Body: "encoding request: " + err.Error(), Err: err}
		}
		body = bytes.NewReader(b)
	}

	target := c.baseURL + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		result = "transport_error"
		return &PanelError{Op: op, Body: err.Error(), Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		result = "transport_error"
		return &PanelError{Op: op, Body: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		result = "transport_error"
		return &PanelError{Op: op, Status: resp.StatusCode, Body: "reading response: " + err.Error(), Err: err}
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		result = "http_" + strconv.Itoa(resp.StatusCode)
		return &PanelError{Op: op, Status: resp.StatusCode, Body: normalizeBody(raw)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		result = "decode_error"
		return &PanelError{Op: op, Status: resp.StatusCode, Body: normalizeBody(raw), Err: err}
	}
	return nil
}
