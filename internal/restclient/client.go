// Package restclient implements client.Transport over the Meridian node
// REST API.
package restclient

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

	"github.com/meridian-chain/meridian-go/pkg/client"
	"github.com/meridian-chain/meridian-go/pkg/tx"
	"github.com/meridian-chain/meridian-go/pkg/types"
)

// eventPageLimit is the page size requested from the node. A full page
// means more events may follow; a short page ends the stream.
const eventPageLimit = 100

// Client is an HTTP client for a Meridian full node, plus an optional
// faucet endpoint on dev networks.
type Client struct {
	baseURL   string
	faucetURL string
	http      *http.Client
}

// New creates a REST client targeting the given node URL. faucetURL may be
// empty on networks without a faucet.
func New(nodeURL, faucetURL string) *Client {
	return NewWithTimeout(nodeURL, faucetURL, 10*time.Second)
}

// NewWithTimeout creates a REST client with a custom HTTP timeout.
func NewWithTimeout(nodeURL, faucetURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:   strings.TrimRight(nodeURL, "/"),
		faucetURL: strings.TrimRight(faucetURL, "/"),
		http: &http.Client{
			Timeout: timeout,
		},
	}
}

// StatusError is returned when the node responds with a non-2xx status.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("node error %d: %s", e.StatusCode, e.Message)
}

// errorBody is the node's JSON error envelope.
type errorBody struct {
	Message   string `json:"message"`
	ErrorCode string `json:"error_code"`
}

// accountBody is the node's account lookup response.
type accountBody struct {
	SequenceNumber    string `json:"sequence_number"`
	AuthenticationKey string `json:"authentication_key"`
}

// ledgerBody is the node's ledger info response.
type ledgerBody struct {
	ChainID uint8 `json:"chain_id"`
}

// transactionBody is the subset of the node's transaction response the
// coordinator needs.
type transactionBody struct {
	Type     string `json:"type"`
	Hash     string `json:"hash"`
	Success  bool   `json:"success"`
	VMStatus string `json:"vm_status"`
}

// SequenceNumber reads the account's current sequence number.
func (c *Client) SequenceNumber(ctx context.Context, address types.Address) (uint64, error) {
	var body accountBody
	if err := c.get(ctx, "/v1/accounts/"+address.Hex(), &body); err != nil {
		return 0, err
	}
	seq, err := strconv.ParseUint(body.SequenceNumber, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse sequence number %q: %w", body.SequenceNumber, err)
	}
	return seq, nil
}

// ChainID reads the chain id from the node's ledger info.
func (c *Client) ChainID(ctx context.Context) (uint8, error) {
	var body ledgerBody
	if err := c.get(ctx, "/v1", &body); err != nil {
		return 0, err
	}
	return body.ChainID, nil
}

// Submit posts a signed envelope and returns the transaction hash.
func (c *Client) Submit(ctx context.Context, signed *tx.SignedTransaction) (string, error) {
	payload, err := json.Marshal(signed)
	if err != nil {
		return "", fmt.Errorf("marshal transaction: %w", err)
	}
	var body transactionBody
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/v1/transactions", payload, &body); err != nil {
		return "", err
	}
	return body.Hash, nil
}

// TransactionStatus reports the state of a transaction by hash. A 404 is
// pending: a just-submitted transaction may not be queryable yet.
func (c *Client) TransactionStatus(ctx context.Context, hash string) (client.Confirmation, error) {
	var body transactionBody
	err := c.get(ctx, "/v1/transactions/by_hash/"+url.PathEscape(hash), &body)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return client.Confirmation{Status: client.StatusPending}, nil
		}
		return client.Confirmation{}, err
	}
	if body.Type == "pending_transaction" {
		return client.Confirmation{Status: client.StatusPending}, nil
	}
	if body.Success {
		return client.Confirmation{Status: client.StatusConfirmed}, nil
	}
	return client.Confirmation{Status: client.StatusRejected, Reason: body.VMStatus}, nil
}

// AccountResources lists the account's resources.
func (c *Client) AccountResources(ctx context.Context, address types.Address) ([]client.Resource, error) {
	var resources []client.Resource
	if err := c.get(ctx, "/v1/accounts/"+address.Hex()+"/resources", &resources); err != nil {
		return nil, err
	}
	return resources, nil
}

// EventPage fetches one page of an event stream. The cursor is the start
// sequence number of the next page; a full page yields a next cursor, a
// short page ends the stream.
func (c *Client) EventPage(ctx context.Context, address types.Address, handle, field string, cursor *types.Cursor) (types.EventPage, error) {
	path := fmt.Sprintf("/v1/accounts/%s/events/%s/%s?limit=%d",
		address.Hex(), url.PathEscape(handle), url.PathEscape(field), eventPageLimit)
	if cursor != nil {
		path += "&start=" + url.QueryEscape(string(*cursor))
	}
	var events []types.Event
	if err := c.get(ctx, path, &events); err != nil {
		return types.EventPage{}, err
	}
	page := types.EventPage{Events: events}
	if len(events) == eventPageLimit {
		next := types.Cursor(strconv.FormatUint(events[len(events)-1].SequenceNumber+1, 10))
		page.Next = &next
	}
	return page, nil
}

// Fund requests faucet coins for an address.
func (c *Client) Fund(ctx context.Context, address types.Address, amount uint64) error {
	if c.faucetURL == "" {
		return fmt.Errorf("no faucet configured for this network")
	}
	endpoint := fmt.Sprintf("%s/mint?address=%s&amount=%d", c.faucetURL, address.Hex(), amount)
	return c.do(ctx, http.MethodPost, endpoint, nil, nil)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, c.baseURL+path, nil, out)
}

// do issues one HTTP request and decodes the JSON response into out.
// Non-2xx responses become a StatusError carrying the node's message.
func (c *Client) do(ctx context.Context, method, endpoint string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var nodeErr errorBody
		message := strings.TrimSpace(string(data))
		if json.Unmarshal(data, &nodeErr) == nil && nodeErr.Message != "" {
			message = nodeErr.Message
		}
		return &StatusError{StatusCode: resp.StatusCode, Message: message}
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
