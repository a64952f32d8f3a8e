package subtensor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultRequestTimeout = 90 * time.Second

// HTTPClient talks to a wallet gateway sidecar over JSON/HTTP. The sidecar
// owns keys, signing and chain submission; this client is pure plumbing.
type HTTPClient struct {
	baseURL string
	network string
	httpc   *http.Client
}

// NewHTTPClient builds a gateway client for the given base URL and network
// name (for example "finney").
func NewHTTPClient(baseURL, network string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		network: network,
		httpc:   &http.Client{Timeout: defaultRequestTimeout},
	}
}

type loadWalletRequest struct {
	Coldkey  string `json:"coldkey"`
	Password string `json:"password"`
	Network  string `json:"network"`
}

// LoadWallet asks the gateway to unlock the named coldkey.
func (c *HTTPClient) LoadWallet(ctx context.Context, coldkeyName, password string) (*Wallet, error) {
	var wallet Wallet
	err := c.post(ctx, "/wallet/load", loadWalletRequest{
		Coldkey:  coldkeyName,
		Password: password,
		Network:  c.network,
	}, &wallet)
	if err != nil {
		return nil, err
	}

	return &wallet, nil
}

// GetBalance fetches a fresh balance snapshot for the wallet.
func (c *HTTPClient) GetBalance(ctx context.Context, wallet *Wallet) (*BalanceSnapshot, error) {
	var snapshot BalanceSnapshot
	path := fmt.Sprintf("/wallet/%s/balance", wallet.Address)
	if err := c.get(ctx, path, &snapshot); err != nil {
		return nil, err
	}

	return &snapshot, nil
}

type rateResponse struct {
	Rate float64 `json:"rate"`
}

// GetExchangeRate fetches the current τ/α rate for a subnet.
func (c *HTTPClient) GetExchangeRate(ctx context.Context, netuid int) (float64, error) {
	var resp rateResponse
	path := fmt.Sprintf("/subnet/%d/rate", netuid)
	if err := c.get(ctx, path, &resp); err != nil {
		return 0, err
	}

	return resp.Rate, nil
}

type stakeRequest struct {
	Address string  `json:"address"`
	Tao     float64 `json:"tao"`
	Netuid  int     `json:"netuid"`
	Hotkey  string  `json:"hotkey"`
}

// AddStake submits a stake operation and returns the executed result.
func (c *HTTPClient) AddStake(ctx context.Context, wallet *Wallet, tao float64, netuid int, hotkey string) (*StakeResult, error) {
	return c.submitStake(ctx, "/stake/add", wallet, tao, netuid, hotkey)
}

// RemoveStake submits an unstake operation and returns the executed result.
func (c *HTTPClient) RemoveStake(ctx context.Context, wallet *Wallet, tao float64, netuid int, hotkey string) (*StakeResult, error) {
	return c.submitStake(ctx, "/stake/remove", wallet, tao, netuid, hotkey)
}

func (c *HTTPClient) submitStake(ctx context.Context, path string, wallet *Wallet, tao float64, netuid int, hotkey string) (*StakeResult, error) {
	var result StakeResult
	err := c.post(ctx, path, stakeRequest{
		Address: wallet.Address,
		Tao:     tao,
		Netuid:  netuid,
		Hotkey:  hotkey,
	}, &result)
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (c *HTTPClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request %s: %w", path, err)
	}

	return c.do(req, out)
}

func (c *HTTPClient) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request %s: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

type gatewayError struct {
	Error string `json:"error"`
}

func (c *HTTPClient) do(req *http.Request, out any) error {
	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read gateway response %s: %w", req.URL.Path, err)
	}

	if resp.StatusCode != http.StatusOK {
		var ge gatewayError
		if json.Unmarshal(data, &ge) == nil && ge.Error != "" {
			return fmt.Errorf("gateway %s: %s", req.URL.Path, ge.Error)
		}
		return fmt.Errorf("gateway %s: unexpected status %d", req.URL.Path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode gateway response %s: %w", req.URL.Path, err)
	}

	return nil
}
