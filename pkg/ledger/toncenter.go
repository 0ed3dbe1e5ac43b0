package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/smartcontractkit/chainlink-common/pkg/logger"
	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tlb"

	"github.com/smartcontractkit/ton-jetton-deployer/pkg/getmethod"
	"github.com/smartcontractkit/ton-jetton-deployer/pkg/ton/tvm"
)

const DefaultToncenterEndpoint = "https://toncenter.com/api/v3"

var _ Client = (*Toncenter)(nil)

// Toncenter reads the ledger through the toncenter v3 HTTP API.
type Toncenter struct {
	lggr     logger.Logger
	endpoint string
	apiKey   string
	http     *http.Client
}

func NewToncenter(lggr logger.Logger, endpoint, apiKey string) *Toncenter {
	if endpoint == "" {
		endpoint = DefaultToncenterEndpoint
	}
	return &Toncenter{
		lggr:     logger.Named(lggr, "Toncenter"),
		endpoint: strings.TrimSuffix(endpoint, "/"),
		apiKey:   apiKey,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

type addressInformation struct {
	Balance string  `json:"balance"`
	Code    *string `json:"code"`
	Status  string  `json:"status"`
}

type runGetMethodRequest struct {
	Address string            `json:"address"`
	Method  string            `json:"method"`
	Stack   []getmethod.Entry `json:"stack"`
}

type stackEntity struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

type runGetMethodResult struct {
	GasUsed  int64         `json:"gas_used"`
	ExitCode int32         `json:"exit_code"`
	Stack    []stackEntity `json:"stack"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (c *Toncenter) addressInformation(ctx context.Context, addr *address.Address) (*addressInformation, error) {
	q := url.Values{}
	q.Set("address", addr.String())
	q.Set("use_v2", "false")

	var info addressInformation
	if err := c.do(ctx, http.MethodGet, "/addressInformation?"+q.Encode(), nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Toncenter) GetBalance(ctx context.Context, addr *address.Address) (tlb.Coins, error) {
	info, err := c.addressInformation(ctx, addr)
	if err != nil {
		return tlb.ZeroCoins, err
	}
	nano, ok := new(big.Int).SetString(info.Balance, 10)
	if !ok {
		return tlb.ZeroCoins, fmt.Errorf("invalid balance %q for %s", info.Balance, addr.String())
	}
	return tlb.FromNanoTON(nano), nil
}

func (c *Toncenter) IsContractDeployed(ctx context.Context, addr *address.Address) (bool, error) {
	info, err := c.addressInformation(ctx, addr)
	if err != nil {
		return false, err
	}
	deployed := info.Status == "active" && info.Code != nil && *info.Code != ""
	c.lggr.Debugw("account state", "address", addr.String(), "status", info.Status, "deployed", deployed)
	return deployed, nil
}

func (c *Toncenter) CallGetMethod(ctx context.Context, addr *address.Address, method string, args ...getmethod.Entry) (getmethod.RawStack, error) {
	req := runGetMethodRequest{
		Address: addr.String(),
		Method:  method,
		Stack:   args,
	}
	if req.Stack == nil {
		req.Stack = []getmethod.Entry{}
	}

	var res runGetMethodResult
	if err := c.do(ctx, http.MethodPost, "/runGetMethod", req, &res); err != nil {
		return nil, err
	}
	if code := tvm.ExitCode(res.ExitCode); !code.IsSuccess() {
		return nil, fmt.Errorf("get method %s on %s exited with code %d: %s", method, addr.String(), code, code.Describe())
	}

	stack := make(getmethod.RawStack, 0, len(res.Stack))
	for _, e := range res.Stack {
		var value string
		if err := json.Unmarshal(e.Value, &value); err != nil {
			// tuples and lists carry structured values the parser does not decode
			value = string(e.Value)
		}
		stack = append(stack, getmethod.Entry{Type: e.Type, Value: value})
	}
	return stack, nil
}

func (c *Toncenter) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrNetwork, method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %w", ErrNetwork, err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s %s", ErrRateLimited, method, path)
	case resp.StatusCode >= http.StatusInternalServerError:
		return fmt.Errorf("%w: %s %s: status %d: %s", ErrNetwork, method, path, resp.StatusCode, errorMessage(raw))
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("toncenter %s %s: status %d: %s", method, path, resp.StatusCode, errorMessage(raw))
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode toncenter response: %w", err)
	}
	return nil
}

func errorMessage(raw []byte) string {
	var e errorResponse
	if err := json.Unmarshal(raw, &e); err == nil && e.Error != "" {
		return e.Error
	}
	return strings.TrimSpace(string(raw))
}
