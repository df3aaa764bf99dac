package explorers

import (
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"
)

const CACHE_TIME_OUT int64 = 30 // 30 seconds

// Bscscan's free tier allows 5 calls per second. Every request sleeps this
// long before hitting the API, no token bucket, no coordination across
// explorer instances.
const RATE_LIMIT_INTERVAL = time.Second / 5

// EtherscanLikeExplorer talks to a Bscscan style REST API. All lookups are
// plain GETs returning a {status, message, result} envelope, except the
// node proxy module which returns a json-rpc envelope.
type EtherscanLikeExplorer struct {
	gpmu              sync.Mutex
	latestGasPrice    float64
	gasPriceTimestamp int64

	Domain string
	APIKey string
}

func NewEtherscanLikeExplorer(domain string, apiKey string) *EtherscanLikeExplorer {
	return &EtherscanLikeExplorer{
		gpmu:   sync.Mutex{},
		Domain: domain,
		APIKey: apiKey,
	}
}

func (ee *EtherscanLikeExplorer) throttle() {
	time.Sleep(RATE_LIMIT_INTERVAL)
}

func (ee *EtherscanLikeExplorer) httpGet(url string) ([]byte, error) {
	ee.throttle()
	resp, err := http.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

func (ee *EtherscanLikeExplorer) RecommendedGasPriceAPIURL() string {
	return fmt.Sprintf(
		"%s/api?module=gastracker&action=gasoracle&apikey=%s",
		ee.Domain,
		ee.APIKey,
	)
}

type etherscanGasResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Result  struct {
		LastBlock       string `json:"LastBlock"`
		SafeGasPrice    string `json:"SafeGasPrice"`
		ProposeGasPrice string `json:"ProposeGasPrice"`
		FastGasPrice    string `json:"FastGasPrice"`
	} `json:"result"`
}

func (ee *EtherscanLikeExplorer) getGasPrice() (low, average, fast float64, err error) {
	body, err := ee.httpGet(ee.RecommendedGasPriceAPIURL())
	if err != nil {
		return 0, 0, 0, err
	}
	prices := etherscanGasResponse{}
	err = json.Unmarshal(body, &prices)
	if err != nil {
		return 0, 0, 0, fmt.Errorf(
			"couldn't unmarshal %s to gas price struct, err: %w",
			string(body),
			err,
		)
	}
	low, err = strconv.ParseFloat(prices.Result.SafeGasPrice, 64)
	if err != nil {
		return 0, 0, 0, err
	}
	average, err = strconv.ParseFloat(prices.Result.ProposeGasPrice, 64)
	if err != nil {
		return 0, 0, 0, err
	}
	fast, err = strconv.ParseFloat(prices.Result.FastGasPrice, 64)
	if err != nil {
		return 0, 0, 0, err
	}
	return low, average, fast, nil
}

func (ee *EtherscanLikeExplorer) RecommendedGasPrice() (float64, error) {
	ee.gpmu.Lock()
	defer ee.gpmu.Unlock()

	if ee.latestGasPrice == 0 || time.Now().Unix()-ee.gasPriceTimestamp > CACHE_TIME_OUT {
		_, _, fast, err := ee.getGasPrice()
		if err != nil {
			return 0, fmt.Errorf("%s gas price lookup failed: %w", ee.Domain, err)
		}

		ee.latestGasPrice = fast
		ee.gasPriceTimestamp = time.Now().Unix()
	}
	return ee.latestGasPrice, nil
}

func (ee *EtherscanLikeExplorer) GetABIStringAPIURL(address string) string {
	return fmt.Sprintf(
		"%s/api?module=contract&action=getabi&address=%s&apikey=%s",
		ee.Domain,
		address,
		ee.APIKey,
	)
}

type abiresponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Result  string `json:"result"`
}

func (ar *abiresponse) IsOK() bool {
	return ar.Status == "1"
}

func (ee *EtherscanLikeExplorer) GetABIString(address string) (string, error) {
	body, err := ee.httpGet(ee.GetABIStringAPIURL(address))
	if err != nil {
		return "", err
	}
	abiresp := abiresponse{}
	err = json.Unmarshal(body, &abiresp)
	if err != nil {
		return "", err
	}
	if !abiresp.IsOK() {
		return "", fmt.Errorf("error from %s: %s", ee.Domain, abiresp.Message)
	}
	return abiresp.Result, nil
}

// ContractMetadata is one record of the getsourcecode result array. Bscscan
// returns string fields throughout, Proxy is "0" or "1" and Implementation is
// the explorer's own idea of where the proxy points.
type ContractMetadata struct {
	SourceCode           string `json:"SourceCode"`
	ABI                  string `json:"ABI"`
	ContractName         string `json:"ContractName"`
	CompilerVersion      string `json:"CompilerVersion"`
	OptimizationUsed     string `json:"OptimizationUsed"`
	Runs                 string `json:"Runs"`
	ConstructorArguments string `json:"ConstructorArguments"`
	EVMVersion           string `json:"EVMVersion"`
	Library              string `json:"Library"`
	LicenseType          string `json:"LicenseType"`
	Proxy                string `json:"Proxy"`
	Implementation       string `json:"Implementation"`
	SwarmSource          string `json:"SwarmSource"`
}

func (cm *ContractMetadata) IsProxy() bool {
	return cm.Proxy == "1"
}

// IsVerified reports whether the explorer has verified source for the
// contract. Bscscan answers unverified lookups with a placeholder ABI text
// instead of an error status.
func (cm *ContractMetadata) IsVerified() bool {
	return cm.ABI != "" && cm.ABI != "Contract source code not verified"
}

func (ee *EtherscanLikeExplorer) GetSourceCodeAPIURL(address string) string {
	return fmt.Sprintf(
		"%s/api?module=contract&action=getsourcecode&address=%s&apikey=%s",
		ee.Domain,
		address,
		ee.APIKey,
	)
}

type sourcecoderesponse struct {
	Status  string             `json:"status"`
	Message string             `json:"message"`
	Result  []ContractMetadata `json:"result"`
}

func (ee *EtherscanLikeExplorer) GetSourceCode(address string) (*ContractMetadata, error) {
	body, err := ee.httpGet(ee.GetSourceCodeAPIURL(address))
	if err != nil {
		return nil, err
	}
	resp := sourcecoderesponse{}
	err = json.Unmarshal(body, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Status != "1" {
		return nil, fmt.Errorf("error from %s: %s", ee.Domain, resp.Message)
	}
	if len(resp.Result) == 0 {
		return nil, fmt.Errorf("%s returned no source code records for %s", ee.Domain, address)
	}
	return &resp.Result[0], nil
}

func (ee *EtherscanLikeExplorer) GetNativeBalanceAPIURL(address string) string {
	return fmt.Sprintf(
		"%s/api?module=account&action=balance&address=%s&tag=latest&apikey=%s",
		ee.Domain,
		address,
		ee.APIKey,
	)
}

func (ee *EtherscanLikeExplorer) GetNativeBalance(address string) (*big.Int, error) {
	body, err := ee.httpGet(ee.GetNativeBalanceAPIURL(address))
	if err != nil {
		return nil, err
	}
	resp := abiresponse{}
	err = json.Unmarshal(body, &resp)
	if err != nil {
		return nil, err
	}
	if !resp.IsOK() {
		return nil, fmt.Errorf("error from %s: %s", ee.Domain, resp.Message)
	}
	balance, ok := big.NewInt(0).SetString(resp.Result, 10)
	if !ok {
		return nil, fmt.Errorf("couldn't parse \"%s\" as a wei amount", resp.Result)
	}
	return balance, nil
}

func (ee *EtherscanLikeExplorer) GetCirculatingSupplyAPIURL(address string) string {
	return fmt.Sprintf(
		"%s/api?module=stats&action=tokenCsupply&contractaddress=%s&apikey=%s",
		ee.Domain,
		address,
		ee.APIKey,
	)
}

func (ee *EtherscanLikeExplorer) GetCirculatingSupply(address string) (*big.Int, error) {
	body, err := ee.httpGet(ee.GetCirculatingSupplyAPIURL(address))
	if err != nil {
		return nil, err
	}
	resp := abiresponse{}
	err = json.Unmarshal(body, &resp)
	if err != nil {
		return nil, err
	}
	if !resp.IsOK() {
		return nil, fmt.Errorf("error from %s: %s", ee.Domain, resp.Message)
	}
	supply, ok := big.NewInt(0).SetString(resp.Result, 10)
	if !ok {
		return nil, fmt.Errorf("couldn't parse \"%s\" as a token amount", resp.Result)
	}
	return supply, nil
}

func (ee *EtherscanLikeExplorer) EthCallAPIURL(to string, data string) string {
	return fmt.Sprintf(
		"%s/api?module=proxy&action=eth_call&to=%s&data=%s&tag=latest&apikey=%s",
		ee.Domain,
		to,
		url.QueryEscape(data),
		ee.APIKey,
	)
}

type rpcProxyResponse struct {
	JSONRPC string `json:"jsonrpc"`
	ID      any    `json:"id"`
	Result  string `json:"result"`
	Error   *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// EthCall relays a read-only call through the explorer's json-rpc proxy
// module. to is a hex address, data is 0x prefixed call data. The result is
// the raw hex return data, callers decode it themselves.
func (ee *EtherscanLikeExplorer) EthCall(to string, data string) (string, error) {
	body, err := ee.httpGet(ee.EthCallAPIURL(to, data))
	if err != nil {
		return "", err
	}
	resp := rpcProxyResponse{}
	err = json.Unmarshal(body, &resp)
	if err != nil {
		return "", err
	}
	if resp.Error != nil {
		return "", fmt.Errorf("error from %s: %d %s", ee.Domain, resp.Error.Code, resp.Error.Message)
	}
	return resp.Result, nil
}
