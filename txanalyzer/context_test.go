package txanalyzer_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	bsccommon "github.com/tranvictor/bscscope/common"
	"github.com/tranvictor/bscscope/networks"
	"github.com/tranvictor/bscscope/txanalyzer"
	"github.com/tranvictor/bscscope/util/addrbook"
	"github.com/tranvictor/bscscope/util/cache"
	"github.com/tranvictor/bscscope/util/reader"
)

const tokenHex = "0x4838B106FCe9647Bdf1E7877BF73cE8B0BAD5f97"

// the persistent cache must not touch the real one in the user's home dir
func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "bscscope-txanalyzer-test")
	if err != nil {
		panic(err)
	}
	cache.CACHE_PATH = filepath.Join(dir, "cache.json")
	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

func TestResolveAddressDelegatesToResolver(t *testing.T) {
	ctx := txanalyzer.NewAnalysisContextWithResolver(
		nil,
		networks.BSCMainnet,
		addrbook.Map{strings.ToLower(tokenHex): "BUSD Token"},
	)

	if got := ctx.ResolveAddress(tokenHex); got.Desc != "BUSD Token" {
		t.Errorf("known address: want BUSD Token, got %q", got.Desc)
	}
	if got := ctx.ResolveAddress(recipientHex); got.Desc != "unknown" {
		t.Errorf("unknown address: want unknown, got %q", got.Desc)
	}
}

func TestEnrichParamsAddsDescriptions(t *testing.T) {
	parsed := mustParseABI(t, erc20TestABI)
	calldata := packTransfer(t, parsed, 1500)
	_, params, err := txanalyzer.AnalyzeMethodCall(parsed, calldata)
	if err != nil {
		t.Fatalf("AnalyzeMethodCall: %s", err)
	}

	ctx := txanalyzer.NewAnalysisContextWithResolver(
		nil,
		networks.BSCMainnet,
		addrbook.Map{strings.ToLower(recipientHex): "Fee Collector"},
	)
	ctx.EnrichParams(params)

	v := params[0].Value[0]
	if v.Address == nil {
		t.Fatalf("enrichment must attach an address description")
	}
	if v.Address.Desc != "Fee Collector" {
		t.Errorf("recipient description: want Fee Collector, got %q", v.Address.Desc)
	}
	// integers are untouched by plain param enrichment
	if params[1].Value[0].Kind != bsccommon.DisplayInteger {
		t.Errorf("amount kind changed: %+v", params[1].Value[0])
	}
}

func TestEnrichCallUpgradesTokenAmounts(t *testing.T) {
	if err := cache.SetInt64Cache(tokenHex+"_decimal", 18); err != nil {
		t.Fatalf("seed decimal cache: %s", err)
	}
	if err := cache.SetCache(tokenHex+"_symbol", "BUSD"); err != nil {
		t.Fatalf("seed symbol cache: %s", err)
	}

	parsed := mustParseABI(t, erc20TestABI)
	calldata := packTransfer(t, parsed, 1500)
	_, params, err := txanalyzer.AnalyzeMethodCall(parsed, calldata)
	if err != nil {
		t.Fatalf("AnalyzeMethodCall: %s", err)
	}

	// the reader has no nodes, every token fact must come from the cache
	r := reader.NewEthReaderGeneric(map[string]string{}, nil)
	ctx := txanalyzer.NewAnalysisContextWithResolver(
		r,
		networks.BSCMainnet,
		addrbook.Map{strings.ToLower(tokenHex): "BUSD Token"},
	)

	fc := &bsccommon.FunctionCallResult{
		Contract: bsccommon.Address{Address: tokenHex},
		Network:  networks.BSCMainnet.GetName(),
		Method:   "transfer",
		Params:   params,
	}
	ctx.EnrichCall(fc)

	if fc.Contract.Desc != "BUSD Token" {
		t.Errorf("contract description: want BUSD Token, got %q", fc.Contract.Desc)
	}

	amount := fc.Params[1].Value[0]
	if amount.Kind != bsccommon.DisplayToken {
		t.Fatalf("amount must be upgraded to a token value, got kind %d", amount.Kind)
	}
	if amount.Token == nil || amount.Token.Symbol != "BUSD" || amount.Token.Decimal != 18 {
		t.Errorf("token metadata: want BUSD with 18 decimals, got %+v", amount.Token)
	}
	if amount.Raw != "1500" {
		t.Errorf("the raw amount must be preserved, got %s", amount.Raw)
	}

	// the recipient address is not an amount and must stay an address
	if fc.Params[0].Value[0].Kind != bsccommon.DisplayAddress {
		t.Errorf("recipient kind changed: %+v", fc.Params[0].Value[0])
	}
}

func TestEnrichCallWithoutReaderLeavesIntegers(t *testing.T) {
	parsed := mustParseABI(t, erc20TestABI)
	calldata := packTransfer(t, parsed, 1500)
	_, params, err := txanalyzer.AnalyzeMethodCall(parsed, calldata)
	if err != nil {
		t.Fatalf("AnalyzeMethodCall: %s", err)
	}

	ctx := txanalyzer.NewAnalysisContextWithResolver(nil, networks.BSCMainnet, addrbook.Map{})
	fc := &bsccommon.FunctionCallResult{
		Contract: bsccommon.Address{Address: recipientHex},
		Method:   "transfer",
		Params:   params,
	}
	ctx.EnrichCall(fc)

	if fc.Params[1].Value[0].Kind != bsccommon.DisplayInteger {
		t.Errorf("without a reader no token upgrade can happen: %+v", fc.Params[1].Value[0])
	}
}

func TestEnrichCallIgnoresNonAmountMethods(t *testing.T) {
	if err := cache.SetInt64Cache(tokenHex+"_decimal", 18); err != nil {
		t.Fatalf("seed decimal cache: %s", err)
	}

	r := reader.NewEthReaderGeneric(map[string]string{}, nil)
	ctx := txanalyzer.NewAnalysisContextWithResolver(r, networks.BSCMainnet, addrbook.Map{})

	fc := &bsccommon.FunctionCallResult{
		Contract: bsccommon.Address{Address: tokenHex},
		Method:   "setFee",
		Params: []bsccommon.ParamResult{
			{Name: "fee", Type: "uint256", Value: []bsccommon.Value{bsccommon.IntegerValue("25")}},
		},
	}
	ctx.EnrichCall(fc)

	if fc.Params[0].Value[0].Kind != bsccommon.DisplayInteger {
		t.Errorf("setFee moves no token amounts, the integer must stay plain: %+v",
			fc.Params[0].Value[0])
	}
}
