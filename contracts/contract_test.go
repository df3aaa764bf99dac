package contracts_test

import (
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"

	"github.com/tranvictor/bscscope/contracts"
)

const signatureFixtureABI = `[
	{"type":"function","name":"transfer","inputs":[{"name":"recipient","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}],"stateMutability":"nonpayable"},
	{"type":"function","name":"balanceOf","inputs":[{"name":"","type":"address"}],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
	{"type":"function","name":"getReserves","inputs":[],"outputs":[{"name":"reserve0","type":"uint112"},{"name":"reserve1","type":"uint112"},{"name":"blockTimestampLast","type":"uint32"}],"stateMutability":"view"},
	{"type":"function","name":"upgradeTo","inputs":[{"name":"newImplementation","type":"address"}],"outputs":[],"stateMutability":"nonpayable"}
]`

func mustParseABI(t *testing.T, s string) *abi.ABI {
	t.Helper()
	parsed, err := abi.JSON(strings.NewReader(s))
	if err != nil {
		t.Fatalf("parse abi: %s", err)
	}
	return &parsed
}

func TestFunctionSignature(t *testing.T) {
	parsed := mustParseABI(t, signatureFixtureABI)

	expectations := map[string]string{
		"transfer":    "transfer(recipient: address, amount: uint256) -> bool",
		"balanceOf":   "balanceOf(address) -> uint256",
		"getReserves": "getReserves() -> [reserve0: uint112, reserve1: uint112, blockTimestampLast: uint32]",
		"upgradeTo":   "upgradeTo(newImplementation: address)",
	}
	for name, want := range expectations {
		m, found := parsed.Methods[name]
		if !found {
			t.Fatalf("fixture abi lost method %s", name)
		}
		if got := contracts.FunctionSignature(m); got != want {
			t.Errorf("signature of %s:\nwant %s\ngot  %s", name, want, got)
		}
	}
}

func TestSignaturesSorted(t *testing.T) {
	c := contracts.NewContract(
		ethcommon.HexToAddress(implAddr),
		mustParseABI(t, signatureFixtureABI),
	)

	want := []string{
		"balanceOf(address) -> uint256",
		"getReserves() -> [reserve0: uint112, reserve1: uint112, blockTimestampLast: uint32]",
		"transfer(recipient: address, amount: uint256) -> bool",
		"upgradeTo(newImplementation: address)",
	}
	got := c.Signatures()
	if len(got) != len(want) {
		t.Fatalf("Signatures: want %d entries, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Signatures[%d]: want %q, got %q", i, want[i], got[i])
		}
	}
}

func TestLayerPrefixesCollisions(t *testing.T) {
	proxyABI := mustParseABI(t, slotProxyABI)
	implABI := mustParseABI(t, tokenABI)

	c := contracts.NewContract(ethcommon.HexToAddress(proxyAddr), proxyABI)
	c.Layer(implABI)

	// fresh names land under their own name
	f, found := c.Function("transfer")
	if !found {
		t.Fatalf("layered transfer not registered")
	}
	if f.ABI != implABI {
		t.Errorf("layered function must encode with the layered abi")
	}
	if f.Address != ethcommon.HexToAddress(proxyAddr) {
		t.Errorf("layered function must dispatch to the proxy, got %s", f.Address.Hex())
	}

	// colliding names keep the original and add an f_ twin
	orig, found := c.Function("upgradeTo")
	if !found || orig.ABI != proxyABI {
		t.Errorf("the proxy's own upgradeTo must stay reachable under its name")
	}
	twin, found := c.Function("f_upgradeTo")
	if !found || twin.ABI != implABI {
		t.Errorf("the implementation's upgradeTo must be reachable as f_upgradeTo")
	}

	// the layered abi takes over decoding, so listings follow it too
	if c.ABI != implABI {
		t.Errorf("the layered abi must become the active one")
	}
	sigs := c.Signatures()
	if len(sigs) != 3 {
		t.Fatalf("expected the token abi's 3 functions, got %v", sigs)
	}
	if !strings.HasPrefix(sigs[0], "totalSupply(") ||
		!strings.HasPrefix(sigs[1], "transfer(") ||
		!strings.HasPrefix(sigs[2], "upgradeTo(") {
		t.Errorf("signatures not sorted by name: %v", sigs)
	}
}
