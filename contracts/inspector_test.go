package contracts_test

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/tranvictor/bscscope/contracts"
	"github.com/tranvictor/bscscope/networks"
	"github.com/tranvictor/bscscope/util/explorers"
)

const (
	proxyAddr = "0x1000000000000000000000000000000000000001"
	implAddr  = "0x2000000000000000000000000000000000000002"
	eoaAddr   = "0x3000000000000000000000000000000000000003"
)

// proxyWithMethodABI exposes a zero-arg implementation() getter, the way
// transparent proxies with a public getter do.
const proxyWithMethodABI = `[
	{"type":"function","name":"implementation","inputs":[],"outputs":[{"name":"","type":"address"}],"stateMutability":"view"},
	{"type":"function","name":"upgradeTo","inputs":[{"name":"newImplementation","type":"address"}],"outputs":[],"stateMutability":"nonpayable"}
]`

// slotProxyABI has no implementation() at all, forcing the storage slot
// fallback.
const slotProxyABI = `[
	{"type":"function","name":"upgradeTo","inputs":[{"name":"newImplementation","type":"address"}],"outputs":[],"stateMutability":"nonpayable"},
	{"type":"function","name":"admin","inputs":[],"outputs":[{"name":"","type":"address"}],"stateMutability":"view"}
]`

// tokenABI doubles as the implementation abi. Its upgradeTo collides with the
// proxy abis on purpose to exercise the f_ prefix rule.
const tokenABI = `[
	{"type":"function","name":"transfer","inputs":[{"name":"recipient","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}],"stateMutability":"nonpayable"},
	{"type":"function","name":"totalSupply","inputs":[],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
	{"type":"function","name":"upgradeTo","inputs":[{"name":"impl","type":"address"}],"outputs":[],"stateMutability":"nonpayable"}
]`

// --------------------------------------------------------------------------
// Fakes
// --------------------------------------------------------------------------

// fakeChain implements contracts.ChainReader with canned answers. Like the
// real reader, ImplementationOf answers the zero address with no error when
// no slot convention matches.
type fakeChain struct {
	code     map[string][]byte
	balances map[string]*big.Int
	slots    map[string]ethcommon.Address
	slotErrs map[string]error
	calls    map[string][]byte
	callErrs map[string]error

	reads     []string
	slotReads []string
}

func newFakeChain() *fakeChain {
	return &fakeChain{
		code:     map[string][]byte{},
		balances: map[string]*big.Int{},
		slots:    map[string]ethcommon.Address{},
		slotErrs: map[string]error{},
		calls:    map[string][]byte{},
		callErrs: map[string]error{},
	}
}

func (f *fakeChain) GetCode(address string) ([]byte, error) {
	return f.code[strings.ToLower(address)], nil
}

func (f *fakeChain) BalanceAt(atBlock int64, address string) (*big.Int, error) {
	if b, found := f.balances[strings.ToLower(address)]; found {
		return b, nil
	}
	return big.NewInt(0), nil
}

func (f *fakeChain) ReadContractToBytes(
	atBlock int64,
	from string,
	caddr string,
	a *abi.ABI,
	method string,
	args ...interface{},
) ([]byte, error) {
	key := strings.ToLower(caddr) + "/" + method
	f.reads = append(f.reads, key)
	if err, found := f.callErrs[key]; found {
		return nil, err
	}
	if out, found := f.calls[key]; found {
		return out, nil
	}
	// an unconfigured method behaves like a function the contract doesn't
	// serve
	return nil, fmt.Errorf("execution reverted")
}

func (f *fakeChain) ImplementationOf(atBlock int64, caddr string) (ethcommon.Address, error) {
	key := strings.ToLower(caddr)
	f.slotReads = append(f.slotReads, key)
	if err, found := f.slotErrs[key]; found {
		return ethcommon.Address{}, err
	}
	return f.slots[key], nil
}

type fakeExplorer struct {
	abis     map[string]string
	metadata map[string]*explorers.ContractMetadata
	balances map[string]*big.Int

	abiCalls int
	srcCalls int
}

func newFakeExplorer() *fakeExplorer {
	return &fakeExplorer{
		abis:     map[string]string{},
		metadata: map[string]*explorers.ContractMetadata{},
		balances: map[string]*big.Int{},
	}
}

func (f *fakeExplorer) RecommendedGasPrice() (float64, error) { return 3, nil }

func (f *fakeExplorer) GetABIString(address string) (string, error) {
	f.abiCalls++
	s, found := f.abis[strings.ToLower(address)]
	if !found {
		return "", fmt.Errorf("error from fakescan: contract source code not verified")
	}
	return s, nil
}

func (f *fakeExplorer) GetSourceCode(address string) (*explorers.ContractMetadata, error) {
	f.srcCalls++
	md, found := f.metadata[strings.ToLower(address)]
	if !found {
		return nil, fmt.Errorf("error from fakescan: no source code records")
	}
	return md, nil
}

func (f *fakeExplorer) GetNativeBalance(address string) (*big.Int, error) {
	if b, found := f.balances[strings.ToLower(address)]; found {
		return b, nil
	}
	return big.NewInt(0), nil
}

func (f *fakeExplorer) GetCirculatingSupply(address string) (*big.Int, error) {
	return big.NewInt(0), nil
}

func (f *fakeExplorer) EthCall(to string, data string) (string, error) {
	return "0x", nil
}

// --------------------------------------------------------------------------
// Fixture helpers
// --------------------------------------------------------------------------

func verifiedMetadata(name, abiJSON string, proxy bool) *explorers.ContractMetadata {
	p := "0"
	if proxy {
		p = "1"
	}
	return &explorers.ContractMetadata{
		ABI:             abiJSON,
		ContractName:    name,
		CompilerVersion: "v0.8.17+commit.8df45f5f",
		Proxy:           p,
	}
}

func unverifiedMetadata() *explorers.ContractMetadata {
	return &explorers.ContractMetadata{
		ABI: "Contract source code not verified",
	}
}

// registerContract wires code, abi and metadata for addr in one go.
func registerContract(chain *fakeChain, be *fakeExplorer, addr, name, abiJSON string, proxyFlag bool) {
	key := strings.ToLower(addr)
	chain.code[key] = []byte{0x60, 0x80}
	be.abis[key] = abiJSON
	be.metadata[key] = verifiedMetadata(name, abiJSON, proxyFlag)
}

func packedAddress(addr string) []byte {
	return ethcommon.LeftPadBytes(ethcommon.HexToAddress(addr).Bytes(), 32)
}

func newInspector(chain *fakeChain, be *fakeExplorer, addr string) *contracts.Inspector {
	return contracts.NewInspector(addr, networks.BSCMainnet, chain, be)
}

// --------------------------------------------------------------------------
// Tests
// --------------------------------------------------------------------------

func TestNoCodeMeansNoExplorerLookup(t *testing.T) {
	chain := newFakeChain()
	be := newFakeExplorer()
	insp := newInspector(chain, be, eoaAddr)

	isContract, err := insp.IsContract()
	if err != nil {
		t.Fatalf("IsContract: %s", err)
	}
	if isContract {
		t.Errorf("expected %s to not be a contract", eoaAddr)
	}

	if _, err = insp.Metadata(); !errors.Is(err, contracts.ErrNoContract) {
		t.Errorf("Metadata on a codeless address: want ErrNoContract, got %v", err)
	}
	isProxy, err := insp.IsProxy()
	if err != nil || isProxy {
		t.Errorf("IsProxy on a codeless address: want (false, nil), got (%t, %v)", isProxy, err)
	}

	if be.srcCalls != 0 {
		t.Errorf("expected no explorer metadata calls for a codeless address, got %d", be.srcCalls)
	}
	if be.abiCalls != 0 {
		t.Errorf("expected no explorer abi calls for a codeless address, got %d", be.abiCalls)
	}
}

func TestProxyDetectionByExplorerFlag(t *testing.T) {
	chain := newFakeChain()
	be := newFakeExplorer()
	registerContract(chain, be, proxyAddr, "AdminUpgradeabilityProxy", slotProxyABI, true)

	insp := newInspector(chain, be, proxyAddr)
	isProxy, err := insp.IsProxy()
	if err != nil {
		t.Fatalf("IsProxy: %s", err)
	}
	if !isProxy {
		t.Errorf("explorer flags %s as a proxy, IsProxy should be true", proxyAddr)
	}
	// the flag answers before any on-chain probe happens
	if len(chain.reads) != 0 || len(chain.slotReads) != 0 {
		t.Errorf("expected no chain probes when the explorer flag decides, got %v %v",
			chain.reads, chain.slotReads)
	}
}

func TestProxyDetectionBySlotWhenFlagUnset(t *testing.T) {
	chain := newFakeChain()
	be := newFakeExplorer()
	registerContract(chain, be, proxyAddr, "Proxy", slotProxyABI, false)
	chain.slots[proxyAddr] = ethcommon.HexToAddress(implAddr)

	insp := newInspector(chain, be, proxyAddr)
	isProxy, err := insp.IsProxy()
	if err != nil {
		t.Fatalf("IsProxy: %s", err)
	}
	if !isProxy {
		t.Errorf("slot resolvable implementation should make IsProxy true")
	}
	if got := insp.Implementation(); got != ethcommon.HexToAddress(implAddr).Hex() {
		t.Errorf("Implementation: want %s, got %s", ethcommon.HexToAddress(implAddr).Hex(), got)
	}
}

func TestProxyDetectionByMethodProbe(t *testing.T) {
	chain := newFakeChain()
	be := newFakeExplorer()
	registerContract(chain, be, proxyAddr, "Proxy", proxyWithMethodABI, false)
	chain.calls[proxyAddr+"/implementation"] = packedAddress(implAddr)

	insp := newInspector(chain, be, proxyAddr)
	impl, resolved, err := insp.ResolveImplementation()
	if err != nil {
		t.Fatalf("ResolveImplementation: %s", err)
	}
	if !resolved {
		t.Fatalf("expected the implementation() probe to resolve")
	}
	if impl.Hex() != ethcommon.HexToAddress(implAddr).Hex() {
		t.Errorf("implementation: want %s, got %s", implAddr, impl.Hex())
	}
	// the method answered, the slot fallback must not run
	if len(chain.slotReads) != 0 {
		t.Errorf("slot fallback ran despite a successful method probe: %v", chain.slotReads)
	}
}

func TestNotAProxy(t *testing.T) {
	chain := newFakeChain()
	be := newFakeExplorer()
	registerContract(chain, be, implAddr, "SomeToken", tokenABI, false)

	insp := newInspector(chain, be, implAddr)
	isProxy, err := insp.IsProxy()
	if err != nil {
		t.Fatalf("IsProxy: %s", err)
	}
	if isProxy {
		t.Errorf("plain contract must not be detected as a proxy")
	}
}

func TestTransportErrorSuppressesSlotFallback(t *testing.T) {
	chain := newFakeChain()
	be := newFakeExplorer()
	registerContract(chain, be, proxyAddr, "Proxy", proxyWithMethodABI, false)
	chain.callErrs[proxyAddr+"/implementation"] = fmt.Errorf("connection refused")
	// a slot answer exists but must never be consulted
	chain.slots[proxyAddr] = ethcommon.HexToAddress(implAddr)

	insp := newInspector(chain, be, proxyAddr)
	_, resolved, err := insp.ResolveImplementation()
	if err == nil || !strings.Contains(err.Error(), "connection refused") {
		t.Fatalf("expected the transport error to propagate, got %v", err)
	}
	if resolved {
		t.Errorf("a failed probe must not report a resolution")
	}
	if len(chain.slotReads) != 0 {
		t.Errorf("slot fallback ran after a transport error: %v", chain.slotReads)
	}
}

func TestRevertedProbeFallsBackToSlot(t *testing.T) {
	chain := newFakeChain()
	be := newFakeExplorer()
	// explorer flags it, implementation() reverts, the slot holds the answer
	registerContract(chain, be, proxyAddr, "Proxy", proxyWithMethodABI, true)
	chain.callErrs[proxyAddr+"/implementation"] = fmt.Errorf("execution reverted")
	chain.slots[proxyAddr] = ethcommon.HexToAddress(implAddr)

	insp := newInspector(chain, be, proxyAddr)
	impl, resolved, err := insp.ResolveImplementation()
	if err != nil {
		t.Fatalf("ResolveImplementation: %s", err)
	}
	if !resolved {
		t.Fatalf("expected the slot fallback to resolve after the revert")
	}
	if impl.Hex() != ethcommon.HexToAddress(implAddr).Hex() {
		t.Errorf("implementation: want %s, got %s", implAddr, impl.Hex())
	}
	if len(chain.slotReads) != 1 {
		t.Errorf("expected exactly one slot read, got %v", chain.slotReads)
	}
}

func TestZeroImplementationMeansNoResolution(t *testing.T) {
	chain := newFakeChain()
	be := newFakeExplorer()
	registerContract(chain, be, proxyAddr, "Proxy", proxyWithMethodABI, false)
	chain.calls[proxyAddr+"/implementation"] = make([]byte, 32)

	insp := newInspector(chain, be, proxyAddr)
	_, resolved, err := insp.ResolveImplementation()
	if err != nil {
		t.Fatalf("ResolveImplementation: %s", err)
	}
	if resolved {
		t.Errorf("the zero address must count as no implementation")
	}
}

func TestOverrideResolveReplacesState(t *testing.T) {
	chain := newFakeChain()
	be := newFakeExplorer()
	registerContract(chain, be, proxyAddr, "Proxy", slotProxyABI, true)
	registerContract(chain, be, implAddr, "SomeToken", tokenABI, false)
	chain.slots[proxyAddr] = ethcommon.HexToAddress(implAddr)

	insp := newInspector(chain, be, proxyAddr)
	resolved, err := insp.ResolveProxy(true)
	if err != nil {
		t.Fatalf("ResolveProxy(true): %s", err)
	}
	if !resolved {
		t.Fatalf("expected a resolution step")
	}

	if got := insp.Address(); got != ethcommon.HexToAddress(implAddr).Hex() {
		t.Errorf("active address: want %s, got %s", implAddr, got)
	}
	md, err := insp.Metadata()
	if err != nil {
		t.Fatalf("Metadata after override: %s", err)
	}
	if md.ContractName != "SomeToken" {
		t.Errorf("metadata must be reloaded for the implementation, got %q", md.ContractName)
	}
	c, err := insp.Contract()
	if err != nil {
		t.Fatalf("Contract after override: %s", err)
	}
	if !c.HasFunction("transfer") {
		t.Errorf("expected the implementation's transfer to be bound")
	}
	if c.HasFunction("admin") {
		t.Errorf("the proxy's own abi must be dropped in override mode")
	}
	if f, _ := c.Function("transfer"); f.Address.Hex() != ethcommon.HexToAddress(implAddr).Hex() {
		t.Errorf("override dispatch address: want %s, got %s", implAddr, f.Address.Hex())
	}
}

func TestLayerResolveKeepsDispatchAddress(t *testing.T) {
	chain := newFakeChain()
	be := newFakeExplorer()
	registerContract(chain, be, proxyAddr, "Proxy", slotProxyABI, true)
	registerContract(chain, be, implAddr, "SomeToken", tokenABI, false)
	chain.slots[proxyAddr] = ethcommon.HexToAddress(implAddr)

	insp := newInspector(chain, be, proxyAddr)
	resolved, err := insp.ResolveProxy(false)
	if err != nil {
		t.Fatalf("ResolveProxy(false): %s", err)
	}
	if !resolved {
		t.Fatalf("expected a resolution step")
	}

	if got := insp.Address(); got != ethcommon.HexToAddress(proxyAddr).Hex() {
		t.Errorf("active address must stay on the proxy, got %s", got)
	}
	c, err := insp.Contract()
	if err != nil {
		t.Fatalf("Contract: %s", err)
	}
	f, found := c.Function("transfer")
	if !found {
		t.Fatalf("expected the implementation's transfer to be layered on")
	}
	if f.Address.Hex() != ethcommon.HexToAddress(proxyAddr).Hex() {
		t.Errorf("layered dispatch address: want the proxy %s, got %s", proxyAddr, f.Address.Hex())
	}
	// upgradeTo exists in both abis, the layered one gets the f_ prefix
	if !c.HasFunction("f_upgradeTo") {
		t.Errorf("expected the colliding upgradeTo to be registered as f_upgradeTo")
	}

	// input addressed to the proxy decodes with the implementation's abi
	parsed, err := abi.JSON(strings.NewReader(tokenABI))
	if err != nil {
		t.Fatalf("parse token abi: %s", err)
	}
	calldata, err := parsed.Pack(
		"transfer",
		ethcommon.HexToAddress(eoaAddr),
		big.NewInt(1000),
	)
	if err != nil {
		t.Fatalf("pack transfer: %s", err)
	}
	method, params, err := insp.DecodeInput(hexutil.Encode(calldata))
	if err != nil {
		t.Fatalf("DecodeInput: %s", err)
	}
	if method != "transfer" {
		t.Errorf("decoded method: want transfer, got %s", method)
	}
	if len(params) != 2 || params[0].Name != "recipient" || params[1].Name != "amount" {
		t.Errorf("decoded params look wrong: %+v", params)
	}
}

func TestLayeredChainResolution(t *testing.T) {
	endAddr := "0x4000000000000000000000000000000000000004"

	chain := newFakeChain()
	be := newFakeExplorer()
	registerContract(chain, be, proxyAddr, "Proxy", slotProxyABI, false)
	registerContract(chain, be, implAddr, "MiddleProxy", slotProxyABI, false)
	registerContract(chain, be, endAddr, "SomeToken", tokenABI, false)
	chain.slots[proxyAddr] = ethcommon.HexToAddress(implAddr)
	chain.slots[implAddr] = ethcommon.HexToAddress(endAddr)

	insp := newInspector(chain, be, proxyAddr)
	hops, err := insp.ResolveProxies(false)
	if err != nil {
		t.Fatalf("ResolveProxies(false): %s", err)
	}
	if hops != 2 {
		t.Errorf("expected 2 hops, got %d", hops)
	}
	if got := insp.Address(); got != ethcommon.HexToAddress(proxyAddr).Hex() {
		t.Errorf("active address must stay on the proxy, got %s", got)
	}
	if got := insp.Implementation(); got != ethcommon.HexToAddress(endAddr).Hex() {
		t.Errorf("implementation: want the chain end %s, got %s", endAddr, got)
	}

	c, err := insp.Contract()
	if err != nil {
		t.Fatalf("Contract: %s", err)
	}
	f, found := c.Function("transfer")
	if !found {
		t.Fatalf("expected the chain end's transfer to be layered on")
	}
	if f.Address.Hex() != ethcommon.HexToAddress(proxyAddr).Hex() {
		t.Errorf("layered dispatch address: want the proxy %s, got %s", proxyAddr, f.Address.Hex())
	}
	if !c.HasFunction("f_upgradeTo") {
		t.Errorf("expected the colliding upgradeTo to be registered as f_upgradeTo")
	}
	// one probe per chain member, the last one finding nothing
	if len(chain.slotReads) != 3 {
		t.Errorf("expected 3 slot probes, got %v", chain.slotReads)
	}
}

func TestDecodeInputWithoutBinding(t *testing.T) {
	chain := newFakeChain()
	be := newFakeExplorer()
	insp := newInspector(chain, be, eoaAddr)

	_, _, err := insp.DecodeInput("0xa9059cbb")
	if !errors.Is(err, contracts.ErrNoContract) {
		t.Errorf("want ErrNoContract, got %v", err)
	}
}

func TestFailedOverridePreservesLastError(t *testing.T) {
	chain := newFakeChain()
	be := newFakeExplorer()
	registerContract(chain, be, proxyAddr, "Proxy", slotProxyABI, true)
	chain.slots[proxyAddr] = ethcommon.HexToAddress(implAddr)
	// the implementation has code but no verified abi
	chain.code[implAddr] = []byte{0x60, 0x80}

	insp := newInspector(chain, be, proxyAddr)
	if _, err := insp.ResolveProxy(true); err == nil {
		t.Fatalf("expected the override reload to fail on the unverified implementation")
	}
	if insp.LastError() == nil {
		t.Errorf("the resolution failure must be preserved for LastError")
	}
	_, _, err := insp.DecodeInput("0xa9059cbb")
	if !errors.Is(err, contracts.ErrNoContract) {
		t.Errorf("decode after a failed reload: want ErrNoContract, got %v", err)
	}
}

func TestDelegationCycle(t *testing.T) {
	chain := newFakeChain()
	be := newFakeExplorer()
	registerContract(chain, be, proxyAddr, "ProxyA", slotProxyABI, true)
	registerContract(chain, be, implAddr, "ProxyB", slotProxyABI, true)
	chain.slots[proxyAddr] = ethcommon.HexToAddress(implAddr)
	chain.slots[implAddr] = ethcommon.HexToAddress(proxyAddr)

	insp := newInspector(chain, be, proxyAddr)
	_, err := insp.ResolveProxies(true)
	if !errors.Is(err, contracts.ErrDelegationCycle) {
		t.Errorf("want ErrDelegationCycle, got %v", err)
	}
}

func TestTooManyDelegationHops(t *testing.T) {
	chain := newFakeChain()
	be := newFakeExplorer()

	addrs := make([]string, contracts.MaxProxyHops+3)
	for i := range addrs {
		addrs[i] = ethcommon.BigToAddress(big.NewInt(int64(0x5000 + i))).Hex()
		registerContract(chain, be, addrs[i], fmt.Sprintf("Proxy%d", i), slotProxyABI, true)
	}
	for i := 0; i+1 < len(addrs); i++ {
		chain.slots[strings.ToLower(addrs[i])] = ethcommon.HexToAddress(addrs[i+1])
	}

	insp := newInspector(chain, be, addrs[0])
	hops, err := insp.ResolveProxies(true)
	if !errors.Is(err, contracts.ErrTooManyHops) {
		t.Errorf("want ErrTooManyHops, got %v after %d hops", err, hops)
	}
}

func TestBalanceFormatting(t *testing.T) {
	chain := newFakeChain()
	be := newFakeExplorer()
	be.balances[eoaAddr] = big.NewInt(1500000000000000000)

	insp := newInspector(chain, be, eoaAddr)
	got, err := insp.BalanceString()
	if err != nil {
		t.Fatalf("BalanceString: %s", err)
	}
	if got != "1.5" {
		t.Errorf("1500000000000000000 wei: want 1.5, got %s", got)
	}

	be.balances[eoaAddr] = big.NewInt(0).Mul(big.NewInt(2), big.NewInt(1000000000000000000))
	insp = newInspector(chain, be, eoaAddr)
	if got, _ = insp.BalanceString(); got != "2" {
		t.Errorf("whole balances print without a separator, want 2, got %s", got)
	}

	be.balances[eoaAddr] = big.NewInt(0)
	insp = newInspector(chain, be, eoaAddr)
	if got, _ = insp.BalanceString(); got != "0" {
		t.Errorf("zero balance: want 0, got %s", got)
	}
}

func TestPinnedBalanceReadsChain(t *testing.T) {
	chain := newFakeChain()
	be := newFakeExplorer()
	// explorer serves latest state only, the chain has the historical answer
	be.balances[eoaAddr] = big.NewInt(1500000000000000000)
	chain.balances[eoaAddr] = big.NewInt(3000000000000000000)

	insp := newInspector(chain, be, eoaAddr)
	insp.SetAtBlock(1234)
	got, err := insp.BalanceString()
	if err != nil {
		t.Fatalf("BalanceString: %s", err)
	}
	if got != "3" {
		t.Errorf("pinned inspection takes its balance from the chain, want 3, got %s", got)
	}
}
