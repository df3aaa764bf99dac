package contracts

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	bsccommon "github.com/tranvictor/bscscope/common"
	"github.com/tranvictor/bscscope/networks"
	"github.com/tranvictor/bscscope/txanalyzer"
	"github.com/tranvictor/bscscope/util/explorers"
)

// MaxProxyHops caps how many delegation steps a chained resolution follows
// before giving up on a chain.
const MaxProxyHops = 8

const zeroCaller = "0x0000000000000000000000000000000000000000"

var (
	// ErrNoContract reports an operation that needs a contract binding on an
	// address that doesn't have one.
	ErrNoContract = errors.New("no contract bound")
	// ErrDelegationCycle reports a proxy chain that delegates back to an
	// address it already went through.
	ErrDelegationCycle = errors.New("proxy delegation cycle")
	// ErrTooManyHops reports a proxy chain longer than MaxProxyHops.
	ErrTooManyHops = errors.New("too many proxy delegation hops")
)

// errNoImplementationMethod marks the method probe outcome where the bound
// ABI simply has no zero-argument implementation() to call.
var errNoImplementationMethod = errors.New("abi doesn't expose implementation()")

// ChainReader is the part of the node reader surface the inspector consumes.
// *reader.EthReader satisfies it.
type ChainReader interface {
	GetCode(address string) ([]byte, error)
	BalanceAt(atBlock int64, address string) (*big.Int, error)
	ReadContractToBytes(
		atBlock int64,
		from string,
		caddr string,
		a *abi.ABI,
		method string,
		args ...interface{},
	) ([]byte, error)
	ImplementationOf(atBlock int64, caddr string) (common.Address, error)
}

// Inspector is a handle on one BSC address. It lazily pulls explorer metadata
// and the verified ABI, memoizes them, and exposes proxy resolution over the
// resulting contract binding. The reader and the explorer are owned by the
// caller, constructing an Inspector opens no connection by itself.
//
// An Inspector is a single-session object and is not safe for concurrent use.
type Inspector struct {
	network networks.Network
	reader  ChainReader
	be      explorers.BlockExplorer
	atBlock int64

	addr           common.Address
	implementation common.Address

	isContract  *bool
	metadata    *explorers.ContractMetadata
	contractABI *abi.ABI
	contract    *Contract
	lastErr     error
}

func NewInspector(
	addr string,
	network networks.Network,
	r ChainReader,
	be explorers.BlockExplorer,
) *Inspector {
	a := common.HexToAddress(addr)
	return &Inspector{
		network:        network,
		reader:         r,
		be:             be,
		atBlock:        -1,
		addr:           a,
		implementation: a,
	}
}

// SetAtBlock pins all chain reads to a specific block. Negative means latest.
func (self *Inspector) SetAtBlock(block int64) {
	self.atBlock = block
}

// Address returns the active checksummed address. It changes when a proxy is
// resolved in override mode.
func (self *Inspector) Address() string {
	return self.addr.Hex()
}

// Implementation returns the last resolved implementation address. Before any
// resolution it equals the active address.
func (self *Inspector) Implementation() string {
	return self.implementation.Hex()
}

// LastError returns the failure preserved by the most recent resolution step,
// nil if it succeeded.
func (self *Inspector) LastError() error {
	return self.lastErr
}

// BalanceWei returns the native balance of the active address. The explorer
// account endpoint only serves the latest state, so a pinned inspection reads
// the balance from the chain instead.
func (self *Inspector) BalanceWei() (*big.Int, error) {
	if self.atBlock >= 0 {
		return self.reader.BalanceAt(self.atBlock, self.addr.Hex())
	}
	return self.be.GetNativeBalance(self.addr.Hex())
}

// BalanceString returns the native balance in BNB, trimmed of trailing
// zeroes. A zero balance renders as "0".
func (self *Inspector) BalanceString() (string, error) {
	wei, err := self.BalanceWei()
	if err != nil {
		return "", err
	}
	return bsccommon.BigToFloatString(wei, self.network.GetNativeTokenDecimal()), nil
}

// IsContract reports whether the active address carries deployed bytecode.
// The answer is memoized, errors are not.
func (self *Inspector) IsContract() (bool, error) {
	if self.isContract != nil {
		return *self.isContract, nil
	}
	code, err := self.reader.GetCode(self.addr.Hex())
	if err != nil {
		return false, err
	}
	result := len(code) > 0
	self.isContract = &result
	return result, nil
}

func (self *Inspector) requireContract() error {
	isContract, err := self.IsContract()
	if err != nil {
		return err
	}
	if !isContract {
		return fmt.Errorf("%w: %s holds no code", ErrNoContract, self.addr.Hex())
	}
	return nil
}

// Metadata returns the explorer's verified source record for the active
// address. It is only fetched after deployed code is confirmed, addresses
// without code never cause an explorer lookup.
func (self *Inspector) Metadata() (*explorers.ContractMetadata, error) {
	if self.metadata != nil {
		return self.metadata, nil
	}
	if err := self.requireContract(); err != nil {
		return nil, err
	}
	md, err := self.be.GetSourceCode(self.addr.Hex())
	if err != nil {
		return nil, err
	}
	self.metadata = md
	return md, nil
}

func (self *Inspector) fetchABI(addr common.Address) (*abi.ABI, error) {
	body, err := self.be.GetABIString(addr.Hex())
	if err != nil {
		return nil, err
	}
	parsed, err := abi.JSON(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing abi of %s: %w", addr.Hex(), err)
	}
	return &parsed, nil
}

// ABI returns the verified ABI of the active address, fetching it through the
// explorer on first use.
func (self *Inspector) ABI() (*abi.ABI, error) {
	if self.contractABI != nil {
		return self.contractABI, nil
	}
	if err := self.requireContract(); err != nil {
		return nil, err
	}
	parsed, err := self.fetchABI(self.addr)
	if err != nil {
		return nil, err
	}
	self.contractABI = parsed
	return parsed, nil
}

// Contract returns the capability set bound to the active address, loading
// bytecode state and the ABI on first use.
func (self *Inspector) Contract() (*Contract, error) {
	if self.contract != nil {
		return self.contract, nil
	}
	a, err := self.ABI()
	if err != nil {
		return nil, err
	}
	self.contract = NewContract(self.addr, a)
	return self.contract, nil
}

// Functions lists the readable signatures of the bound contract, sorted by
// name.
func (self *Inspector) Functions() ([]string, error) {
	c, err := self.Contract()
	if err != nil {
		return nil, err
	}
	return c.Signatures(), nil
}

// Call looks name up in the capability set and executes a read-only call at
// the function's dispatch address, returning the unpacked outputs.
func (self *Inspector) Call(name string, args ...interface{}) ([]interface{}, error) {
	c, err := self.Contract()
	if err != nil {
		return nil, err
	}
	f, found := c.Function(name)
	if !found {
		return nil, fmt.Errorf("function %q is not bound on %s", name, self.addr.Hex())
	}
	data, err := self.reader.ReadContractToBytes(
		self.atBlock, zeroCaller, f.Address.Hex(), f.ABI, f.Method.Name, args...)
	if err != nil {
		return nil, err
	}
	return f.Method.Outputs.UnpackValues(data)
}

// DecodeInput decodes raw transaction input data against the bound ABI. It
// requires a prior successful Contract load and fails with ErrNoContract
// otherwise, carrying the preserved resolution error when there is one.
func (self *Inspector) DecodeInput(data string) (string, []bsccommon.ParamResult, error) {
	if self.contract == nil {
		if self.lastErr != nil {
			return "", nil, fmt.Errorf("%w: %s", ErrNoContract, self.lastErr)
		}
		return "", nil, ErrNoContract
	}
	payload, err := hexDataBytes(data)
	if err != nil {
		return "", nil, err
	}
	return txanalyzer.AnalyzeMethodCall(self.contract.ABI, payload)
}

// DecodeOutput decodes returned call data against an explicit list of output
// type names such as ["uint256", "address"]. No contract binding is needed.
func (self *Inspector) DecodeOutput(data string, typeNames []string) ([]bsccommon.ParamResult, error) {
	payload, err := hexDataBytes(data)
	if err != nil {
		return nil, err
	}
	args := abi.Arguments{}
	for _, name := range typeNames {
		t, err := abi.NewType(strings.TrimSpace(name), "", nil)
		if err != nil {
			return nil, fmt.Errorf("output type %q: %w", name, err)
		}
		args = append(args, abi.Argument{Type: t})
	}
	values, err := args.UnpackValues(payload)
	if err != nil {
		return nil, err
	}
	return txanalyzer.ParamsFromArguments(args, values), nil
}

// RelayCall sends raw hex call data to the active address through the
// explorer's JSON-RPC relay and returns the raw hex result.
func (self *Inspector) RelayCall(data string) (string, error) {
	return self.be.EthCall(self.addr.Hex(), data)
}

// IsProxy reports whether the active address delegates execution: either the
// explorer flags it as a proxy or an implementation address is resolvable.
// An address without code is never a proxy and costs no explorer call.
func (self *Inspector) IsProxy() (bool, error) {
	isContract, err := self.IsContract()
	if err != nil || !isContract {
		return false, err
	}
	md, err := self.Metadata()
	if err != nil {
		return false, err
	}
	if md.IsProxy() {
		return true, nil
	}
	_, resolved, err := self.ResolveImplementation()
	if err != nil {
		return false, err
	}
	return resolved, nil
}

// probeImplementationMethod calls the bound ABI's zero-argument
// implementation() getter. errNoImplementationMethod means the ABI doesn't
// have one, every other error comes from the call itself.
func (self *Inspector) probeImplementationMethod(c *Contract) (common.Address, error) {
	var m *abi.Method
	for _, candidate := range c.ABI.Methods {
		if candidate.RawName == "implementation" && len(candidate.Inputs) == 0 {
			m = &candidate
			break
		}
	}
	if m == nil {
		return common.Address{}, errNoImplementationMethod
	}
	data, err := self.reader.ReadContractToBytes(
		self.atBlock, zeroCaller, c.Address.Hex(), c.ABI, m.Name)
	if err != nil {
		return common.Address{}, err
	}
	result := common.Address{}
	if err = c.ABI.UnpackIntoInterface(&result, m.Name, data); err != nil {
		return common.Address{}, err
	}
	return result, nil
}

// implementationNotExposed reports the two probe outcomes that mean the
// contract doesn't serve implementation() through its ABI: the method is
// missing, or the call reverted. Anything else is a real failure.
func implementationNotExposed(err error) bool {
	if errors.Is(err, errNoImplementationMethod) {
		return true
	}
	return strings.Contains(err.Error(), "execution reverted")
}

// ResolveImplementation performs a single delegation probe on the active
// address: first the implementation() method, then, only when the method
// isn't exposed, the well-known implementation storage slots. It returns the
// implementation address and whether one was found. A resolved zero address
// counts as not found.
func (self *Inspector) ResolveImplementation() (common.Address, bool, error) {
	c, err := self.Contract()
	if err != nil {
		return common.Address{}, false, err
	}

	impl, err := self.probeImplementationMethod(c)
	if err != nil {
		if !implementationNotExposed(err) {
			return common.Address{}, false, err
		}
		impl, err = self.reader.ImplementationOf(self.atBlock, self.addr.Hex())
		if err != nil {
			return common.Address{}, false, err
		}
	}

	if bsccommon.IsZeroAddress(impl) {
		return common.Address{}, false, nil
	}
	self.implementation = impl
	return impl, true, nil
}

// ResolveProxy applies one delegation step. In override mode the
// implementation becomes the new active address and all cached state is
// reloaded against it. Otherwise the implementation's ABI is layered onto the
// existing binding, so calls keep dispatching to the proxy address while
// being encoded with the implementation's ABI, and colliding function names
// get the f_ prefix.
//
// It returns whether a step was applied. Failures are also preserved for
// LastError.
func (self *Inspector) ResolveProxy(override bool) (bool, error) {
	self.lastErr = nil

	impl, resolved, err := self.ResolveImplementation()
	if err != nil {
		self.lastErr = err
		return false, err
	}
	if !resolved {
		return false, nil
	}

	if override {
		self.addr = impl
		self.isContract = nil
		self.metadata = nil
		self.contractABI = nil
		self.contract = nil
		if _, err = self.Contract(); err != nil {
			self.lastErr = err
			return false, err
		}
		return true, nil
	}

	implABI, err := self.fetchABI(impl)
	if err != nil {
		self.lastErr = err
		return false, err
	}
	self.contract.Layer(implABI)
	return true, nil
}

// ResolveProxies follows the delegation chain to its end in the chosen mode
// and returns the number of hops followed. Revisiting an address fails with
// ErrDelegationCycle, chains longer than MaxProxyHops fail with
// ErrTooManyHops.
//
// In non-override mode the active address never advances, so the chain is
// walked on a scout handle in override mode and every hop's ABI is layered
// onto this binding. Dispatch stays on the proxy address for the whole chain.
func (self *Inspector) ResolveProxies(override bool) (int, error) {
	if override {
		visited := map[common.Address]bool{self.addr: true}
		hops := 0
		for {
			resolved, err := self.ResolveProxy(true)
			if err != nil {
				return hops, err
			}
			if !resolved {
				return hops, nil
			}
			hops++
			if err := self.guardChain(visited, self.implementation, hops); err != nil {
				return hops, err
			}
		}
	}

	self.lastErr = nil
	if _, err := self.Contract(); err != nil {
		return 0, err
	}
	scout := NewInspector(self.addr.Hex(), self.network, self.reader, self.be)
	scout.atBlock = self.atBlock
	visited := map[common.Address]bool{self.addr: true}
	hops := 0
	for {
		resolved, err := scout.ResolveProxy(true)
		if err != nil {
			self.lastErr = err
			return hops, err
		}
		if !resolved {
			return hops, nil
		}
		hops++
		self.implementation = scout.addr
		self.contract.Layer(scout.contractABI)
		if err := self.guardChain(visited, scout.addr, hops); err != nil {
			return hops, err
		}
	}
}

// guardChain enforces the chain bounds after a hop resolved impl. A failed
// guard is preserved for LastError.
func (self *Inspector) guardChain(visited map[common.Address]bool, impl common.Address, hops int) error {
	if visited[impl] {
		self.lastErr = fmt.Errorf(
			"%w: %s delegates to an address already seen",
			ErrDelegationCycle, impl.Hex())
		return self.lastErr
	}
	visited[impl] = true
	if hops > MaxProxyHops {
		self.lastErr = fmt.Errorf("%w: gave up after %d", ErrTooManyHops, hops)
		return self.lastErr
	}
	return nil
}

func hexDataBytes(data string) ([]byte, error) {
	if !strings.HasPrefix(data, "0x") {
		data = "0x" + data
	}
	return hexutil.Decode(data)
}
