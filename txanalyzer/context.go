package txanalyzer

import (
	"strings"
	"sync"

	bsccommon "github.com/tranvictor/bscscope/common"
	"github.com/tranvictor/bscscope/networks"
	"github.com/tranvictor/bscscope/util"
	"github.com/tranvictor/bscscope/util/addrbook"
	"github.com/tranvictor/bscscope/util/reader"
)

// ERC20Info holds the token metadata discovered for a contract address.
type ERC20Info struct {
	Decimal uint64
	Symbol  string
}

// cachedERC20 wraps an ERC20Info so that a nil info (not an ERC20) can be
// distinguished from an unchecked address (absent from the map).
type cachedERC20 struct {
	info *ERC20Info // nil means "checked and not ERC20"
}

// AnalysisContext is the per-session knowledge base for a single bscscope run.
//
// It accumulates facts discovered while decoding (e.g. which contracts are
// ERC20 tokens, their decimals and symbols) and caches them in memory so that
// the same network lookup is never repeated within a single session.
//
// The underlying util/cache package already persists lookups to
// ~/.bscscope/cache.json between runs, so AnalysisContext adds only the
// fast in-memory layer on top.
type AnalysisContext struct {
	Network  networks.Network
	Resolver addrbook.AddressResolver

	reader *reader.EthReader

	mu    sync.RWMutex
	erc20 map[string]cachedERC20 // keyed by lower-case address
}

// NewAnalysisContext creates a fresh AnalysisContext using the default
// address resolver backed by the local address databases.
func NewAnalysisContext(r *reader.EthReader, network networks.Network) *AnalysisContext {
	return NewAnalysisContextWithResolver(r, network, addrbook.NewDefault())
}

// NewAnalysisContextWithResolver creates a fresh AnalysisContext with a
// custom AddressResolver. Use this in tests to inject an addrbook.Map
// (or any other deterministic implementation) instead of the local databases.
func NewAnalysisContextWithResolver(r *reader.EthReader, network networks.Network, res addrbook.AddressResolver) *AnalysisContext {
	return &AnalysisContext{
		Network:  network,
		Resolver: res,
		reader:   r,
		erc20:    make(map[string]cachedERC20),
	}
}

// ResolveAddress resolves addr using the context's AddressResolver. Enrichment
// calls this instead of hitting the databases directly so that the resolver
// can be swapped out in tests.
func (ctx *AnalysisContext) ResolveAddress(addr string) bsccommon.Address {
	return ctx.Resolver.Resolve(addr)
}

// ERC20InfoFor returns token metadata for addr if the address is a known ERC20
// token, or nil otherwise. Results are cached in memory for the session
// lifetime; the underlying util functions also persist to disk across runs.
func (ctx *AnalysisContext) ERC20InfoFor(addr string) *ERC20Info {
	key := strings.ToLower(addr)

	ctx.mu.RLock()
	entry, found := ctx.erc20[key]
	ctx.mu.RUnlock()
	if found {
		return entry.info
	}

	if ctx.reader == nil {
		ctx.mu.Lock()
		ctx.erc20[key] = cachedERC20{info: nil}
		ctx.mu.Unlock()
		return nil
	}

	// Not yet checked, fetch decimal and symbol in parallel. A contract that
	// fails the decimal call is recorded as not a token.
	var (
		decimal    uint64
		symbol     string
		decimalErr error
	)
	bsccommon.RunParallel(
		func() error {
			decimal, decimalErr = util.GetERC20Decimal(addr, ctx.reader)
			return decimalErr
		},
		func() error {
			symbol, _ = util.GetERC20Symbol(addr, ctx.reader)
			return nil
		},
	)
	if decimalErr != nil {
		ctx.mu.Lock()
		ctx.erc20[key] = cachedERC20{info: nil}
		ctx.mu.Unlock()
		return nil
	}

	info := &ERC20Info{Decimal: decimal, Symbol: symbol}
	ctx.mu.Lock()
	ctx.erc20[key] = cachedERC20{info: info}
	ctx.mu.Unlock()
	return info
}

// EnrichParams attaches address descriptions from the resolver to every
// address value in params, recursing into struct fields. Values that already
// carry an Address are left untouched.
func (ctx *AnalysisContext) EnrichParams(params []bsccommon.ParamResult) {
	for i := range params {
		for j := range params[i].Value {
			v := &params[i].Value[j]
			if v.Kind == bsccommon.DisplayAddress && v.Address == nil {
				resolved := ctx.ResolveAddress(v.Raw)
				v.Address = &resolved
			}
		}
		for j := range params[i].Tuples {
			ctx.EnrichParams(params[i].Tuples[j].Fields)
		}
	}
}

// erc20AmountMethods lists methods whose uint256 parameters denote token
// amounts in the called contract's own decimals.
var erc20AmountMethods = map[string]bool{
	"transfer":          true,
	"transferFrom":      true,
	"approve":           true,
	"increaseAllowance": true,
	"decreaseAllowance": true,
	"mint":              true,
	"burn":              true,
	"burnFrom":          true,
}

// EnrichCall resolves the target contract of fc and enriches its parameters.
// When the target is a known ERC20 token and the method moves token amounts,
// integer parameters are upgraded to token values so that the display layer
// can render them in human units next to the raw amount.
func (ctx *AnalysisContext) EnrichCall(fc *bsccommon.FunctionCallResult) {
	if fc == nil {
		return
	}
	if fc.Contract.Address != "" {
		fc.Contract = ctx.ResolveAddress(fc.Contract.Address)
	}
	ctx.EnrichParams(fc.Params)

	if !erc20AmountMethods[fc.Method] {
		return
	}
	info := ctx.ERC20InfoFor(fc.Contract.Address)
	if info == nil {
		return
	}
	token := bsccommon.Token{Symbol: info.Symbol, Decimal: info.Decimal}
	for i := range fc.Params {
		if fc.Params[i].Type != "uint256" {
			continue
		}
		for j := range fc.Params[i].Value {
			v := fc.Params[i].Value[j]
			if v.Kind == bsccommon.DisplayInteger {
				fc.Params[i].Value[j] = bsccommon.TokenValue(v.Raw, token)
			}
		}
	}
}
