package contracts

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// BoundFunction is one callable entry of a contract's capability set. It
// carries the ABI that encodes the call and the address the call is
// dispatched to. The two come from different contracts when a proxy is
// resolved without overriding the active address.
type BoundFunction struct {
	Name    string
	Method  abi.Method
	ABI     *abi.ABI
	Address common.Address
}

// Contract is the capability set derived from a verified ABI: a lookup table
// from function name to a typed invocation wrapper. ABI always points to the
// document input data should be decoded with, which is the most recently
// layered one.
type Contract struct {
	Address common.Address
	ABI     *abi.ABI

	functions map[string]BoundFunction
}

func NewContract(address common.Address, a *abi.ABI) *Contract {
	c := &Contract{
		Address:   address,
		ABI:       a,
		functions: map[string]BoundFunction{},
	}
	c.register(a)
	return c
}

// register adds every method of a to the capability set, dispatching at the
// contract's own address. A name that is already taken gets the f_ prefix, a
// second collision on the prefixed name overwrites.
func (c *Contract) register(a *abi.ABI) {
	for name, m := range a.Methods {
		key := name
		if _, found := c.functions[key]; found {
			key = fmt.Sprintf("f_%s", key)
		}
		c.functions[key] = BoundFunction{
			Name:    key,
			Method:  m,
			ABI:     a,
			Address: c.Address,
		}
	}
}

// Layer merges the methods of a into the capability set without changing the
// dispatch address. Calls registered this way are encoded with a but executed
// against the original contract's storage, which is how delegation proxies
// run implementation code. a also becomes the document DecodeInput uses.
func (c *Contract) Layer(a *abi.ABI) {
	c.register(a)
	c.ABI = a
}

func (c *Contract) Function(name string) (BoundFunction, bool) {
	f, found := c.functions[name]
	return f, found
}

func (c *Contract) HasFunction(name string) bool {
	_, found := c.functions[name]
	return found
}

// Signatures lists the active ABI's functions in a readable form, sorted by
// name.
func (c *Contract) Signatures() []string {
	names := make([]string, 0, len(c.ABI.Methods))
	for name := range c.ABI.Methods {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]string, 0, len(names))
	for _, name := range names {
		result = append(result, FunctionSignature(c.ABI.Methods[name]))
	}
	return result
}

// FunctionSignature renders m in the form
//
//	transfer(recipient: address, amount: uint256) -> bool
//
// Unnamed arguments show the bare type, multiple outputs are bracketed and
// the arrow is omitted for functions without outputs.
func FunctionSignature(m abi.Method) string {
	ins := make([]string, 0, len(m.Inputs))
	for _, arg := range m.Inputs {
		ins = append(ins, argString(arg))
	}
	outs := make([]string, 0, len(m.Outputs))
	for _, arg := range m.Outputs {
		outs = append(outs, argString(arg))
	}

	result := fmt.Sprintf("%s(%s)", m.RawName, strings.Join(ins, ", "))
	switch {
	case len(outs) > 1:
		result = fmt.Sprintf("%s -> [%s]", result, strings.Join(outs, ", "))
	case len(outs) == 1:
		result = fmt.Sprintf("%s -> %s", result, outs[0])
	}
	return result
}

func argString(arg abi.Argument) string {
	if arg.Name == "" {
		return arg.Type.String()
	}
	return fmt.Sprintf("%s: %s", arg.Name, arg.Type.String())
}
