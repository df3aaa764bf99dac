package common

// DisplayKind tells the printer how to render a decoded ABI value.
type DisplayKind int

const (
	// DisplayRaw covers strings, bools, hashes and hex byte blobs.
	DisplayRaw DisplayKind = iota
	DisplayAddress
	DisplayInteger
	DisplayToken
)

type Address struct {
	Address string
	Desc    string
	Decimal int64
}

type Token struct {
	Symbol  string
	Decimal uint64
}

// Value is a single decoded ABI scalar carrying enough context to be
// displayed verbosely (address descriptions, token amounts) or plainly.
type Value struct {
	Raw     string
	Kind    DisplayKind
	Address *Address // set when Kind is DisplayAddress
	Token   *Token   // set when Kind is DisplayToken
}

func RawValue(raw string) Value {
	return Value{Raw: raw, Kind: DisplayRaw}
}

func IntegerValue(raw string) Value {
	return Value{Raw: raw, Kind: DisplayInteger}
}

func AddressValue(raw string, addr Address) Value {
	return Value{Raw: raw, Kind: DisplayAddress, Address: &addr}
}

func TokenValue(raw string, token Token) Value {
	return Value{Raw: raw, Kind: DisplayToken, Token: &token}
}

// ParamResult is one decoded parameter of a contract call. Value holds more
// than one element when the parameter is an array. Tuples is set instead of
// Value when the parameter is a solidity struct or an array of structs.
type ParamResult struct {
	Name   string
	Type   string
	Value  []Value
	Tuples []TupleResult
}

// TupleResult is one decoded struct instance. A parameter of a plain struct
// type produces a single TupleResult, a struct array produces one per element.
type TupleResult struct {
	Fields []ParamResult
}

// FunctionCallResult is the outcome of decoding a raw transaction input
// against a contract ABI.
type FunctionCallResult struct {
	Contract Address
	Network  string
	Method   string
	Params   []ParamResult
	Error    string
}
