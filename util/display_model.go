package util

import "github.com/tranvictor/bscscope/ui"

// ParamDisplay is the human-readable view-model for a single decoded ABI
// parameter. Each value is a StyledText — the plain text serializes cleanly
// to JSON while the Severity annotation drives terminal coloring via u.Style.
type ParamDisplay struct {
	Name   string          `json:"name"`
	Type   string          `json:"type"`
	Values []ui.StyledText `json:"values,omitempty"` // serializes as []string
	Tuples []TupleDisplay  `json:"tuples,omitempty"`
}

// TupleDisplay represents one struct instance with its decoded fields. A
// parameter holding a struct array carries one TupleDisplay per element.
type TupleDisplay struct {
	Fields []ParamDisplay `json:"fields"`
}

// FunctionCallDisplay is the human-readable view-model for a decoded
// function call.
type FunctionCallDisplay struct {
	Contract ui.StyledText  `json:"contract"` // serializes as string
	Method   string         `json:"method,omitempty"`
	Params   []ParamDisplay `json:"params,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// ContractDisplay is the view-model for one inspected contract. When the
// target delegates to an implementation, the command renders one
// ContractDisplay per hop of the delegation chain.
type ContractDisplay struct {
	Address        ui.StyledText `json:"address"`
	Name           string        `json:"name,omitempty"`
	Compiler       string        `json:"compiler,omitempty"`
	Verified       bool          `json:"verified"`
	Proxy          bool          `json:"proxy"`
	Implementation ui.StyledText `json:"implementation,omitempty"`
	Functions      []string      `json:"functions,omitempty"`
	Description    string        `json:"description,omitempty"`
	Error          string        `json:"error,omitempty"`
}
