package util

import (
	"fmt"
	"strings"

	bsccommon "github.com/tranvictor/bscscope/common"
	"github.com/tranvictor/bscscope/ui"
)

const paramIndent = "  "

// ── Severity helpers ─────────────────────────────────────────────────────────

// styledAddress wraps a common.Address in a StyledText.
// Known addresses (non-empty, non-"unknown" description) are Success (green);
// unknown ones are Warn (yellow) so they stand out without being alarming.
func styledAddress(addr bsccommon.Address) ui.StyledText {
	text := bsccommon.PlainAddress(addr)
	if addr.Desc == "" || addr.Desc == "unknown" {
		return ui.StyledText{Text: text, Severity: ui.SeverityWarn}
	}
	return ui.StyledText{Text: text, Severity: ui.SeveritySuccess}
}

// StyledAddress exposes the address styling rule to command code that builds
// its own display models.
func StyledAddress(addr bsccommon.Address) ui.StyledText {
	return styledAddress(addr)
}

// styledValue wraps a common.Value in a StyledText.
// Address values inherit their severity from styledAddress; an address that
// was never resolved is rendered raw with Warn. All other values are
// SeverityInfo (plain).
func styledValue(v bsccommon.Value) ui.StyledText {
	if v.Kind == bsccommon.DisplayAddress {
		if v.Address == nil {
			return ui.StyledText{Text: v.Raw, Severity: ui.SeverityWarn}
		}
		return styledAddress(*v.Address)
	}
	return ui.StyledText{Text: bsccommon.PlainValue(v), Severity: ui.SeverityInfo}
}

// ── Build phase (pure: no UI side-effects) ──────────────────────────────────

func buildParamDisplay(param bsccommon.ParamResult) ParamDisplay {
	d := ParamDisplay{Name: param.Name, Type: param.Type}
	for _, v := range param.Value {
		d.Values = append(d.Values, styledValue(v))
	}
	for _, tuple := range param.Tuples {
		td := TupleDisplay{}
		for _, field := range tuple.Fields {
			td.Fields = append(td.Fields, buildParamDisplay(field))
		}
		d.Tuples = append(d.Tuples, td)
	}
	return d
}

func buildFunctionCallDisplay(fc *bsccommon.FunctionCallResult) *FunctionCallDisplay {
	d := &FunctionCallDisplay{
		Contract: styledAddress(fc.Contract),
		Method:   fc.Method,
		Error:    fc.Error,
	}
	for _, param := range fc.Params {
		d.Params = append(d.Params, buildParamDisplay(param))
	}
	return d
}

// ── Print phase (reads only from the display structs) ───────────────────────

// scalarRows returns the [label, value] rows for a scalar param. Multi-value
// params (arrays) get one row per element with a 1-based suffix on the label.
func scalarRows(u ui.UI, d ParamDisplay, prefix string) [][]string {
	label := prefix + fmt.Sprintf("%s (%s)", d.Name, d.Type)
	if len(d.Values) == 0 {
		return [][]string{{label, ""}}
	}
	if len(d.Values) == 1 {
		return [][]string{{label, u.Style(d.Values[0])}}
	}
	rows := make([][]string, len(d.Values))
	for i, v := range d.Values {
		rows[i] = []string{fmt.Sprintf("%s [%d]", label, i+1), u.Style(v)}
	}
	return rows
}

// paramRows renders one param into table rows. Struct params produce a
// label-only header row followed by their fields indented one level; struct
// arrays additionally tag each element's first row with its "[i]" index and
// align the element's remaining rows under it.
func paramRows(u ui.UI, d ParamDisplay, prefix string) [][]string {
	if d.Tuples == nil {
		return scalarRows(u, d, prefix)
	}

	label := prefix + fmt.Sprintf("%s (%s)", d.Name, d.Type)
	rows := [][]string{{label, ""}}

	if len(d.Tuples) == 1 {
		for _, f := range d.Tuples[0].Fields {
			rows = append(rows, paramRows(u, f, prefix+paramIndent)...)
		}
		return rows
	}

	for i, tuple := range d.Tuples {
		elemPrefix := fmt.Sprintf("[%d] ", i)
		contPrefix := prefix + paramIndent + strings.Repeat(" ", len(elemPrefix))
		for fi, f := range tuple.Fields {
			fRows := paramRows(u, f, contPrefix)
			if fi == 0 && len(fRows) > 0 {
				fRows[0][0] = prefix + paramIndent + elemPrefix + strings.TrimPrefix(fRows[0][0], contPrefix)
			}
			rows = append(rows, fRows...)
		}
	}
	return rows
}

// paramGroups batches consecutive scalar params into one group and gives
// every struct param a group of its own, so the rendered table separates
// logical blocks with divider lines.
func paramGroups(u ui.UI, displays []ParamDisplay) [][][]string {
	groups := [][][]string{}
	current := [][]string{}
	for _, d := range displays {
		if d.Tuples == nil {
			current = append(current, scalarRows(u, d, "")...)
			continue
		}
		if len(current) > 0 {
			groups = append(groups, current)
			current = [][]string{}
		}
		groups = append(groups, paramRows(u, d, ""))
	}
	if len(current) > 0 {
		groups = append(groups, current)
	}
	return groups
}

func printFunctionCallDisplay(u ui.UI, d *FunctionCallDisplay) {
	if d.Method == "" {
		u.Error("Cannot decode input: %s", d.Error)
		return
	}
	u.Section(fmt.Sprintf("Decoded input: %s", d.Method))
	meta := [][]string{{"Contract", u.Style(d.Contract)}}
	groups := append([][][]string{meta}, paramGroups(u, d.Params)...)
	u.TableWithGroups([]string{"Parameter", "Value"}, groups)
}

func printContractDisplay(u ui.UI, d *ContractDisplay) {
	rows := [][2]string{}
	if d.Name != "" {
		rows = append(rows, [2]string{"Name", d.Name})
	}
	if d.Compiler != "" {
		rows = append(rows, [2]string{"Compiler", d.Compiler})
	}
	rows = append(rows, [2]string{"Verified", fmt.Sprintf("%t", d.Verified)})
	if d.Proxy {
		rows = append(rows, [2]string{"Proxy", "true"})
		if d.Implementation.Text != "" {
			rows = append(rows, [2]string{"Implementation", u.Style(d.Implementation)})
		}
	}
	u.KeyValue(rows)

	if d.Description != "" {
		u.Info("Description:")
		fmt.Fprintln(u.Indent().Writer(), d.Description)
	}
	if d.Error != "" {
		u.Error("%s", d.Error)
	}
	if len(d.Functions) > 0 {
		u.Info("Functions:")
		fu := u.Indent()
		for _, sig := range d.Functions {
			fu.Info("%s", sig)
		}
	}
}

// ── Public API ───────────────────────────────────────────────────────────────

// DisplayParams builds the human-readable view-models for a list of decoded
// ABI parameters and renders them as a single grouped table on u.
func DisplayParams(u ui.UI, params []bsccommon.ParamResult) []ParamDisplay {
	displays := make([]ParamDisplay, 0, len(params))
	for _, p := range params {
		displays = append(displays, buildParamDisplay(p))
	}
	groups := paramGroups(u, displays)
	if len(groups) > 0 {
		u.TableWithGroups([]string{"Parameter", "Value"}, groups)
	}
	return displays
}

// DisplayFunctionCall builds the human-readable view-model for a decoded
// function call and writes it to u. A failed decode renders as a single
// error line.
func DisplayFunctionCall(u ui.UI, fc *bsccommon.FunctionCallResult) *FunctionCallDisplay {
	d := buildFunctionCallDisplay(fc)
	printFunctionCallDisplay(u, d)
	return d
}

// DisplayContract writes the metadata card, description, and function list
// of one inspected contract to u. The returned display serializes cleanly to
// JSON (StyledText fields marshal as plain strings).
func DisplayContract(u ui.UI, d *ContractDisplay) *ContractDisplay {
	printContractDisplay(u, d)
	return d
}
