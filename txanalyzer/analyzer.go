package txanalyzer

import (
	"fmt"
	"reflect"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	bsccommon "github.com/tranvictor/bscscope/common"
)

// AnalyzeMethodCall decodes raw calldata against the given ABI. It returns the
// resolved method name and the decoded parameters. The parameters carry only
// display kind hints, address descriptions and token metadata are attached
// later by AnalysisContext enrichment.
func AnalyzeMethodCall(a *abi.ABI, data []byte) (method string, params []bsccommon.ParamResult, err error) {
	m, err := a.MethodById(data)
	if err != nil {
		return "", nil, fmt.Errorf("method lookup: %w", err)
	}
	values, err := m.Inputs.UnpackValues(data[4:])
	if err != nil {
		return m.Name, nil, fmt.Errorf("unpacking %s params: %w", m.Name, err)
	}
	return m.Name, ParamsFromArguments(m.Inputs, values), nil
}

// ParamsFromArguments pairs a list of unpacked values with their argument
// definitions. It works for both method inputs and method outputs.
func ParamsFromArguments(args abi.Arguments, values []interface{}) []bsccommon.ParamResult {
	params := []bsccommon.ParamResult{}
	for i, arg := range args {
		if i >= len(values) {
			break
		}
		params = append(params, paramResult(arg.Name, arg.Type, values[i]))
	}
	return params
}

func paramResult(name string, t abi.Type, value interface{}) bsccommon.ParamResult {
	if t.T == abi.TupleTy {
		bsccommon.DebugPrintf("decoding struct param %s (%s)\n", name, t.TupleRawName)
		return bsccommon.ParamResult{
			Name:   name,
			Type:   t.TupleRawName,
			Tuples: []bsccommon.TupleResult{tupleFields(t, value)},
		}
	}
	if (t.T == abi.SliceTy || t.T == abi.ArrayTy) && t.Elem.T == abi.TupleTy {
		realVal := reflect.ValueOf(value)
		tuples := []bsccommon.TupleResult{}
		for i := 0; i < realVal.Len(); i++ {
			tuples = append(tuples, tupleFields(*t.Elem, realVal.Index(i).Interface()))
		}
		return bsccommon.ParamResult{Name: name, Type: t.String(), Tuples: tuples}
	}
	return bsccommon.ParamResult{Name: name, Type: t.String(), Value: paramAsValues(t, value)}
}

// tupleFields walks one decoded struct instance. Unpacked tuples surface as
// reflect-built structs whose field names are the camel-cased component names.
func tupleFields(t abi.Type, value interface{}) bsccommon.TupleResult {
	realVal := reflect.Indirect(reflect.ValueOf(value))
	fields := []bsccommon.ParamResult{}
	for i, elem := range t.TupleElems {
		fieldVal := realVal.FieldByName(abi.ToCamelCase(t.TupleRawNames[i]))
		fields = append(fields, paramResult(t.TupleRawNames[i], *elem, fieldVal.Interface()))
	}
	return bsccommon.TupleResult{Fields: fields}
}

// paramAsValues flattens a decoded value into display values, recursing
// through slices and arrays.
func paramAsValues(t abi.Type, value interface{}) []bsccommon.Value {
	switch t.T {
	case abi.SliceTy, abi.ArrayTy:
		realVal := reflect.ValueOf(value)
		result := []bsccommon.Value{}
		for i := 0; i < realVal.Len(); i++ {
			result = append(result, paramAsValues(*t.Elem, realVal.Index(i).Interface())...)
		}
		return result
	default:
		return []bsccommon.Value{nonArrayParamAsValue(t, value)}
	}
}

func nonArrayParamAsValue(t abi.Type, value interface{}) bsccommon.Value {
	switch t.T {
	case abi.StringTy: // variable arrays are written at the end of the return bytes
		return bsccommon.RawValue(value.(string))
	case abi.IntTy, abi.UintTy:
		return bsccommon.IntegerValue(fmt.Sprintf("%d", value))
	case abi.BoolTy:
		return bsccommon.RawValue(fmt.Sprintf("%t", value.(bool)))
	case abi.AddressTy:
		return bsccommon.Value{Raw: value.(common.Address).Hex(), Kind: bsccommon.DisplayAddress}
	case abi.HashTy:
		return bsccommon.RawValue(value.(common.Hash).Hex())
	case abi.BytesTy:
		return bsccommon.RawValue(fmt.Sprintf("0x%s", common.Bytes2Hex(value.([]byte))))
	case abi.FixedBytesTy:
		word := []byte{}
		for i := 0; i < int(reflect.TypeOf(value).Size()); i++ {
			word = append(word, byte(0))
		}
		reflect.Copy(reflect.ValueOf(word), reflect.ValueOf(value))
		return bsccommon.RawValue(fmt.Sprintf("0x%s", common.Bytes2Hex(word)))
	case abi.FunctionTy:
		return bsccommon.RawValue(fmt.Sprintf("0x%s", common.Bytes2Hex(value.([]byte))))
	default:
		return bsccommon.RawValue(fmt.Sprintf("%v", value))
	}
}
