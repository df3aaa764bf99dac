package common_test

import (
	"testing"

	bsccommon "github.com/tranvictor/bscscope/common"
)

func TestReadableNumber(t *testing.T) {
	cases := []struct {
		value string
		want  string
	}{
		{"0", "0"},
		{"1234", "1234"},
		{"12345", "12345 (12￺345)"},
		{"1500000", "1500000 (1￺500￺000)"},
		{"1000000000", "1000000000 (1‸000￺000￺000)"},
	}
	for _, c := range cases {
		if got := bsccommon.ReadableNumber(c.value); got != c.want {
			t.Errorf("ReadableNumber(%s): want %q, got %q", c.value, c.want, got)
		}
	}
}

func TestPlainAddress(t *testing.T) {
	cases := []struct {
		addr bsccommon.Address
		want string
	}{
		{bsccommon.Address{}, ""},
		{
			bsccommon.Address{Address: "0x9642b23Ed1E01Df1092B92641051881a322F5D4E"},
			"0x9642b23Ed1E01Df1092B92641051881a322F5D4E",
		},
		{
			bsccommon.Address{Address: "0x9642b23Ed1E01Df1092B92641051881a322F5D4E", Desc: "Fee Collector"},
			"0x9642b23Ed1E01Df1092B92641051881a322F5D4E (Fee Collector)",
		},
		{
			bsccommon.Address{Address: "0x9642b23Ed1E01Df1092B92641051881a322F5D4E", Desc: "BUSD", Decimal: 18},
			"0x9642b23Ed1E01Df1092B92641051881a322F5D4E (BUSD - 18)",
		},
	}
	for _, c := range cases {
		if got := bsccommon.PlainAddress(c.addr); got != c.want {
			t.Errorf("PlainAddress(%+v): want %q, got %q", c.addr, c.want, got)
		}
	}
}

func TestPlainValue(t *testing.T) {
	addr := bsccommon.Address{
		Address: "0x9642b23Ed1E01Df1092B92641051881a322F5D4E",
		Desc:    "Fee Collector",
	}
	cases := []struct {
		value bsccommon.Value
		want  string
	}{
		{bsccommon.RawValue("hello"), "hello"},
		{bsccommon.IntegerValue("25"), "25"},
		{
			bsccommon.IntegerValue("1500000"),
			"1500000 (1￺500￺000)",
		},
		{
			// an unresolved address keeps its raw form
			bsccommon.Value{Raw: "0x9642b23Ed1E01Df1092B92641051881a322F5D4E", Kind: bsccommon.DisplayAddress},
			"0x9642b23Ed1E01Df1092B92641051881a322F5D4E",
		},
		{
			bsccommon.AddressValue("0x9642b23Ed1E01Df1092B92641051881a322F5D4E", addr),
			"0x9642b23Ed1E01Df1092B92641051881a322F5D4E (Fee Collector)",
		},
		{
			bsccommon.TokenValue("1500000000000000000", bsccommon.Token{Symbol: "BUSD", Decimal: 18}),
			"1500000000000000000 (1.5 BUSD)",
		},
		{
			bsccommon.TokenValue("1500000000000000000", bsccommon.Token{Decimal: 18}),
			"1500000000000000000 (1.5)",
		},
	}
	for _, c := range cases {
		if got := bsccommon.PlainValue(c.value); got != c.want {
			t.Errorf("PlainValue(%+v): want %q, got %q", c.value, c.want, got)
		}
	}
}

func TestPlainValues(t *testing.T) {
	got := bsccommon.PlainValues([]bsccommon.Value{
		bsccommon.RawValue("true"),
		bsccommon.IntegerValue("7"),
	})
	if len(got) != 2 || got[0] != "true" || got[1] != "7" {
		t.Errorf("PlainValues: got %v", got)
	}
}
