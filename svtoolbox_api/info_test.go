package svtoolbox_api

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testVariant(t *testing.T, info string) *Variant {
	t.Helper()
	vcf := parseTestVcf(t, "chr1\t2000\tSV2\tA\t<DEL>\t.\tPASS\t"+info+"\n")
	return vcf.Variants["SV2"]
}

func TestGetInfo_Types(t *testing.T) {
	variant := testVariant(t, "SVTYPE=DEL;END=2500;SVLEN=-500,-10;IMPRECISE;HOMSEQ=AC,GT;AF=0.25;CIPOS=-10,10;STRAND=+")

	tests := []struct {
		key      string
		infoType InfoType
		list     bool
		value    any
		raw      string
	}{
		{"SVTYPE", InfoString, false, "DEL", "DEL"},
		{"END", InfoInteger, false, int64(2500), "2500"},
		{"SVLEN", InfoInteger, true, []int64{-500, -10}, "-500,-10"},
		{"IMPRECISE", InfoFlag, false, true, "true"},
		{"HOMSEQ", InfoString, true, []string{"AC", "GT"}, "AC,GT"},
		{"AF", InfoFloat, true, []float64{0.25}, "0.25"},
		{"CIPOS", InfoInteger, true, []int64{-10, 10}, "-10,10"},
		{"STRAND", InfoCharacter, false, "+", "+"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			value, err := variant.GetInfo(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.infoType, value.Type)
			assert.Equal(t, tt.list, value.List)
			assert.Equal(t, tt.value, value.Value())
			assert.Equal(t, tt.raw, value.String())
		})
	}
}

func TestGetInfo_Missing(t *testing.T) {
	variant := testVariant(t, "SVTYPE=DEL")

	for _, key := range []string{"END", "IMPRECISE", "NOT_IN_HEADER"} {
		_, err := variant.GetInfo(key)
		assert.True(t, errors.Is(err, ErrInfoFieldNotFound), "key %s: %v", key, err)
	}

	_, ok, err := variant.LookupInfo("END")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetInfo_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		info string
		key  string
	}{
		{"integer", "END=25a0", "END"},
		{"float", "AF=high", "AF"},
		{"too many values", "SVTYPE=DEL,INS", "SVTYPE"},
		{"fixed count", "CIPOS=-10", "CIPOS"},
		{"character", "STRAND=+-", "STRAND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			variant := testVariant(t, tt.info)
			_, err := variant.GetInfo(tt.key)
			assert.True(t, errors.Is(err, ErrMalformedRecord), "%v", err)
		})
	}
}

func TestGetInfo_MissingFloat(t *testing.T) {
	variant := testVariant(t, "AF=.,0.5")

	value, err := variant.GetInfo("AF")
	require.NoError(t, err)
	require.Len(t, value.Floats(), 2)
	assert.True(t, math.IsNaN(value.Floats()[0]))
	assert.Equal(t, 0.5, value.Floats()[1])
}

func TestSetInfo_FlagIdempotence(t *testing.T) {
	variant := testVariant(t, "SVTYPE=DEL")

	require.NoError(t, variant.SetInfo("IMPRECISE", true))
	require.NoError(t, variant.SetInfo("IMPRECISE", true))
	assert.Equal(t, "SVTYPE=DEL;IMPRECISE", variant.Info.String())

	require.NoError(t, variant.SetInfo("IMPRECISE", false))
	assert.Equal(t, "SVTYPE=DEL", variant.Info.String())
	assert.False(t, variant.HasInfo("IMPRECISE"))
}

func TestSetInfo_OrderAndOverwrite(t *testing.T) {
	variant := testVariant(t, "SVTYPE=DEL;END=2500")

	require.NoError(t, variant.SetInfo("SVTYPE", "INS"))
	require.NoError(t, variant.SetInfo("SVLEN", []int64{-500}))
	require.NoError(t, variant.SetInfo("AF", 0.1))
	require.NoError(t, variant.SetInfo("HOMSEQ", []string{"A", "C"}))
	require.NoError(t, variant.SetInfo("STRAND", '-'))

	assert.Equal(t, []string{"SVTYPE", "END", "SVLEN", "AF", "HOMSEQ", "STRAND"}, variant.Info.Keys())
	assert.Equal(t, "SVTYPE=INS;END=2500;SVLEN=-500;AF=0.1;HOMSEQ=A,C;STRAND=-", variant.Info.String())

	variant.RemoveInfo("END")
	assert.Equal(t, "SVTYPE=INS;SVLEN=-500;AF=0.1;HOMSEQ=A,C;STRAND=-", variant.Info.String())
}

func TestSetInfo_RoundTrip(t *testing.T) {
	variant := testVariant(t, ".")

	values := map[string]any{
		"END":    int64(123456789),
		"SVLEN":  []int{-5, 7},
		"AF":     []float64{1.0 / 3.0, 2.5e-8},
		"SVTYPE": "BND",
		"CIPOS":  []int64{-3, 3},
	}
	for key, value := range values {
		require.NoError(t, variant.SetInfo(key, value), key)
	}

	end, err := variant.GetInfo("END")
	require.NoError(t, err)
	assert.Equal(t, int64(123456789), end.Int())

	svlen, err := variant.GetInfo("SVLEN")
	require.NoError(t, err)
	assert.Equal(t, []int64{-5, 7}, svlen.Ints())

	af, err := variant.GetInfo("AF")
	require.NoError(t, err)
	assert.Equal(t, []float64{1.0 / 3.0, 2.5e-8}, af.Floats())

	svtype, err := variant.GetInfo("SVTYPE")
	require.NoError(t, err)
	require.NoError(t, variant.SetInfo("SVTYPE", svtype))
	assert.Equal(t, "BND", svtype.Value())
}

func TestSetInfo_Errors(t *testing.T) {
	variant := testVariant(t, "SVTYPE=DEL")

	tests := []struct {
		name  string
		key   string
		value any
	}{
		{"undeclared", "MATEID", "SV3"},
		{"string for integer", "END", "2500"},
		{"integer for string", "SVTYPE", 5},
		{"bool for string", "SVTYPE", true},
		{"string for flag", "IMPRECISE", "yes"},
		{"list for scalar", "SVTYPE", []string{"DEL", "INS"}},
		{"wrong count", "CIPOS", []int64{1, 2, 3}},
		{"reserved character", "SVTYPE", "DEL;END=5"},
		{"empty list", "HOMSEQ", []string{}},
		{"long character", "STRAND", "+-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := variant.SetInfo(tt.key, tt.value)
			assert.True(t, errors.Is(err, ErrMalformedRecord), "%v", err)
		})
	}
	assert.Equal(t, "SVTYPE=DEL", variant.Info.String())
}

func TestInfoMap_Empty(t *testing.T) {
	variant := testVariant(t, ".")

	assert.Equal(t, 0, variant.Info.Len())
	assert.Equal(t, ".", variant.Info.String())

	require.NoError(t, variant.SetInfo("IMPRECISE", true))
	assert.Equal(t, "IMPRECISE", variant.Info.String())
}
