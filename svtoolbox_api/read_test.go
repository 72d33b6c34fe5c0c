package svtoolbox_api

import (
	"bytes"
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/biogo/hts/bgzf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testHeader = "##fileformat=VCFv4.2\n" +
	"##source=svtoolbox_test\n" +
	"##contig=<ID=chr1,length=248956422>\n" +
	`##ALT=<ID=DEL,Description="Deletion">` + "\n" +
	`##FILTER=<ID=PASS,Description="All filters passed">` + "\n" +
	`##INFO=<ID=SVTYPE,Number=1,Type=String,Description="Type of structural variant">` + "\n" +
	`##INFO=<ID=END,Number=1,Type=Integer,Description="End position of the variant">` + "\n" +
	`##INFO=<ID=SVLEN,Number=.,Type=Integer,Description="Difference in length between REF and ALT, in bases">` + "\n" +
	`##INFO=<ID=CHR2,Number=1,Type=String,Description="Chromosome of the second breakpoint">` + "\n" +
	`##INFO=<ID=CONTIG,Number=1,Type=String,Description="Assembled contig sequence">` + "\n" +
	`##INFO=<ID=IMPRECISE,Number=0,Type=Flag,Description="Imprecise structural variation">` + "\n" +
	`##INFO=<ID=HOMSEQ,Number=.,Type=String,Description="Sequence of base pair identical homology">` + "\n" +
	`##INFO=<ID=AF,Number=A,Type=Float,Description="Allele frequency">` + "\n" +
	`##INFO=<ID=CIPOS,Number=2,Type=integer,Description="Confidence interval around POS">` + "\n" +
	`##INFO=<ID=STRAND,Number=1,Type=Character,Description="Strand">` + "\n" +
	"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n"

func parseTestVcf(t *testing.T, body string) *VCF {
	t.Helper()
	vcf, err := ParseVcf(strings.NewReader(testHeader + body))
	require.NoError(t, err)
	return vcf
}

func TestParseVcf_Breakend(t *testing.T) {
	vcf := parseTestVcf(t, "chr1\t1000\tSV1\tN\tN]chr2:5000]\t.\t.\tSVTYPE=BND\n")

	require.Equal(t, 1, vcf.Len())
	variant, ok := vcf.Get("SV1")
	require.True(t, ok)
	assert.Equal(t, "SV1", variant.Id())
	assert.Equal(t, "chr1", variant.Chromosome())
	assert.Equal(t, int64(1000), variant.Pos())
	assert.Equal(t, "N", variant.Ref)
	assert.Equal(t, "N]chr2:5000]", variant.Alt)

	svtype, err := variant.GetInfo("SVTYPE")
	require.NoError(t, err)
	assert.Equal(t, "BND", svtype.Value())
}

func TestParseVcf_Header(t *testing.T) {
	vcf := parseTestVcf(t, "")

	header := vcf.Header
	assert.Equal(t, 8, header.Columns)
	assert.Len(t, header.Info, 10)
	assert.Equal(t, "Integer", header.Info["CIPOS"].Type)
	assert.Equal(t, "Difference in length between REF and ALT, in bases", header.Info["SVLEN"].Description)
	assert.Equal(t, "0", header.Info["IMPRECISE"].Number)
	assert.Equal(t, []HeaderLineIdLength{{Id: "chr1", Length: 248956422}}, header.Contig)
	assert.Equal(t, "Deletion", header.Alt["DEL"].Description)
	assert.Contains(t, header.Filter, "PASS")
	assert.Equal(t, []string{"##fileformat=VCFv4.2", "##source=svtoolbox_test"}, header.Other)
	assert.Len(t, header.Lines, strings.Count(testHeader, "\n"))
}

func TestParseVcf_OrderPreservation(t *testing.T) {
	vcf := parseTestVcf(t,
		"chr1\t300\tv3\tA\t<DEL>\t.\tPASS\tSVTYPE=DEL;END=400\n"+
			"chr1\t100\tv1\tA\t<DEL>\t.\tPASS\tSVTYPE=DEL;END=200\n"+
			"chr1\t200\tv2\tA\t<DEL>\t.\tPASS\tSVTYPE=DEL;END=300\n")

	assert.Equal(t, []string{"v3", "v1", "v2"}, vcf.Ids())
	ids := []string{}
	for _, variant := range vcf.List() {
		ids = append(ids, variant.Id())
	}
	assert.Equal(t, []string{"v3", "v1", "v2"}, ids)
}

func TestParseVcf_RoundTrip(t *testing.T) {
	lines := []string{
		"chr1\t1000\tSV1\tN\tN]chr2:5000]\t.\t.\tSVTYPE=BND",
		"chr1\t2000\tSV2\tA\t<DEL>\t55.50\tPASS\tSVTYPE=DEL;END=2500;SVLEN=-500;IMPRECISE;CIPOS=-10,10",
		"chr1\t3000\tSV3\tA\t<INS>\t.\tLowQual\tIMPRECISE;SVTYPE=INS;HOMSEQ=AC,GT;AF=0.50",
		"chr1\t4000\tSV4\tA\tA[chr3:100[\t12\tPASS\t.",
	}
	vcf := parseTestVcf(t, strings.Join(lines, "\n")+"\n")

	require.Equal(t, len(lines), vcf.Len())
	for i, variant := range vcf.List() {
		assert.Equal(t, lines[i], variant.String())
	}
}

func TestParseVcf_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		kind error
		line int
	}{
		{
			name: "missing column",
			body: "chr1\t1000\tSV1\tN\t<DEL>\t.\tSVTYPE=DEL\n",
			kind: ErrMalformedRecord,
			line: 17,
		},
		{
			name: "extra column",
			body: "chr1\t1000\tSV1\tN\t<DEL>\t.\t.\tSVTYPE=DEL\tGT\n",
			kind: ErrMalformedRecord,
			line: 17,
		},
		{
			name: "non integer position",
			body: "chr1\t10a0\tSV1\tN\t<DEL>\t.\t.\tSVTYPE=DEL\n",
			kind: ErrMalformedRecord,
			line: 17,
		},
		{
			name: "undeclared info key",
			body: "chr1\t1000\tSV1\tN\t<DEL>\t.\t.\tSVTYPE=DEL;MATEID=SV2\n",
			kind: ErrMalformedRecord,
			line: 17,
		},
		{
			name: "flag with a value",
			body: "chr1\t1000\tSV1\tN\t<DEL>\t.\t.\tIMPRECISE=1\n",
			kind: ErrMalformedRecord,
			line: 17,
		},
		{
			name: "missing value",
			body: "chr1\t1000\tSV1\tN\t<DEL>\t.\t.\tSVTYPE\n",
			kind: ErrMalformedRecord,
			line: 17,
		},
		{
			name: "duplicate identifier",
			body: "chr1\t1000\tSV1\tN\t<DEL>\t.\t.\tSVTYPE=DEL\nchr1\t2000\tSV1\tN\t<DEL>\t.\t.\tSVTYPE=DEL\n",
			kind: ErrDuplicateIdentifier,
			line: 18,
		},
		{
			name: "header after data",
			body: "chr1\t1000\tSV1\tN\t<DEL>\t.\t.\tSVTYPE=DEL\n##source=late\n",
			kind: ErrMalformedRecord,
			line: 18,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vcf, err := ParseVcf(strings.NewReader(testHeader + tt.body))
			require.Error(t, err)
			assert.Nil(t, vcf)
			assert.True(t, errors.Is(err, tt.kind), "expected %v, got %v", tt.kind, err)

			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr))
			assert.Equal(t, tt.line, parseErr.Line)
		})
	}
}

func TestParseVcf_WithoutColumnHeader(t *testing.T) {
	header := `##INFO=<ID=SVTYPE,Number=1,Type=String,Description="Type">` + "\n"
	vcf, err := ParseVcf(strings.NewReader(header + "chr1\t1000\tSV1\tN\t<DEL>\t.\t.\tSVTYPE=DEL\tGT\t0/1\n"))
	require.NoError(t, err)

	variant, ok := vcf.Get("SV1")
	require.True(t, ok)
	assert.Equal(t, []string{"GT", "0/1"}, variant.Rest)
	assert.Equal(t, "chr1\t1000\tSV1\tN\t<DEL>\t.\t.\tSVTYPE=DEL\tGT\t0/1", variant.String())
}

func TestReadVcf_Compression(t *testing.T) {
	content := testHeader + "chr1\t1000\tSV1\tN\tN]chr2:5000]\t.\t.\tSVTYPE=BND;CONTIG=ACGT\n"
	dir := t.TempDir()

	plain := filepath.Join(dir, "plain.vcf")
	require.NoError(t, os.WriteFile(plain, []byte(content), 0o644))

	var gzBuf bytes.Buffer
	gzWriter := gzip.NewWriter(&gzBuf)
	_, err := gzWriter.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, gzWriter.Close())
	gzipped := filepath.Join(dir, "gzipped.vcf.gz")
	require.NoError(t, os.WriteFile(gzipped, gzBuf.Bytes(), 0o644))

	var bgzfBuf bytes.Buffer
	bgzfWriter := bgzf.NewWriter(&bgzfBuf, 1)
	_, err = bgzfWriter.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, bgzfWriter.Close())
	bgzipped := filepath.Join(dir, "bgzipped.vcf.gz")
	require.NoError(t, os.WriteFile(bgzipped, bgzfBuf.Bytes(), 0o644))

	for _, path := range []string{plain, gzipped, bgzipped} {
		t.Run(filepath.Base(path), func(t *testing.T) {
			vcf, err := ReadVcf(path)
			require.NoError(t, err)
			require.Equal(t, []string{"SV1"}, vcf.Ids())
			assert.Equal(t, "chr1\t1000\tSV1\tN\tN]chr2:5000]\t.\t.\tSVTYPE=BND;CONTIG=ACGT", vcf.Variants["SV1"].String())
		})
	}
}

func TestReadVcf_MissingFile(t *testing.T) {
	_, err := ReadVcf(filepath.Join(t.TempDir(), "missing.vcf"))
	assert.Error(t, err)
}
