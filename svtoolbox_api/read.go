package svtoolbox_api

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/biogo/hts/bgzf"
)

// ReadVcf opens a plain, gzip or bgzip compressed VCF file and parses it
// Use "-" to read from stdin
func ReadVcf(path string) (*VCF, error) {
	input, err := openVcf(path)
	if err != nil {
		return nil, err
	}
	defer input.Close()

	return ParseVcf(input)
}

// openVcf opens a VCF file for reading, decompressing it when needed
func openVcf(path string) (io.ReadCloser, error) {
	if path == "-" {
		return decompress(bufio.NewReader(os.Stdin), nil)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vcf file: %w", err)
	}

	// bgzip files are gzip files too, try the BGZF reader first
	magic := make([]byte, 2)
	if _, err := io.ReadFull(file, magic); err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		file.Close()
		return nil, fmt.Errorf("read vcf file: %w", err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		file.Close()
		return nil, fmt.Errorf("seek vcf file: %w", err)
	}
	if isGzip(magic) {
		if bgReader, err := bgzf.NewReader(file, 1); err == nil {
			return &readCloser{Reader: bgReader, closers: []io.Closer{bgReader, file}}, nil
		}
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			file.Close()
			return nil, fmt.Errorf("seek vcf file: %w", err)
		}
	}

	input, err := decompress(bufio.NewReader(file), file)
	if err != nil {
		file.Close()
		return nil, err
	}
	return input, nil
}

// Wrap the reader in a gzip reader when the stream starts with the gzip magic bytes
func decompress(r *bufio.Reader, underlying io.Closer) (io.ReadCloser, error) {
	magic, _ := r.Peek(2)
	if !isGzip(magic) {
		return &readCloser{Reader: r, closers: []io.Closer{underlying}}, nil
	}
	gzReader, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("create gzip reader: %w", err)
	}
	return &readCloser{Reader: gzReader, closers: []io.Closer{gzReader, underlying}}, nil
}

func isGzip(magic []byte) bool {
	return len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b
}

type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (rc *readCloser) Close() error {
	var first error
	for _, c := range rc.closers {
		if c == nil {
			continue
		}
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// ParseVcf reads a VCF stream in a single pass and returns its variants in input order
// Any malformed line fails the whole parse
func ParseVcf(r io.Reader) (*VCF, error) {
	vcf := NewVCF()

	scanner := bufio.NewScanner(r)
	const maxCapacity = 8 * 1000000 // 8 MB
	scanner.Buffer(make([]byte, 0, 64*1024), maxCapacity)

	lineNumber := 0
	inData := false
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "#") {
			if inData {
				return nil, &ParseError{Line: lineNumber, Kind: ErrMalformedRecord, Message: "header line found after the first variant"}
			}
			if err := vcf.Header.parse(line); err != nil {
				return nil, &ParseError{Line: lineNumber, Kind: ErrMalformedRecord, Message: err.Error()}
			}
			continue
		}

		inData = true
		variant, err := createVariant(line, vcf.Header)
		if err != nil {
			return nil, &ParseError{Line: lineNumber, Kind: ErrMalformedRecord, Message: err.Error()}
		}
		if _, ok := vcf.Variants[variant.id]; ok {
			return nil, &ParseError{Line: lineNumber, Kind: ErrDuplicateIdentifier, Message: fmt.Sprintf("ID %s was already used", variant.id)}
		}
		vcf.add(variant)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read vcf: %w", err)
	}
	return vcf, nil
}

// Parse the line and create a Variant from it
func createVariant(line string, header *Header) (*Variant, error) {
	data := strings.Split(line, "\t")
	if header.Columns > 0 && len(data) != header.Columns {
		return nil, fmt.Errorf("expected %d columns, found %d", header.Columns, len(data))
	}
	if len(data) < 8 {
		return nil, fmt.Errorf("expected at least 8 columns, found %d", len(data))
	}

	pos, err := strconv.ParseInt(data[1], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid position: %s", data[1])
	}

	variant := &Variant{
		chromosome: data[0],
		pos:        pos,
		id:         data[2],
		Ref:        data[3],
		Alt:        data[4],
		Qual:       data[5],
		Filter:     data[6],
		Header:     header,
		Info:       newInfoMap(),
		Rest:       data[8:],
	}

	if err := variant.parseInfo(data[7]); err != nil {
		return nil, err
	}
	return variant, nil
}

// Split the INFO column into its fields, every field has to be declared in the header
func (v *Variant) parseInfo(column string) error {
	if column == "." {
		return nil
	}
	if column == "" {
		return fmt.Errorf("empty INFO column in variant %s", v.id)
	}

	for _, field := range strings.Split(column, ";") {
		key, value, hasValue := strings.Cut(field, "=")
		if key == "" {
			return fmt.Errorf("empty INFO key in variant %s", v.id)
		}
		declaration, ok := v.Header.Info[key]
		if !ok {
			return fmt.Errorf("INFO/%s of variant %s is not defined in the header", key, v.id)
		}
		isFlag := infoTypeOf(declaration.Type) == InfoFlag
		if isFlag && hasValue {
			return fmt.Errorf("flag INFO/%s of variant %s has a value", key, v.id)
		}
		if !isFlag && !hasValue {
			return fmt.Errorf("INFO/%s of variant %s has no value", key, v.id)
		}
		if v.Info.Has(key) {
			return fmt.Errorf("INFO/%s is given twice in variant %s", key, v.id)
		}
		v.Info.set(key, infoEntry{value: value, flag: isFlag})
	}
	return nil
}

// NewVCF initializes an empty VCF
func NewVCF() *VCF {
	return &VCF{
		Header:   newHeader(),
		Variants: map[string]*Variant{},
	}
}

func (vcf *VCF) add(variant *Variant) {
	vcf.Variants[variant.id] = variant
	vcf.order = append(vcf.order, variant.id)
}

// Get returns the variant with the given ID
func (vcf *VCF) Get(id string) (*Variant, bool) {
	variant, ok := vcf.Variants[id]
	return variant, ok
}

// Len returns the amount of variants
func (vcf *VCF) Len() int {
	return len(vcf.order)
}

// Ids returns the variant IDs in input order
func (vcf *VCF) Ids() []string {
	return append([]string(nil), vcf.order...)
}

// List returns the variants in input order
func (vcf *VCF) List() []*Variant {
	variants := make([]*Variant, len(vcf.order))
	for i, id := range vcf.order {
		variants[i] = vcf.Variants[id]
	}
	return variants
}
