package svtoolbox_api

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
)

// The INFO field set on variants supported by their contig alignments
const SupportedKey = "SUPPORTED"

// The buffered destination of a command, a file or stdout
type Output struct {
	*bufio.Writer
	file *os.File
}

// OpenOutput opens the output file, or stdout when path is empty
func OpenOutput(path string) (*Output, error) {
	if path == "" {
		return &Output{Writer: bufio.NewWriter(os.Stdout)}, nil
	}

	outputFile, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create the output file: %w", err)
	}
	return &Output{Writer: bufio.NewWriter(outputFile), file: outputFile}, nil
}

// Close flushes the output and closes the output file
func (o *Output) Close() error {
	err := o.Flush()
	if o.file != nil {
		if closeErr := o.file.Close(); err == nil {
			err = closeErr
		}
	}
	return err
}

// CreateBedpe writes every variant of the VCF file as a BEDPE line
func CreateBedpe(vcfPath string, includeFields []string, config *Config, w io.Writer, logger *zap.Logger) error {
	vcf, err := ReadVcf(vcfPath)
	if err != nil {
		return err
	}
	logger.Debug("parsed vcf", zap.String("path", vcfPath), zap.Int("variants", vcf.Len()))

	for _, variant := range vcf.List() {
		line, err := variant.FormatBedpe(includeFields, config.Score)
		if err != nil {
			return err
		}
		if err := writeLine(line, w); err != nil {
			return err
		}
	}
	return nil
}

// CreateContigsFastq writes the assembled contig of every variant that has one as a FASTQ record
func CreateContigsFastq(vcfPath string, config *Config, w io.Writer, logger *zap.Logger) error {
	vcf, err := ReadVcf(vcfPath)
	if err != nil {
		return err
	}

	written := 0
	for _, variant := range vcf.List() {
		record, ok, err := variant.ToFastq(config.QualityChar)
		if err != nil {
			return err
		}
		if !ok {
			logger.Debug("variant has no contig", zap.String("id", variant.Id()))
			continue
		}
		if err := writeLine(record, w); err != nil {
			return err
		}
		written++
	}
	logger.Debug("wrote contigs", zap.Int("contigs", written), zap.Int("variants", vcf.Len()))
	return nil
}

// ValidateVariants writes the VCF file with the SUPPORTED flag added to every
// variant whose contig alignments in the BAM file break at both of its breakpoints
func ValidateVariants(ctx context.Context, vcfPath string, bamPath string, config *Config, w io.Writer, logger *zap.Logger) error {
	index, err := ReadAlignments(bamPath)
	if err != nil {
		return err
	}
	logger.Debug("indexed alignments", zap.String("path", bamPath), zap.Int("queries", len(index)))

	vcf, err := ReadVcf(vcfPath)
	if err != nil {
		return err
	}

	return AnnotateSupport(ctx, vcf, index, config, w, logger)
}

// AnnotateSupport validates the variants of the VCF and writes the annotated VCF
func AnnotateSupport(ctx context.Context, vcf *VCF, index AlignmentIndex, config *Config, w io.Writer, logger *zap.Logger) error {
	declaration := config.supportedDeclaration()
	alreadyDeclared := vcf.Header.AddInfo(declaration)

	validator := NewValidator(index, config.ValidationOptions())
	validator.SetThreads(config.Threads)
	validator.SetLogger(logger)

	variants := vcf.List()
	supported, err := validator.ValidateAll(ctx, variants)
	if err != nil {
		return err
	}

	if err := vcf.Header.WriteWithInfo(w, declaration, alreadyDeclared); err != nil {
		return err
	}
	for i, variant := range variants {
		if supported[i] {
			if err := variant.SetInfo(SupportedKey, true); err != nil {
				return err
			}
		}
		if err := writeLine(variant.String(), w); err != nil {
			return err
		}
	}
	return nil
}
