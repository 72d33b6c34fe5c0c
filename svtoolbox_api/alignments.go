package svtoolbox_api

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"
)

// A source of alignment records, both bam.Reader and sam.Reader are one
type AlignmentReader interface {
	Read() (*sam.Record, error)
}

// ReadAlignments reads a BAM (or SAM when the file ends with .sam) file
// and groups its aligned segments by query name
func ReadAlignments(path string) (AlignmentIndex, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open alignment file: %w", err)
	}
	defer file.Close()

	if strings.HasSuffix(path, ".sam") {
		samReader, err := sam.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("read sam header: %w", err)
		}
		return IndexAlignments(samReader)
	}

	bamReader, err := bam.NewReader(file, 1)
	if err != nil {
		return nil, fmt.Errorf("read bam header: %w", err)
	}
	defer bamReader.Close()
	return IndexAlignments(bamReader)
}

// IndexAlignments groups all mapped records of the reader by query name
// A record without a query name fails with ErrMissingQueryName
func IndexAlignments(reader AlignmentReader) (AlignmentIndex, error) {
	index := AlignmentIndex{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read alignment: %w", err)
		}

		segment, err := NewAlignedSegment(record)
		if err != nil {
			return nil, err
		}
		if segment.Flags&sam.Unmapped != 0 || segment.Contig == "" {
			continue
		}
		index[segment.QueryName] = append(index[segment.QueryName], segment)
	}
	return index, nil
}

// NewAlignedSegment converts a SAM record to an AlignedSegment
func NewAlignedSegment(record *sam.Record) (AlignedSegment, error) {
	if record.Name == "" || record.Name == "*" {
		return AlignedSegment{}, fmt.Errorf("%w: alignment at position %d has no query name", ErrMissingQueryName, record.Pos)
	}
	segment := AlignedSegment{
		QueryName: record.Name,
		Start:     record.Pos,
		Cigar:     record.Cigar,
		Flags:     record.Flags,
	}
	if record.Ref != nil {
		segment.Contig = record.Ref.Name()
	}
	return segment, nil
}

// End returns the 0-based exclusive end of the alignment on the reference
func (s AlignedSegment) End() int {
	end := s.Start
	for _, op := range s.Cigar {
		end += op.Len() * op.Type().Consumes().Reference
	}
	return end
}

// Junctions returns the 1-based reference positions where the alignment breaks:
// the first aligned base after a leading clip, the last aligned base before a
// trailing clip and both flanking bases of every deletion or skip of at least
// minDeletion bases
func (s AlignedSegment) Junctions(minDeletion int) []int64 {
	var junctions []int64
	refPos := s.Start
	aligned := false
	for _, op := range s.Cigar {
		length := op.Len()
		switch op.Type() {
		case sam.CigarSoftClipped, sam.CigarHardClipped:
			if !aligned {
				if len(junctions) == 0 || junctions[len(junctions)-1] != int64(s.Start+1) {
					junctions = append(junctions, int64(s.Start+1))
				}
				continue
			}
			if len(junctions) == 0 || junctions[len(junctions)-1] != int64(refPos) {
				junctions = append(junctions, int64(refPos))
			}
		case sam.CigarDeletion, sam.CigarSkipped:
			if aligned && minDeletion > 0 && length >= minDeletion {
				junctions = append(junctions, int64(refPos), int64(refPos+length+1))
			}
			refPos += length
		default:
			consumes := op.Type().Consumes()
			refPos += length * consumes.Reference
			if consumes.Query > 0 || consumes.Reference > 0 {
				aligned = true
			}
		}
	}
	return junctions
}
