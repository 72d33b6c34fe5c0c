package svtoolbox_api

import "github.com/biogo/hts/sam"

// The struct representing the header of the input VCF file in a parseable format
type Header struct {
	// Object containing the INFO fields with their ID, Number, Type and Description
	// The ID is the key of the map
	Info map[string]HeaderLineIdNumberTypeDescription

	// Object containing the FORMAT fields with their ID, Number, Type and Description
	// The ID is the key of the map
	Format map[string]HeaderLineIdNumberTypeDescription

	// Object containing the ALT fields with their ID and Description
	Alt map[string]HeaderLineIdDescription

	// Object containing the FILTER fields with their ID and Description
	Filter map[string]HeaderLineIdDescription

	// List of all contigs in the VCF file with their ID and Length
	Contig []HeaderLineIdLength

	// List of all other header lines that aren't parsed
	Other []string

	// List of all samples in the VCF file
	Samples []string

	// Every header line as it was read, in input order
	Lines []string

	// The number of columns announced by the #CHROM line, 0 when there is none
	Columns int
}

// A struct representing a header line in the VCF file with its ID and Description
type HeaderLineIdDescription struct {
	// The ID of the header line
	Id string

	// The description of the header line
	Description string
}

// A struct representing a header line in the VCF file with its ID, Number, Type and Description
type HeaderLineIdNumberTypeDescription struct {
	// The ID of the header line
	Id string

	// The number of values in the header line
	// Can be any integer, "A", "G", "R" or "."
	// A = one value per alternate allele
	// G = one value per possible genotype
	// R = one value per possible allele
	// . = the number varies, is unkown or is unbounded
	Number string

	// The type of the header line
	// Can be "Integer", "Float", "Flag", "String" or "Character"
	Type string

	// The description of the header line
	Description string
}

// A struct representing a header line in the VCF file with its ID and Length
type HeaderLineIdLength struct {
	// The ID of the header line
	Id string

	// The length of the contig, 0 when the header line doesn't state it
	Length int64
}

// A struct representing a structural variant in the input VCF file
// Chromosome, position and ID are fixed once the variant is parsed
type Variant struct {
	// The chromosome of the variant
	chromosome string

	// The 1-based position of the variant
	pos int64

	// The ID of the variant
	id string

	// The reference allele of the variant
	Ref string

	// The alternate allele of the variant
	Alt string

	// The Phred-scaled quality score of the variant, as written in the file
	Qual string

	// The filter status of the variant
	Filter string

	// A pointer to the header of the VCF that contains this variant
	Header *Header

	// The INFO values of the variant
	Info *InfoMap

	// The FORMAT and sample columns, kept as they were read
	Rest []string
}

// The collection of variants of one VCF file
// Variants are kept in the order they were read
type VCF struct {
	// The header of the VCF file
	Header *Header

	// The variants of the VCF file, the ID is the key of the map
	Variants map[string]*Variant

	// The variant IDs in input order
	order []string
}

// One end of a structural variant
type Breakpoint struct {
	// The chromosome of the breakpoint
	Chromosome string

	// The 1-based position of the breakpoint
	Pos int64

	// The orientation of the join, "+", "-" or "." when unknown
	Strand string
}

// A single alignment of a read (or assembled contig) to the reference
type AlignedSegment struct {
	// The name of the aligned read
	QueryName string

	// The reference contig the read is aligned to
	Contig string

	// The 0-based leftmost aligned reference position
	Start int

	// The alignment operations of the read
	Cigar sam.Cigar

	// The SAM flags of the alignment
	Flags sam.Flags
}

// The aligned segments of one alignment file grouped by query name
// An index is built once and only read afterwards
type AlignmentIndex map[string][]AlignedSegment

//
// Config structs
//

// The struct representing the configuration file
// The config file is a YAML file
type Config struct {
	// The maximum distance in bases between a clip and a breakpoint
	Tolerance int `yaml:"tolerance"`

	// The minimum length of an alignment deletion to be used as a breakpoint
	MinDeletion int `yaml:"min_deletion"`

	// The placeholder used as the score column of BEDPE output
	Score string `yaml:"score"`

	// The character used for every base quality in FASTQ output
	QualityChar string `yaml:"quality_char"`

	// The amount of variants validated at the same time, 0 means all CPUs
	Threads int `yaml:"threads"`

	// The description of the SUPPORTED INFO field in annotated output
	SupportedDescription string `yaml:"supported_description"`
}
