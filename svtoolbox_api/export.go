package svtoolbox_api

import (
	"strconv"
	"strings"
)

// The default placeholders of the exporters
const (
	DefaultScore       = "."
	DefaultQualityChar = "I"
)

// ToBedpe converts the variant to a BEDPE line with the default score placeholder
// The values of includeFields are appended as extra columns, in the given order
func (v *Variant) ToBedpe(includeFields []string) (string, error) {
	return v.FormatBedpe(includeFields, DefaultScore)
}

// FormatBedpe converts the variant to a BEDPE line:
// chrom1 start1 end1 chrom2 start2 end2 name score strand1 strand2 [fields...]
// A field the variant doesn't have fails with ErrInfoFieldNotFound
// Fields containing $ or ~ are resolved with ResolveTemplate
func (v *Variant) FormatBedpe(includeFields []string, score string) (string, error) {
	first, second, err := v.Breakpoints()
	if err != nil {
		return "", err
	}

	columns := []string{
		first.Chromosome,
		strconv.FormatInt(first.Pos-1, 10),
		strconv.FormatInt(first.Pos, 10),
		second.Chromosome,
		strconv.FormatInt(second.Pos-1, 10),
		strconv.FormatInt(second.Pos, 10),
		v.id,
		score,
		first.Strand,
		second.Strand,
	}

	for _, field := range includeFields {
		if isTemplate(field) {
			value, err := ResolveTemplate(field, v)
			if err != nil {
				return "", err
			}
			columns = append(columns, value)
			continue
		}
		value, err := v.GetInfo(field)
		if err != nil {
			return "", err
		}
		columns = append(columns, value.String())
	}

	return strings.Join(columns, "\t"), nil
}

// ToFastq converts the assembled contig of the variant to a FASTQ record
// Variants without a CONTIG field return false
func (v *Variant) ToFastq(qualityChar string) (string, bool, error) {
	contig, ok, err := v.LookupInfo("CONTIG")
	if err != nil || !ok {
		return "", false, err
	}

	sequence := contig.String()
	record := strings.Join([]string{
		"@" + v.id,
		sequence,
		"+",
		strings.Repeat(qualityChar, len(sequence)),
	}, "\n")
	return record, true, nil
}
