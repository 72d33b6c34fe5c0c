package svtoolbox_api

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Mate notations of a breakend ALT: t[p[, t]p], ]p]t and [p[t
var (
	altAfterRegex  = regexp.MustCompile(`^([^\[\]]+)([\[\]])([^\[\]:]+):([0-9]+)([\[\]])$`)
	altBeforeRegex = regexp.MustCompile(`^([\[\]])([^\[\]:]+):([0-9]+)([\[\]])([^\[\]]+)$`)
)

// NewVariant creates a variant without INFO fields that belongs to the header
func NewVariant(header *Header, chromosome string, pos int64, id string, ref string, alt string) *Variant {
	return &Variant{
		chromosome: chromosome,
		pos:        pos,
		id:         id,
		Ref:        ref,
		Alt:        alt,
		Qual:       ".",
		Filter:     ".",
		Header:     header,
		Info:       newInfoMap(),
	}
}

// The ID of the variant
func (v *Variant) Id() string { return v.id }

// The chromosome of the variant
func (v *Variant) Chromosome() string { return v.chromosome }

// The 1-based position of the variant
func (v *Variant) Pos() int64 { return v.pos }

// IsBreakend reports whether the ALT uses the mate notation of a breakend
func (v *Variant) IsBreakend() bool {
	return strings.ContainsAny(v.Alt, "[]")
}

// Decode the mate locus of a breakend ALT
//
//	t[p[  ->  +  -
//	t]p]  ->  +  +
//	]p]t  ->  -  +
//	[p[t  ->  -  -
func (v *Variant) mate() (local string, mate Breakpoint, err error) {
	var bracketOpen, bracketClose, chr, pos string
	if groups := altAfterRegex.FindStringSubmatch(v.Alt); groups != nil {
		bracketOpen, chr, pos, bracketClose = groups[2], groups[3], groups[4], groups[5]
		local = "+"
	} else if groups := altBeforeRegex.FindStringSubmatch(v.Alt); groups != nil {
		bracketOpen, chr, pos, bracketClose = groups[1], groups[2], groups[3], groups[4]
		local = "-"
	} else {
		return "", mate, fmt.Errorf("%w: cannot decode ALT '%s' of variant %s", ErrMalformedBreakend, v.Alt, v.id)
	}

	if bracketOpen != bracketClose {
		return "", mate, fmt.Errorf("%w: mismatched brackets in ALT '%s' of variant %s", ErrMalformedBreakend, v.Alt, v.id)
	}

	matePos, err := strconv.ParseInt(pos, 10, 64)
	if err != nil {
		return "", mate, fmt.Errorf("%w: invalid mate position in ALT '%s' of variant %s", ErrMalformedBreakend, v.Alt, v.id)
	}

	mate = Breakpoint{Chromosome: chr, Pos: matePos, Strand: "+"}
	if bracketOpen == "[" {
		mate.Strand = "-"
	}
	return local, mate, nil
}

// Breakpoints returns both ends of the variant
// The second end comes from the breakend notation of the ALT, or else
// from CHR2 and END, or the position plus the absolute SVLEN
func (v *Variant) Breakpoints() (Breakpoint, Breakpoint, error) {
	first := Breakpoint{Chromosome: v.chromosome, Pos: v.pos, Strand: "."}

	if v.IsBreakend() {
		strand, second, err := v.mate()
		if err != nil {
			return first, second, err
		}
		first.Strand = strand
		return first, second, nil
	}

	second := Breakpoint{Chromosome: v.chromosome, Pos: v.pos, Strand: "."}
	if chr2, ok, err := v.LookupInfo("CHR2"); err != nil {
		return first, second, err
	} else if ok && chr2.Type == InfoString && chr2.Len() > 0 {
		second.Chromosome = chr2.Strings()[0]
	}

	if end, ok, err := v.LookupInfo("END"); err != nil {
		return first, second, err
	} else if ok && end.Type == InfoInteger && end.Len() > 0 {
		second.Pos = end.Int()
		return first, second, nil
	}

	if svlen, ok, err := v.LookupInfo("SVLEN"); err != nil {
		return first, second, err
	} else if ok && svlen.Type == InfoInteger && svlen.Len() > 0 {
		length := svlen.Int()
		if length < 0 {
			length = -length
		}
		second.Pos = v.pos + length
	}
	return first, second, nil
}

// String converts the variant to a VCF data line
func (v *Variant) String() string {
	columns := []string{
		v.chromosome,
		strconv.FormatInt(v.pos, 10),
		v.id,
		v.Ref,
		v.Alt,
		v.Qual,
		v.Filter,
		v.Info.String(),
	}
	columns = append(columns, v.Rest...)
	return strings.Join(columns, "\t")
}
