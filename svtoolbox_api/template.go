package svtoolbox_api

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	infoTemplateRegex = regexp.MustCompile(`\$INFO/[\w.]+`)
	functionRegex     = regexp.MustCompile(`^([^~]*)~(\w+):([^;]*)$`)
)

// isTemplate reports whether an include field is a template instead of an INFO key
func isTemplate(field string) bool {
	return strings.ContainsAny(field, "$~")
}

// ResolveTemplate fills in the variant values of a template
// $INFO/<key>, $CHROM, $POS, $ID, $REF, $ALT, $QUAL and $FILTER are replaced by
// their values, a trailing ~sum:<a>,<b> or ~sub:<a>,<b> is then calculated
func ResolveTemplate(input string, variant *Variant) (string, error) {
	var err error
	input = infoTemplateRegex.ReplaceAllStringFunc(input, func(stringToReplace string) string {
		field := strings.TrimPrefix(stringToReplace, "$INFO/")
		info, infoErr := variant.GetInfo(field)
		if infoErr != nil {
			if err == nil {
				err = infoErr
			}
			return ""
		}
		return info.String()
	})
	if err != nil {
		return "", err
	}

	input = strings.NewReplacer(
		"$CHROM", variant.chromosome,
		"$POS", strconv.FormatInt(variant.pos, 10),
		"$ID", variant.id,
		"$REF", variant.Ref,
		"$ALT", variant.Alt,
		"$QUAL", variant.Qual,
		"$FILTER", variant.Filter,
	).Replace(input)

	if strings.Contains(input, "~") {
		return resolveFunction(input)
	}
	return input, nil
}

// Calculate the function at the end of a resolved template
func resolveFunction(input string) (string, error) {
	functionResults := functionRegex.FindStringSubmatch(input)
	if len(functionResults) == 0 {
		return "", fmt.Errorf("no function found in '%s'", input)
	}
	prefix, function := functionResults[1], functionResults[2]

	values := []float64{}
	for _, value := range strings.Split(functionResults[3], ",") {
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return "", fmt.Errorf("cannot convert '%s' to a number in '%s'", value, input)
		}
		values = append(values, f)
	}

	var result float64
	switch function {
	case "sub":
		result = sub(values)
	case "sum":
		result = sum(values)
	default:
		return "", fmt.Errorf("the function '%s' is not supported", function)
	}
	return prefix + floatToString(result), nil
}

func sub(input []float64) float64 {
	result := input[0]
	for i := 1; i < len(input); i++ {
		result -= input[i]
	}
	return result
}

func sum(input []float64) float64 {
	result := input[0]
	for i := 1; i < len(input); i++ {
		result += input[i]
	}
	return result
}

func floatToString(input float64) string {
	return strconv.FormatFloat(input, 'f', -1, 64)
}
