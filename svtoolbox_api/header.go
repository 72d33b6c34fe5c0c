package svtoolbox_api

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var headerLineRegex = regexp.MustCompile(`^##(?P<headerType>[^=]*)=<(?P<content>.*)>$`)

// Create a new header struct
func newHeader() *Header {
	return &Header{
		Info:    map[string]HeaderLineIdNumberTypeDescription{},
		Format:  map[string]HeaderLineIdNumberTypeDescription{},
		Alt:     map[string]HeaderLineIdDescription{},
		Filter:  map[string]HeaderLineIdDescription{},
		Contig:  []HeaderLineIdLength{},
		Other:   []string{},
		Samples: []string{},
		Lines:   []string{},
	}
}

// Parse the header line and add it to the Header struct
func (header *Header) parse(line string) error {
	header.Lines = append(header.Lines, line)

	if strings.HasPrefix(line, "#CHROM") {
		columns := strings.Split(line, "\t")
		header.Columns = len(columns)
		if len(columns) > 9 {
			header.Samples = columns[9:]
		}
		return nil
	}

	matches := headerLineRegex.FindStringSubmatch(line)
	if len(matches) == 0 {
		header.Other = append(header.Other, line)
		return nil
	}

	headerType := matches[1]
	contentMap := convertLineToMap(matches[2])

	switch headerType {
	case "INFO":
		declaration, err := newIdNumberTypeDescription(contentMap)
		if err != nil {
			return err
		}
		header.Info[declaration.Id] = declaration
	case "FORMAT":
		declaration, err := newIdNumberTypeDescription(contentMap)
		if err != nil {
			return err
		}
		header.Format[declaration.Id] = declaration
	case "ALT":
		header.Alt[contentMap["id"]] = HeaderLineIdDescription{
			Id:          contentMap["id"],
			Description: unquote(contentMap["description"]),
		}
	case "FILTER":
		header.Filter[contentMap["id"]] = HeaderLineIdDescription{
			Id:          contentMap["id"],
			Description: unquote(contentMap["description"]),
		}
	case "contig":
		var length int64
		if raw, ok := contentMap["length"]; ok {
			var err error
			length, err = strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return fmt.Errorf("could not convert the length of contig %s to an integer: %w", contentMap["id"], err)
			}
		}
		header.Contig = append(header.Contig, HeaderLineIdLength{
			Id:     contentMap["id"],
			Length: length,
		})
	default:
		header.Other = append(header.Other, line)
	}
	return nil
}

// Build an INFO or FORMAT declaration from the contents of its header line
func newIdNumberTypeDescription(contentMap map[string]string) (HeaderLineIdNumberTypeDescription, error) {
	declaration := HeaderLineIdNumberTypeDescription{
		Id:          contentMap["id"],
		Number:      contentMap["number"],
		Type:        normalizeType(contentMap["type"]),
		Description: unquote(contentMap["description"]),
	}
	if declaration.Id == "" {
		return declaration, fmt.Errorf("header line without an ID")
	}
	if declaration.Number == "" {
		declaration.Number = "."
	}
	if declaration.Type == "Flag" && declaration.Number != "0" {
		return declaration, fmt.Errorf("flag %s must have Number=0, found %s", declaration.Id, declaration.Number)
	}
	return declaration, nil
}

// Normalize the case of a header Type, e.g. "integer" becomes "Integer"
func normalizeType(headerType string) string {
	return cases.Title(language.English, cases.Compact).String(strings.ToLower(headerType))
}

func unquote(value string) string {
	if len(value) >= 2 && (value[0] == '"' || value[0] == '\'') && value[len(value)-1] == value[0] {
		return value[1 : len(value)-1]
	}
	return value
}

// convertLineToMap converts the header line contents to a map suitable to transform to a struct
// Keys are lowercased, commas and equal signs inside quotes are kept in the value
func convertLineToMap(line string) map[string]string {
	data := map[string]string{}
	var word strings.Builder
	key := ""
	keyDone := false
	var quote rune
	for _, letter := range line {
		if quote == 0 {
			if letter == '=' && !keyDone {
				key = strings.ToLower(word.String())
				keyDone = true
				word.Reset()
				continue
			} else if letter == ',' {
				data[key] = word.String()
				key = ""
				keyDone = false
				word.Reset()
				continue
			}
		}

		word.WriteRune(letter)

		if letter == quote {
			quote = 0
		} else if quote == 0 && (letter == '"' || letter == '\'') {
			quote = letter
		}
	}
	data[key] = word.String()

	return data
}

// Format a declaration as an ##INFO header line
func infoHeaderLine(declaration HeaderLineIdNumberTypeDescription) string {
	return fmt.Sprintf(
		"##INFO=<ID=%s,Number=%s,Type=%s,Description=\"%s\">",
		declaration.Id,
		declaration.Number,
		normalizeType(declaration.Type),
		declaration.Description,
	)
}

// AddInfo declares an INFO field and reports whether the header already had it
func (header *Header) AddInfo(declaration HeaderLineIdNumberTypeDescription) bool {
	declaration.Type = normalizeType(declaration.Type)
	if _, ok := header.Info[declaration.Id]; ok {
		return true
	}
	header.Info[declaration.Id] = declaration
	return false
}

// WriteWithInfo writes the header lines as they were read and inserts the declaration
// once, right before the first ##INFO line (or before #CHROM when there is none)
// Nothing is inserted when the declaration was part of the original header
func (header *Header) WriteWithInfo(w io.Writer, declaration HeaderLineIdNumberTypeDescription, alreadyDeclared bool) error {
	inserted := alreadyDeclared
	newLine := infoHeaderLine(declaration)
	for _, line := range header.Lines {
		if !inserted && (strings.HasPrefix(line, "##INFO") || strings.HasPrefix(line, "#CHROM")) {
			if err := writeLine(newLine, w); err != nil {
				return err
			}
			inserted = true
		}
		if err := writeLine(line, w); err != nil {
			return err
		}
	}
	if !inserted {
		return writeLine(newLine, w)
	}
	return nil
}

// Write a line to the output
func writeLine(line string, w io.Writer) error {
	_, err := io.WriteString(w, line+"\n")
	return err
}
