package svtoolbox_api

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// The type of an INFO field as declared in the header
type InfoType int

const (
	InfoString InfoType = iota
	InfoInteger
	InfoFloat
	InfoFlag
	InfoCharacter
)

func (t InfoType) String() string {
	switch t {
	case InfoInteger:
		return "Integer"
	case InfoFloat:
		return "Float"
	case InfoFlag:
		return "Flag"
	case InfoCharacter:
		return "Character"
	}
	return "String"
}

// Convert a (normalized) header Type to an InfoType, unknown types are read as strings
func infoTypeOf(declared string) InfoType {
	switch declared {
	case "Integer":
		return InfoInteger
	case "Float":
		return InfoFloat
	case "Flag":
		return InfoFlag
	case "Character":
		return InfoCharacter
	}
	return InfoString
}

// The typed value of one INFO field
// Exactly one of the value slices is used, depending on Type
type InfoValue struct {
	// The declared type of the field
	Type InfoType

	// True when the header allows more than one value
	List bool

	ints    []int64
	floats  []float64
	strings []string

	// The serialized form of the value
	raw string
}

// Flag reports whether the value is a present flag
func (v InfoValue) Flag() bool { return v.Type == InfoFlag }

// Int returns the first integer, 0 for non-integer fields
func (v InfoValue) Int() int64 {
	if len(v.ints) == 0 {
		return 0
	}
	return v.ints[0]
}

func (v InfoValue) Ints() []int64 { return v.ints }

// Float returns the first float, 0 for non-float fields
func (v InfoValue) Float() float64 {
	if len(v.floats) == 0 {
		return 0
	}
	return v.floats[0]
}

func (v InfoValue) Floats() []float64 { return v.floats }

// Strings returns the elements of a String or Character field
func (v InfoValue) Strings() []string { return v.strings }

// Len returns the amount of elements in the value, 0 for flags
func (v InfoValue) Len() int {
	switch v.Type {
	case InfoInteger:
		return len(v.ints)
	case InfoFloat:
		return len(v.floats)
	case InfoFlag:
		return 0
	}
	return len(v.strings)
}

// Value returns the value as a plain Go value:
// bool for flags, int64, float64 or string for scalars and a slice of those for lists
func (v InfoValue) Value() any {
	switch v.Type {
	case InfoFlag:
		return true
	case InfoInteger:
		if v.List {
			return v.ints
		}
		return v.Int()
	case InfoFloat:
		if v.List {
			return v.floats
		}
		return v.Float()
	}
	if v.List {
		return v.strings
	}
	if len(v.strings) == 0 {
		return ""
	}
	return v.strings[0]
}

// String returns the value as it is written in the INFO column
func (v InfoValue) String() string {
	if v.Type == InfoFlag {
		return "true"
	}
	return v.raw
}

// Interpret the raw text of an INFO field using its header line
func decodeInfo(raw string, flag bool, declaration HeaderLineIdNumberTypeDescription) (InfoValue, error) {
	value := InfoValue{
		Type: infoTypeOf(declaration.Type),
		List: isList(declaration.Number),
		raw:  raw,
	}

	if value.Type == InfoFlag {
		if !flag {
			return value, fmt.Errorf("%w: flag INFO/%s has a value", ErrMalformedRecord, declaration.Id)
		}
		return value, nil
	}
	if flag {
		return value, fmt.Errorf("%w: INFO/%s has no value", ErrMalformedRecord, declaration.Id)
	}

	elements := strings.Split(raw, ",")
	if count, err := strconv.Atoi(declaration.Number); err == nil && count > 0 && len(elements) != count {
		return value, fmt.Errorf("%w: INFO/%s expects %d values, found %d", ErrMalformedRecord, declaration.Id, count, len(elements))
	} else if !value.List && len(elements) != 1 {
		return value, fmt.Errorf("%w: INFO/%s expects 1 value, found %d", ErrMalformedRecord, declaration.Id, len(elements))
	}

	for _, element := range elements {
		switch value.Type {
		case InfoInteger:
			i, err := strconv.ParseInt(element, 10, 64)
			if err != nil {
				return value, fmt.Errorf("%w: INFO/%s value '%s' is not an integer", ErrMalformedRecord, declaration.Id, element)
			}
			value.ints = append(value.ints, i)
		case InfoFloat:
			if element == "." {
				value.floats = append(value.floats, math.NaN())
				continue
			}
			f, err := strconv.ParseFloat(element, 64)
			if err != nil {
				return value, fmt.Errorf("%w: INFO/%s value '%s' is not a float", ErrMalformedRecord, declaration.Id, element)
			}
			value.floats = append(value.floats, f)
		case InfoCharacter:
			if utf8.RuneCountInString(element) != 1 {
				return value, fmt.Errorf("%w: INFO/%s value '%s' is not a character", ErrMalformedRecord, declaration.Id, element)
			}
			value.strings = append(value.strings, element)
		default:
			value.strings = append(value.strings, element)
		}
	}
	return value, nil
}

// Serialize a Go value for an INFO field declared by the header line
// The returned text always decodes back to the same value
func encodeInfo(input any, declaration HeaderLineIdNumberTypeDescription) (raw string, flag bool, err error) {
	infoType := infoTypeOf(declaration.Type)
	mismatch := func() error {
		return fmt.Errorf("%w: cannot store %T in INFO/%s of type %s", ErrMalformedRecord, input, declaration.Id, infoType)
	}

	var elements []string
	switch value := input.(type) {
	case InfoValue:
		if value.Type != infoType {
			return "", false, mismatch()
		}
		if value.Type == InfoFlag {
			return "", true, nil
		}
		elements = []string{value.raw}
	case bool:
		if infoType != InfoFlag {
			return "", false, mismatch()
		}
		return "", value, nil
	case int:
		if infoType != InfoInteger {
			return "", false, mismatch()
		}
		elements = []string{strconv.Itoa(value)}
	case int64:
		if infoType != InfoInteger {
			return "", false, mismatch()
		}
		elements = []string{strconv.FormatInt(value, 10)}
	case []int:
		if infoType != InfoInteger {
			return "", false, mismatch()
		}
		for _, i := range value {
			elements = append(elements, strconv.Itoa(i))
		}
	case []int64:
		if infoType != InfoInteger {
			return "", false, mismatch()
		}
		for _, i := range value {
			elements = append(elements, strconv.FormatInt(i, 10))
		}
	case float64:
		if infoType != InfoFloat {
			return "", false, mismatch()
		}
		elements = []string{formatFloat(value)}
	case []float64:
		if infoType != InfoFloat {
			return "", false, mismatch()
		}
		for _, f := range value {
			elements = append(elements, formatFloat(f))
		}
	case rune:
		if infoType != InfoCharacter {
			return "", false, mismatch()
		}
		elements = []string{string(value)}
	case string:
		if infoType != InfoString && infoType != InfoCharacter {
			return "", false, mismatch()
		}
		elements = []string{value}
	case []string:
		if infoType != InfoString && infoType != InfoCharacter {
			return "", false, mismatch()
		}
		elements = value
	default:
		return "", false, mismatch()
	}

	if infoType == InfoFlag {
		return "", false, mismatch()
	}
	if len(elements) == 0 {
		return "", false, fmt.Errorf("%w: INFO/%s needs at least one value", ErrMalformedRecord, declaration.Id)
	}
	for _, element := range elements {
		if strings.ContainsAny(element, ";=\t\n") {
			return "", false, fmt.Errorf("%w: INFO/%s value '%s' contains a reserved character", ErrMalformedRecord, declaration.Id, element)
		}
	}

	raw = strings.Join(elements, ",")
	if _, err := decodeInfo(raw, false, declaration); err != nil {
		return "", false, err
	}
	return raw, false, nil
}

// Format a float so it parses back to the exact same value
func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return "."
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Numbers other than 0 and 1 allow multiple values
func isList(number string) bool {
	return number != "1" && number != "0"
}

// An ordered set of raw INFO fields
// New keys are appended, existing keys keep their position
type InfoMap struct {
	keys    []string
	entries map[string]infoEntry
}

type infoEntry struct {
	value string
	flag  bool
}

// Initialize a new InfoMap
func newInfoMap() *InfoMap {
	return &InfoMap{entries: map[string]infoEntry{}}
}

// Keys returns the INFO keys in the order they will be written
func (m *InfoMap) Keys() []string {
	return append([]string(nil), m.keys...)
}

func (m *InfoMap) Len() int {
	return len(m.keys)
}

func (m *InfoMap) Has(key string) bool {
	_, ok := m.entries[key]
	return ok
}

func (m *InfoMap) get(key string) (infoEntry, bool) {
	entry, ok := m.entries[key]
	return entry, ok
}

func (m *InfoMap) set(key string, entry infoEntry) {
	if _, ok := m.entries[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.entries[key] = entry
}

func (m *InfoMap) remove(key string) {
	if _, ok := m.entries[key]; !ok {
		return
	}
	delete(m.entries, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// String returns the INFO column, "." when there are no fields
func (m *InfoMap) String() string {
	if len(m.keys) == 0 {
		return "."
	}
	infoSlice := make([]string, 0, len(m.keys))
	for _, key := range m.keys {
		entry := m.entries[key]
		if entry.flag {
			infoSlice = append(infoSlice, key)
			continue
		}
		infoSlice = append(infoSlice, key+"="+entry.value)
	}
	return strings.Join(infoSlice, ";")
}

// GetInfo returns the typed value of an INFO field
// A field the variant doesn't have fails with ErrInfoFieldNotFound
func (v *Variant) GetInfo(key string) (InfoValue, error) {
	value, ok, err := v.LookupInfo(key)
	if err != nil {
		return value, err
	}
	if !ok {
		return value, fmt.Errorf("%w: INFO/%s in variant %s", ErrInfoFieldNotFound, key, v.id)
	}
	return value, nil
}

// LookupInfo returns the typed value of an INFO field and whether the variant has it
func (v *Variant) LookupInfo(key string) (InfoValue, bool, error) {
	entry, ok := v.Info.get(key)
	if !ok {
		return InfoValue{}, false, nil
	}
	declaration, ok := v.Header.Info[key]
	if !ok {
		return InfoValue{}, false, fmt.Errorf("%w: INFO/%s is not defined in the header", ErrMalformedRecord, key)
	}
	value, err := decodeInfo(entry.value, entry.flag, declaration)
	if err != nil {
		return value, false, fmt.Errorf("variant %s: %w", v.id, err)
	}
	return value, true, nil
}

// HasInfo reports whether the variant has the INFO field
func (v *Variant) HasInfo(key string) bool {
	return v.Info.Has(key)
}

// SetInfo adds or overwrites an INFO field, the field has to be defined in the header
// Flags are set with true and removed with false
func (v *Variant) SetInfo(key string, value any) error {
	declaration, ok := v.Header.Info[key]
	if !ok {
		return fmt.Errorf("%w: INFO/%s is not defined in the header", ErrMalformedRecord, key)
	}
	raw, flag, err := encodeInfo(value, declaration)
	if err != nil {
		return err
	}
	if infoTypeOf(declaration.Type) == InfoFlag && !flag {
		v.Info.remove(key)
		return nil
	}
	v.Info.set(key, infoEntry{value: raw, flag: flag})
	return nil
}

// RemoveInfo removes an INFO field from the variant, if present
func (v *Variant) RemoveInfo(key string) {
	v.Info.remove(key)
}
