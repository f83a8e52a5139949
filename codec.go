package llmmin

import (
	"fmt"
	"strings"
	"time"
)

// Wire format for the compacted knowledge base.
//
// The output document is one header line, one schema line, and one line per
// AIU. Field meanings are defined solely by position according to the
// declared schema, never by embedded keys. Top-level fields are separated
// by '|', nested list items are '{...}' blocks with ';'-separated values.
// Booleans are the single-character tags "T"/"F" and absent optional
// scalars are the explicit null marker "~"; an absent string field is an
// empty string, which is never conflated with null.

// Boolean wire tags.
const (
	BoolTrue  = "T"
	BoolFalse = "F"
)

// nullMarker encodes an absent optional scalar field.
const nullMarker = "~"

// aiuFieldCount is the number of top-level positional fields per AIU line.
const aiuFieldCount = 9

// EncodeHeader returns the header line naming the documented subject.
func EncodeHeader(libraryName, version string, timestamp time.Time) string {
	return fmt.Sprintf("#LIB|%s|%s|%s",
		escape(libraryName), escape(version), timestamp.UTC().Format(time.RFC3339))
}

// EncodeSchema returns the schema line declaring field order for the
// top-level record and for each nested list type.
func EncodeSchema() string {
	return "#SCHEMA" +
		"|aiu=id,kind,name,purpose,inputs,outputs,usage,relationships,source" +
		"|param=name,type,description,default,example" +
		"|output=name,type,description" +
		"|rel=target,kind"
}

// EncodeAIULine encodes a single AIU as a flat positional line.
func EncodeAIULine(aiu *AIU) string {
	var b strings.Builder
	b.WriteString(escape(aiu.ID))
	b.WriteByte('|')
	b.WriteString(string(aiu.Kind))
	b.WriteByte('|')
	b.WriteString(escape(aiu.Name))
	b.WriteByte('|')
	b.WriteString(escape(aiu.Purpose))
	b.WriteByte('|')
	b.WriteString(encodeParams(aiu.Inputs))
	b.WriteByte('|')
	b.WriteString(encodeOutputs(aiu.Outputs))
	b.WriteByte('|')
	b.WriteString(escape(aiu.Usage))
	b.WriteByte('|')
	b.WriteString(encodeRelationships(aiu.Relationships))
	b.WriteByte('|')
	b.WriteString(escape(aiu.Source))
	return b.String()
}

// DecodeAIULine decodes one positional line into an AIU. It tolerates
// stray whitespace and trailing commas inside lists, but a line whose
// field count does not match the declared schema is rejected with EINVALID
// rather than guessed at.
func DecodeAIULine(line string) (*AIU, error) {
	fields := splitUnescaped(strings.TrimSpace(line), '|')
	if len(fields) != aiuFieldCount {
		return nil, Errorf(EINVALID, "aiu line has %d fields, schema declares %d", len(fields), aiuFieldCount)
	}

	kind := AIUKind(strings.TrimSpace(fields[1]))
	if !kind.Valid() {
		return nil, Errorf(EINVALID, "unknown aiu kind %q", strings.TrimSpace(fields[1]))
	}

	inputs, err := decodeParams(fields[4])
	if err != nil {
		return nil, err
	}
	outputs, err := decodeOutputs(fields[5])
	if err != nil {
		return nil, err
	}
	rels, err := decodeRelationships(fields[7])
	if err != nil {
		return nil, err
	}

	aiu := &AIU{
		ID:            unescape(strings.TrimSpace(fields[0])),
		Kind:          kind,
		Name:          unescape(strings.TrimSpace(fields[2])),
		Purpose:       unescape(fields[3]),
		Inputs:        inputs,
		Outputs:       outputs,
		Usage:         unescape(fields[6]),
		Relationships: rels,
		Source:        unescape(strings.TrimSpace(fields[8])),
	}
	if err := aiu.Validate(); err != nil {
		return nil, err
	}
	return aiu, nil
}

// ExtractRecordLines strips explanatory prose and framing from a model
// response, returning only candidate AIU lines. Code fences, blank lines,
// and '#'-prefixed framing lines (headers, schema echoes, commentary) are
// removed; lines with no top-level field separator are treated as prose.
func ExtractRecordLines(raw string) []string {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if !containsUnescaped(trimmed, '|') {
			continue
		}
		lines = append(lines, trimmed)
	}
	return lines
}

func encodeParams(params []Parameter) string {
	items := make([]string, 0, len(params))
	for _, p := range params {
		items = append(items, "{"+strings.Join([]string{
			escape(p.Name),
			escape(p.Type),
			escape(p.Description),
			encodeNullable(p.Default),
			encodeNullable(p.Example),
		}, ";")+"}")
	}
	return "[" + strings.Join(items, ",") + "]"
}

func encodeOutputs(outputs []OutputField) string {
	items := make([]string, 0, len(outputs))
	for _, o := range outputs {
		items = append(items, "{"+strings.Join([]string{
			escape(o.Name),
			escape(o.Type),
			escape(o.Description),
		}, ";")+"}")
	}
	return "[" + strings.Join(items, ",") + "]"
}

func encodeRelationships(rels []Relationship) string {
	items := make([]string, 0, len(rels))
	for _, r := range rels {
		items = append(items, "{"+escape(r.TargetID)+";"+string(r.Kind)+"}")
	}
	return "[" + strings.Join(items, ",") + "]"
}

func decodeParams(field string) ([]Parameter, error) {
	items, err := splitListItems(field)
	if err != nil {
		return nil, err
	}
	var params []Parameter
	for _, item := range items {
		vals := splitUnescaped(item, ';')
		if len(vals) != 5 {
			return nil, Errorf(EINVALID, "parameter item has %d values, schema declares 5", len(vals))
		}
		params = append(params, Parameter{
			Name:        unescape(strings.TrimSpace(vals[0])),
			Type:        unescape(strings.TrimSpace(vals[1])),
			Description: unescape(strings.TrimSpace(vals[2])),
			Default:     decodeNullable(strings.TrimSpace(vals[3])),
			Example:     decodeNullable(strings.TrimSpace(vals[4])),
		})
	}
	return params, nil
}

func decodeOutputs(field string) ([]OutputField, error) {
	items, err := splitListItems(field)
	if err != nil {
		return nil, err
	}
	var outputs []OutputField
	for _, item := range items {
		vals := splitUnescaped(item, ';')
		if len(vals) != 3 {
			return nil, Errorf(EINVALID, "output item has %d values, schema declares 3", len(vals))
		}
		outputs = append(outputs, OutputField{
			Name:        unescape(strings.TrimSpace(vals[0])),
			Type:        unescape(strings.TrimSpace(vals[1])),
			Description: unescape(strings.TrimSpace(vals[2])),
		})
	}
	return outputs, nil
}

func decodeRelationships(field string) ([]Relationship, error) {
	items, err := splitListItems(field)
	if err != nil {
		return nil, err
	}
	var rels []Relationship
	for _, item := range items {
		vals := splitUnescaped(item, ';')
		if len(vals) != 2 {
			return nil, Errorf(EINVALID, "relationship item has %d values, schema declares 2", len(vals))
		}
		rels = append(rels, Relationship{
			TargetID: unescape(strings.TrimSpace(vals[0])),
			Kind:     RelationshipKind(strings.TrimSpace(vals[1])),
		})
	}
	return rels, nil
}

func encodeNullable(v *string) string {
	if v == nil {
		return nullMarker
	}
	return escape(*v)
}

func decodeNullable(v string) *string {
	if v == nullMarker {
		return nil
	}
	s := unescape(v)
	return &s
}

// splitListItems parses a "[{...},{...}]" list field into its raw item
// bodies. An empty field or "[]" yields no items. Trailing commas and
// whitespace between items are tolerated.
func splitListItems(field string) ([]string, error) {
	s := strings.TrimSpace(field)
	if s == "" || s == "[]" {
		return nil, nil
	}
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil, Errorf(EINVALID, "list field not bracketed: %q", field)
	}
	s = s[1 : len(s)-1]

	var items []string
	for {
		s = strings.TrimLeft(s, ", \t")
		if s == "" {
			return items, nil
		}
		if s[0] != '{' {
			return nil, Errorf(EINVALID, "list item must start with '{': %q", s)
		}
		end := indexUnescaped(s[1:], '}')
		if end < 0 {
			return nil, Errorf(EINVALID, "unterminated list item: %q", s)
		}
		items = append(items, s[1:1+end])
		s = s[end+2:]
	}
}

// escapedChars are structural characters that must be escaped inside values.
const escapedChars = `\|;{}[]~`

func escape(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '\n':
			b.WriteString(`\n`)
		case strings.ContainsRune(escapedChars, r):
			b.WriteByte('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func unescape(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			if s[i] == 'n' {
				b.WriteByte('\n')
			} else {
				b.WriteByte(s[i])
			}
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// splitUnescaped splits s on every occurrence of sep that is not preceded
// by a backslash escape.
func splitUnescaped(s string, sep byte) []string {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' {
			i++
			continue
		}
		if s[i] == sep {
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	parts = append(parts, s[start:])
	return parts
}

func indexUnescaped(s string, c byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' {
			i++
			continue
		}
		if s[i] == c {
			return i
		}
	}
	return -1
}

func containsUnescaped(s string, c byte) bool {
	return indexUnescaped(s, c) >= 0
}
