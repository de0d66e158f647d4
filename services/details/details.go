package details

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"gorm.io/datatypes"
)

// InputType classifies a details value for the admin editor
type InputType string

const (
	InputTypeBoolean  InputType = "boolean"
	InputTypeNumber   InputType = "number"
	InputTypeText     InputType = "text"
	InputTypeTextarea InputType = "textarea"
	InputTypeComplex  InputType = "complex"
)

// Strings longer than this render in a textarea instead of a single-line input
const longTextThreshold = 100

// HumanizeKey converts an identifier like "group_size" or "schedule-call"
// into a title-cased label ("Group Size", "Schedule Call").
func HumanizeKey(key string) string {
	fields := strings.FieldsFunc(key, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	for i, f := range fields {
		runes := []rune(f)
		runes[0] = unicode.ToUpper(runes[0])
		fields[i] = string(runes)
	}
	return strings.Join(fields, " ")
}

// GetInputType classifies a decoded JSON value. Total: unknown shapes fall
// through to complex rather than failing.
func GetInputType(value interface{}) InputType {
	switch v := value.(type) {
	case bool:
		return InputTypeBoolean
	case float64, float32, int, int32, int64, json.Number:
		return InputTypeNumber
	case string:
		if len([]rune(v)) > longTextThreshold {
			return InputTypeTextarea
		}
		return InputTypeText
	default:
		return InputTypeComplex
	}
}

// FormatDisplayValue renders a details value for read-only display.
// Missing values become an em-dash placeholder.
func FormatDisplayValue(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return "—"
	case bool:
		if v {
			return "Yes"
		}
		return "No"
	case string:
		if v == "" {
			return "—"
		}
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		pretty, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return "—"
		}
		return string(pretty)
	}
}

// IsDetailsRecord reports whether a value is a plain JSON object
// (non-nil, not an array).
func IsDetailsRecord(value interface{}) bool {
	if value == nil {
		return false
	}
	_, ok := value.(map[string]interface{})
	return ok
}

// Field is one details entry prepared for the admin drawer: a humanized
// label, the editor widget to render, and the read-only display string.
type Field struct {
	Key       string    `json:"key"`
	Label     string    `json:"label"`
	InputType InputType `json:"input_type"`
	Display   string    `json:"display"`
}

// Fields flattens a decoded details map into drawer-ready entries, sorted by
// key so the drawer renders stably across refetches.
func Fields(m map[string]interface{}) []Field {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]Field, 0, len(keys))
	for _, k := range keys {
		out = append(out, Field{
			Key:       k,
			Label:     HumanizeKey(k),
			InputType: GetInputType(m[k]),
			Display:   FormatDisplayValue(m[k]),
		})
	}
	return out
}

// Merge shallow-merges patch onto existing without mutating either argument.
// Keys absent from patch are preserved; keys present in both take the patch
// value. This is the only sanctioned way to update a lead's details.
func Merge(existing, patch map[string]interface{}) map[string]interface{} {
	merged := make(map[string]interface{}, len(existing)+len(patch))
	for k, v := range existing {
		merged[k] = v
	}
	for k, v := range patch {
		merged[k] = v
	}
	return merged
}

// Decode unpacks a jsonb column into a map. A null or empty column decodes
// to an empty map so callers can merge into it directly.
func Decode(raw datatypes.JSON) (map[string]interface{}, error) {
	if len(raw) == 0 {
		return map[string]interface{}{}, nil
	}
	var out map[string]interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = map[string]interface{}{}
	}
	return out, nil
}

// Encode packs a details map back into a jsonb column value
func Encode(m map[string]interface{}) (datatypes.JSON, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
