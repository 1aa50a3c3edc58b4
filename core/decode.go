package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// rawOutput mirrors the nbformat v4 output JSON object.
type rawOutput struct {
	OutputType     string                     `json:"output_type"`
	Name           string                     `json:"name"`
	Text           multiline                  `json:"text"`
	Data           map[string]json.RawMessage `json:"data"`
	Metadata       map[string]any             `json:"metadata"`
	ExecutionCount *int                       `json:"execution_count"`
	EName          string                     `json:"ename"`
	EValue         string                     `json:"evalue"`
	Traceback      []string                   `json:"traceback"`
}

// multiline accepts nbformat's "multiline string": either a JSON string or a
// list of strings that are concatenated as-is.
type multiline string

func (m *multiline) UnmarshalJSON(data []byte) error {
	s, err := decodeMultiline(data)
	if err != nil {
		return err
	}
	*m = multiline(s)
	return nil
}

func decodeMultiline(data []byte) (string, error) {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return s, nil
	}
	var lines []string
	if err := json.Unmarshal(data, &lines); err != nil {
		return "", fmt.Errorf("expected string or list of strings: %w", err)
	}
	return strings.Join(lines, ""), nil
}

// DecodeOutput parses one nbformat output object. Records with an
// unrecognized output_type decode to Unknown without error.
func DecodeOutput(data []byte) (Output, error) {
	var raw rawOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode output: %w", err)
	}
	if raw.OutputType == "" {
		return nil, errors.New("decode output: missing output_type")
	}

	switch OutputType(raw.OutputType) {
	case OutputStream:
		return Stream{Name: StreamName(raw.Name), Text: string(raw.Text)}, nil
	case OutputDisplayData:
		b, err := decodeBundle(raw.Data)
		if err != nil {
			return nil, err
		}
		return DisplayData{Data: b, Metadata: raw.Metadata}, nil
	case OutputExecuteResult:
		b, err := decodeBundle(raw.Data)
		if err != nil {
			return nil, err
		}
		return ExecuteResult{ExecutionCount: raw.ExecutionCount, Data: b, Metadata: raw.Metadata}, nil
	case OutputError:
		return Error{EName: raw.EName, EValue: raw.EValue, Traceback: raw.Traceback}, nil
	default:
		return Unknown{Type: raw.OutputType, Raw: bytes.Clone(data)}, nil
	}
}

// decodeBundle flattens each MIME payload to a string. JSON MIME types keep
// their compact JSON text, even when the value is a list of strings. Other
// payloads are joined as multiline text.
func decodeBundle(data map[string]json.RawMessage) (Bundle, error) {
	b := make(Bundle, len(data))
	for mime, raw := range data {
		if !isJSONMime(mime) {
			if s, err := decodeMultiline(raw); err == nil {
				b[mime] = s
				continue
			}
		}
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", mime, err)
		}
		b[mime] = buf.String()
	}
	return b, nil
}

// MarshalOutput encodes o as an nbformat v4 output object.
func MarshalOutput(o Output) ([]byte, error) {
	var m map[string]any
	switch v := o.(type) {
	case Stream:
		m = map[string]any{"output_type": OutputStream, "name": v.Name, "text": v.Text}
	case DisplayData:
		m = map[string]any{"output_type": OutputDisplayData, "data": encodeBundle(v.Data), "metadata": metadataOrEmpty(v.Metadata)}
	case ExecuteResult:
		m = map[string]any{
			"output_type":     OutputExecuteResult,
			"execution_count": v.ExecutionCount,
			"data":            encodeBundle(v.Data),
			"metadata":        metadataOrEmpty(v.Metadata),
		}
	case Error:
		tb := v.Traceback
		if tb == nil {
			tb = []string{}
		}
		m = map[string]any{"output_type": OutputError, "ename": v.EName, "evalue": v.EValue, "traceback": tb}
	case Unknown:
		if len(v.Raw) > 0 {
			return v.Raw, nil
		}
		m = map[string]any{"output_type": v.Type}
	default:
		return nil, fmt.Errorf("marshal output %T: %w", o, ErrUnknownOutputType)
	}
	return json.Marshal(m)
}

func encodeBundle(b Bundle) map[string]any {
	out := make(map[string]any, len(b))
	for mime, payload := range b {
		if isJSONMime(mime) && json.Valid([]byte(payload)) {
			out[mime] = json.RawMessage(payload)
			continue
		}
		out[mime] = payload
	}
	return out
}

func isJSONMime(mime string) bool {
	return mime == MimeJSON || strings.HasSuffix(mime, "+json")
}

func metadataOrEmpty(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
