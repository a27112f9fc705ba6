package generate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	supplegen "github.com/Paranoid-AF/supplegen"
)

// ErrNoJSON reports model output from which no JSON array could be recovered.
var ErrNoJSON = errors.New("no JSON array in response")

// Strategy names the parse stage that produced an Extraction.
type Strategy string

const (
	// StrategyStrict means the cleaned text was itself a JSON array.
	StrategyStrict Strategy = "strict"
	// StrategyScan means the array was cut from surrounding text.
	StrategyScan Strategy = "scan"
)

// Extraction is the result of a successful parse. Records may be empty when
// the model legitimately returned [].
type Extraction struct {
	Records  []supplegen.Record
	Strategy Strategy
	// Skipped counts array elements that were not JSON objects.
	Skipped int
}

// previewBytes limits how much of an unparseable response goes into errors.
const previewBytes = 200

// stripFences removes markdown code-fence markers and surrounding whitespace.
func stripFences(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}

// ExtractRecords recovers a JSON array of objects from model output.
// It first parses the fence-stripped text strictly; if that is not a JSON
// array it parses the span from the first '[' to the last ']'.
func ExtractRecords(text string) (*Extraction, error) {
	cleaned := stripFences(text)

	if elems, err := decodeArray(cleaned); err == nil {
		return newExtraction(elems, StrategyStrict), nil
	}

	start := strings.IndexByte(cleaned, '[')
	end := strings.LastIndexByte(cleaned, ']')
	if start < 0 || end <= start {
		return nil, fmt.Errorf("%w: %s", ErrNoJSON, preview(cleaned))
	}

	elems, err := decodeArray(cleaned[start : end+1])
	if err != nil {
		return nil, fmt.Errorf("%w: %v: %s", ErrNoJSON, err, preview(cleaned))
	}
	return newExtraction(elems, StrategyScan), nil
}

// decodeArray strictly decodes s as a single JSON array.
func decodeArray(s string) ([]json.RawMessage, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	var elems []json.RawMessage
	if err := dec.Decode(&elems); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("trailing data after JSON array")
	}
	if elems == nil {
		// "null" decodes without error but is not an array
		return nil, fmt.Errorf("not a JSON array")
	}
	return elems, nil
}

func newExtraction(elems []json.RawMessage, strategy Strategy) *Extraction {
	ext := &Extraction{
		Records:  make([]supplegen.Record, 0, len(elems)),
		Strategy: strategy,
	}
	for _, raw := range elems {
		rec, ok := decodeObject(raw)
		if !ok {
			ext.Skipped++
			continue
		}
		ext.Records = append(ext.Records, rec)
	}
	return ext
}

func decodeObject(raw json.RawMessage) (supplegen.Record, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var rec supplegen.Record
	if err := dec.Decode(&rec); err != nil {
		return nil, false
	}
	return rec, true
}

func preview(s string) string {
	if len(s) <= previewBytes {
		return s
	}
	return s[:previewBytes] + "..."
}
