// Package utils holds small helpers for taming LLM output: JSON repair,
// lenient HJSON parsing and markdown cleanup.
package utils

import (
	"encoding/json"
	"fmt"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// RepairJSON attempts to fix common JSON defects in model output: missing
// quotes, single quotes, unclosed brackets, trailing commas, markdown code
// fences.
func RepairJSON(malformed string) (string, error) {
	repaired, err := jsonrepair.RepairJSON(malformed)
	if err != nil {
		return "", fmt.Errorf("json repair failed: %w", err)
	}
	return repaired, nil
}

// ParseStringList extracts a []string from raw model output. Strategies, in
// order: strict JSON, repaired JSON, HJSON. HJSON tolerates unquoted values
// and comments, which models occasionally emit despite instructions.
func ParseStringList(raw string) ([]string, error) {
	raw = CleanMarkdown(raw)

	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err == nil {
		return out, nil
	}

	if repaired, err := RepairJSON(raw); err == nil {
		if err := json.Unmarshal([]byte(repaired), &out); err == nil {
			return out, nil
		}
	}

	var loose []interface{}
	if err := hjson.Unmarshal([]byte(raw), &loose); err == nil {
		out = out[:0]
		for _, item := range loose {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		if len(out) > 0 {
			return out, nil
		}
	}

	return nil, fmt.Errorf("could not parse a string list from model output")
}

// ParseHJSONToStruct parses HJSON directly into a Go struct. Used for the
// human-edited assumption override file.
func ParseHJSONToStruct(data string, schema interface{}) error {
	if err := hjson.Unmarshal([]byte(data), schema); err != nil {
		return fmt.Errorf("hjson unmarshal: %w", err)
	}
	return nil
}
