package gkg

import (
	"math"
	"strconv"
	"strings"
)

// splitBlocks splits input on sep and drops empty parts.
func splitBlocks(input string, sep byte) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, string(sep))
	blocks := parts[:0]
	for _, p := range parts {
		if p != "" {
			blocks = append(blocks, p)
		}
	}
	return blocks
}

// splitList splits a ';'-delimited list of plain strings.
// The result is never nil.
func splitList(input string) []string {
	blocks := splitBlocks(input, ';')
	if blocks == nil {
		return []string{}
	}
	return blocks
}

// field returns parts[i], or "" when i is out of range.
func field(parts []string, i int) string {
	if i < 0 || i >= len(parts) {
		return ""
	}
	return parts[i]
}

// nonEmpty returns a pointer to input, or nil when input is empty.
func nonEmpty(input string) *string {
	if input == "" {
		return nil
	}
	return &input
}

// parseFloat parses a decimal float. Errors, hex literals and non-finite
// values (NaN, Inf, overflow) yield 0 so records always serialize to JSON.
func parseFloat(s string) float64 {
	if strings.ContainsAny(s, "xX") {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func parseInt64(s string) int64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseInt32(s string) int32 {
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0
	}
	return int32(v)
}
