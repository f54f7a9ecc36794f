package parse

import (
	"regexp"
	"strconv"
	"strings"
)

// Parser provides utilities for parsing GDB console output into values.
// It holds compiled regex patterns for the output shapes the flashing
// protocol consumes. Parser is stateless and safe for concurrent use.
type Parser struct {
	addrRangePattern *regexp.Regexp // Matches: (0x200b76a8 to 0x200c76a8)
}

// NewParser creates a new parser with compiled regex patterns.
func NewParser() *Parser {
	return &Parser{
		addrRangePattern: regexp.MustCompile(`\(0x([0-9a-fA-F]+) to 0x([0-9a-fA-F]+)\)`),
	}
}

// AddressRange extracts a parenthesized "0x<hex> to 0x<hex>" range from a
// line, as printed by GDB's restore command:
//
//	Restoring binary file chunk_0.bin into memory (0x200b76a8 to 0x200c76a8)
//
// Returns ok=false if the pattern is absent or either value does not parse
// as a 32-bit hex integer.
func (p *Parser) AddressRange(line string) (start, end uint32, ok bool) {
	matches := p.addrRangePattern.FindStringSubmatch(line)
	if matches == nil {
		return 0, 0, false
	}

	s, err := strconv.ParseUint(matches[1], 16, 32)
	if err != nil {
		return 0, 0, false
	}
	e, err := strconv.ParseUint(matches[2], 16, 32)
	if err != nil {
		return 0, 0, false
	}

	return uint32(s), uint32(e), true
}

// TrailingInteger extracts the last whitespace-separated token of a line
// as an unsigned decimal integer. GDB prints call and print results as
// value history lines:
//
//	$12 = 8228421
//
// Returns ok=false on empty input or if the last token is not an unsigned
// 32-bit decimal.
func (p *Parser) TrailingInteger(line string) (uint32, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return 0, false
	}

	val, err := strconv.ParseUint(fields[len(fields)-1], 10, 32)
	if err != nil {
		return 0, false
	}

	return uint32(val), true
}

// CallResult extracts the result line of a target function call.
// When no return value is expected the response is ignored and an empty
// string is returned. When a return value is expected the first response
// line is returned verbatim; an empty response yields NoReturnValueError.
func (p *Parser) CallResult(lines []string, expectReturn bool) (string, error) {
	if !expectReturn {
		return "", nil
	}
	if len(lines) == 0 {
		return "", &NoReturnValueError{}
	}
	return lines[0], nil
}
