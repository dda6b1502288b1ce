package dxf

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrStructure marks fatal structural corruption of the drawing container.
// No partial output is possible for these failures since no entity data
// exists; callers map it to a 4xx-class response.
var ErrStructure = errors.New("dxf: structural error")

// binarySentinel opens every binary-container drawing file.
const binarySentinel = "AutoCAD Binary DXF\r\n\x1a\x00"

// tagReader yields group-code/value pairs from either container encoding.
// Next returns io.EOF after the last tag.
type tagReader interface {
	Next() (Tag, error)
}

// newTagReader sniffs the container encoding and returns the matching
// reader. ASCII containers hold one group code and one value per line;
// binary containers start with a fixed sentinel and encode values by
// group-code range.
func newTagReader(r io.Reader) (tagReader, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(binarySentinel))
	if err == nil && string(head) == binarySentinel {
		if _, err := br.Discard(len(binarySentinel)); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStructure, err)
		}
		return &binaryTagReader{r: br}, nil
	}
	return &asciiTagReader{r: br}, nil
}

// asciiTagReader reads line-pair tags from an ASCII container.
type asciiTagReader struct {
	r    *bufio.Reader
	line int
}

func (a *asciiTagReader) Next() (Tag, error) {
	codeLine, err := a.readLine()
	if err != nil {
		return Tag{}, err
	}
	code, convErr := strconv.Atoi(strings.TrimSpace(codeLine))
	if convErr != nil {
		return Tag{}, fmt.Errorf("%w: invalid group code %q at line %d", ErrStructure, strings.TrimSpace(codeLine), a.line)
	}
	valueLine, err := a.readLine()
	if err != nil {
		if err == io.EOF {
			return Tag{}, fmt.Errorf("%w: group code %d at line %d has no value", ErrStructure, code, a.line)
		}
		return Tag{}, err
	}
	// Values keep interior whitespace; only the line terminator is stripped.
	return Tag{Code: code, Value: strings.TrimRight(valueLine, "\r\n")}, nil
}

func (a *asciiTagReader) readLine() (string, error) {
	line, err := a.r.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			a.line++
			return line, nil
		}
		return "", err
	}
	a.line++
	return line, nil
}

// binaryTagReader reads sentinel-prefixed binary containers. Group codes are
// little-endian int16; the value encoding depends on the group-code range.
type binaryTagReader struct {
	r *bufio.Reader
}

func (b *binaryTagReader) Next() (Tag, error) {
	var code int16
	if err := binary.Read(b.r, binary.LittleEndian, &code); err != nil {
		if err == io.EOF {
			return Tag{}, io.EOF
		}
		return Tag{}, fmt.Errorf("%w: truncated group code: %v", ErrStructure, err)
	}

	value, err := b.readValue(int(code))
	if err != nil {
		return Tag{}, err
	}
	return Tag{Code: int(code), Value: value}, nil
}

func (b *binaryTagReader) readValue(code int) (string, error) {
	switch groupValueKind(code) {
	case kindString:
		s, err := b.r.ReadString(0)
		if err != nil {
			return "", fmt.Errorf("%w: truncated string value for code %d", ErrStructure, code)
		}
		return strings.TrimSuffix(s, "\x00"), nil
	case kindDouble:
		var f float64
		if err := binary.Read(b.r, binary.LittleEndian, &f); err != nil {
			return "", fmt.Errorf("%w: truncated double value for code %d", ErrStructure, code)
		}
		return strconv.FormatFloat(f, 'g', -1, 64), nil
	case kindInt16:
		var n int16
		if err := binary.Read(b.r, binary.LittleEndian, &n); err != nil {
			return "", fmt.Errorf("%w: truncated int16 value for code %d", ErrStructure, code)
		}
		return strconv.Itoa(int(n)), nil
	case kindInt32:
		var n int32
		if err := binary.Read(b.r, binary.LittleEndian, &n); err != nil {
			return "", fmt.Errorf("%w: truncated int32 value for code %d", ErrStructure, code)
		}
		return strconv.Itoa(int(n)), nil
	case kindInt64:
		var n int64
		if err := binary.Read(b.r, binary.LittleEndian, &n); err != nil {
			return "", fmt.Errorf("%w: truncated int64 value for code %d", ErrStructure, code)
		}
		return strconv.FormatInt(n, 10), nil
	case kindBool:
		v, err := b.r.ReadByte()
		if err != nil {
			return "", fmt.Errorf("%w: truncated bool value for code %d", ErrStructure, code)
		}
		return strconv.Itoa(int(v)), nil
	case kindBinary:
		length, err := b.r.ReadByte()
		if err != nil {
			return "", fmt.Errorf("%w: truncated chunk length for code %d", ErrStructure, code)
		}
		buf := make([]byte, int(length))
		if _, err := io.ReadFull(b.r, buf); err != nil {
			return "", fmt.Errorf("%w: truncated chunk value for code %d", ErrStructure, code)
		}
		return fmt.Sprintf("%X", buf), nil
	default:
		return "", fmt.Errorf("%w: unsupported group code %d", ErrStructure, code)
	}
}

type valueKind int

const (
	kindString valueKind = iota
	kindDouble
	kindInt16
	kindInt32
	kindInt64
	kindBool
	kindBinary
	kindInvalid
)

// groupValueKind maps a group code to its binary value encoding, per the
// exchange-format reference ranges.
func groupValueKind(code int) valueKind {
	switch {
	case code >= 0 && code <= 9:
		return kindString
	case code >= 10 && code <= 59:
		return kindDouble
	case code >= 60 && code <= 79:
		return kindInt16
	case code >= 90 && code <= 99:
		return kindInt32
	case code == 100 || code == 102 || code == 105:
		return kindString
	case code >= 110 && code <= 149:
		return kindDouble
	case code >= 160 && code <= 169:
		return kindInt64
	case code >= 170 && code <= 179:
		return kindInt16
	case code >= 210 && code <= 239:
		return kindDouble
	case code >= 270 && code <= 289:
		return kindInt16
	case code >= 290 && code <= 299:
		return kindBool
	case code >= 300 && code <= 309:
		return kindString
	case code >= 310 && code <= 319:
		return kindBinary
	case code >= 320 && code <= 369:
		return kindString
	case code >= 370 && code <= 389:
		return kindInt16
	case code >= 390 && code <= 399:
		return kindString
	case code >= 400 && code <= 409:
		return kindInt16
	case code >= 410 && code <= 419:
		return kindString
	case code >= 420 && code <= 429:
		return kindInt32
	case code >= 430 && code <= 439:
		return kindString
	case code >= 440 && code <= 459:
		return kindInt32
	case code >= 460 && code <= 469:
		return kindDouble
	case code >= 470 && code <= 481:
		return kindString
	case code == 999:
		return kindString
	case code >= 1000 && code <= 1009:
		return kindString
	case code >= 1010 && code <= 1059:
		return kindDouble
	case code >= 1060 && code <= 1070:
		return kindInt16
	case code == 1071:
		return kindInt32
	default:
		return kindInvalid
	}
}
