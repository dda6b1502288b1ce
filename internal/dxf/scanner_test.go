package dxf

import (
	"bytes"
	"encoding/binary"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for the tag scanners:
// - ASCII reader yields code/value pairs from line pairs
// - ASCII reader strips line terminators but keeps interior whitespace
// - ASCII reader reports ErrStructure for non-numeric group codes
// - ASCII reader reports ErrStructure for a group code with no value line
// - newTagReader sniffs the binary sentinel and decodes typed values
// - Binary reader reports ErrStructure on truncated values

func TestASCIIReader_Pairs(t *testing.T) {
	t.Parallel()

	input := "0\r\nSECTION\r\n2\r\nHEADER\r\n"
	r, err := newTagReader(strings.NewReader(input))
	require.NoError(t, err)

	tag, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, Tag{Code: 0, Value: "SECTION"}, tag)

	tag, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, Tag{Code: 2, Value: "HEADER"}, tag)

	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestASCIIReader_KeepsInteriorWhitespace(t *testing.T) {
	t.Parallel()

	// Layer names may legitimately contain spaces.
	input := "8\nMAIN GIRDER  LAYER\n"
	r, err := newTagReader(strings.NewReader(input))
	require.NoError(t, err)

	tag, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "MAIN GIRDER  LAYER", tag.Value)
}

func TestASCIIReader_InvalidGroupCode(t *testing.T) {
	t.Parallel()

	r, err := newTagReader(strings.NewReader("not-a-code\nvalue\n"))
	require.NoError(t, err)

	_, err = r.Next()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStructure)
}

func TestASCIIReader_CodeWithoutValue(t *testing.T) {
	t.Parallel()

	r, err := newTagReader(strings.NewReader("0\n"))
	require.NoError(t, err)

	_, err = r.Next()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStructure)
}

// binTag appends one binary-container tag to buf.
func binTag(t *testing.T, buf *bytes.Buffer, code int, value interface{}) {
	t.Helper()
	require.NoError(t, binary.Write(buf, binary.LittleEndian, int16(code)))
	switch v := value.(type) {
	case string:
		buf.WriteString(v)
		buf.WriteByte(0)
	case float64:
		require.NoError(t, binary.Write(buf, binary.LittleEndian, v))
	case int16:
		require.NoError(t, binary.Write(buf, binary.LittleEndian, v))
	case int32:
		require.NoError(t, binary.Write(buf, binary.LittleEndian, v))
	default:
		t.Fatalf("unsupported binary tag value %T", value)
	}
}

func TestBinaryReader_SentinelAndTypedValues(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	buf.WriteString(binarySentinel)
	binTag(t, &buf, 0, "SECTION")
	binTag(t, &buf, 10, 1234.5)   // double range
	binTag(t, &buf, 70, int16(4)) // int16 range
	binTag(t, &buf, 90, int32(7)) // int32 range

	r, err := newTagReader(&buf)
	require.NoError(t, err)
	require.IsType(t, &binaryTagReader{}, r)

	tag, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, Tag{Code: 0, Value: "SECTION"}, tag)

	tag, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, 10, tag.Code)
	f, err := tag.Float()
	require.NoError(t, err)
	assert.Equal(t, 1234.5, f)

	tag, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, Tag{Code: 70, Value: "4"}, tag)

	tag, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, Tag{Code: 90, Value: "7"}, tag)

	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestBinaryReader_TruncatedValue(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	buf.WriteString(binarySentinel)
	// Double-range code followed by only 4 of the 8 value bytes.
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, int16(10)))
	buf.Write([]byte{1, 2, 3, 4})

	r, err := newTagReader(&buf)
	require.NoError(t, err)

	_, err = r.Next()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStructure)
}

func TestNewTagReader_ASCIIWhenNoSentinel(t *testing.T) {
	t.Parallel()

	r, err := newTagReader(strings.NewReader("0\nEOF\n"))
	require.NoError(t, err)
	require.IsType(t, &asciiTagReader{}, r)
}
