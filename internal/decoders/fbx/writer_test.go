package fbx

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// node is a record to be written by encode.
type node struct {
	name     string
	props    []any
	children []*node
}

// deflated marks a float64 array that is written zlib compressed.
type deflated []float64

func n(name string, props []any, children ...*node) *node {
	return &node{name: name, props: props, children: children}
}

// p builds a Properties70 "P" entry.
func p(name, typ string, values ...any) *node {
	return n("P", append([]any{name, typ, "", "A"}, values...))
}

// encode writes a binary FBX file holding the given top-level records.
func encode(t *testing.T, version uint32, records ...*node) []byte {
	t.Helper()
	wide := version >= wideVersion

	var buf bytes.Buffer
	buf.WriteString(binaryMagic)
	buf.Write([]byte{0x1a, 0x00})
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, version))
	for _, r := range records {
		writeRecord(t, &buf, r, wide)
	}
	writeNull(&buf, wide)
	buf.Write(make([]byte, 160))
	return buf.Bytes()
}

func headerLen(wide bool) int {
	if wide {
		return 25
	}
	return 13
}

func writeNull(buf *bytes.Buffer, wide bool) {
	buf.Write(make([]byte, headerLen(wide)))
}

func putOffset(b []byte, v int, wide bool) {
	if wide {
		binary.LittleEndian.PutUint64(b, uint64(v))
		return
	}
	binary.LittleEndian.PutUint32(b, uint32(v))
}

func writeRecord(t *testing.T, buf *bytes.Buffer, r *node, wide bool) {
	start := buf.Len()
	buf.Write(make([]byte, headerLen(wide)-1))
	buf.WriteByte(byte(len(r.name)))
	buf.WriteString(r.name)

	propsStart := buf.Len()
	for _, v := range r.props {
		writeProp(t, buf, v)
	}
	propsLen := buf.Len() - propsStart

	if len(r.children) > 0 {
		for _, c := range r.children {
			writeRecord(t, buf, c, wide)
		}
		writeNull(buf, wide)
	}

	width := 4
	if wide {
		width = 8
	}
	hdr := buf.Bytes()[start:]
	putOffset(hdr[0:], buf.Len(), wide)
	putOffset(hdr[width:], len(r.props), wide)
	putOffset(hdr[2*width:], propsLen, wide)
}

func writeProp(t *testing.T, buf *bytes.Buffer, v any) {
	le := binary.LittleEndian
	switch x := v.(type) {
	case int16:
		buf.WriteByte('Y')
		_ = binary.Write(buf, le, x)
	case bool:
		buf.WriteByte('C')
		if x {
			buf.WriteByte(1)
		} else {
			buf.WriteByte(0)
		}
	case int32:
		buf.WriteByte('I')
		_ = binary.Write(buf, le, x)
	case int64:
		buf.WriteByte('L')
		_ = binary.Write(buf, le, x)
	case float32:
		buf.WriteByte('F')
		_ = binary.Write(buf, le, x)
	case float64:
		buf.WriteByte('D')
		_ = binary.Write(buf, le, x)
	case string:
		buf.WriteByte('S')
		_ = binary.Write(buf, le, uint32(len(x)))
		buf.WriteString(x)
	case []byte:
		buf.WriteByte('R')
		_ = binary.Write(buf, le, uint32(len(x)))
		buf.Write(x)
	case []float32:
		raw := make([]byte, 4*len(x))
		for i, f := range x {
			le.PutUint32(raw[i*4:], math.Float32bits(f))
		}
		writeArray(buf, 'f', len(x), 0, raw)
	case []float64:
		writeArray(buf, 'd', len(x), 0, float64Bytes(x))
	case deflated:
		var z bytes.Buffer
		zw := zlib.NewWriter(&z)
		_, err := zw.Write(float64Bytes(x))
		require.NoError(t, err)
		require.NoError(t, zw.Close())
		writeArray(buf, 'd', len(x), 1, z.Bytes())
	case []int32:
		raw := make([]byte, 4*len(x))
		for i, f := range x {
			le.PutUint32(raw[i*4:], uint32(f))
		}
		writeArray(buf, 'i', len(x), 0, raw)
	default:
		t.Fatalf("unsupported property %T", v)
	}
}

func float64Bytes(values []float64) []byte {
	raw := make([]byte, 8*len(values))
	for i, f := range values {
		binary.LittleEndian.PutUint64(raw[i*8:], math.Float64bits(f))
	}
	return raw
}

func writeArray(buf *bytes.Buffer, code byte, count, encoding int, raw []byte) {
	buf.WriteByte(code)
	_ = binary.Write(buf, binary.LittleEndian, uint32(count))
	_ = binary.Write(buf, binary.LittleEndian, uint32(encoding))
	_ = binary.Write(buf, binary.LittleEndian, uint32(len(raw)))
	buf.Write(raw)
}
