package fbx

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/custodia-labs/pipe3d/internal/core/domain"
)

const (
	binaryMagic = "Kaydara FBX Binary  \x00"
	headerSize  = 27

	// Files from 7.5 on use 64-bit record offsets.
	wideVersion = 7500

	// maxArrayBytes caps a single decoded property array.
	maxArrayBytes = 1 << 28
)

// record is one node of the FBX record tree.
//
// Property values are normalised while reading: Y, I and L become int64,
// F and D become float64, f and d arrays become []float64, i and l arrays
// become []int64, b arrays become []bool, S becomes string and R []byte.
type record struct {
	Name     string
	Props    []any
	Children []*record
}

// child returns the first child with the given name, or nil.
func (r *record) child(name string) *record {
	if r == nil {
		return nil
	}
	for _, c := range r.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// children returns all children with the given name.
func (r *record) children(name string) []*record {
	if r == nil {
		return nil
	}
	var out []*record
	for _, c := range r.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// document is a parsed binary FBX file.
type document struct {
	Version uint32
	Records []*record
}

// find returns the first top-level record with the given name, or nil.
func (d *document) find(name string) *record {
	for _, r := range d.Records {
		if r.Name == name {
			return r
		}
	}
	return nil
}

// parse reads the record tree of a binary FBX file.
func parse(data []byte) (*document, error) {
	if len(data) < headerSize || string(data[:len(binaryMagic)]) != binaryMagic {
		if isASCII(data) {
			return nil, fmt.Errorf("%w: ascii fbx", domain.ErrUnsupportedFormat)
		}
		return nil, fmt.Errorf("%w: fbx: missing binary header", domain.ErrInvalidInput)
	}

	doc := &document{Version: binary.LittleEndian.Uint32(data[23:27])}
	p := &parser{data: data, pos: headerSize, wide: doc.Version >= wideVersion}
	for p.pos < len(p.data) {
		rec, err := p.record()
		if err != nil {
			return nil, err
		}
		if rec == nil {
			break
		}
		doc.Records = append(doc.Records, rec)
	}
	return doc, nil
}

// isASCII reports whether data looks like a text FBX file.
func isASCII(data []byte) bool {
	head := data
	if len(head) > 1024 {
		head = head[:1024]
	}
	trimmed := bytes.TrimSpace(head)
	return bytes.HasPrefix(trimmed, []byte("; FBX")) || bytes.Contains(head, []byte("FBXHeaderExtension:"))
}

type parser struct {
	data []byte
	pos  int
	wide bool
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: fbx at offset %d: %s", domain.ErrInvalidInput, p.pos, fmt.Sprintf(format, args...))
}

func (p *parser) take(n int) ([]byte, error) {
	if n < 0 || p.pos+n > len(p.data) {
		return nil, p.errorf("unexpected end of data")
	}
	b := p.data[p.pos : p.pos+n]
	p.pos += n
	return b, nil
}

func (p *parser) u8() (byte, error) {
	b, err := p.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (p *parser) u32() (uint32, error) {
	b, err := p.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (p *parser) u64() (uint64, error) {
	b, err := p.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// offset reads a record header field, 32 or 64 bits wide.
func (p *parser) offset() (uint64, error) {
	if p.wide {
		return p.u64()
	}
	v, err := p.u32()
	return uint64(v), err
}

// record reads one record and its nested list. A nil record marks the
// null sentinel that terminates a list.
func (p *parser) record() (*record, error) {
	end, err := p.offset()
	if err != nil {
		return nil, err
	}
	numProps, err := p.offset()
	if err != nil {
		return nil, err
	}
	propsLen, err := p.offset()
	if err != nil {
		return nil, err
	}
	nameLen, err := p.u8()
	if err != nil {
		return nil, err
	}
	if end == 0 {
		return nil, nil
	}
	if end > uint64(len(p.data)) || end < uint64(p.pos) {
		return nil, p.errorf("record end %d out of range", end)
	}

	name, err := p.take(int(nameLen))
	if err != nil {
		return nil, err
	}
	rec := &record{Name: string(name)}

	propsStart := p.pos
	if propsLen > end-uint64(propsStart) {
		return nil, p.errorf("property list of %q overruns record", rec.Name)
	}
	for i := uint64(0); i < numProps; i++ {
		v, err := p.property()
		if err != nil {
			return nil, err
		}
		rec.Props = append(rec.Props, v)
	}
	p.pos = propsStart + int(propsLen)

	for uint64(p.pos) < end {
		child, err := p.record()
		if err != nil {
			return nil, err
		}
		if child == nil {
			break
		}
		rec.Children = append(rec.Children, child)
	}
	p.pos = int(end)
	return rec, nil
}

func (p *parser) property() (any, error) {
	code, err := p.u8()
	if err != nil {
		return nil, err
	}

	switch code {
	case 'Y':
		b, err := p.take(2)
		if err != nil {
			return nil, err
		}
		return int64(int16(binary.LittleEndian.Uint16(b))), nil
	case 'C':
		b, err := p.u8()
		return b != 0, err
	case 'I':
		v, err := p.u32()
		return int64(int32(v)), err
	case 'L':
		v, err := p.u64()
		return int64(v), err
	case 'F':
		v, err := p.u32()
		return float64(math.Float32frombits(v)), err
	case 'D':
		v, err := p.u64()
		return math.Float64frombits(v), err
	case 'S', 'R':
		n, err := p.u32()
		if err != nil {
			return nil, err
		}
		b, err := p.take(int(n))
		if err != nil {
			return nil, err
		}
		if code == 'S' {
			return string(b), nil
		}
		return bytes.Clone(b), nil
	case 'f', 'd', 'i', 'l', 'b':
		return p.array(code)
	default:
		return nil, p.errorf("unknown property type %q", code)
	}
}

func elementSize(code byte) int {
	switch code {
	case 'd', 'l':
		return 8
	case 'f', 'i':
		return 4
	default:
		return 1
	}
}

// array reads a typed array property, inflating it when zlib encoded.
func (p *parser) array(code byte) (any, error) {
	count, err := p.u32()
	if err != nil {
		return nil, err
	}
	encoding, err := p.u32()
	if err != nil {
		return nil, err
	}
	stored, err := p.u32()
	if err != nil {
		return nil, err
	}
	raw, err := p.take(int(stored))
	if err != nil {
		return nil, err
	}

	size := uint64(count) * uint64(elementSize(code))
	if size > maxArrayBytes {
		return nil, p.errorf("array of %d elements too large", count)
	}

	var data []byte
	switch encoding {
	case 0:
		data = raw
	case 1:
		zr, err := zlib.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, p.errorf("inflate array: %v", err)
		}
		data, err = io.ReadAll(io.LimitReader(zr, int64(size)+1))
		zr.Close()
		if err != nil {
			return nil, p.errorf("inflate array: %v", err)
		}
	default:
		return nil, p.errorf("unknown array encoding %d", encoding)
	}
	if uint64(len(data)) != size {
		return nil, p.errorf("array holds %d bytes, want %d", len(data), size)
	}

	le := binary.LittleEndian
	switch code {
	case 'f':
		out := make([]float64, count)
		for i := range out {
			out[i] = float64(math.Float32frombits(le.Uint32(data[i*4:])))
		}
		return out, nil
	case 'd':
		out := make([]float64, count)
		for i := range out {
			out[i] = math.Float64frombits(le.Uint64(data[i*8:]))
		}
		return out, nil
	case 'i':
		out := make([]int64, count)
		for i := range out {
			out[i] = int64(int32(le.Uint32(data[i*4:])))
		}
		return out, nil
	case 'l':
		out := make([]int64, count)
		for i := range out {
			out[i] = int64(le.Uint64(data[i*8:]))
		}
		return out, nil
	default:
		out := make([]bool, count)
		for i := range out {
			out[i] = data[i] != 0
		}
		return out, nil
	}
}

func propString(props []any, i int) string {
	if i < len(props) {
		if s, ok := props[i].(string); ok {
			return s
		}
	}
	return ""
}

func propInt(props []any, i int) (int64, bool) {
	if i < len(props) {
		if v, ok := props[i].(int64); ok {
			return v, true
		}
	}
	return 0, false
}

func propFloat(props []any, i int) (float64, bool) {
	if i >= len(props) {
		return 0, false
	}
	switch v := props[i].(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

func propFloats(props []any, i int) []float64 {
	if i < len(props) {
		if v, ok := props[i].([]float64); ok {
			return v
		}
	}
	return nil
}
