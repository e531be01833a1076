package artifact

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reelmatch/internal/similarity"
)

func buildNPY(t *testing.T, major byte, descr string, fortran bool, shape string, values []float64) []byte {
	t.Helper()
	order := "False"
	if fortran {
		order = "True"
	}
	dict := "{'descr': '" + descr + "', 'fortran_order': " + order + ", 'shape': " + shape + ", }\n"

	var buf bytes.Buffer
	buf.Write(npyMagic)
	buf.Write([]byte{major, 0})
	if major == 1 {
		_ = binary.Write(&buf, binary.LittleEndian, uint16(len(dict)))
	} else {
		_ = binary.Write(&buf, binary.LittleEndian, uint32(len(dict)))
	}
	buf.WriteString(dict)

	var bo binary.ByteOrder = binary.LittleEndian
	if strings.HasPrefix(descr, ">") {
		bo = binary.BigEndian
	}
	for _, v := range values {
		if strings.HasSuffix(descr, "f4") {
			var b [4]byte
			bo.PutUint32(b[:], math.Float32bits(float32(v)))
			buf.Write(b[:])
		} else {
			var b [8]byte
			bo.PutUint64(b[:], math.Float64bits(v))
			buf.Write(b[:])
		}
	}
	return buf.Bytes()
}

func TestDecodeNPYVariants(t *testing.T) {
	// Row-major [[1, 0.5], [0.25, 1]].
	cOrder := []float64{1, 0.5, 0.25, 1}
	fOrder := []float64{1, 0.25, 0.5, 1}

	cases := []struct {
		name    string
		major   byte
		descr   string
		fortran bool
		values  []float64
	}{
		{"v1 little f8", 1, "<f8", false, cOrder},
		{"v2 big f8", 2, ">f8", false, cOrder},
		{"v3 little f4", 3, "<f4", false, cOrder},
		{"v1 big f4", 1, ">f4", false, cOrder},
		{"fortran order", 1, "<f8", true, fOrder},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := buildNPY(t, tc.major, tc.descr, tc.fortran, "(2, 2)", tc.values)
			m, err := DecodeNPY(bytes.NewReader(raw))
			if err != nil {
				t.Fatalf("DecodeNPY returned error: %v", err)
			}
			if m.Dim() != 2 {
				t.Fatalf("expected dim 2, got %d", m.Dim())
			}
			if at(m, 0, 1) != 0.5 || at(m, 1, 0) != 0.25 || at(m, 1, 1) != 1 {
				t.Fatalf("unexpected values: %v", m.RowMajor())
			}
		})
	}
}

func TestDecodeNPYRejectsBadInput(t *testing.T) {
	cases := map[string][]byte{
		"bad magic":     []byte("NOTNUMPY"),
		"non square":    buildNPY(t, 1, "<f8", false, "(2, 3)", make([]float64, 6)),
		"one dimension": buildNPY(t, 1, "<f8", false, "(4,)", make([]float64, 4)),
		"int dtype":     buildNPY(t, 1, "<i8", false, "(1, 1)", make([]float64, 1)),
		"truncated":     buildNPY(t, 1, "<f8", false, "(3, 3)", make([]float64, 4)),
		"overflow":      buildNPY(t, 1, "<f8", false, "(4000000000, 4000000000)", nil),
		"wraps int64":   buildNPY(t, 1, "<f8", false, "(3037000500, 3037000500)", nil),
		"huge shape":    buildNPY(t, 1, "<f8", false, "(100000, 100000)", make([]float64, 4)),
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := DecodeNPY(bytes.NewReader(raw)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestEncodeNPYRoundTripAndAlignment(t *testing.T) {
	m, err := similarity.FromRows([][]float64{{1, math.NaN(), 0.3}, {0.1, 1, 0.2}, {0.3, 0.2, 1}})
	if err != nil {
		t.Fatalf("FromRows returned error: %v", err)
	}
	var buf bytes.Buffer
	if err := EncodeNPY(&buf, m); err != nil {
		t.Fatalf("EncodeNPY returned error: %v", err)
	}

	headerLen := int(binary.LittleEndian.Uint16(buf.Bytes()[8:10]))
	if (10+headerLen)%64 != 0 {
		t.Fatalf("header not 64-byte aligned: %d", 10+headerLen)
	}

	decoded, err := DecodeNPY(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("DecodeNPY returned error: %v", err)
	}
	if decoded.Dim() != 3 || at(decoded, 2, 1) != 0.2 || !math.IsNaN(at(decoded, 0, 1)) {
		t.Fatalf("unexpected decoded matrix: %v", decoded.RowMajor())
	}
}

func TestReadNPYFileRejectsShapeLargerThanFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "similarity.npy")
	raw := buildNPY(t, 2, "<f8", false, "(100000, 100000)", []float64{1, 2, 3})
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write npy: %v", err)
	}
	_, err := ReadNPYFile(path)
	if err == nil || !strings.Contains(err.Error(), "needs 80000000000 bytes, file has 24") {
		t.Fatalf("expected size mismatch error, got %v", err)
	}
}

func TestDecodeNPYRejectsOverflowingShape(t *testing.T) {
	raw := buildNPY(t, 1, "<f8", false, "(3037000500, 3037000500)", nil)
	_, err := DecodeNPY(bytes.NewReader(raw))
	if err == nil || !strings.Contains(err.Error(), "too large") {
		t.Fatalf("expected too-large shape error, got %v", err)
	}
}

func at(m *similarity.Matrix, i, j int) float64 {
	row, _ := m.Row(i)
	return row[j]
}
