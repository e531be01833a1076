package artifact

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"

	"reelmatch/internal/similarity"
)

var npyMagic = []byte("\x93NUMPY")

// maxNPYHeaderLen bounds the header dict; numpy writes a few hundred bytes.
const maxNPYHeaderLen = 1 << 16

var (
	npyDescrPattern   = regexp.MustCompile(`'descr'\s*:\s*'([^']*)'`)
	npyFortranPattern = regexp.MustCompile(`'fortran_order'\s*:\s*(True|False)`)
	npyShapePattern   = regexp.MustCompile(`'shape'\s*:\s*\(([^)]*)\)`)
)

type npyHeader struct {
	order   binary.ByteOrder
	width   int
	fortran bool
	shape   []int
}

// ReadNPYFile decodes a square similarity matrix saved with numpy.save.
func ReadNPYFile(path string) (*similarity.Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open similarity: %w", err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat similarity: %w", err)
	}
	return decodeNPY(bufio.NewReaderSize(f, 1<<20), info.Size())
}

// DecodeNPY reads NumPy format versions 1 to 3 holding a 2-D square array of
// <f8, >f8, <f4 or >f4 values in C or Fortran order.
func DecodeNPY(r io.Reader) (*similarity.Matrix, error) {
	return decodeNPY(r, -1)
}

// decodeNPY checks the declared shape against size (total input bytes, or
// -1 when unknown) before reading the payload, so a corrupt header cannot
// force a huge allocation.
func decodeNPY(r io.Reader, size int64) (*similarity.Matrix, error) {
	header, headerBytes, err := readNPYHeader(r)
	if err != nil {
		return nil, err
	}
	if len(header.shape) != 2 || header.shape[0] != header.shape[1] {
		return nil, fmt.Errorf("similarity must be a square 2-D array, got shape %v", header.shape)
	}
	dim := header.shape[0]
	need, err := npyPayloadSize(dim, header.width)
	if err != nil {
		return nil, err
	}
	if size >= 0 && need > size-headerBytes {
		return nil, fmt.Errorf("npy data truncated: shape (%d, %d) needs %d bytes, file has %d", dim, dim, need, max(size-headerBytes, 0))
	}

	// ReadAll grows with the bytes actually present rather than the declared size.
	raw, err := io.ReadAll(io.LimitReader(r, need))
	if err != nil {
		return nil, fmt.Errorf("read npy data: %w", err)
	}
	if int64(len(raw)) != need {
		return nil, fmt.Errorf("npy data truncated: shape (%d, %d) needs %d bytes, got %d", dim, dim, need, len(raw))
	}

	count := dim * dim
	data := make([]float64, count)
	for i := range data {
		chunk := raw[i*header.width : (i+1)*header.width]
		if header.width == 8 {
			data[i] = math.Float64frombits(header.order.Uint64(chunk))
		} else {
			data[i] = float64(math.Float32frombits(header.order.Uint32(chunk)))
		}
	}
	if header.fortran {
		data = transpose(data, dim)
	}
	return similarity.New(dim, data)
}

// npyPayloadSize returns dim*dim*width, rejecting shapes whose size
// overflows int.
func npyPayloadSize(dim, width int) (int64, error) {
	if dim == 0 {
		return 0, nil
	}
	if dim > math.MaxInt/dim/width {
		return 0, fmt.Errorf("npy shape (%d, %d) is too large", dim, dim)
	}
	return int64(dim * dim * width), nil
}

// readNPYHeader also reports how many bytes the header occupied.
func readNPYHeader(r io.Reader) (npyHeader, int64, error) {
	prefix := make([]byte, len(npyMagic)+2)
	if _, err := io.ReadFull(r, prefix); err != nil {
		return npyHeader{}, 0, fmt.Errorf("read npy magic: %w", err)
	}
	if !bytes.Equal(prefix[:len(npyMagic)], npyMagic) {
		return npyHeader{}, 0, errors.New("not a .npy file (bad magic)")
	}

	var (
		headerLen int
		lenBytes  int
	)
	switch major := prefix[len(npyMagic)]; major {
	case 1:
		var buf [2]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return npyHeader{}, 0, fmt.Errorf("read npy header length: %w", err)
		}
		headerLen, lenBytes = int(binary.LittleEndian.Uint16(buf[:])), 2
	case 2, 3:
		var buf [4]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return npyHeader{}, 0, fmt.Errorf("read npy header length: %w", err)
		}
		headerLen, lenBytes = int(binary.LittleEndian.Uint32(buf[:])), 4
	default:
		return npyHeader{}, 0, fmt.Errorf("unsupported npy format version %d", major)
	}

	if headerLen > maxNPYHeaderLen {
		return npyHeader{}, 0, fmt.Errorf("npy header length %d exceeds %d bytes", headerLen, maxNPYHeaderLen)
	}
	text := make([]byte, headerLen)
	if _, err := io.ReadFull(r, text); err != nil {
		return npyHeader{}, 0, fmt.Errorf("read npy header: %w", err)
	}
	header, err := parseNPYHeader(string(text))
	if err != nil {
		return npyHeader{}, 0, err
	}
	return header, int64(len(prefix) + lenBytes + headerLen), nil
}

func parseNPYHeader(text string) (npyHeader, error) {
	var header npyHeader

	descr := npyDescrPattern.FindStringSubmatch(text)
	if descr == nil {
		return header, errors.New("npy header missing descr")
	}
	switch descr[1] {
	case "<f8":
		header.order, header.width = binary.LittleEndian, 8
	case ">f8":
		header.order, header.width = binary.BigEndian, 8
	case "<f4":
		header.order, header.width = binary.LittleEndian, 4
	case ">f4":
		header.order, header.width = binary.BigEndian, 4
	default:
		return header, fmt.Errorf("unsupported npy dtype %q (want float32 or float64)", descr[1])
	}

	fortran := npyFortranPattern.FindStringSubmatch(text)
	if fortran == nil {
		return header, errors.New("npy header missing fortran_order")
	}
	header.fortran = fortran[1] == "True"

	shape := npyShapePattern.FindStringSubmatch(text)
	if shape == nil {
		return header, errors.New("npy header missing shape")
	}
	for _, part := range strings.Split(shape[1], ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		part = strings.TrimSuffix(part, "L")
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return header, fmt.Errorf("invalid npy shape entry %q", part)
		}
		header.shape = append(header.shape, n)
	}
	return header, nil
}

func transpose(data []float64, dim int) []float64 {
	out := make([]float64, len(data))
	for col := 0; col < dim; col++ {
		for row := 0; row < dim; row++ {
			out[row*dim+col] = data[col*dim+row]
		}
	}
	return out
}

// EncodeNPY writes m as a version 1.0, little-endian float64, C-order array.
func EncodeNPY(w io.Writer, m *similarity.Matrix) error {
	dim := m.Dim()
	dict := fmt.Sprintf("{'descr': '<f8', 'fortran_order': False, 'shape': (%d, %d), }", dim, dim)
	// magic(6) + version(2) + length(2) + dict + newline, padded to 64 bytes.
	total := len(npyMagic) + 4 + len(dict) + 1
	if rem := total % 64; rem != 0 {
		dict += strings.Repeat(" ", 64-rem)
	}
	dict += "\n"
	if len(dict) > math.MaxUint16 {
		return errors.New("npy header too large")
	}

	bw := bufio.NewWriter(w)
	if _, err := bw.Write(npyMagic); err != nil {
		return err
	}
	if _, err := bw.Write([]byte{1, 0}); err != nil {
		return err
	}
	var length [2]byte
	binary.LittleEndian.PutUint16(length[:], uint16(len(dict)))
	if _, err := bw.Write(length[:]); err != nil {
		return err
	}
	if _, err := bw.WriteString(dict); err != nil {
		return err
	}
	var value [8]byte
	for _, v := range m.RowMajor() {
		binary.LittleEndian.PutUint64(value[:], math.Float64bits(v))
		if _, err := bw.Write(value[:]); err != nil {
			return err
		}
	}
	return bw.Flush()
}
