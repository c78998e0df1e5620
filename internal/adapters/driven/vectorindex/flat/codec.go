package flat

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
)

// File names inside the index directory.
const (
	IndexFileName    = "index.bin"
	MetadataFileName = "metadata.json"
)

// indexMagic identifies an index.bin file.
var indexMagic = [4]byte{'P', 'V', 'E', 'C'}

const indexVersion uint32 = 1

// header precedes the vector data in index.bin.
type header struct {
	Magic     [4]byte
	Version   uint32
	Dimension uint32
	Count     uint32
}

// encodeVectors serialises a row-major vector matrix as little-endian float32.
func encodeVectors(dimension int, vectors []float32) ([]byte, error) {
	if dimension <= 0 {
		return nil, errors.New("flat: dimension must be positive")
	}
	if len(vectors)%dimension != 0 {
		return nil, fmt.Errorf("flat: %d values is not a multiple of dimension %d", len(vectors), dimension)
	}

	var buf bytes.Buffer
	buf.Grow(16 + len(vectors)*4)
	h := header{
		Magic:     indexMagic,
		Version:   indexVersion,
		Dimension: uint32(dimension),
		Count:     uint32(len(vectors) / dimension),
	}
	if err := binary.Write(&buf, binary.LittleEndian, h); err != nil {
		return nil, fmt.Errorf("flat: write header: %w", err)
	}
	buf.Write(float32SliceToBytes(vectors))
	return buf.Bytes(), nil
}

// decodeVectors parses index.bin, returning its dimension and vector matrix.
func decodeVectors(data []byte) (int, []float32, error) {
	r := bytes.NewReader(data)
	var h header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return 0, nil, fmt.Errorf("flat: read header: %w", err)
	}
	if h.Magic != indexMagic {
		return 0, nil, errors.New("flat: not an index file")
	}
	if h.Version != indexVersion {
		return 0, nil, fmt.Errorf("flat: unsupported index version %d", h.Version)
	}

	payload, err := io.ReadAll(r)
	if err != nil {
		return 0, nil, fmt.Errorf("flat: read vectors: %w", err)
	}
	want := int(h.Count) * int(h.Dimension) * 4
	if len(payload) != want {
		return 0, nil, fmt.Errorf("flat: truncated index: have %d bytes, want %d", len(payload), want)
	}
	return int(h.Dimension), bytesToFloat32Slice(payload), nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

// writeFileAtomic writes data to a temporary file beside path and renames it into place.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}
