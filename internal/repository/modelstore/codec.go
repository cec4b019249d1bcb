package modelstore

import (
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"myBookShelf/business/recommendation"
	"time"

	"gonum.org/v1/gonum/mat"
)

const formatVersion = 1

var ErrCorruptArtifact = errors.New("corrupt model artifact")

type modelPayload struct {
	UserIDs []uint64
	// row-major n x n similarity values
	Similarity []float64
}

type storedFile struct {
	Version        int
	Checksum       string
	Users          int
	SavedAt        time.Time
	CompressedData []byte
}

// Encode writes the model as a gob envelope around a gzip-compressed,
// checksummed gob payload.
func Encode(w io.Writer, model *recommendation.SimilarityModel) error {
	if model == nil {
		return errors.New("model is nil")
	}

	n := model.Size()
	payload := modelPayload{
		UserIDs:    model.UserIDs,
		Similarity: make([]float64, 0, n*n),
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			payload.Similarity = append(payload.Similarity, model.Similarity.At(i, j))
		}
	}

	var raw bytes.Buffer
	if err := gob.NewEncoder(&raw).Encode(payload); err != nil {
		return fmt.Errorf("encode model: %w", err)
	}
	hash := sha256.Sum256(raw.Bytes())

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(raw.Bytes()); err != nil {
		return fmt.Errorf("compress model: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return fmt.Errorf("finalize compression: %w", err)
	}

	sf := storedFile{
		Version:        formatVersion,
		Checksum:       hex.EncodeToString(hash[:]),
		Users:          n,
		SavedAt:        time.Now().UTC(),
		CompressedData: compressed.Bytes(),
	}
	if err := gob.NewEncoder(w).Encode(sf); err != nil {
		return fmt.Errorf("write model: %w", err)
	}
	return nil
}

// Decode reverses Encode. Any structural or checksum problem wraps ErrCorruptArtifact.
func Decode(r io.Reader) (*recommendation.SimilarityModel, error) {
	var sf storedFile
	if err := gob.NewDecoder(r).Decode(&sf); err != nil {
		return nil, fmt.Errorf("%w: read envelope: %v", ErrCorruptArtifact, err)
	}
	if sf.Version != formatVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorruptArtifact, sf.Version)
	}

	gzr, err := gzip.NewReader(bytes.NewReader(sf.CompressedData))
	if err != nil {
		return nil, fmt.Errorf("%w: decompress: %v", ErrCorruptArtifact, err)
	}
	defer func() { _ = gzr.Close() }()

	raw, err := io.ReadAll(gzr)
	if err != nil {
		return nil, fmt.Errorf("%w: read decompressed data: %v", ErrCorruptArtifact, err)
	}

	hash := sha256.Sum256(raw)
	if checksum := hex.EncodeToString(hash[:]); checksum != sf.Checksum {
		return nil, fmt.Errorf("%w: checksum mismatch: expected %s, got %s", ErrCorruptArtifact, sf.Checksum, checksum)
	}

	var payload modelPayload
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode model: %v", ErrCorruptArtifact, err)
	}

	n := len(payload.UserIDs)
	if n == 0 || len(payload.Similarity) != n*n {
		return nil, fmt.Errorf("%w: %d users with %d similarity values", ErrCorruptArtifact, n, len(payload.Similarity))
	}

	model, err := recommendation.NewSimilarityModel(payload.UserIDs, mat.NewSymDense(n, payload.Similarity))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptArtifact, err)
	}
	return model, nil
}
