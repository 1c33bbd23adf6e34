package embeddings

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/spf13/afero"

	"github.com/pders01/figma-sync/internal/artifact"
)

// WriteEmbedding writes an embedding vector to a binary file
// Format: LittleEndian float64 array
func WriteEmbedding(fs afero.Fs, path string, vec []float64) error {
	if err := ValidateEmbedding(vec); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, vec); err != nil {
		return fmt.Errorf("failed to encode embedding: %w", err)
	}

	if err := artifact.WriteFile(fs, path, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write embedding file: %w", err)
	}
	return nil
}

// ReadEmbedding reads an embedding vector from a binary file
func ReadEmbedding(fs afero.Fs, path string) ([]float64, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open embedding file: %w", err)
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("embedding file is empty")
	}

	// Each float64 is 8 bytes
	if len(data)%8 != 0 {
		return nil, fmt.Errorf("invalid embedding file size: %d (not a multiple of 8)", len(data))
	}

	vec := make([]float64, len(data)/8)
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, vec); err != nil {
		return nil, fmt.Errorf("failed to decode embedding: %w", err)
	}

	return vec, nil
}

// ValidateEmbedding checks if an embedding vector is valid
func ValidateEmbedding(vec []float64) error {
	if len(vec) == 0 {
		return fmt.Errorf("embedding vector is empty")
	}

	for i, val := range vec {
		if math.IsNaN(val) {
			return fmt.Errorf("embedding contains NaN at index %d", i)
		}
		if math.IsInf(val, 0) {
			return fmt.Errorf("embedding contains invalid value at index %d: %v", i, val)
		}
	}

	return nil
}
