// Package idgen genera identificadores cortos y seguros para URL con nanoid.
package idgen

import (
	"fmt"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// BatchPrefix prefijo de los identificadores de lote de ingesta.
const BatchPrefix = "batch-"

const (
	alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	length   = 12
)

// NewBatchID devuelve un identificador de lote nuevo.
func NewBatchID() (string, error) {
	id, err := nanoid.Generate(alphabet, length)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return BatchPrefix + id, nil
}
