package inventory

import (
	"encoding/csv"
	"errors"
	"io"
	"iter"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-stream/internal/domain/entity"
)

type field int

const (
	fieldStore field = iota
	fieldItem
	fieldCount
)

// headerAliases tabla explícita de encabezados aceptados por campo canónico.
// El orden importa: gana el primer alias con valor no vacío.
var headerAliases = map[field][]string{
	fieldStore: {"Store", "store"},
	fieldItem:  {"Item", "item"},
	fieldCount: {"Count", "count"},
}

var maxCount = decimal.NewFromInt(math.MaxInt64)

// ParseRecords convierte texto CSV con encabezado en registros de inventario validados.
// La secuencia es perezosa, de una sola pasada y se puede reiniciar llamando de nuevo.
// Las filas sin store o item se omiten en silencio; un count inválido se convierte en 0.
func ParseRecords(text string) iter.Seq[entity.InventoryRecord] {
	return func(yield func(entity.InventoryRecord) bool) {
		r := csv.NewReader(strings.NewReader(strings.TrimPrefix(text, "\ufeff")))
		r.FieldsPerRecord = -1
		r.LazyQuotes = true
		r.ReuseRecord = true

		header, err := r.Read()
		if err != nil {
			return
		}
		cols := columnIndex(header)

		for {
			row, err := r.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				var perr *csv.ParseError
				if errors.As(err, &perr) {
					continue
				}
				return
			}
			rec, ok := toRecord(cols, row)
			if !ok {
				continue
			}
			if !yield(rec) {
				return
			}
		}
	}
}

// columnIndex mapea cada nombre de encabezado a su posición; ante duplicados gana el último.
func columnIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	return cols
}

func toRecord(cols map[string]int, row []string) (entity.InventoryRecord, bool) {
	store := lookup(cols, row, fieldStore)
	item := lookup(cols, row, fieldItem)
	if store == "" || item == "" {
		return entity.InventoryRecord{}, false
	}
	return entity.InventoryRecord{
		Store: store,
		Item:  item,
		Count: ParseCount(lookup(cols, row, fieldCount)),
	}, true
}

func lookup(cols map[string]int, row []string, f field) string {
	for _, alias := range headerAliases[f] {
		i, ok := cols[alias]
		if !ok || i >= len(row) {
			continue
		}
		if v := row[i]; v != "" {
			return v
		}
	}
	return ""
}

// maxCountDigits dígitos de la parte entera de math.MaxInt64.
const maxCountDigits = 19

// ParseCount interpreta s como número y trunca hacia cero.
// Vacío, no numérico o negativo devuelve 0; por encima de math.MaxInt64 satura.
// La magnitud se acota antes de truncar: un exponente enorme nunca se reescala.
func ParseCount(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.Sign() <= 0 {
		return 0
	}
	intDigits := int64(len(d.Coefficient().String())) + int64(d.Exponent())
	switch {
	case intDigits <= 0:
		return 0
	case intDigits > maxCountDigits:
		return math.MaxInt64
	}
	d = d.Truncate(0)
	if d.GreaterThan(maxCount) {
		return math.MaxInt64
	}
	return d.IntPart()
}
