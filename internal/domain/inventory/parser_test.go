package inventory_test

import (
	"math"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-stream/internal/domain/entity"
	"github.com/jhoicas/Inventario-stream/internal/domain/inventory"
)

func rec(store, item string, count int64) entity.InventoryRecord {
	return entity.InventoryRecord{Store: store, Item: item, Count: count}
}

func TestParseRecords_EscenarioBasico(t *testing.T) {
	text := "Store,Item,Count\nA,apple,10\nB,banana,5\nC,carrot,xyz\n"

	got := slices.Collect(inventory.ParseRecords(text))

	assert.Equal(t, []entity.InventoryRecord{
		rec("A", "apple", 10),
		rec("B", "banana", 5),
		rec("C", "carrot", 0),
	}, got)
}

func TestParseRecords_EncabezadosEnMinusculas(t *testing.T) {
	text := "store,item,count\nA,apple,3\n"

	got := slices.Collect(inventory.ParseRecords(text))

	assert.Equal(t, []entity.InventoryRecord{rec("A", "apple", 3)}, got)
}

func TestParseRecords_MezclaDeAliasGanaPrimeroNoVacio(t *testing.T) {
	// Store vacío cae al alias en minúscula.
	text := "Store,store,Item,Count\n,S1,pear,2\nS2,S9,plum,4\n"

	got := slices.Collect(inventory.ParseRecords(text))

	assert.Equal(t, []entity.InventoryRecord{
		rec("S1", "pear", 2),
		rec("S2", "plum", 4),
	}, got)
}

func TestParseRecords_OmiteFilasSinStoreOItem(t *testing.T) {
	text := "Store,Item,Count\n,apple,1\nA,,2\nA,kiwi,3\n"

	got := slices.Collect(inventory.ParseRecords(text))

	assert.Equal(t, []entity.InventoryRecord{rec("A", "kiwi", 3)}, got)
}

func TestParseRecords_EncabezadoDesconocidoNoProduceRegistros(t *testing.T) {
	text := "STORE,ITEM,COUNT\nA,apple,1\n"

	assert.Empty(t, slices.Collect(inventory.ParseRecords(text)))
}

func TestParseRecords_ToleraLineasEnBlancoYFilasCortas(t *testing.T) {
	text := "\n\nStore,Item,Count\n\nA,apple,7\nB\n\nC,carrot\n"

	got := slices.Collect(inventory.ParseRecords(text))

	assert.Equal(t, []entity.InventoryRecord{
		rec("A", "apple", 7),
		rec("C", "carrot", 0),
	}, got)
}

func TestParseRecords_BOMYCRLF(t *testing.T) {
	text := "\ufeffStore,Item,Count\r\nA,apple,1\r\n"

	got := slices.Collect(inventory.ParseRecords(text))

	assert.Equal(t, []entity.InventoryRecord{rec("A", "apple", 1)}, got)
}

func TestParseRecords_EntradaVacia(t *testing.T) {
	assert.Empty(t, slices.Collect(inventory.ParseRecords("")))
	assert.Empty(t, slices.Collect(inventory.ParseRecords("Store,Item,Count\n")))
}

func TestParseRecords_SecuenciaReiniciableYCorteTemprano(t *testing.T) {
	seq := inventory.ParseRecords("Store,Item,Count\nA,a,1\nA,b,2\nA,c,3\n")

	var first []entity.InventoryRecord
	for r := range seq {
		first = append(first, r)
		if len(first) == 2 {
			break
		}
	}
	require.Len(t, first, 2)

	// Una segunda iteración vuelve a empezar desde el principio.
	assert.Len(t, slices.Collect(seq), 3)
}

func TestParseCount(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want int64
	}{
		{"10", 10},
		{"10.9", 10},
		{" 42 ", 42},
		{"0.5", 0},
		{"1e3", 1000},
		{"", 0},
		{"xyz", 0},
		{"NaN", 0},
		{"Inf", 0},
		{"-3", 0},
		{"-0.5", 0},
		{"99999999999999999999999", math.MaxInt64},
		{"9223372036854775807", math.MaxInt64},
		{"9223372036854775808", math.MaxInt64},
		{"9223372036854775806.9", 9223372036854775806},
		{"1e18", 1_000_000_000_000_000_000},
		{"1e20000000", math.MaxInt64},
		{"1e-20000000", 0},
		{"-1e20000000", 0},
	} {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, inventory.ParseCount(tc.in))
		})
	}
}

func TestParseCount_ExponentesExtremosNoReescalan(t *testing.T) {
	start := time.Now()
	for _, in := range []string{"1e2000000000", "1e-2000000000", "123456789e-2000000000", "9e2147483647"} {
		inventory.ParseCount(in)
	}
	assert.Less(t, time.Since(start), time.Second)
}

func TestParseRecords_CountEnormeSatura(t *testing.T) {
	recs := slices.Collect(inventory.ParseRecords("Store,Item,Count\nA,apple,1e20000000\n"))
	require.Len(t, recs, 1)
	assert.Equal(t, int64(math.MaxInt64), recs[0].Count)
}
