package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineTotal(t *testing.T) {
	t.Run("applies discount before tax", func(t *testing.T) {
		// 2 x 1000 = 2000, minus 10% = 1800, plus 15% tax = 2070
		total := LineTotal(2, 1000, 10, 15)
		assert.Equal(t, 2070.0, total)
	})

	t.Run("no discount no tax", func(t *testing.T) {
		assert.Equal(t, 5000.0, LineTotal(5, 1000, 0, 0))
	})

	t.Run("tax only", func(t *testing.T) {
		assert.Equal(t, 5750.0, LineTotal(1, 5000, 0, 15))
	})

	t.Run("full discount yields zero", func(t *testing.T) {
		assert.Equal(t, 0.0, LineTotal(3, 200, 100, 25))
	})

	t.Run("zero quantity yields zero", func(t *testing.T) {
		assert.Equal(t, 0.0, LineTotal(0, 1000, 10, 15))
	})

	t.Run("zero unit price yields zero", func(t *testing.T) {
		assert.Equal(t, 0.0, LineTotal(4, 0, 10, 15))
	})

	t.Run("fractional quantity", func(t *testing.T) {
		// 2.5 x 100 = 250, minus 20% = 200, plus 10% = 220
		assert.Equal(t, 220.0, LineTotal(2.5, 100, 20, 10))
	})

	t.Run("rounds to cents", func(t *testing.T) {
		// 1 x 9.99 minus 33% = 6.6933, plus 7% = 7.161831 -> 7.16
		assert.Equal(t, 7.16, LineTotal(1, 9.99, 33, 7))
	})

	t.Run("recomputation is idempotent", func(t *testing.T) {
		inputs := [][4]float64{
			{2, 1000, 10, 15},
			{1, 5000, 0, 15},
			{3.5, 99.95, 12.5, 25},
			{7, 0.01, 0, 0},
		}
		for _, in := range inputs {
			first := LineTotal(in[0], in[1], in[2], in[3])
			second := LineTotal(in[0], in[1], in[2], in[3])
			assert.Equal(t, first, second)
			// rounding is stable: re-rounding the stored value changes nothing
			assert.Equal(t, first, Round(first))
		}
	})
}

func TestSubtotal(t *testing.T) {
	t.Run("sums line totals in order", func(t *testing.T) {
		assert.Equal(t, 2570.0, Subtotal([]float64{2070, 500, 0}))
	})

	t.Run("empty collection", func(t *testing.T) {
		assert.Equal(t, 0.0, Subtotal(nil))
	})

	t.Run("single item", func(t *testing.T) {
		assert.Equal(t, 5750.0, Subtotal([]float64{5750}))
	})
}
