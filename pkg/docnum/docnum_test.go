package docnum

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeGenerator_Next(t *testing.T) {
	fixed := time.Date(2026, 8, 29, 15, 45, 1, 0, time.UTC)
	g := &TimeGenerator{Now: func() time.Time { return fixed }}

	num := g.Next(PrefixImport)

	parts := strings.Split(num, "-")
	require.Len(t, parts, 4)
	assert.Equal(t, "IMP", parts[0])
	assert.Equal(t, "20260829", parts[1])
	assert.Equal(t, "154501", parts[2])
	assert.Len(t, parts[3], 4)
}

func TestTimeGenerator_SuffixCharset(t *testing.T) {
	g := New()

	for i := 0; i < 20; i++ {
		num := g.Next(PrefixTransfer)
		parts := strings.Split(num, "-")
		require.Len(t, parts, 4)
		for _, c := range parts[3] {
			assert.Contains(t, "0123456789ABCDEF", string(c))
		}
	}
}

func TestMockGenerator_Default(t *testing.T) {
	m := &MockGenerator{}
	assert.Equal(t, "STK-20260101-000000-0000", m.Next(PrefixStocktake))
}
