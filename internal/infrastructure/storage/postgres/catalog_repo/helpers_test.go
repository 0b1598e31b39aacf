package catalog_repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderBy(t *testing.T) {
	columns := []string{"code", "name", "created_at"}

	tests := []struct {
		name    string
		orderBy string
		want    string
		wantErr bool
	}{
		{name: "default", orderBy: "", want: "name ASC"},
		{name: "ascending", orderBy: "code", want: "code ASC"},
		{name: "descending", orderBy: "-created_at", want: "created_at DESC"},
		{name: "unknown column", orderBy: "password", wantErr: true},
		{name: "injection attempt", orderBy: "name; DROP TABLE cat_products", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseOrderBy(tt.orderBy, columns)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
