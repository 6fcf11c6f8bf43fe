package dbx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRebind(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		in      string
		want    string
	}{
		{
			name:    "sqlite untouched",
			dialect: SQLite,
			in:      "SELECT * FROM users WHERE id = ? AND x = ?",
			want:    "SELECT * FROM users WHERE id = ? AND x = ?",
		},
		{
			name:    "postgres numbered",
			dialect: Postgres,
			in:      "UPDATE users SET a = ?, b = ? WHERE id = ?",
			want:    "UPDATE users SET a = $1, b = $2 WHERE id = $3",
		},
		{
			name:    "quoted question mark kept",
			dialect: Postgres,
			in:      "SELECT '?' FROM t WHERE id = ?",
			want:    "SELECT '?' FROM t WHERE id = $1",
		},
		{
			name:    "no placeholders",
			dialect: Postgres,
			in:      "SELECT 1",
			want:    "SELECT 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Rebind(tt.dialect, tt.in))
		})
	}
}
