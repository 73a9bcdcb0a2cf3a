package recordfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadMissingFile(t *testing.T) {
	rows, err := Read(filepath.Join(t.TempDir(), "absent.csv"))
	assert.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stock.csv")

	err := Write(path, []string{"name", "color", "lot_number"}, []Row{
		{"name": "Cuir", "color": "noir", "lot_number": "L1"},
		{"name": "Laine, fine", "color": "", "lot_number": "L2"},
	})
	require.NoError(t, err)

	rows, err := Read(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Cuir", rows[0].Get("name"))
	assert.Equal(t, "Laine, fine", rows[1].Get("name"))
	assert.Equal(t, "L2", rows[1].Get("lot_number"))
}

func TestReadToleratesMissingColumns(t *testing.T) {
	// An older file written before the color column existed.
	path := filepath.Join(t.TempDir(), "stock.csv")
	legacy := "name,lot_number,quantity\nCuir,L1,10\n"
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	rows, err := Read(path)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "", rows[0].Get("color"))
	assert.Equal(t, "10", rows[0].Get("quantity"))
}
