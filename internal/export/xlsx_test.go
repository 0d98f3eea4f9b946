package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"subtrack/internal/entity"
)

func TestWriteXLSX(t *testing.T) {
	dir := t.TempDir()
	subs := []entity.Subscription{
		exportSub("Netflix", "149", true, ""),
		exportSub("Spotify", "129.50", false, "family plan"),
	}

	path, err := WriteXLSX(dir, subs)
	require.NoError(t, err)
	assert.FileExists(t, path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, headerFields, rows[0])
	assert.Equal(t, "Netflix", rows[1][0])
	assert.Equal(t, "149", rows[1][1])
	assert.Equal(t, "Active", rows[1][3])
	assert.Equal(t, "Spotify", rows[2][0])
	assert.Equal(t, "Ended", rows[2][3])
	assert.Equal(t, "family plan", rows[2][4])
}

func TestWriteXLSXEmptyList(t *testing.T) {
	path, err := WriteXLSX(t.TempDir(), nil)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, headerFields, rows[0])
}
