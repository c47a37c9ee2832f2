package export

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/guttosm/retvol/internal/domain/models"
)

var sample = []models.MonthlyStat{
	{MDate: "2020-02", Ticker: "AAA", MRet: null.FloatFrom(0.25)},
	{MDate: "2020-03", Ticker: "AAA", MRet: null.FloatFrom(-0.5), MVol: null.FloatFrom(0.125)},
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sample))
	want := "mdate,ticker,mret,mvol\n2020-02,AAA,0.25,\n2020-03,AAA,-0.5,0.125\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteFile_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "res.csv")
	require.NoError(t, WriteFile(path, sample))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "2020-03,AAA,-0.5,0.125")
}

func TestWriteFile_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "res.xlsx")
	require.NoError(t, WriteFile(path, sample))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Header, rows[0])
	assert.Equal(t, []string{"2020-02", "AAA", "0.25"}, rows[1], "missing mvol is an empty trailing cell")
	assert.Equal(t, []string{"2020-03", "AAA", "-0.5", "0.125"}, rows[2])
}

func TestWriteFile_Unsupported(t *testing.T) {
	err := WriteFile(filepath.Join(t.TempDir(), "res.json"), sample)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}
