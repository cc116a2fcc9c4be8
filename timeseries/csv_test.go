package timeseries

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/perfdash/record"
)

func TestLoadCSVFromReader(t *testing.T) {
	csvData := `year,month,day,value
2019,12,23,4.478
2019,12,24,null
2019,12,25,4.61`

	series, err := LoadCSVFromReader(strings.NewReader(csvData), nil)
	require.NoError(t, err)

	require.Equal(t, 3, series.Len())
	assert.Equal(t, Sample{Year: 2019, Month: 12, Day: 23, Value: 4.478}, series.Samples[0])
	assert.True(t, series.Samples[1].Missing)
	assert.Equal(t, 4.61, series.Samples[2].Value)
}

func TestLoadCSVMetadata(t *testing.T) {
	csvData := `year,month,day,value,date,release
2019,12,23,4.478,20191223,release-1.4.20191223-16.da6d6b7
2019,12,24,null,20191224,release-1.4.20191224-16.3b2b8bd`

	series, err := LoadCSVFromReader(strings.NewReader(csvData), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"20191223", "release-1.4.20191223-16.da6d6b7"}, series.Samples[0].Meta)
	assert.Equal(t, []string{"20191224", "release-1.4.20191224-16.3b2b8bd"}, series.Samples[1].Meta)
}

func TestLoadCSVErrors(t *testing.T) {
	tests := []struct {
		name    string
		csvData string
		wantErr error
	}{
		{
			name:    "short row",
			csvData: "year,month,day,value\n2020,1,1\n",
			wantErr: record.ErrShortRow,
		},
		{
			name:    "impossible date",
			csvData: "year,month,day,value\n2020,2,30,1.0\n",
			wantErr: ErrInvalidDate,
		},
		{
			name:    "non-numeric value",
			csvData: "year,month,day,value\n2020,1,1,fast\n",
			wantErr: ErrInvalidValue,
		},
		{
			name:    "no header",
			csvData: "",
			wantErr: record.ErrNoHeader,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCSVFromReader(strings.NewReader(tt.csvData), nil)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoadCSVMissingValues(t *testing.T) {
	csvData := `year;month;day;value
2020;1;1;NA
2020;1;2;null
2020;1;3;2.5`

	opts := DefaultCSVOptions()
	opts.Delimiter = ';'
	opts.MissingValues = []string{"NA"}

	_, err := LoadCSVFromReader(strings.NewReader(csvData), opts)
	assert.ErrorIs(t, err, ErrInvalidValue)

	opts.MissingValues = []string{"NA", MissingValue}
	series, err := LoadCSVFromReader(strings.NewReader(csvData), opts)
	require.NoError(t, err)
	assert.Equal(t, 1, series.Present())
}

func TestSaveAndLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "none_mtls_both_p90.csv")
	series := New("", []Sample{
		NewSample(day(2020, 5, 25), 3.25, "20200525", "master"),
		NewMissingSample(day(2020, 5, 26)),
	})

	require.NoError(t, SaveCSV(series, path))

	loaded, err := LoadCSV(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "none_mtls_both_p90", loaded.Name)
	require.Equal(t, 2, loaded.Len())
	assert.Equal(t, 3.25, loaded.Samples[0].Value)
	assert.Equal(t, []string{"20200525", "master"}, loaded.Samples[0].Meta)
	assert.True(t, loaded.Samples[1].Missing)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	series := New("s", []Sample{
		NewSample(day(2020, 1, 1), 1.5),
		NewMissingSample(day(2020, 1, 2)),
	})

	require.NoError(t, WriteCSV(series, &buf))
	assert.Equal(t, "year,month,day,value\n2020,1,1,1.5\n2020,1,2,null\n", buf.String())
}

func TestWriteCSVInvalid(t *testing.T) {
	var buf bytes.Buffer
	series := New("s", []Sample{{Year: 2020, Month: 2, Day: 30, Value: 1}})

	assert.ErrorIs(t, WriteCSV(series, &buf), ErrInvalidDate)
	assert.Empty(t, buf.String())
}

func TestLoadCSVFileNotFound(t *testing.T) {
	_, err := LoadCSV(filepath.Join(t.TempDir(), "absent.csv"), nil)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDefaultCSVOptions(t *testing.T) {
	opts := DefaultCSVOptions()

	assert.Equal(t, ',', opts.Delimiter)
	assert.Equal(t, 0, opts.SkipRows)
	assert.Equal(t, []string{MissingValue}, opts.MissingValues)
}
