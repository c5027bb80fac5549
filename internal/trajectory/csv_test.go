package trajectory

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	samples := []Sample{
		{Time: 0, Angle: 10},
		{Time: 1, Angle: 40},
		{Time: 2, Angle: 70},
		{Time: 3, Angle: 100},
	}

	require.NoError(t, WriteCSV(&buf, samples))

	assert.Equal(t, "Time,Angle\n0,10\n1,40\n2,70\n3,100\n", buf.String())
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "Time,Angle\n", buf.String())
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{100, "100"},
		{0.1, "0.1"},
		{1.0 / 3, "0.3333333333333333"},
		{359.99999999999994, "359.99999999999994"},
		{0.016666, "0.016666"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatValue(tt.in))
	}
}

func TestWriteCSV_RoundTripPrecision(t *testing.T) {
	samples := []Sample{
		{Time: 0.016666666666666666, Angle: 10.5},
		{Time: 0.03333333333333333, Angle: 11.000000000000002},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, samples))

	got, err := readCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, samples, got)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestWriteCSV_PropagatesWriteError(t *testing.T) {
	err := WriteCSV(failingWriter{}, []Sample{{Time: 1, Angle: 2}})
	assert.Error(t, err)
}

// readCSV parses a trajectory CSV back into samples.
func readCSV(r io.Reader) ([]Sample, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 || records[0][0] != Header[0] || records[0][1] != Header[1] {
		return nil, fmt.Errorf("missing %s,%s header", Header[0], Header[1])
	}

	samples := make([]Sample, 0, len(records)-1)
	for i, rec := range records[1:] {
		t, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d time: %w", i+1, err)
		}
		a, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d angle: %w", i+1, err)
		}
		samples = append(samples, Sample{Time: t, Angle: a})
	}
	return samples, nil
}
