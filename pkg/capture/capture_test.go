package capture

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomlens/roomlens/pkg/frame"
)

func TestCSVRecorder_HeaderAndRows(t *testing.T) {
	var buf bytes.Buffer
	r, err := NewCSV(&buf)
	require.NoError(t, err)

	require.NoError(t, r.Boot("bench"))
	require.NoError(t, r.Emit(frame.Frame{
		T:         83,
		MicRMS:    0.0977,
		MicPeak:   0.098,
		Lux:       0.4995,
		PIR:       true,
		CamMotion: 0,
	}))
	require.NoError(t, r.Emit(frame.Frame{T: 166, Lux: 0.25}))

	want := "t,mic_rms,mic_peak,lux,pir,cam_motion\n" +
		"83,0.098,0.098,0.500,1,0.000\n" +
		"166,0.000,0.000,0.250,0,0.000\n"
	assert.Equal(t, want, buf.String())
}

func TestCSVRecorder_BootWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	r, err := NewCSV(&buf)
	require.NoError(t, err)

	headerOnly := buf.String()
	require.NoError(t, r.Boot("bench"))
	assert.Equal(t, headerOnly, buf.String())
}

func TestSQLiteRecorder_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.db")
	r, err := NewSQLite(path)
	require.NoError(t, err)
	defer r.Close()

	require.NoError(t, r.Boot("field-unit-3"))
	require.NoError(t, r.Emit(frame.Frame{T: 83, MicRMS: 0.098, Lux: 0.5, PIR: true}))
	require.NoError(t, r.Emit(frame.Frame{T: 166, CamMotion: 0.42}))

	var device string
	require.NoError(t, r.db.QueryRow(`SELECT device FROM boots`).Scan(&device))
	assert.Equal(t, "field-unit-3", device)

	var count int
	require.NoError(t, r.db.QueryRow(`SELECT COUNT(*) FROM frames`).Scan(&count))
	assert.Equal(t, 2, count)

	var (
		tick int64
		rms  float64
		pir  int
		cam  float64
	)
	require.NoError(t, r.db.QueryRow(
		`SELECT t, mic_rms, pir, cam_motion FROM frames ORDER BY t LIMIT 1`,
	).Scan(&tick, &rms, &pir, &cam))
	assert.Equal(t, int64(83), tick)
	assert.InDelta(t, 0.098, rms, 1e-6)
	assert.Equal(t, 1, pir)
	assert.Equal(t, float64(0), cam)
}

func TestSQLiteRecorder_ReopenKeepsRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.db")

	r, err := NewSQLite(path)
	require.NoError(t, err)
	require.NoError(t, r.Emit(frame.Frame{T: 1}))
	require.NoError(t, r.Close())

	r, err = NewSQLite(path)
	require.NoError(t, err)
	defer r.Close()

	var count int
	require.NoError(t, r.db.QueryRow(`SELECT COUNT(*) FROM frames`).Scan(&count))
	assert.Equal(t, 1, count)
}
