// Package capture records emitted frames for short study captures. It is
// strictly opt-in: nothing in the pipeline persists anything unless one
// of these recorders is wired in as a sink.
package capture

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/roomlens/roomlens/pkg/frame"
)

// csvHeader mirrors the frame wire format's field order.
var csvHeader = []string{"t", "mic_rms", "mic_peak", "lux", "pir", "cam_motion"}

// CSVRecorder appends one CSV row per frame, flushed per row so a capture
// interrupted mid-study still holds every frame seen so far.
type CSVRecorder struct {
	w *csv.Writer
}

// NewCSV creates a recorder writing to w and emits the header row.
func NewCSV(w io.Writer) (*CSVRecorder, error) {
	r := &CSVRecorder{w: csv.NewWriter(w)}
	if err := r.w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	r.w.Flush()
	if err := r.w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv header: %w", err)
	}
	return r, nil
}

// Boot is a no-op: capture rows are frames only.
func (r *CSVRecorder) Boot(device string) error {
	return nil
}

// Emit appends one row.
func (r *CSVRecorder) Emit(f frame.Frame) error {
	row := []string{
		strconv.FormatUint(uint64(f.T), 10),
		formatFixed(f.MicRMS),
		formatFixed(f.MicPeak),
		formatFixed(f.Lux),
		formatFlag(f.PIR),
		formatFixed(f.CamMotion),
	}
	if err := r.w.Write(row); err != nil {
		return fmt.Errorf("write csv row: %w", err)
	}
	r.w.Flush()
	if err := r.w.Error(); err != nil {
		return fmt.Errorf("flush csv row: %w", err)
	}
	return nil
}

func formatFixed(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', 3, 32)
}

func formatFlag(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

var _ frame.Sink = (*CSVRecorder)(nil)
