// Package record appends one CSV row per sample to the run's data file.
package record

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/signalsfoundry/mostlyharmless/model"
)

// Header is the first row of every data file.
var Header = []string{"Date/Time", "Lat", "Lon", "Status", "m_X", "m_Y", "m_Z", "m_TOT", "N Photo"}

// TimeLayout formats the Date/Time column.
const TimeLayout = "2006-01-02 15:04:05.000000"

// Row is one sample as written to the data file.
type Row struct {
	Time      time.Time
	Latitude  float64
	Longitude float64
	Status    model.Classification
	MagX      float64
	MagY      float64
	MagZ      float64
	MagTotal  float64
	Photo     int
}

// Fields renders the row in Header order.
func (r Row) Fields() []string {
	return []string{
		r.Time.Format(TimeLayout),
		strconv.FormatFloat(r.Latitude, 'f', -1, 64),
		strconv.FormatFloat(r.Longitude, 'f', -1, 64),
		r.Status.String(),
		strconv.FormatFloat(r.MagX, 'f', -1, 64),
		strconv.FormatFloat(r.MagY, 'f', -1, 64),
		strconv.FormatFloat(r.MagZ, 'f', -1, 64),
		strconv.FormatFloat(r.MagTotal, 'f', -1, 64),
		strconv.Itoa(r.Photo),
	}
}

// Writer appends rows to a CSV file, flushing after each one so a power
// cut loses at most the row in flight.
type Writer struct {
	mu   sync.Mutex
	path string
	f    *os.File
	w    *csv.Writer
}

// Create truncates path, writes the header and returns a writer for it.
func Create(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create data file: %w", err)
	}
	w := &Writer{path: path, f: f, w: csv.NewWriter(f)}
	if err := w.write(Header); err != nil {
		f.Close()
		return nil, err
	}
	return w, nil
}

// Path returns the file being written.
func (w *Writer) Path() string { return w.path }

// Append writes one row.
func (w *Writer) Append(r Row) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.write(r.Fields())
}

func (w *Writer) write(fields []string) error {
	if err := w.w.Write(fields); err != nil {
		return fmt.Errorf("write %s: %w", w.path, err)
	}
	w.w.Flush()
	if err := w.w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", w.path, err)
	}
	return nil
}

// Close flushes and closes the file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.w.Flush()
	if err := w.w.Error(); err != nil {
		w.f.Close()
		return err
	}
	return w.f.Close()
}
