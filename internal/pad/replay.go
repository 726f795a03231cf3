package pad

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// ReplaySource reads recorded motion frames from a CSV log, one frame per
// row: gx,gy,gz,ax,ay,az,dt (dt optional if the log was captured at a fixed
// rate, in which case a default applies). A single header row is skipped.
type ReplaySource struct {
	file      *os.File
	r         *csv.Reader
	row       int
	defaultDt float64
	skipHdr   bool
}

// NewReplaySource opens a recorded session log. defaultDt is used for rows
// that omit the dt column.
func NewReplaySource(path string, defaultDt float64) (*ReplaySource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open replay log: %w", err)
	}
	s := NewReplayReader(f, defaultDt)
	s.file = f
	return s, nil
}

// NewReplayReader reads a session log from an arbitrary reader.
func NewReplayReader(r io.Reader, defaultDt float64) *ReplaySource {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	return &ReplaySource{r: cr, defaultDt: defaultDt, skipHdr: true}
}

// Next returns the next frame. It returns io.EOF at the end of the log and
// an error for any malformed or non-finite row.
func (s *ReplaySource) Next() (Sample, error) {
	record, err := s.r.Read()
	if err != nil {
		if err == io.EOF {
			return Sample{}, io.EOF
		}
		return Sample{}, fmt.Errorf("replay log row %d: %w", s.row+1, err)
	}
	s.row++

	// A single leading header row is allowed. A first column that parses as
	// a float is data, including NaN, which the validation below rejects.
	if s.skipHdr {
		s.skipHdr = false
		if _, ferr := strconv.ParseFloat(record[0], 64); ferr != nil {
			record, err = s.r.Read()
			if err != nil {
				if err == io.EOF {
					return Sample{}, io.EOF
				}
				return Sample{}, fmt.Errorf("replay log row %d: %w", s.row+1, err)
			}
			s.row++
		}
	}

	if len(record) != 6 && len(record) != 7 {
		return Sample{}, fmt.Errorf("replay log row %d: expected 6 or 7 fields, got %d", s.row, len(record))
	}

	fields := make([]float64, len(record))
	for i, v := range record {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Sample{}, fmt.Errorf("replay log row %d field %d: %w", s.row, i+1, err)
		}
		fields[i] = f
	}

	sample := Sample{
		Gx: fields[0], Gy: fields[1], Gz: fields[2],
		Ax: fields[3], Ay: fields[4], Az: fields[5],
		Dt: s.defaultDt,
	}
	if len(fields) == 7 {
		sample.Dt = fields[6]
	}
	if !sample.Valid() {
		return Sample{}, fmt.Errorf("replay log row %d: non-finite value or non-positive dt", s.row)
	}
	return sample, nil
}

// Close releases the underlying file, if any.
func (s *ReplaySource) Close() error {
	if s.file == nil {
		return nil
	}
	return s.file.Close()
}
