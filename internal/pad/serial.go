package pad

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	serial "github.com/jacobsa/go-serial/serial"
)

// SerialSource reads comma-separated motion frames from a serial-attached
// pad, one frame per line: gx,gy,gz,ax,ay,az. The frame interval is measured
// between reads; the first frame uses the configured nominal interval.
type SerialSource struct {
	port      io.ReadWriteCloser
	scanner   *bufio.Scanner
	nominalDt float64
	last      time.Time
}

// NewSerialSource opens the given serial port.
func NewSerialSource(portName string, baudRate uint, nominalDt float64) (*SerialSource, error) {
	opts := serial.OpenOptions{
		PortName:        portName,
		BaudRate:        baudRate,
		DataBits:        8,
		StopBits:        1,
		MinimumReadSize: 1,
		ParityMode:      serial.PARITY_NONE,
	}

	port, err := serial.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", portName, err)
	}

	return &SerialSource{
		port:      port,
		scanner:   bufio.NewScanner(port),
		nominalDt: nominalDt,
	}, nil
}

// Next blocks until the pad sends the next frame line.
func (s *SerialSource) Next() (Sample, error) {
	for s.scanner.Scan() {
		line := strings.TrimSpace(s.scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Split(line, ",")
		if len(parts) != 6 {
			return Sample{}, fmt.Errorf("serial frame %q: expected 6 fields, got %d", line, len(parts))
		}

		var fields [6]float64
		for i, p := range parts {
			f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil {
				return Sample{}, fmt.Errorf("serial frame %q field %d: %w", line, i+1, err)
			}
			fields[i] = f
		}

		now := time.Now()
		dt := s.nominalDt
		if !s.last.IsZero() {
			dt = now.Sub(s.last).Seconds()
		}
		s.last = now

		sample := Sample{
			Gx: fields[0], Gy: fields[1], Gz: fields[2],
			Ax: fields[3], Ay: fields[4], Az: fields[5],
			Dt: dt,
		}
		if !sample.Valid() {
			return Sample{}, fmt.Errorf("serial frame %q: non-finite value", line)
		}
		return sample, nil
	}

	if err := s.scanner.Err(); err != nil {
		return Sample{}, fmt.Errorf("serial read: %w", err)
	}
	return Sample{}, io.EOF
}

// Close releases the serial port.
func (s *SerialSource) Close() error {
	return s.port.Close()
}
