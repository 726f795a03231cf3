package pad

import (
	"io"
	"math"
	"strings"
	"testing"

	"go.viam.com/test"
)

func TestReplaySourceParsesLog(t *testing.T) {
	log := "gx,gy,gz,ax,ay,az,dt\n" +
		"0.5,-1.25,0,0.01,0.99,-0.02,0.004\n" +
		"1,2,3,0,1,0,0.01\n"

	src := NewReplayReader(strings.NewReader(log), 0.01)

	s, err := src.Next()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s, test.ShouldResemble, Sample{Gx: 0.5, Gy: -1.25, Gz: 0, Ax: 0.01, Ay: 0.99, Az: -0.02, Dt: 0.004})

	s, err = src.Next()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s, test.ShouldResemble, Sample{Gx: 1, Gy: 2, Gz: 3, Ax: 0, Ay: 1, Az: 0, Dt: 0.01})

	_, err = src.Next()
	test.That(t, err, test.ShouldEqual, io.EOF)
}

func TestReplaySourceDefaultDt(t *testing.T) {
	src := NewReplayReader(strings.NewReader("1,2,3,0,1,0\n"), 0.005)
	s, err := src.Next()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s.Dt, test.ShouldEqual, 0.005)
}

func TestReplaySourceHeaderOnly(t *testing.T) {
	src := NewReplayReader(strings.NewReader("gx,gy,gz,ax,ay,az,dt\n"), 0.01)
	_, err := src.Next()
	test.That(t, err, test.ShouldEqual, io.EOF)
}

func TestReplaySourceNaNFirstRowIsNotAHeader(t *testing.T) {
	// NaN parses as a float, so a leading NaN row is data and must be
	// rejected as such, not silently skipped as a header.
	log := "NaN,2,3,0,1,0,0.01\n" +
		"1,2,3,0,1,0,0.01\n"
	src := NewReplayReader(strings.NewReader(log), 0.01)
	_, err := src.Next()
	test.That(t, err, test.ShouldNotBeNil)

	s, err := src.Next()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s.Gx, test.ShouldEqual, 1.0)
}

func TestReplaySourceRejectsBadRows(t *testing.T) {
	cases := []struct {
		name string
		row  string
	}{
		{"non-numeric", "1,2,x,0,1,0,0.01\n"},
		{"nan", "NaN,2,3,0,1,0,0.01\n"},
		{"inf", "1,2,3,Inf,1,0,0.01\n"},
		{"zero dt", "1,2,3,0,1,0,0\n"},
		{"wrong field count", "1,2,3\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			src := NewReplayReader(strings.NewReader(tc.row), 0.01)
			_, err := src.Next()
			test.That(t, err, test.ShouldNotBeNil)
		})
	}
}

func TestSampleValid(t *testing.T) {
	good := Sample{Gx: 1, Ay: 1, Dt: 0.01}
	test.That(t, good.Valid(), test.ShouldBeTrue)

	test.That(t, Sample{Dt: 0}.Valid(), test.ShouldBeFalse)
	test.That(t, Sample{Gx: math.NaN(), Dt: 0.01}.Valid(), test.ShouldBeFalse)
	test.That(t, Sample{Az: math.Inf(-1), Dt: 0.01}.Valid(), test.ShouldBeFalse)
}
