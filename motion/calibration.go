package motion

// gyroCalibration is a running mean of gyro readings and accelerometer
// magnitude, accumulated while the pad is held still. A non-positive sample
// count yields a zero bias.
type gyroCalibration struct {
	sum            Vec
	accelMagnitude float64
	numSamples     int
}

func (c *gyroCalibration) reset() {
	*c = gyroCalibration{}
}

func (c *gyroCalibration) push(gyro Vec, accelMagnitude float64) {
	c.numSamples++
	c.sum = c.sum.Add(gyro)
	c.accelMagnitude += accelMagnitude
}

// offset returns the mean gyro bias and mean accel magnitude.
func (c *gyroCalibration) offset() (Vec, float64) {
	if c.numSamples <= 0 {
		return Vec{}, 0
	}
	inv := 1 / float64(c.numSamples)
	return c.sum.Scale(inv), c.accelMagnitude * inv
}

// override replaces the accumulated state with an externally supplied offset,
// weighted so that subsequent samples blend proportionally to weight.
func (c *gyroCalibration) override(offset Vec, weight int) {
	if c.numSamples > 1 {
		c.accelMagnitude *= float64(weight) / float64(c.numSamples)
	} else {
		c.accelMagnitude = float64(weight)
	}
	c.numSamples = weight
	c.sum = offset.Scale(float64(weight))
}

// apply overwrites the state with an auto-calibration result. The effective
// sample count becomes 1, so any later manual sample outweighs it quickly.
func (c *gyroCalibration) apply(r Recalibration) {
	c.sum = r.GyroOffset
	c.accelMagnitude = r.AccelMagnitude
	c.numSamples = 1
}
