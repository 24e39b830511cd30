package rt

import "testing"

func TestNewSensorRejectsInvalidArgs(t *testing.T) {
	if _, err := NewSensor(4, 4, 0); err == nil {
		t.Fatalf("expected an error for maxSamples < 1")
	}
	if _, err := NewSensor(0, 4, 4); err == nil {
		t.Fatalf("expected an error for zero width")
	}
	if _, err := NewSensor(4, -1, 4); err == nil {
		t.Fatalf("expected an error for negative height")
	}
}

// Sensor stores a raw sum on Write and divides by maxSamples on Read - the
// accumulate-then-scale convention the integrator's Estimate output relies on.
func TestSensorWriteReadScalesByMaxSamples(t *testing.T) {
	sensor, err := NewSensor(2, 2, 4)
	if err != nil {
		t.Fatalf("NewSensor: %v", err)
	}
	sum := Color{X: 4, Y: 8, Z: 12}
	sensor.Write(1, 1, sum)

	got := sensor.Read(1, 1)
	want := Color{X: 1, Y: 2, Z: 3}
	if got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestSensorOutOfRangeReadsBlack(t *testing.T) {
	sensor, err := NewSensor(2, 2, 1)
	if err != nil {
		t.Fatalf("NewSensor: %v", err)
	}
	if got := sensor.Read(-1, 0); got != (Color{}) {
		t.Fatalf("out-of-range read: got %v, want Black", got)
	}
	if got := sensor.Read(0, 2); got != (Color{}) {
		t.Fatalf("out-of-range read: got %v, want Black", got)
	}
}

func TestSensorOutOfRangeWriteIsIgnored(t *testing.T) {
	sensor, err := NewSensor(2, 2, 1)
	if err != nil {
		t.Fatalf("NewSensor: %v", err)
	}
	sensor.Write(-1, 0, Color{X: 1, Y: 1, Z: 1})
	sensor.Write(5, 5, Color{X: 1, Y: 1, Z: 1})
	for y := 0; y < sensor.Height(); y++ {
		for x := 0; x < sensor.Width(); x++ {
			if got := sensor.Read(x, y); got != (Color{}) {
				t.Fatalf("unexpected write leaked into in-range pixel (%d,%d): %v", x, y, got)
			}
		}
	}
}

func TestSensorWidthHeight(t *testing.T) {
	sensor, err := NewSensor(7, 3, 1)
	if err != nil {
		t.Fatalf("NewSensor: %v", err)
	}
	if sensor.Width() != 7 || sensor.Height() != 3 {
		t.Fatalf("got %dx%d, want 7x3", sensor.Width(), sensor.Height())
	}
}
