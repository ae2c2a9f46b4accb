package fourwheeled

import (
	log "github.com/sirupsen/logrus"
)

type Motor interface {
	Stop() error
	Forward(speed int) error
	Backward(speed int) error
}

// Drivetrain drives a skid-steer chassis: both motors of a side always turn
// the same way, spinning in place runs the sides against each other.
type Drivetrain struct {
	LeftFront  Motor
	LeftBack   Motor
	RightFront Motor
	RightBack  Motor
}

type wheel struct {
	name  string
	motor Motor
}

func (d *Drivetrain) left() []wheel {
	return []wheel{{"left front", d.LeftFront}, {"left back", d.LeftBack}}
}

func (d *Drivetrain) right() []wheel {
	return []wheel{{"right front", d.RightFront}, {"right back", d.RightBack}}
}

func (d *Drivetrain) Stop() {
	for _, w := range append(d.left(), d.right()...) {
		if err := w.motor.Stop(); err != nil {
			log.WithError(err).Errorf("Could not stop %s motor", w.name)
		}
	}
}

func (d *Drivetrain) Forward(speed int) {
	forward(d.left(), speed)
	forward(d.right(), speed)
}

func (d *Drivetrain) Backward(speed int) {
	backward(d.left(), speed)
	backward(d.right(), speed)
}

func (d *Drivetrain) SpinLeft(speed int) {
	backward(d.left(), speed)
	forward(d.right(), speed)
}

func (d *Drivetrain) SpinRight(speed int) {
	forward(d.left(), speed)
	backward(d.right(), speed)
}

func forward(wheels []wheel, speed int) {
	for _, w := range wheels {
		if err := w.motor.Forward(speed); err != nil {
			log.WithError(err).Errorf("Could not drive %s motor forward", w.name)
		}
	}
}

func backward(wheels []wheel, speed int) {
	for _, w := range wheels {
		if err := w.motor.Backward(speed); err != nil {
			log.WithError(err).Errorf("Could not drive %s motor backward", w.name)
		}
	}
}
