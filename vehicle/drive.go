package vehicle

import (
	log "github.com/sirupsen/logrus"

	"robotcar/command"
)

// MovingStepForward runs one tick of autonomous driving.
func (c *Car) MovingStepForward() {
	switch {
	case !c.floorPresent():
		c.Stop()
	case !c.IsRoadClear():
		c.Stop()
		c.FindDirection()
	case !c.state.IsMoving:
		c.MoveForward()
	}
	c.clock.Sleep(c.cfg.StepTick)
}

// Submit parses a transcript and leaves the command for the next
// FollowVoiceCommands tick, replacing any command not yet taken.
// It is safe to call from any goroutine.
func (c *Car) Submit(text string) command.VoiceCommand {
	cmd := command.Parse(text)
	if cmd == command.None {
		log.WithField("text", text).Debug("Ignoring voice text without command")
		return cmd
	}
	log.WithFields(log.Fields{"text": text, "command": cmd}).Info("Voice command received")
	c.pending.Put(cmd)
	return cmd
}

// FollowVoiceCommands runs one tick of voice control. Without a pending
// command a moving car keeps watching for floor drops and obstacles.
func (c *Car) FollowVoiceCommands() {
	cmd := c.pending.Take()
	if cmd != command.None {
		c.metrics.voiceCommand(cmd.String())
		c.emit(Event{Type: EventVoiceCommand, Command: cmd.String()})
	}
	switch cmd {
	case command.None:
		if c.state.IsMoving {
			if !c.floorPresent() || !c.IsRoadClear() {
				c.Stop()
			}
		}
	case command.Left:
		c.Turn(c.cfg.LeftHeading)
	case command.Right:
		c.Turn(c.cfg.RightHeading)
	case command.Stop:
		c.Stop()
	case command.Forward, command.Go:
		c.MoveForward()
	case command.Back, command.Backward:
		c.MoveBackward()
		c.clock.Sleep(c.cfg.BackwardTime)
		c.Stop()
	}
	c.clock.Sleep(c.cfg.VoiceTick)
}
