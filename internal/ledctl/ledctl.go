// Package ledctl owns the onboard LED.
package ledctl

// Output is anything that can show an on/off level. machine.Pin satisfies it.
type Output interface {
	Set(value bool)
}

// Controller drives one logical LED onto one or more outputs. It is not safe for concurrent use;
// the supervisor loop is its only writer.
type Controller struct {
	outputs []Output
	value   bool
}

// New returns a controller with the LED switched off.
func New(outputs ...Output) *Controller {
	c := &Controller{outputs: outputs}
	c.Set(false)
	return c
}

func (c *Controller) Set(value bool) {
	c.value = value
	for _, o := range c.outputs {
		o.Set(value)
	}
}

// Value is the last value written.
func (c *Controller) Value() bool {
	return c.value
}
