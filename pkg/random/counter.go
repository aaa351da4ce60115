package random

// Counter is a Source counting the draws taken from
// an underlying Source.
type Counter struct {
	src   Source
	draws int
}

var _ Source = (*Counter)(nil)

func NewCounter(src Source) *Counter {
	return &Counter{src: src}
}

func (c *Counter) Draws() int {
	return c.draws
}

func (c *Counter) Reset() {
	c.draws = 0
}

func (c *Counter) Uniform(lo, hi float64) float64 {
	c.draws++
	return c.src.Uniform(lo, hi)
}

func (c *Counter) Normal(mean, stddev float64) float64 {
	c.draws++
	return c.src.Normal(mean, stddev)
}

func (c *Counter) Index(n int) int {
	c.draws++
	return c.src.Index(n)
}
