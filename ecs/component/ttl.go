package component

// TTL destroys its entity once Seconds runs out. The TTL system counts it
// down with the frame delta.
type TTL struct {
	Seconds float64
}

var TTLComponent = NewComponent[TTL]()
