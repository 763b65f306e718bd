package audio

// Library resolves a candidate identifier to its associated clip.
type Library interface {
	Lookup(id string) (Handle, bool)
}

// Clips is a static identifier to handle table. Candidates without an entry
// simply have no audio.
type Clips map[string]Handle

func (c Clips) Lookup(id string) (Handle, bool) {
	h, ok := c[id]
	return h, ok && h != ""
}
