package focus

import (
	"github.com/zeusync/focusar/internal/core/presentation"
	"github.com/zeusync/focusar/internal/core/systems"
)

var _ systems.System = (*Reticle)(nil)

// Reticle keeps the reticle object a fixed distance in front of the camera.
// It runs every frame, cooldown or not.
type Reticle struct {
	Object   string
	Distance float64
	Sink     presentation.Sink
}

func (r *Reticle) Name() string { return "reticle" }

// Priority places the reticle ahead of the focus machine in a frame.
func (r *Reticle) Priority() systems.Priority { return systems.PriorityHigh + 1 }

// Start enables the reticle object.
func (r *Reticle) Start() {
	if r.Sink != nil && r.Object != "" {
		r.Sink.SetActive(r.Object, true)
	}
}

func (r *Reticle) Update(frame systems.Frame) {
	if r.Sink == nil || r.Object == "" || frame.Camera == nil || r.Distance <= 0 {
		return
	}
	r.Sink.SetPosition(r.Object, frame.Camera.PointAhead(r.Distance))
}
