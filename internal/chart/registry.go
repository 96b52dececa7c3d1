package chart

// Registry holds the one controller slot per page kind.
type Registry struct {
	Overview *Controller
	Daily    *Controller
}

// Get returns the controller for kind.
func (r *Registry) Get(kind Kind) *Controller {
	if kind == KindDaily {
		return r.Daily
	}
	return r.Overview
}

// DestroyExcept tears down every live chart other than keep.
func (r *Registry) DestroyExcept(keep Kind) {
	for _, c := range []*Controller{r.Overview, r.Daily} {
		if c != nil && c.Kind() != keep {
			c.Destroy()
		}
	}
}

// DestroyAll tears down every live chart.
func (r *Registry) DestroyAll() {
	for _, c := range []*Controller{r.Overview, r.Daily} {
		if c != nil {
			c.Destroy()
		}
	}
}
