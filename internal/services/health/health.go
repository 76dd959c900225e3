package health

// ScratchProbe reports whether the scratch directory is usable.
type ScratchProbe interface {
	Ensure() error
}

// Service encapsulates health-related checks.
type Service struct {
	scratch ScratchProbe
}

// NewService constructs a new health service. A nil probe skips the scratch check.
func NewService(scratch ScratchProbe) *Service {
	return &Service{scratch: scratch}
}

// Status returns a simple health payload and whether every check passed.
func (s *Service) Status() (map[string]any, bool) {
	payload := map[string]any{"ok": true}
	if s == nil || s.scratch == nil {
		return payload, true
	}
	if err := s.scratch.Ensure(); err != nil {
		payload["ok"] = false
		payload["scratch"] = err.Error()
		return payload, false
	}
	payload["scratch"] = "ok"
	return payload, true
}
