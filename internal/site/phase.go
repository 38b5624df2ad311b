package site

// Phase is the lifecycle state of a Generator.
type Phase int32

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseGenerating
	PhasePublishing
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseGenerating:
		return "generating"
	case PhasePublishing:
		return "publishing"
	default:
		return "unknown"
	}
}
