package sim

// Phase is the lifecycle state of a simulation.
//
//	Uninitialized -> Seeded -> Running <-> Paused
//
// Step moves any phase to Running on success and to Paused on a rejected
// tick. Pause moves Running to Paused.
type Phase int

const (
	Uninitialized Phase = iota
	Seeded
	Running
	Paused
)

func (p Phase) String() string {
	switch p {
	case Uninitialized:
		return "uninitialized"
	case Seeded:
		return "seeded"
	case Running:
		return "running"
	case Paused:
		return "paused"
	}
	return "unknown"
}
