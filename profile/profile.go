package profile

// Tag is the build tag that enables profiling.
const Tag = `pprof`

// Stopper ends a profiling session and flushes its output.
type Stopper interface{ Stop() }

// Profiler describes one profiling session.
type Profiler struct {
	// Mode names the profile to record; see [Modes].
	Mode string
	// Path is the output directory. Empty selects a temporary directory.
	Path string
	// Quiet suppresses the messages printed when profiling starts and stops.
	Quiet bool
}

// Start begins profiling. Without the [Tag] build tag, or with an empty or
// unknown Mode, it returns a Stopper that does nothing.
func (p Profiler) Start() Stopper {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p)
}

// Modes returns the supported profile modes in sorted order. It is empty
// without the [Tag] build tag.
func Modes() []string { return modes() }

type ignore struct{}

func (ignore) Stop() {}
