package migrate

// Stage names reported to a Progress.
const (
	StageDecode   = "decoding volumes"
	StageExtract  = "extracting archives"
	StageAssemble = "assembling backups"
)

// Progress receives coarse progress from a run. Start opens a stage of
// total steps; Advance completes one step of the current stage.
type Progress interface {
	Start(stage string, total int)
	Advance()
}

type nopProgress struct{}

func (nopProgress) Start(string, int) {}
func (nopProgress) Advance()          {}

// WithProgress reports stage progress to p.
func WithProgress(p Progress) Option {
	return func(m *Migrator) {
		if p != nil {
			m.progress = p
		}
	}
}
