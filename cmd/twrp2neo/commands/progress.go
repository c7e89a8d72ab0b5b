package commands

import (
	"io"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/thoreinstein/twrp2neo/internal/logging"
	"github.com/thoreinstein/twrp2neo/internal/migrate"
)

// barProgress renders migrate stages as terminal progress bars.
type barProgress struct {
	p    *mpb.Progress
	bars []*mpb.Bar
}

var _ migrate.Progress = (*barProgress)(nil)

func newBarProgress(w io.Writer) *barProgress {
	return &barProgress{p: mpb.New(mpb.WithOutput(w), mpb.WithWidth(80))}
}

func (b *barProgress) Start(stage string, total int) {
	bar := b.p.New(int64(total),
		mpb.BarStyle().Lbound("[").Filler("=").Tip(">").Padding("-").Rbound("]"),
		mpb.PrependDecorators(
			decor.Name(stage, decor.WC{W: len(migrate.StageAssemble), C: decor.DindentRight | decor.DextraSpace}),
			decor.OnComplete(
				decor.AverageETA(decor.ET_STYLE_GO, decor.WC{W: 4}), "done",
			),
		),
		mpb.AppendDecorators(decor.CountersNoUnit("%d/%d")),
	)
	b.bars = append(b.bars, bar)
}

func (b *barProgress) Advance() {
	if len(b.bars) == 0 {
		return
	}
	b.bars[len(b.bars)-1].Increment()
}

// Wait flushes the bars. Bars a failed run left unfinished are aborted
// so the container can shut down.
func (b *barProgress) Wait() {
	for _, bar := range b.bars {
		if !bar.Completed() {
			bar.Abort(false)
		}
	}
	b.p.Wait()
}

// progressFor returns the bar renderer when stderr is an interactive
// terminal and nothing else is writing to it, or nil.
func progressFor(w io.Writer) *barProgress {
	if noProgress || quiet || verbosity > 0 || logFormat != string(logging.FormatText) {
		return nil
	}
	if !logging.IsTTY(w) {
		return nil
	}
	return newBarProgress(w)
}
