package main

import (
	"github.com/onwhenrdy/skindiff/internal/engine"
	"github.com/onwhenrdy/skindiff/internal/param"
	"github.com/onwhenrdy/skindiff/internal/progressbar"
)

// cmdHooks wires the console progress bar into an Engine's run, mirroring
// the original CLI's hand-rolled hook subclass.
type cmdHooks struct {
	engine.NoopHooks
	bar *progressbar.Bar
}

func newCmdHooks(p param.LogParameter, simTime int) *cmdHooks {
	bar := progressbar.New()
	bar.SetTotalTicks(simTime)
	bar.SetEnabled(p.ShowProgressBar)
	return &cmdHooks{bar: bar}
}

func (h *cmdHooks) InitRun() bool {
	return true
}

func (h *cmdHooks) TearDownRun() bool {
	h.bar.Reset()
	return true
}

func (h *cmdHooks) ProgressCallback(currentIteration int) {
	h.bar.Progress(currentIteration)
}
