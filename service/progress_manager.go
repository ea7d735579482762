package service

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// IsInteractiveEnvironment reports whether stderr is a terminal
func IsInteractiveEnvironment() bool {
	if os.Getenv("CI") != "" {
		return false
	}
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// ProgressManagerImpl shows a progress bar on interactive terminals and
// stays silent otherwise
type ProgressManagerImpl struct {
	mu          sync.Mutex
	writer      io.Writer
	description string
	bar         *progressbar.ProgressBar
	interactive bool
	maxValue    int
}

// NewProgressManager creates a progress manager writing to stderr
func NewProgressManager() *ProgressManagerImpl {
	return &ProgressManagerImpl{
		writer:      os.Stderr,
		description: "Building blocks",
		interactive: IsInteractiveEnvironment(),
	}
}

// Initialize sets the total number of steps
func (pm *ProgressManagerImpl) Initialize(maxValue int) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.maxValue = maxValue
}

// Start creates the bar
func (pm *ProgressManagerImpl) Start() {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	if pm.interactive && pm.bar == nil {
		pm.bar = pm.newBar(pm.maxValue)
	}
}

// Update moves the bar to processed
func (pm *ProgressManagerImpl) Update(processed, total int) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if !pm.interactive {
		return
	}
	if pm.bar == nil {
		pm.bar = pm.newBar(total)
	}
	if total != pm.maxValue {
		pm.maxValue = total
		pm.bar.ChangeMax(total)
	}
	_ = pm.bar.Set(processed)
}

// Complete finishes the bar
func (pm *ProgressManagerImpl) Complete(success bool) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	if pm.bar == nil {
		return
	}
	if success {
		_ = pm.bar.Finish()
	} else {
		_ = pm.bar.Exit()
	}
	pm.bar = nil
}

// SetWriter redirects the bar; non-terminal writers disable it
func (pm *ProgressManagerImpl) SetWriter(writer io.Writer) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	pm.writer = writer
	if file, ok := writer.(*os.File); ok {
		pm.interactive = term.IsTerminal(int(file.Fd()))
	} else {
		pm.interactive = false
	}
}

// Close releases the bar
func (pm *ProgressManagerImpl) Close() {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	if pm.bar != nil {
		_ = pm.bar.Finish()
		pm.bar = nil
	}
}

func (pm *ProgressManagerImpl) newBar(max int) *progressbar.ProgressBar {
	writer := pm.writer
	if writer == nil {
		writer = io.Discard
	}
	return progressbar.NewOptions(max,
		progressbar.OptionSetDescription(pm.description),
		progressbar.OptionSetWriter(writer),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(writer)
		}),
	)
}

// NoOpProgressManager discards progress updates
type NoOpProgressManager struct{}

func (NoOpProgressManager) Initialize(int)  {}
func (NoOpProgressManager) Start()          {}
func (NoOpProgressManager) Update(int, int) {}
func (NoOpProgressManager) Complete(bool)   {}
