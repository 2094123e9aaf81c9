// Package ui provides the bubbletea progress display used when the
// command processes several files.
package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

// FileStatus is the processing state of a single file.
type FileStatus int

const (
	StatusQueued FileStatus = iota
	StatusProcessing
	StatusComplete
	StatusError
)

func (s FileStatus) String() string {
	switch s {
	case StatusQueued:
		return "queued"
	case StatusProcessing:
		return "processing"
	case StatusComplete:
		return "complete"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// FileProgress tracks one input file.
type FileProgress struct {
	InputPath  string
	OutputPath string
	Status     FileStatus
	Progress   float64
	StartTime  time.Time
	Elapsed    time.Duration

	InputLUFS  float64
	OutputLUFS float64
	Clipped    int
	Err        error
}

// Model is the bubbletea model for a batch run. Updates arrive on a
// channel fed by the processing goroutine.
type Model struct {
	Files          []FileProgress
	CurrentIndex   int
	CompletedFiles int
	FailedFiles    int
	StartTime      time.Time
	Done           bool

	updates <-chan tea.Msg
	bar     progress.Model
	width   int
}

// NewModel returns a model for the given inputs that listens on updates.
// A closed channel is treated as AllCompleteMsg.
func NewModel(inputs []string, updates <-chan tea.Msg) Model {
	files := make([]FileProgress, len(inputs))
	for i, path := range inputs {
		files[i] = FileProgress{InputPath: path, Status: StatusQueued}
	}

	return Model{
		Files:        files,
		CurrentIndex: -1,
		StartTime:    time.Now(),
		updates:      updates,
		bar: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(40),
			progress.WithoutPercentage(),
		),
	}
}

// Init starts listening for updates.
func (m Model) Init() tea.Cmd {
	return waitForUpdate(m.updates)
}

// Update applies one message to the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = max(10, min(msg.Width-30, 60))
		return m, nil

	case FileStartMsg:
		if !m.valid(msg.Index) {
			return m, waitForUpdate(m.updates)
		}
		m.CurrentIndex = msg.Index
		f := &m.Files[msg.Index]
		f.Status = StatusProcessing
		f.Progress = 0
		f.StartTime = time.Now()
		return m, waitForUpdate(m.updates)

	case ProgressMsg:
		if m.valid(msg.Index) {
			f := &m.Files[msg.Index]
			f.Progress = min(max(msg.Fraction, f.Progress), 1)
			f.Elapsed = time.Since(f.StartTime)
		}
		return m, waitForUpdate(m.updates)

	case FileCompleteMsg:
		if !m.valid(msg.Index) {
			return m, waitForUpdate(m.updates)
		}
		f := &m.Files[msg.Index]
		f.OutputPath = msg.OutputPath
		f.InputLUFS = msg.InputLUFS
		f.OutputLUFS = msg.OutputLUFS
		f.Clipped = msg.Clipped
		f.Elapsed = msg.Elapsed
		f.Err = msg.Err
		if msg.Err != nil {
			f.Status = StatusError
			m.FailedFiles++
		} else {
			f.Status = StatusComplete
			f.Progress = 1
			m.CompletedFiles++
		}
		return m, waitForUpdate(m.updates)

	case AllCompleteMsg:
		m.Done = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the file queue and the overall progress bar.
func (m Model) View() string {
	return renderView(m)
}

// Overall returns the fraction of the whole batch that is done.
func (m Model) Overall() float64 {
	if len(m.Files) == 0 {
		return 1
	}
	var sum float64
	for _, f := range m.Files {
		switch f.Status {
		case StatusComplete, StatusError:
			sum++
		case StatusProcessing:
			sum += f.Progress
		}
	}
	return sum / float64(len(m.Files))
}

func (m Model) valid(i int) bool {
	return i >= 0 && i < len(m.Files)
}

func waitForUpdate(updates <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-updates
		if !ok {
			return AllCompleteMsg{}
		}
		return msg
	}
}
