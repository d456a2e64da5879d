package tui

import (
	"strconv"
	"strings"
	"time"

	"imgsort/internal/keyword"
	"imgsort/internal/log"
	"imgsort/internal/organize"
	"imgsort/internal/session"
	"imgsort/internal/watch"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type Mode int

const (
	Normal Mode = iota
	Command
)

type fileChangedMsg watch.FileModification

type watchClosedMsg struct{}

// tickMsg carries the slideshow generation that scheduled it; ticks from a
// stopped run are dropped.
type tickMsg struct {
	gen int
	at  time.Time
}

// Options configures the terminal driver.
type Options struct {
	Session     *session.Session
	Watcher     *watch.Watcher
	Interval    time.Duration
	Continuous  bool
	ClampHeight int
}

// Model drives a session from the keyboard.
type Model struct {
	session *session.Session
	watcher *watch.Watcher
	keys    keyMap
	help    help.Model
	input   textinput.Model
	mode    Mode

	separator   string
	keywordMode keyword.Mode

	slideshow   bool
	slideGen    int
	interval    time.Duration
	continuous  bool
	clampHeight int

	statusMsg string
	statusErr bool
	width     int
}

func New(opts Options) *Model {
	input := textinput.New()
	input.Prompt = ":"
	input.CharLimit = 512

	interval := opts.Interval
	if interval <= 0 {
		interval = 3 * time.Second
	}

	return &Model{
		session:     opts.Session,
		watcher:     opts.Watcher,
		keys:        defaultKeyMap(),
		help:        help.New(),
		input:       input,
		mode:        Normal,
		separator:   keyword.DefaultSeparator,
		keywordMode: keyword.Or,
		interval:    interval,
		continuous:  opts.Continuous,
		clampHeight: opts.ClampHeight,
	}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return m.waitForChange()
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.mode == Command {
			return m.handleCommandMode(msg)
		}
		return m.handleNormalKeys(msg)

	case fileChangedMsg:
		log.LogWithFields(log.F("file", msg.Path), log.F("op", msg.Op.String())).Debug("directory changed")
		m.session.Refresh()
		return m, m.waitForChange()

	case watchClosedMsg:
		return m, nil

	case tickMsg:
		if msg.gen != m.slideGen {
			return m, nil
		}
		return m, m.advanceSlideshow()
	}
	return m, nil
}

func (m *Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Annotate):
		i := int(msg.String()[0] - '1')
		m.report(m.session.AnnotateIndex(i), "")
	case key.Matches(msg, m.keys.Back):
		m.session.Back()
	case key.Matches(msg, m.keys.Skip):
		m.session.Skip()
	case key.Matches(msg, m.keys.Move):
		m.reportMove(m.session.MoveFiles())
	case key.Matches(msg, m.keys.KeyMove):
		m.reportMove(m.session.MoveFilesByKeyword())
	case key.Matches(msg, m.keys.Reset):
		m.report(m.session.ResetAnnotations(), "annotations reset")
	case key.Matches(msg, m.keys.Hide):
		m.session.ToggleHide()
	case key.Matches(msg, m.keys.Clamp):
		m.session.ToggleClamp()
	case key.Matches(msg, m.keys.Slideshow):
		m.slideshow = !m.slideshow
		if m.slideshow {
			m.slideGen++
			return m, m.tick()
		}
	case key.Matches(msg, m.keys.Command):
		m.mode = Command
		m.input.Reset()
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m *Model) handleCommandMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = Normal
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		line := m.input.Value()
		m.mode = Normal
		m.input.Blur()
		m.input.Reset()
		return m, m.executeCommand(line)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// executeCommand runs one command line entered after ':'.
func (m *Model) executeCommand(line string) tea.Cmd {
	name, arg, _ := strings.Cut(strings.TrimLeft(line, " "), " ")

	switch name {
	case "q", "quit":
		return tea.Quit
	case "cd":
		err := m.session.ChangeDirectory(strings.TrimSpace(arg))
		if err == nil && m.watcher != nil {
			if werr := m.watcher.Retarget(m.session.Directory()); werr != nil {
				log.LogWithError(werr).Warn("could not watch directory")
			}
		}
		m.report(err, "directory: "+m.session.Directory())
	case "label":
		m.report(m.session.Annotate(strings.TrimSpace(arg)), "")
	case "cats":
		m.report(m.session.ChangeCategories(arg), "categories: "+strings.Join(m.session.Categories(), ", "))
	case "kw":
		phrases := keyword.ParsePhrases(arg)
		if len(phrases) == 0 {
			m.session.ClearKeywords()
			m.setStatus("keyword filter cleared", false)
			return nil
		}
		m.applyKeywords(phrases)
	case "sep":
		// A bare "sep" or "sep " keeps the space separator.
		m.separator = arg
		if m.separator == "" {
			m.separator = keyword.DefaultSeparator
		}
		m.applyKeywords(m.session.Keywords().Phrases)
	case "and", "or":
		m.keywordMode = keyword.ParseMode(name)
		m.applyKeywords(m.session.Keywords().Phrases)
	case "nokw":
		m.session.ClearKeywords()
		m.setStatus("keyword filter cleared", false)
	case "dry":
		engine := m.session.Engine()
		engine.SetDryRun(!engine.IsDryRun())
		if engine.IsDryRun() {
			m.setStatus("dry run on", false)
		} else {
			m.setStatus("dry run off", false)
		}
	case "":
	default:
		m.setStatus("unknown command: "+name, true)
	}
	return nil
}

func (m *Model) applyKeywords(phrases []string) {
	if len(phrases) == 0 {
		m.setStatus("separator "+strconv.Quote(m.separator)+", mode "+m.keywordMode.String(), false)
		return
	}
	spec := keyword.NewSpec(phrases, m.separator, m.keywordMode)
	m.session.SetKeywords(spec)
	m.setStatus("keywords: "+spec.String(), false)
}

func (m *Model) advanceSlideshow() tea.Cmd {
	if !m.slideshow {
		return nil
	}
	v := m.session.View()
	switch {
	case v.Total == 0:
		m.slideshow = false
		return nil
	case v.Index >= v.Total-1 && m.continuous:
		m.session.Seek(0)
	case v.Index >= v.Total-1:
		m.slideshow = false
		m.setStatus("slideshow finished", false)
		return nil
	default:
		m.session.Skip()
	}
	return m.tick()
}

func (m *Model) tick() tea.Cmd {
	gen := m.slideGen
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg{gen: gen, at: t}
	})
}

func (m *Model) waitForChange() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	ch := m.watcher.FileChannel()
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return watchClosedMsg{}
		}
		return fileChangedMsg(ev)
	}
}

func (m *Model) reportMove(report *organize.Report, err error) {
	if err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	msgs := report.Messages()
	if len(msgs) == 0 {
		m.setStatus("nothing to move", false)
		return
	}
	m.setStatus(strings.Join(msgs, " "), false)
}

func (m *Model) report(err error, ok string) {
	if err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	m.setStatus(ok, false)
}

func (m *Model) setStatus(msg string, isErr bool) {
	m.statusMsg = msg
	m.statusErr = isErr
}

// Getters

func (m *Model) Mode() Mode {
	return m.mode
}

func (m *Model) Session() *session.Session {
	return m.session
}

func (m *Model) Status() string {
	return m.statusMsg
}

func (m *Model) Slideshow() bool {
	return m.slideshow
}
