//go:build !nogui

package gui

import (
	"fmt"
	"image/color"
	"strings"
	"sync"

	"imgsort/internal/config"
	"imgsort/internal/keyword"
	"imgsort/internal/log"
	"imgsort/internal/organize"
	"imgsort/internal/session"
	"imgsort/internal/watch"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

const (
	modeOr  = "Match ANY (OR)"
	modeAnd = "Match ALL (AND)"
)

// App is the GUI application
type App struct {
	fyneApp    fyne.App
	mainWindow fyne.Window
	cfg        *config.Config
	watcher    *watch.Watcher

	// The session is shared with the watcher goroutine.
	mu      sync.Mutex
	session *session.Session

	image        *canvas.Image
	hiddenText   *canvas.Text
	fileLabel    *widget.Label
	progress     *widget.Label
	statusLabel  *widget.Label
	categoryBox  *fyne.Container
	dirEntry     *widget.Entry
	catEntry     *widget.Entry
	kwEntry      *widget.Entry
	sepEntry     *widget.Entry
	modeSelect   *widget.Select
	backButton   *widget.Button
	moveButton   *widget.Button
	kwMoveButton *widget.Button
	resetButton  *widget.Button
	hideCheck    *widget.Check
	clampCheck   *widget.Check

	accentColor color.NRGBA
}

// NewApp creates a new GUI application
func NewApp(cfg *config.Config, s *session.Session, w *watch.Watcher) *App {
	return newApp(app.NewWithID("io.github.imgsort"), cfg, s, w)
}

func newApp(fyneApp fyne.App, cfg *config.Config, s *session.Session, w *watch.Watcher) *App {
	a := &App{
		fyneApp:     fyneApp,
		cfg:         cfg,
		session:     s,
		watcher:     w,
		accentColor: color.NRGBA{R: 255, G: 165, B: 0, A: 255},
	}
	a.mainWindow = a.fyneApp.NewWindow("imgsort")
	a.mainWindow.Resize(fyne.NewSize(1200, float32(cfg.ImageHeightClamp)+160))
	a.mainWindow.SetContent(a.buildContent())
	a.refresh()
	return a
}

// GetMainWindow returns the main window instance
func (a *App) GetMainWindow() fyne.Window {
	return a.mainWindow
}

// Run starts the GUI application
func (a *App) Run() {
	if a.watcher != nil {
		go a.followChanges()
	}
	a.mainWindow.ShowAndRun()
}

func (a *App) followChanges() {
	for ev := range a.watcher.FileChannel() {
		log.LogWithFields(log.F("file", ev.Path)).Debug("directory changed")
		a.mu.Lock()
		a.session.Refresh()
		a.mu.Unlock()
		a.refresh()
	}
}

func (a *App) buildContent() fyne.CanvasObject {
	a.image = canvas.NewImageFromFile("")
	a.image.FillMode = canvas.ImageFillContain
	a.hiddenText = canvas.NewText("image hidden", a.accentColor)
	a.hiddenText.Alignment = fyne.TextAlignCenter
	a.hiddenText.Hide()

	a.fileLabel = widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	a.progress = widget.NewLabel("")
	a.statusLabel = widget.NewLabel("")
	a.statusLabel.Wrapping = fyne.TextWrapWord

	a.backButton = widget.NewButtonWithIcon("BACK", theme.NavigateBackIcon(), func() {
		a.do(func(s *session.Session) error { s.Back(); return nil })
	})
	a.categoryBox = container.NewGridWrap(fyne.NewSize(120, 40))

	a.moveButton = widget.NewButtonWithIcon("Move files", theme.ConfirmIcon(), func() {
		a.move(func(s *session.Session) (*organize.Report, error) { return s.MoveFiles() })
	})
	a.kwMoveButton = widget.NewButton("Move by keyword", func() {
		a.move(func(s *session.Session) (*organize.Report, error) { return s.MoveFilesByKeyword() })
	})
	a.resetButton = widget.NewButtonWithIcon("Reset", theme.ContentUndoIcon(), func() {
		dialog.ShowConfirm("Reset annotations", "Discard every annotation for this directory?", func(ok bool) {
			if ok {
				a.do(func(s *session.Session) error { return s.ResetAnnotations() })
			}
		}, a.mainWindow)
	})
	a.hideCheck = widget.NewCheck("Hide image", func(on bool) {
		a.do(func(s *session.Session) error {
			if s.View().Hidden != on {
				s.ToggleHide()
			}
			return nil
		})
	})
	a.clampCheck = widget.NewCheck(fmt.Sprintf("Clamp height (%dpx)", a.cfg.ImageHeightClamp), func(on bool) {
		a.do(func(s *session.Session) error {
			if s.View().Clamp != on {
				s.ToggleClamp()
			}
			return nil
		})
	})

	a.dirEntry = widget.NewEntry()
	a.dirEntry.SetPlaceHolder("full directory path to image files")
	a.dirEntry.OnSubmitted = a.changeDirectory

	a.catEntry = widget.NewEntry()
	a.catEntry.SetPlaceHolder("categories, comma separated")
	a.catEntry.OnSubmitted = func(csv string) {
		a.do(func(s *session.Session) error { return s.ChangeCategories(csv) })
	}

	a.sepEntry = widget.NewEntry()
	a.sepEntry.SetPlaceHolder("sep")
	a.kwEntry = widget.NewEntry()
	a.kwEntry.SetPlaceHolder("keywords, comma separated")
	a.kwEntry.OnSubmitted = func(string) { a.applyKeywords() }
	a.modeSelect = widget.NewSelect([]string{modeOr, modeAnd}, func(string) { a.applyKeywords() })

	sidebar := container.NewVBox(
		widget.NewLabelWithStyle("Directory", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		a.dirEntry,
		widget.NewLabelWithStyle("Categories", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		a.catEntry,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Keyword filter", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewBorder(nil, nil, a.sepEntry, nil, a.kwEntry),
		a.modeSelect,
		widget.NewSeparator(),
		a.hideCheck,
		a.clampCheck,
		container.NewGridWithColumns(2, a.moveButton, a.kwMoveButton),
		a.resetButton,
		widget.NewSeparator(),
		a.progress,
		a.statusLabel,
	)

	viewer := container.NewBorder(
		container.NewHBox(a.backButton, a.fileLabel, layout.NewSpacer()),
		a.categoryBox,
		nil,
		nil,
		container.NewStack(a.image, a.hiddenText),
	)

	split := container.NewHSplit(viewer, container.NewVScroll(sidebar))
	split.Offset = 0.75
	return split
}

// do runs fn against the session and redraws.
func (a *App) do(fn func(s *session.Session) error) {
	a.mu.Lock()
	err := fn(a.session)
	a.mu.Unlock()
	if err != nil {
		a.setStatus(err.Error())
	}
	a.refresh()
}

func (a *App) move(fn func(s *session.Session) (*organize.Report, error)) {
	a.do(func(s *session.Session) error {
		report, err := fn(s)
		if report != nil && len(report.Groups) > 0 {
			a.setStatus(strings.Join(report.Messages(), "\n"))
		} else if err == nil {
			a.setStatus("nothing to move")
		}
		return err
	})
}

func (a *App) changeDirectory(dir string) {
	a.do(func(s *session.Session) error {
		if err := s.ChangeDirectory(strings.TrimSpace(dir)); err != nil {
			return err
		}
		if a.watcher != nil {
			if err := a.watcher.Retarget(s.Directory()); err != nil {
				log.LogWithError(err).Warn("could not watch directory")
			}
		}
		a.setStatus("")
		return nil
	})
}

func (a *App) annotate(label string) {
	a.do(func(s *session.Session) error { return s.Annotate(label) })
}

func (a *App) applyKeywords() {
	mode := keyword.Or
	if a.modeSelect.Selected == modeAnd {
		mode = keyword.And
	}
	phrases := keyword.ParsePhrases(a.kwEntry.Text)
	a.do(func(s *session.Session) error {
		if len(phrases) == 0 {
			s.ClearKeywords()
			return nil
		}
		s.SetKeywords(keyword.NewSpec(phrases, a.sepEntry.Text, mode))
		return nil
	})
}

func (a *App) setStatus(msg string) {
	a.statusLabel.SetText(msg)
}

// refresh redraws every widget from the session view.
func (a *App) refresh() {
	a.mu.Lock()
	v := a.session.View()
	a.mu.Unlock()

	if a.dirEntry.Text == "" {
		a.dirEntry.SetText(v.Directory)
	}
	if a.catEntry.Text == "" {
		a.catEntry.SetText(strings.Join(v.Categories, ", "))
	}
	a.hideCheck.Checked = v.Hidden
	a.hideCheck.Refresh()
	a.clampCheck.Checked = v.Clamp
	a.clampCheck.Refresh()

	a.refreshCategories(v)
	a.refreshImage(v)

	a.progress.SetText(fmt.Sprintf("number of images: %d\nannotated: %d\nremaining: %d", v.Total, v.Annotated, v.Remaining))
	a.backButton.Disable()
	if v.Index > 0 {
		a.backButton.Enable()
	}
	if len(v.Keywords) > 0 {
		a.kwMoveButton.Enable()
	} else {
		a.kwMoveButton.Disable()
		a.kwEntry.SetText("")
	}
}

func (a *App) refreshCategories(v session.View) {
	objects := make([]fyne.CanvasObject, 0, len(v.Categories))
	for _, c := range v.Categories {
		btn := widget.NewButton(c, func() { a.annotate(c) })
		if c == v.CurrentLabel {
			btn.Importance = widget.HighImportance
		}
		if v.Current == "" {
			btn.Disable()
		}
		objects = append(objects, btn)
	}
	a.categoryBox.Objects = objects
	a.categoryBox.Refresh()
}

func (a *App) refreshImage(v session.View) {
	switch {
	case !v.ValidDirectory:
		a.fileLabel.SetText(v.Directory + " is not a valid directory")
	case v.Total == 0:
		a.fileLabel.SetText("No image files in folder.")
	case v.Done:
		a.fileLabel.SetText("All images annotated. Move files to sort them into folders.")
	default:
		a.fileLabel.SetText(fmt.Sprintf("[%d/%d] %s", v.Index+1, v.Total, v.Current))
	}

	if v.Hidden || v.Current == "" {
		a.image.Hide()
		if v.Hidden {
			a.hiddenText.Show()
		}
		return
	}
	a.hiddenText.Hide()
	a.image.File = v.CurrentPath
	a.image.FillMode = canvas.ImageFillOriginal
	a.image.SetMinSize(fyne.NewSize(0, 0))
	if v.Clamp && a.cfg.ImageHeightClamp > 0 {
		a.image.FillMode = canvas.ImageFillContain
		a.image.SetMinSize(fyne.NewSize(0, float32(a.cfg.ImageHeightClamp)))
	}
	a.image.Show()
	a.image.Refresh()
}

// IsGUIAvailable returns whether the GUI is available in this build
func IsGUIAvailable() bool {
	return true
}

// StartGUI opens the desktop window and blocks until it closes.
func StartGUI(cfg *config.Config, s *session.Session, w *watch.Watcher) error {
	NewApp(cfg, s, w).Run()
	return nil
}
