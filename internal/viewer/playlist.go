// Package viewer plays a listing back as a slideshow.
package viewer

import (
	"context"
	"math/rand/v2"
	"slices"
	"time"

	"imgsort/internal/log"
)

// Playlist walks a fixed list of file names. Without Continuous it stops
// after the last file; with it, playback wraps to the first.
type Playlist struct {
	files      []string
	index      int
	continuous bool
}

// NewPlaylist copies files into a playlist positioned on the first file.
func NewPlaylist(files []string, continuous bool) *Playlist {
	return &Playlist{files: slices.Clone(files), continuous: continuous}
}

// Shuffle randomises the order and restarts at the first file.
func (p *Playlist) Shuffle(r *rand.Rand) {
	shuffle := rand.Shuffle
	if r != nil {
		shuffle = r.Shuffle
	}
	shuffle(len(p.files), func(i, j int) {
		p.files[i], p.files[j] = p.files[j], p.files[i]
	})
	p.index = 0
}

// Len returns the number of files.
func (p *Playlist) Len() int {
	return len(p.files)
}

// Files returns a copy of the playback order.
func (p *Playlist) Files() []string {
	return slices.Clone(p.files)
}

// Index returns the current position.
func (p *Playlist) Index() int {
	return p.index
}

// SetContinuous toggles wrap-around.
func (p *Playlist) SetContinuous(on bool) {
	p.continuous = on
}

// Current returns the file at the current position.
func (p *Playlist) Current() (string, bool) {
	if p.index < 0 || p.index >= len(p.files) {
		return "", false
	}
	return p.files[p.index], true
}

// Next advances one file and returns it. At the end of a non-continuous
// playlist it reports false and stays past the end.
func (p *Playlist) Next() (string, bool) {
	if len(p.files) == 0 {
		return "", false
	}
	if p.continuous && p.index >= len(p.files)-1 {
		p.index = 0
	} else if p.index < len(p.files) {
		p.index++
	}
	return p.Current()
}

// Prev steps one file back, wrapping to the first from the front.
func (p *Playlist) Prev() (string, bool) {
	p.index--
	if p.index < 1 || p.index >= len(p.files) {
		p.index = 0
	}
	return p.Current()
}

// Run shows the current file, then the next one every interval, until the
// playlist ends or ctx is cancelled.
func Run(ctx context.Context, p *Playlist, interval time.Duration, show func(name string) error) error {
	name, ok := p.Current()
	if !ok {
		return nil
	}
	if err := show(name); err != nil {
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			name, ok := p.Next()
			if !ok {
				log.LogWithFields(log.F("shown", p.Len())).Debug("slideshow finished")
				return nil
			}
			if err := show(name); err != nil {
				return err
			}
		}
	}
}
