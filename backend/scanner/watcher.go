package scanner

import (
	"log"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Changes are debounced so that a bulk copy into the library produces
// one rescan notification, not one per file.
const debounceInterval = 2 * time.Second

// Watcher reports when the contents of the music directory change so
// the library listing can be rescanned.
type Watcher struct {
	fsw     *fsnotify.Watcher
	changed chan struct{}
	quit    chan struct{}
}

func NewWatcher(root string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(root); err != nil {
		fsw.Close()
		return nil, err
	}
	w := &Watcher{
		fsw:     fsw,
		changed: make(chan struct{}, 1),
		quit:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Changed delivers one value per burst of filesystem activity under
// the watched directory.
func (w *Watcher) Changed() <-chan struct{} {
	return w.changed
}

func (w *Watcher) run() {
	var debounce *time.Timer
	var debounceC <-chan time.Time
	for {
		select {
		case <-w.quit:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write) ||
				ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				if debounce == nil {
					debounce = time.NewTimer(debounceInterval)
					debounceC = debounce.C
				} else {
					debounce.Reset(debounceInterval)
				}
			}
		case <-debounceC:
			debounce = nil
			debounceC = nil
			select {
			case w.changed <- struct{}{}:
			default:
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("library watcher error: %v", err)
		}
	}
}

func (w *Watcher) Close() {
	close(w.quit)
	w.fsw.Close()
}
