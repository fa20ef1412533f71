package catalog

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DebounceInterval is how long a file must stay quiet before its change is
// reported. Each event restarts the wait, so a save that truncates and then
// writes is reported once, after the final write.
const DebounceInterval = 100 * time.Millisecond

// Watcher reports changes to catalog files. Paths may name files or
// directories; directories report any YAML file inside them. Events carry
// the changed path.
type Watcher struct {
	watcher *fsnotify.Watcher
	files   map[string]struct{}
	dirs    map[string]struct{}

	Events  chan string
	Errors  chan error
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

func NewWatcher(paths ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("catalog: watcher: %w", err)
	}

	watcher := &Watcher{
		watcher: w,
		files:   make(map[string]struct{}),
		dirs:    make(map[string]struct{}),
		Events:  make(chan string, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}

	watched := make(map[string]struct{})
	for _, path := range paths {
		clean := filepath.Clean(path)
		dir := filepath.Dir(clean)
		if isYAML(clean) {
			watcher.files[clean] = struct{}{}
		} else {
			dir = clean
			watcher.dirs[clean] = struct{}{}
		}
		if _, ok := watched[dir]; ok {
			continue
		}
		// Watch the directory so atomic saves that replace the file are seen.
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, fmt.Errorf("catalog: watch %s: %w", dir, err)
		}
		watched[dir] = struct{}{}
	}

	go watcher.run()
	return watcher, nil
}

// Close stops the watcher and closes its channels.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
		close(w.Events)
		close(w.Errors)
	})
	return err
}

// pendingChange is a change waiting for its file to go quiet.
type pendingChange struct {
	timer *time.Timer
	gen   uint64
}

type settled struct {
	name string
	gen  uint64
}

func (w *Watcher) run() {
	defer close(w.done)
	pending := make(map[string]*pendingChange)
	fired := make(chan settled)
	defer func() {
		for _, change := range pending {
			change.timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			name := filepath.Clean(event.Name)
			if !w.matches(name) {
				continue
			}
			change, ok := pending[name]
			if !ok {
				change = &pendingChange{}
				pending[name] = change
			} else {
				change.timer.Stop()
			}
			change.gen++
			gen := change.gen
			change.timer = time.AfterFunc(DebounceInterval, func() {
				select {
				case fired <- settled{name: name, gen: gen}:
				case <-w.closeCh:
				}
			})
		case s := <-fired:
			// A later event restarted the wait.
			if change, ok := pending[s.name]; !ok || change.gen != s.gen {
				continue
			}
			delete(pending, s.name)
			select {
			case w.Events <- s.name:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

func (w *Watcher) matches(name string) bool {
	if _, ok := w.files[name]; ok {
		return true
	}
	if !isYAML(name) {
		return false
	}
	_, ok := w.dirs[filepath.Dir(name)]
	return ok
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
