package level

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/l1jgo/shapesim/internal/data"
)

// Result is what an asynchronous level load delivers.
type Result struct {
	Level *Level
	Err   error
}

// Loader loads and unloads levels off the simulation goroutine. Each call
// returns a channel that receives exactly one value and is then closed.
type Loader interface {
	Load(index int) <-chan Result
	Unload(index int) <-chan error
}

// FileLoader reads level_<index>.yaml files from a directory.
type FileLoader struct {
	dir     string
	builder *Builder
	log     *zap.Logger

	mu     sync.Mutex
	loaded map[int]bool
}

func NewFileLoader(dir string, builder *Builder, log *zap.Logger) *FileLoader {
	return &FileLoader{
		dir:     dir,
		builder: builder,
		log:     log,
		loaded:  make(map[int]bool),
	}
}

func (l *FileLoader) Load(index int) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		defer close(ch)
		path := data.LevelPath(l.dir, index)
		def, err := data.LoadLevelDef(path)
		if err != nil {
			ch <- Result{Err: err}
			return
		}
		lvl, err := l.builder.Build(index, def)
		if err != nil {
			ch <- Result{Err: err}
			return
		}
		l.mu.Lock()
		l.loaded[index] = true
		l.mu.Unlock()
		l.log.Info("level loaded",
			zap.Int("index", index),
			zap.String("name", lvl.Name),
			zap.Int("objects", len(lvl.objects)),
		)
		ch <- Result{Level: lvl}
	}()
	return ch
}

// Unload forgets a loaded level. Unloading a level that is not loaded is an
// error the caller may log and ignore.
func (l *FileLoader) Unload(index int) <-chan error {
	ch := make(chan error, 1)
	go func() {
		defer close(ch)
		l.mu.Lock()
		ok := l.loaded[index]
		delete(l.loaded, index)
		l.mu.Unlock()
		if !ok {
			ch <- fmt.Errorf("level %d is not loaded", index)
			return
		}
		l.log.Debug("level unloaded", zap.Int("index", index))
		ch <- nil
	}()
	return ch
}
