package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/syssam/aggregen/compiler/gen"
	"github.com/syssam/aggregen/compiler/load"
)

// graph loads the schema file and builds its aggregate graph.
func (a *App) graph(path string, extra ...gen.Option) (*gen.Graph, error) {
	set, err := load.ParseFile(path)
	if err != nil {
		return nil, err
	}
	opts := append([]gen.Option{gen.WithLogger(a.Logger)}, extra...)
	if a.ParentField != "" {
		opts = append(opts, gen.WithParentField(a.ParentField))
	}
	cfg, err := gen.NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	g, err := gen.NewGraph(cfg, set.Schemas...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// watch runs fn each time the file at path is written, until interrupted.
// Failures of fn are logged and do not stop the watch.
func (a *App) watch(path string, fn func() error) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return a.watchContext(ctx, path, fn)
}

func (a *App) watchContext(ctx context.Context, path string, fn func() error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()
	// Editors often replace the file, so the directory is watched.
	if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	a.Logger.Info("watching for changes", "file", path)
	target := filepath.Clean(path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			a.Logger.Debug("schema changed", "op", ev.Op.String())
			if err := fn(); err != nil {
				a.Logger.Error("schema rejected", "err", err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			a.Logger.Warn("watcher error", "err", err)
		}
	}
}
