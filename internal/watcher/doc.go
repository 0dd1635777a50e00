// Package watcher reloads the configuration file when it changes.
//
// The watcher subscribes to the file's directory with fsnotify, so editors
// that save by writing a temp file and renaming it are picked up. Bursts of
// events are debounced into a single reload.
//
// Example usage:
//
//	w, err := watcher.New(path, func() error {
//		cfg, err := config.Load(path)
//		if err != nil {
//			return err
//		}
//		engine.SetConfig(cfg.Declutter)
//		return nil
//	}, logger)
//	if err != nil {
//		return err
//	}
//	if err := w.Start(); err != nil {
//		return err
//	}
//	defer w.Stop()
package watcher
