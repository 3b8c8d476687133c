// Package config loads muxkeys binding files and applies them to a
// dispatcher.
//
// A binding file sets the prefix chord, the log level and a list of custom
// bindings. TOML and YAML are both accepted, chosen by file extension:
//
//	# ~/.config/muxkeys/keys.toml
//	prefix = "C-a"
//	log_level = "info"
//
//	[[bindings]]
//	key = "c"
//	command = "new-window"
//
//	[[bindings]]
//	key = "M-Left"
//	command = "select-pane"
//	args = ["-L"]
//	no_prefix = true
//
// Bindings need the prefix unless no_prefix is set.
//
// # Live Reload
//
// Watcher re-reads the file whenever it changes. Reload computes the
// difference between the old and new configuration, so only changed
// bindings are removed and re-added:
//
//	w, err := config.NewWatcher(path, func(cfg *config.Config, err error) {
//	    if err != nil {
//	        log.Warn("reload failed: %v", err)
//	        return
//	    }
//	    _ = config.ApplyChanges(d, config.Diff(current, cfg))
//	    current = cfg
//	})
//
// # Error Handling
//
//   - ErrFileNotFound: the file doesn't exist
//   - ErrUnsupportedFormat: the extension is not .toml, .yaml or .yml
//   - *ParseError: the file is not valid TOML or YAML
//   - ValidationErrors: fields are missing or key names don't parse;
//     matches ErrValidationFailed with errors.Is
package config
