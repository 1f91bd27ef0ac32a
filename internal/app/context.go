package app

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/tacogips/regen/internal/config"
	"github.com/tacogips/regen/internal/template/render"
)

// Context keys reserved for the data tree and configuration globals.
const (
	DataKey    = "dd"
	GlobalsKey = "globals"
)

// BaseContext assembles the context shared by every render of a run. Later
// entries win: flattened top-level data keys, then the full data under "dd",
// then the globals, then each extra data file under its key.
func BaseContext(cfg *config.Config, data any, extra map[string]any) render.Context {
	ctx := render.Context{}

	if cfg.Flatten() {
		if m, ok := data.(map[string]any); ok {
			for k, v := range m {
				if render.IsIdentifier(k) {
					ctx[k] = v
				}
			}
		}
	}

	ctx[DataKey] = data
	ctx[GlobalsKey] = cfg.Globals

	for _, e := range cfg.ExtraData {
		if v, ok := extra[e.Key]; ok {
			ctx[e.Key] = v
		}
	}
	return ctx
}

// LoadExtraData reads every configured extra data file, keyed by its context
// key. A missing or unparsable optional file is logged and left out; a
// required one fails.
func LoadExtraData(cfg *config.Config, logger *slog.Logger) (map[string]any, error) {
	out := make(map[string]any, len(cfg.ExtraData))
	for _, e := range cfg.ExtraData {
		path := cfg.Resolve(e.Path)

		content, err := os.ReadFile(path)
		if err != nil {
			reason := "failed to read extra data file"
			if errors.Is(err, fs.ErrNotExist) {
				reason = "extra data file not found"
			}
			if e.Required {
				return nil, NewDataLoadError(fmt.Sprintf("required %s: %s", reason, path), err)
			}
			logger.Warn(reason, "key", e.Key, "path", path)
			continue
		}

		value, err := ParseData(content, path)
		if err != nil {
			if e.Required {
				return nil, NewDataLoadError(fmt.Sprintf("required extra data file is invalid: %s", path), err)
			}
			logger.Warn("failed to parse extra data file", "key", e.Key, "path", path, "error", err)
			continue
		}

		logger.Debug("loaded extra data", "key", e.Key, "path", path)
		out[e.Key] = value
	}
	return out, nil
}
