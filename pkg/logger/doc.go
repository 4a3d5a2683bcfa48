// Package logger builds *slog.Logger values for the SDK and defines the
// attribute helpers used across packages so keys stay consistent.
//
// New takes functional options (format, level, output, static attributes,
// context extractors). FromConfig does the same from a Config loaded with
// pkg/config, applying environment defaults first.
//
//	log, err := logger.FromConfig(cfg.Logger, logger.WithContextValue("tab", tabKey{}))
//	if err != nil {
//	    return err
//	}
//	log.Info("session rotated", logger.SessionID(id), logger.Component("sessionid"))
//
// Helpers such as Error and SessionID return an empty slog.Attr for zero
// values, so callers need no nil checks.
package logger
