package main

import (
	"errors"
	"log/slog"

	"github.com/Veraticus/cardscope/internal/common"
)

// warnDegenerate logs degenerate-column exclusions and reports whether the
// error was of that kind; any other error stays fatal for the caller.
func warnDegenerate(err error) bool {
	var degErr *common.DegenerateColumnError
	if errors.As(err, &degErr) {
		slog.Warn("Excluded degenerate columns from standardization", "columns", degErr.Columns)
		return true
	}
	return false
}
