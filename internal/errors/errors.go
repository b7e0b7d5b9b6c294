package errors

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/lifeops/internal/constants"
	"github.com/julianstephens/lifeops/internal/logger"
)

// Format renders err for the terminal. Nil renders as "".
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Hint suggests a next step for the error kinds a user can act on.
func Hint(err error) string {
	var invariant *InvariantError
	switch {
	case err == nil:
		return ""
	case IsMalformedBackup(err):
		return "the document was not imported; nothing in the store changed"
	case IsStorageFailure(err):
		return fmt.Sprintf("run '%s doctor' to check the store", constants.AppName)
	case errors.Is(err, ErrEmptySlot):
		return "set the item's text before marking it done"
	case errors.As(err, &invariant):
		return fmt.Sprintf("run '%s doctor' to find other damaged records", constants.AppName)
	}
	return ""
}

// report writes err and its hint to w.
func report(w io.Writer, err error) {
	fmt.Fprintln(w, Format(err))
	if hint := Hint(err); hint != "" {
		fmt.Fprintf(w, "Hint: %s\n", hint)
	}
}

// Fatal logs err, prints it with any hint to stderr and exits 1. A nil
// error is ignored.
func Fatal(err error) {
	if err == nil {
		return
	}
	logger.Error("Command failed", "error", err)
	report(os.Stderr, err)
	os.Exit(1)
}
