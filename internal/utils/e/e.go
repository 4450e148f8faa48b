package e

import "fmt"

// Wrap annotates err with msg. It returns nil when err is nil.
func Wrap(msg string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// WrapIfErr is Wrap for deferred use on a named error result.
func WrapIfErr(msg string, err *error) {
	if err == nil || *err == nil {
		return
	}
	*err = Wrap(msg, *err)
}
