//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package clipboard

import "errors"

var errUnsupported = errors.New("clipboard operations are not supported on this platform")

func ensureInit() error { return errUnsupported }

func write(Format, []byte) error { return errUnsupported }

func read(Format) ([]byte, error) { return nil, errUnsupported }
