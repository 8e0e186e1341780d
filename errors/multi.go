package errors

import (
	"fmt"
	"strings"
)

// Append clubs together all provided errors. Nil values are skipped. If no
// error is left, nil is returned. A single error is returned as is.
// Nested multi errors are flattened.
func Append(errs ...error) error {
	var flat []error
	for _, e := range errs {
		if isNilErr(e) {
			continue
		}
		if m, ok := e.(*multiErr); ok {
			flat = append(flat, m.errs...)
			continue
		}
		flat = append(flat, e)
	}
	switch len(flat) {
	case 0:
		return nil
	case 1:
		return flat[0]
	default:
		return &multiErr{errs: flat}
	}
}

type multiErr struct {
	errs []error
}

// Unpack returns all grouped errors.
func (m *multiErr) Unpack() []error {
	return m.errs
}

// Unwrap exposes all grouped errors to errors.Is and errors.As.
func (m *multiErr) Unwrap() []error {
	return m.errs
}

func (m *multiErr) Error() string {
	points := make([]string, len(m.errs))
	for i, err := range m.errs {
		points[i] = fmt.Sprintf("* %s", err)
	}
	return fmt.Sprintf("%d errors occurred:\n\t%s\n", len(m.errs), strings.Join(points, "\n\t"))
}

// Code returns the code of the first grouped error.
func (m *multiErr) Code() uint32 {
	return code(m.errs[0])
}
