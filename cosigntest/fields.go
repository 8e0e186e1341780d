package cosigntest

import (
	"testing"

	"github.com/iov-one/cosign/errors"
	"github.com/stretchr/testify/require"
)

// RequireFieldError fails the test unless err holds exactly one error for
// the field and that error is of the want kind. A nil want requires that no
// error is reported for the field.
func RequireFieldError(t testing.TB, err error, field string, want *errors.Error) {
	t.Helper()

	errs := errors.FieldErrors(err, field)
	if want == nil {
		require.Empty(t, errs, "field %q", field)
		return
	}
	require.Len(t, errs, 1, "field %q in %v", field, err)
	require.ErrorIs(t, errs[0], want)
}
