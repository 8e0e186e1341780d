/*
Package errors implements the error taxonomy used across cosign.

Every error returned by this module wraps one of the root errors registered
in this package (ErrFormat, ErrInvalidMultisigConfig, ErrDecode, ErrProvider,
ErrSubmissionRejected and a few generic ones). Use ErrXyz.New, ErrXyz.Newf,
Wrap or Wrapf at the point of creation so that a stack trace is attached, and
ErrXyz.Is(err) to test for a kind of error.

Validation functions return field errors (Field, AppendField) grouped with
Append, so that a caller can point a user at the exact input that is wrong
(see FieldErrors).

Once you have an error, you can use fmt.Printf/Sprintf to get more context
	%s is just the error message
	%+v is the message followed by the stack trace
*/
package errors
