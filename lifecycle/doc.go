/*
Package lifecycle follows a submitted call from the moment it is handed to a
signer until it is final.

A signer produces an ordered stream of status notifications. Tracker folds
that stream into a SubmissionState that only moves forward:

	Sent -> Broadcast -> InBlock -> Finalized(success)

Errored is reachable from any non terminal state. Finalized and Errored are
terminal, the completion callback of a tracker is called exactly once when
one of them is entered. Inclusion in a block is never reported as success,
only a finalized notification carrying the system ExtrinsicSuccess event is.
*/
package lifecycle
