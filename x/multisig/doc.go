/*
Package multisig reconciles pending multisig calls stored on chain with call
data known off chain.

The chain stores, for every pending call of a multisig account, only the
hash of the call together with the approving signatories, the depositor and
the timepoint of the first approval. The call data itself is shared between
signatories out of band. A Reconciler joins both sources into
ResolvedTransaction views, decoding the call when its data is known.

Signing eligibility follows the rules enforced by the multisig pallet: an
account approves once, the approval that reaches the threshold must carry
the call data to execute it, and only the depositor can cancel.

BuildCoSign produces the call a signatory submits to approve, execute or
cancel a pending call. The other signatories passed to that call are the
canonical signatory set without the acting account.
*/
package multisig
