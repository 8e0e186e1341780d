/*
Package cosign coordinates multisig approval of Substrate calls.

The root package holds the identity primitives shared by all other packages:
account identifiers and their SS58 display form, the canonical ordering of
signatories, multisig account derivation and amount formatting. The
reconciliation of pending on-chain calls lives in x/multisig, the
transaction lifecycle in lifecycle and the block height estimation in
schedule.

Every party of a multisig must derive the same account from the same
signatories and threshold. Signatories are always sorted by their raw bytes
before hashing, and the derivation refuses input that is not sorted rather
than sorting silently.
*/
package cosign
