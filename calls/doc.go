/*
Package calls maps chain calls to Go messages and back.

A call is encoded as a two byte index (pallet, call) followed by the SCALE
encoded arguments. Every message type registers its index and a decoder in a
Registry. The registry is then used to build call data for submission and to
decode call data shared by other signatories of a multisig.

Pallet indexes differ between runtimes, DefaultRegistry uses the indexes of
the reference network and every index can be overridden with Register.
*/
package calls
