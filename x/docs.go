/*
Package x contains the pallet modules

Each sub-package models the calls and storage of one runtime pallet: the
call messages it can encode and decode, their validation and the storage
values read from the chain. Pallet indexes differ between runtimes, so every
package registers its calls with a calls.Registry at an index chosen by the
caller. The app package assembles the registry of a known runtime.

Note that call messages are named after the pallet call, without the pallet
name, to avoid stutter. Use eg. `multisig.AsMultiMsg` for `multisig.asMulti`.
*/
package x
