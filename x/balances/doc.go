/*
Package balances provides the value transfer call and the account balance
model of the balances pallet.
*/
package balances
