/*
Package timerelease provides the release schedule model and the calls of the
time release pallet.

A release schedule locks an amount until a relay chain block height. Only
schedules releasing everything in a single period are fully supported, the
maturity of multi period schedules is never computed.
*/
package timerelease
