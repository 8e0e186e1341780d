/*
Package schedule estimates relay chain block heights from calendar dates and
decides whether release schedules matured.

All estimates project linearly from a reference: a chain height observed at
a known wall clock time. The Clock keeps the last observed reference for a
short freshness window so that repeated estimates do not query the chain
each time.
*/
package schedule
