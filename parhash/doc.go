// Package parhash implements a fixed-capacity, insert-only hash table whose
// bulk insert is safe under row-wise concurrency. It exists to serve spatial
// deduplication: activating N keys returns, per input row, the slot address
// the key landed in and a claimed mask that is true for exactly one row per
// distinct key (the row that won the slot's claim race first).
//
// Which of several duplicate rows wins is unspecified and varies run to run;
// callers must rely only on the one-winner-per-key guarantee.
package parhash
