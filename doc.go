/*
Package store implements the in-memory hash dictionary that backs a
single-writer key/value database server, plus the multi-database Store type
that wires it to the snapshot serializer (package rdb) and the background
work queue (package bio).

We implement:

1. Dict, an incrementally-rehashing hash table: growing or shrinking never
blocks a lookup, insert, or remove for more than the cost of migrating a
handful of buckets.

2. Store, a fixed-size array of databases (each a main Dict plus an expires
Dict), tracking the dirty-write counter and last-save bookkeeping a
background-save coordinator needs.

3. Safe and fast iterators over a Dict, matching the two concurrency
disciplines a single-writer server needs: "I am going to mutate while I
iterate" (safe) and "detect if anyone mutated while I wasn't looking" (fast).

# Technical Details

**Two tables.**
A Dict holds two bucket tables, t0 and t1. Rehashing migrates entries from t0
into t1 a few buckets at a time; when t0 drains, t1 is promoted to t0 and the
cycle can start again on the next resize.

**Rehash cursor.**
rehashIdx is -1 when idle, otherwise the next t0 bucket awaiting migration.
Lookup, insert and remove (Find, Insert, Replace, PutOrGet, Remove, Unlink)
piggyback exactly one migration step first, provided no safe iterator is
live. Sample runs up to one step per requested entry; Scan, RandomEntry and
Contains run none.

**Scan cursor.**
Scan uses the reverse-binary iteration trick: incrementing the
bit-reversed cursor visits buckets in an order that tolerates the table
being resized between calls, at the cost of possible (never missing)
duplicates.
*/
package store
