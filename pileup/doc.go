// Package pileup transposes coordinate-sorted alignment records into
// per-reference-position columns: for each position covered by at
// least one live record, the set of records overlapping it together
// with each record's query offsets and alignment classification at
// that position.
//
// Input must be coordinate-sorted by (RefID, Start); an out-of-order
// record latches an InvalidData error, surfaced once by Next; every
// later call reports NoMoreRecords.
package pileup
