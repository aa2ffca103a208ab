package bam

// CigarOpType identifies one of the nine BAM cigar operations.
type CigarOpType byte

const (
	CigarMatch CigarOpType = iota
	CigarInsertion
	CigarDeletion
	CigarSkip
	CigarSoftClip
	CigarHardClip
	CigarPadding
	CigarEqual
	CigarMismatch
	nCigarOps
)

var cigarOpCodes = [nCigarOps]byte{'M', 'I', 'D', 'N', 'S', 'H', 'P', '=', 'X'}

// consumesRefTable[op] is true when op advances the reference
// position; consumesQueryTable[op] is true when op advances the
// query (read) position. Table-driven per the cigar op contract:
// implementers need only encode this table, the engines above it are
// table-driven.
var consumesRefTable = [nCigarOps]bool{
	CigarMatch: true, CigarInsertion: false, CigarDeletion: true,
	CigarSkip: true, CigarSoftClip: false, CigarHardClip: false,
	CigarPadding: false, CigarEqual: true, CigarMismatch: true,
}

var consumesQueryTable = [nCigarOps]bool{
	CigarMatch: true, CigarInsertion: true, CigarDeletion: false,
	CigarSkip: false, CigarSoftClip: true, CigarHardClip: false,
	CigarPadding: false, CigarEqual: true, CigarMismatch: true,
}

// CigarOp is one (length, operation) pair from a record's cigar
// string, as packed in the BAM binary record: the low 4 bits hold the
// operation code, the remaining 28 bits hold the length.
type CigarOp uint32

// PackCigarOp builds a CigarOp from a length and an operation type.
func PackCigarOp(length uint32, op CigarOpType) CigarOp {
	return CigarOp(length<<4 | uint32(op))
}

// Len returns the operation's length.
func (c CigarOp) Len() uint32 { return uint32(c) >> 4 }

// Type returns the operation's type.
func (c CigarOp) Type() CigarOpType { return CigarOpType(c & 0xf) }

// Valid reports whether the operation's type code is one of the nine
// defined cigar operations.
func (c CigarOp) Valid() bool { return c.Type() < nCigarOps }

// ConsumesRef reports whether this operation advances the reference
// position.
func (c CigarOp) ConsumesRef() bool { return consumesRefTable[c.Type()] }

// ConsumesQuery reports whether this operation advances the query
// (read) position.
func (c CigarOp) ConsumesQuery() bool { return consumesQueryTable[c.Type()] }

// Byte returns the operation's single-character SAM representation
// ('M', 'I', 'D', ...).
func (c CigarOp) Byte() byte { return cigarOpCodes[c.Type()] }

// Cigar is the ordered list of cigar operations for one record.
type Cigar []CigarOp

// At returns the operation at index i.
func (c Cigar) At(i int) CigarOp { return c[i] }

// Len returns the number of operations.
func (c Cigar) Len() int { return len(c) }

// ReferenceSpan sums the lengths of the reference-consuming
// operations, and reports whether there were any; span is 0 if there
// are none. CalculateEnd uses anyRefConsuming to return -1 in that
// case.
func (c Cigar) ReferenceSpan() (span uint32, anyRefConsuming bool) {
	for _, op := range c {
		if op.ConsumesRef() {
			span += op.Len()
			anyRefConsuming = true
		}
	}
	return span, anyRefConsuming
}
