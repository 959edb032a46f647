/*
Bitsets backing the Bloom filter - both in-memory and redis.
For in-memory, https://github.com/bits-and-blooms/bitset is used while
for redis, bitset operations of redis are used.
*/
package bloomkit

import "io"

const wordSize = int(64)
const wordBytes = wordSize / 8

type IBitSet interface {
	// getSize returns the number of bits in the bitset
	getSize() uint

	// has returns true if the bit is set at index, else false
	has(index uint) (bool, error)

	// hasMulti returns an array of boolean values for the queried
	// index values in the indexes array
	hasMulti(indexes []uint) ([]bool, error)

	// insert sets the bit at index to true
	insert(index uint) (bool, error)

	// insertMulti sets the bits at the indices passed in the indexes array
	insertMulti(indexes []uint) (bool, error)

	// equals checks if two bitsets are equal
	equals(otherBitSet IBitSet) (bool, error)

	// max returns the first set bit in the bitset
	// starting from index 0
	max() (uint, bool)

	// bitCount returns the total number of set bits in the bitset
	bitCount() (uint, error)

	// marshal returns the json marshalling of the bitset
	marshal() (uint, []byte, error)

	// unmarshal imports the byte array data into the bitset
	unmarshal(data []byte) (bool, error)

	// writeTo writes the bitset to a stream and
	// returns the number of bytes written onto the stream
	writeTo(stream io.Writer) (int64, error)

	// readFrom reads the stream and imports it into the bitset
	// and returns the number of bytes read
	readFrom(stream io.Reader) (int64, error)
}

// isBitSetMem is used to check if the passed bitset `t`
// is of type *BitSetMem or not
func isBitSetMem(t interface{}) bool {
	switch t.(type) {
	case *BitSetMem:
		return true
	default:
		return false
	}
}
