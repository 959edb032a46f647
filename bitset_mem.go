package bloomkit

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/bits-and-blooms/bitset"
)

// BitSetMem is the in-memory implementation of IBitSet.
// _size_ is the number of bits in the bitset
// _set_ is the bitset implementation adopted from https://github.com/bits-and-blooms/bitset
type BitSetMem struct {
	set  *bitset.BitSet
	size uint
}

// NewBitSetMem creates a new BitSetMem of size _size_ with all bits unset
func NewBitSetMem(size uint) *BitSetMem {
	return &BitSetMem{bitset.New(size), size}
}

// fromDataMem creates an instance of BitSetMem after
// inserting the data passed in the bitset
func fromDataMem(data []uint64) *BitSetMem {
	return &BitSetMem{bitset.From(data), uint(len(data) * wordSize)}
}

// getSize returns the size of the bitset
func (bitSet *BitSetMem) getSize() uint {
	return bitSet.size
}

// has checks if the bit at index _index_ is set
func (bitSet *BitSetMem) has(index uint) (bool, error) {
	return bitSet.set.Test(index), nil
}

// hasMulti checks if the bits at the indices
// specified by the _indexes_ array are set
func (bitSet *BitSetMem) hasMulti(indexes []uint) ([]bool, error) {
	if len(indexes) == 0 {
		return nil, fmt.Errorf("bloomkit: at least 1 index is required")
	}
	result := make([]bool, len(indexes))
	for i := range indexes {
		result[i] = bitSet.set.Test(indexes[i])
	}
	return result, nil
}

// insert sets the bit at index specified by _index_
func (bitSet *BitSetMem) insert(index uint) (bool, error) {
	bitSet.set.Set(index)
	return true, nil
}

// insertMulti sets the bits at the indices specified by the _indexes_ array
func (bitSet *BitSetMem) insertMulti(indexes []uint) (bool, error) {
	if len(indexes) == 0 {
		return false, fmt.Errorf("bloomkit: at least 1 index is required")
	}
	for i := range indexes {
		bitSet.set.Set(indexes[i])
	}
	return true, nil
}

// equals checks if two BitSetMem are equal or not
func (bitSet *BitSetMem) equals(otherBitSet IBitSet) (bool, error) {
	secondBitSet, ok := otherBitSet.(*BitSetMem)
	if !ok {
		return false, fmt.Errorf("bloomkit: invalid bitset type, should be BitSetMem")
	}
	return bitSet.set.Equal(secondBitSet.set), nil
}

// max returns the first set bit in the bitset starting from index 0
func (bitSet *BitSetMem) max() (uint, bool) {
	index, ok := bitSet.set.NextSet(0)
	return index, ok
}

// bitCount returns the total number of set bits in the bitset
func (bitSet *BitSetMem) bitCount() (uint, error) {
	return bitSet.set.Count(), nil
}

// marshal returns the json marshalling of the bitset
func (bitSet *BitSetMem) marshal() (uint, []byte, error) {
	data, err := bitSet.set.MarshalJSON()
	if err != nil {
		return 0, nil, err
	}
	return bitSet.size, data, nil
}

// unmarshal imports the marshalled json in the byte array data into the bitset
func (bitSet *BitSetMem) unmarshal(data []byte) (bool, error) {
	if bitSet.set == nil {
		bitSet.set = &bitset.BitSet{}
	}
	err := bitSet.set.UnmarshalJSON(data)
	if err != nil {
		return false, err
	}
	bitSet.size = bitSet.set.Len()
	return true, nil
}

// writeTo writes the bitset to a stream and returns the number of bytes written onto the stream
func (bitSet *BitSetMem) writeTo(stream io.Writer) (int64, error) {
	err := binary.Write(stream, binary.BigEndian, uint64(bitSet.size))
	if err != nil {
		return 0, err
	}
	numBytes, err := bitSet.set.WriteTo(stream)
	if err != nil {
		return 0, err
	}
	return numBytes + int64(binary.Size(uint64(0))), nil
}

// readFrom reads the stream and imports it into the bitset and returns the number of bytes read
func (bitSet *BitSetMem) readFrom(stream io.Reader) (int64, error) {
	var size uint64
	err := binary.Read(stream, binary.BigEndian, &size)
	if err != nil {
		return 0, err
	}
	set := &bitset.BitSet{}
	numBytes, err := set.ReadFrom(stream)
	if err != nil {
		return 0, err
	}
	bitSet.size = uint(size)
	bitSet.set = set
	return numBytes + int64(binary.Size(uint64(0))), nil
}
