package bloomkit

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"encoding/base64"
	"encoding/binary"
	"encoding/json"

	"github.com/bloomkit/bloomkit/internal/util"
	"github.com/redis/go-redis/v9"
)

// BitSetRedis is the Redis backed implementation of IBitSet.
// _size_ is the number of bits in the bitset
// _key_ is the redis key to the bitset data structure in redis
// Bitsets or Bitmaps are implemented in Redis using string.
// All bit operations are done on the string stored at _key_.
// For more details, please refer https://redis.io/docs/data-types/bitmaps/
type BitSetRedis struct {
	size uint
	key  string
}

// NewBitSetRedis creates a new BitSetRedis of size _size_ with all bits unset.
// The backing string is allocated in whole 64-bit words so that marshalled
// data stays portable with BitSetMem.
func NewBitSetRedis(size uint) *BitSetRedis {
	bytes := make([]byte, ((size+63)/64)*uint(wordBytes))
	key := util.GenerateRandomString(16)
	_ = getRedisClient().Set(context.Background(), key, string(bytes), 0).Err()
	return &BitSetRedis{size, key}
}

// fromDataRedis creates an instance of BitSetRedis after
// inserting the data passed in a redis bitset
func fromDataRedis(data []uint64) (*BitSetRedis, error) {
	bitSetRedis := NewBitSetRedis(uint(len(data) * wordSize))
	bytes, err := uint64ArrayToByteArray(data)
	if err != nil {
		return nil, err
	}
	err = getRedisClient().Set(context.Background(), bitSetRedis.key, string(bytes), 0).Err()
	if err != nil {
		return nil, err
	}
	return bitSetRedis, nil
}

// fromRedisKey creates an instance of BitSetRedis from the
// bitset data structure saved at redis key _key_
func fromRedisKey(key string) (*BitSetRedis, error) {
	setVal, err := getRedisClient().Get(context.Background(), key).Result()
	if err != nil {
		return nil, err
	}
	bitSetRedis := &BitSetRedis{uint(len(setVal) * 8), key}
	return bitSetRedis, nil
}

// getSize returns the size of the bitset saved in redis
func (bitSet *BitSetRedis) getSize() uint {
	return bitSet.size
}

// getKey gives the key at which the bitset is saved in redis
func (bitSet *BitSetRedis) getKey() string {
	return bitSet.key
}

// has checks if the bit at index _index_ is set
func (bitSet *BitSetRedis) has(index uint) (bool, error) {
	val, err := getRedisClient().GetBit(context.Background(), bitSet.key, int64(index)).Result()
	if err != nil {
		return false, err
	}
	return val != 0, nil
}

// hasMulti checks if the bits at the indices
// specified by the _indexes_ array are set
func (bitSet *BitSetRedis) hasMulti(indexes []uint) ([]bool, error) {
	if len(indexes) == 0 {
		return nil, fmt.Errorf("bloomkit: at least 1 index is required")
	}
	pipe := getRedisClient().Pipeline()
	ctx := context.Background()
	values := make([]*redis.IntCmd, len(indexes))
	for i := range indexes {
		values[i] = pipe.GetBit(ctx, bitSet.key, int64(indexes[i]))
	}
	_, err := pipe.Exec(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]bool, len(values))
	for i := range values {
		result[i] = values[i].Val() != 0
	}
	return result, nil
}

// insert sets the bit at index specified by _index_
func (bitSet *BitSetRedis) insert(index uint) (bool, error) {
	err := getRedisClient().SetBit(context.Background(), bitSet.key, int64(index), 1).Err()
	if err != nil {
		return false, err
	}
	return true, nil
}

// insertMulti sets the bits at indices specified by the _indexes_ array
// in a single round trip
func (bitSet *BitSetRedis) insertMulti(indexes []uint) (bool, error) {
	if len(indexes) == 0 {
		return false, fmt.Errorf("bloomkit: at least 1 index is required")
	}
	pipe := getRedisClient().Pipeline()
	ctx := context.Background()
	for i := range indexes {
		pipe.SetBit(ctx, bitSet.key, int64(indexes[i]), 1)
	}
	_, err := pipe.Exec(ctx)
	if err != nil {
		return false, err
	}
	return true, nil
}

// equals checks if two BitSetRedis are equal or not
func (bitSet *BitSetRedis) equals(otherBitSet IBitSet) (bool, error) {
	bSet, ok := otherBitSet.(*BitSetRedis)
	if !ok {
		return false, fmt.Errorf("bloomkit: invalid bitset type, should be BitSetRedis")
	}
	aSetVal, err := getRedisClient().Get(context.Background(), bitSet.key).Result()
	if err != nil {
		return false, err
	}
	bSetVal, err := getRedisClient().Get(context.Background(), bSet.key).Result()
	if err != nil {
		return false, err
	}
	return aSetVal == bSetVal, nil
}

// max returns the first set bit in the bitset starting from index 0
func (bitSet *BitSetRedis) max() (uint, bool) {
	index, err := getRedisClient().BitPos(context.Background(), bitSet.key, 1).Result()
	if err != nil || index == -1 {
		return 0, false
	}
	return uint(index), true
}

// bitCount returns the total number of set bits in the bitset saved in redis
func (bitSet *BitSetRedis) bitCount() (uint, error) {
	bitRange := &redis.BitCount{Start: 0, End: -1}
	val, err := getRedisClient().BitCount(context.Background(), bitSet.key, bitRange).Result()
	if err != nil {
		return 0, err
	}
	return uint(val), nil
}

// marshal returns the json marshalling of the bitset saved in redis.
// The layout matches BitSetMem's marshal so exports are portable across
// the two backing stores.
func (bitSet *BitSetRedis) marshal() (uint, []byte, error) {
	val, err := getRedisClient().Get(context.Background(), bitSet.key).Result()
	if err != nil {
		return 0, nil, err
	}
	bytes := []byte(val)
	for i := range bytes {
		bytes[i] = util.ConvertByteToLittleEndianByte(bytes[i])
	}
	util.ReverseBytes(bytes)
	buf := make([]byte, wordBytes)
	binary.BigEndian.PutUint64(buf, uint64(bitSet.size))
	bytes = append(buf, bytes...)
	data, err := json.Marshal(base64.URLEncoding.EncodeToString(bytes))
	if err != nil {
		return 0, nil, err
	}
	return bitSet.size, data, nil
}

// unmarshal imports the marshalled json in the byte array data into the redis bitset
func (bitSet *BitSetRedis) unmarshal(data []byte) (bool, error) {
	var s string
	err := json.Unmarshal(data, &s)
	if err != nil {
		return false, err
	}
	decoded, err := base64.URLEncoding.DecodeString(s)
	if err != nil {
		return false, err
	}
	if len(decoded) < wordBytes {
		return false, fmt.Errorf("bloomkit: bitset data too short")
	}
	sizeBytes := decoded[:wordBytes]
	decoded = decoded[wordBytes:]
	bitSet.size = uint(binary.BigEndian.Uint64(sizeBytes))
	util.ReverseBytes(decoded)
	for i := range decoded {
		decoded[i] = util.ConvertByteToLittleEndianByte(decoded[i])
	}
	err = getRedisClient().Set(context.Background(), bitSet.key, string(decoded), 0).Err()
	if err != nil {
		return false, err
	}
	return true, nil
}

// writeTo is not implemented for BitSetRedis as the data already lives in redis
func (bitSet *BitSetRedis) writeTo(stream io.Writer) (int64, error) {
	return 0, nil
}

// readFrom is not implemented for BitSetRedis as the data already lives in redis
func (bitSet *BitSetRedis) readFrom(stream io.Reader) (int64, error) {
	return 0, nil
}

func uint64ArrayToByteArray(data []uint64) ([]byte, error) {
	buf := new(bytes.Buffer)
	for _, value := range data {
		valueBytes := make([]byte, wordBytes)
		binary.LittleEndian.PutUint64(valueBytes, value)
		for _, val := range valueBytes {
			if err := binary.Write(buf, binary.LittleEndian, util.ConvertByteToLittleEndianByte(val)); err != nil {
				return nil, err
			}
		}
	}
	return buf.Bytes(), nil
}
