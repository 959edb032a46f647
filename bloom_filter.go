package bloomkit

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"sync"

	"github.com/bloomkit/bloomkit/internal/util"
	"github.com/dgryski/go-metro"
)

// seed for the pair of base hashes every bit index is derived from
const hashSeed = 1373

// The BloomFilter data structure. It mainly has two fields: _size_ and _numHashes_
// _size_ denotes the number of bits in the bloom filter
// _numHashes_ denotes the number of hash functions applied on the entrant element
// during insertion or lookup.
// _filter_ is the bitset backing the bloom filter internally. It can either be a
// BitSetMem (in-memory) or a BitSetRedis (redis-backed).
// _metadataKey_ saves the information about a bloom filter stored on redis
// _lock_ synchronizes read/write on an in-memory BitSetMem. It's not used for
// BitSetRedis as redis is event-driven single threaded
type BloomFilter struct {
	size        uint
	numHashes   uint
	filter      IBitSet
	metadataKey string
	lock        sync.RWMutex
}

// NewBloomFilterWithBitSet creates and returns a new BloomFilter
// _size_ is the number of bits in the bloom filter
// _numHashes_ is the number of hash functions to be applied on the entrant
// _filter_ is either BitSetMem or BitSetRedis
// _metadataKey_ is needed if the filter is of type BitSetRedis otherwise it's overlooked
func NewBloomFilterWithBitSet(size, numHashes uint, filter IBitSet, metadataKey string) (*BloomFilter, error) {
	if !isBitSetMem(filter) && metadataKey == "" {
		return nil, fmt.Errorf("bloomkit: error initializing filter as metadataKey is blank for BitSetRedis")
	}
	if filter.getSize() != size {
		return nil, fmt.Errorf("bloomkit: error initializing filter as size of bitset %v doesn't match with size %v passed", filter.getSize(), size)
	}
	return &BloomFilter{
		size:        util.Max(size, 1),
		numHashes:   util.Max(numHashes, 1),
		filter:      filter,
		metadataKey: metadataKey,
	}, nil
}

// NewMemBloomFilter creates and returns a new in-memory BloomFilter
// _numItems_ is the number of items the filter is expected to hold
// _errorRate_ is the acceptable false positive rate
// Based upon the above two parameters passed, the size of the bloom filter
// and the number of hash functions are calculated before any bitset is
// allocated. Parameters outside their domain surface ErrInvalidArgument,
// an errorRate of exactly 0 surfaces ErrDegenerateConfig.
func NewMemBloomFilter(numItems uint, errorRate float64) (*BloomFilter, error) {
	size, numHashes, err := EstimateParameters(numItems, errorRate)
	if err != nil {
		return nil, err
	}
	return NewBloomFilterWithBitSet(size, numHashes, NewBitSetMem(size), "")
}

// NewDefaultBloomFilter creates and returns a new in-memory BloomFilter
// sized with DefaultNumItems and DefaultErrorRate
func NewDefaultBloomFilter() *BloomFilter {
	filter, _ := NewMemBloomFilter(DefaultNumItems, DefaultErrorRate)
	return filter
}

// NewRedisBloomFilter creates and returns a new redis backed BloomFilter
// _numItems_ is the number of items the filter is expected to hold
// _errorRate_ is the acceptable false positive rate
// Based upon the above two parameters passed, the size of the bloom filter is
// calculated. metadataKey is created using a random alpha-numeric generator
// and can be retrieved using GetMetadataKey()
func NewRedisBloomFilter(numItems uint, errorRate float64) (*BloomFilter, error) {
	size, numHashes, err := EstimateParameters(numItems, errorRate)
	if err != nil {
		return nil, err
	}
	filter := NewBitSetRedis(size)
	metadataKey := util.GenerateRandomString(16)
	metadata := make(map[string]interface{})
	metadata["size"] = size
	metadata["numHashes"] = numHashes
	metadata["bitsetKey"] = filter.getKey()
	err = getRedisClient().HSet(context.Background(), metadataKey, metadata).Err()
	if err != nil {
		return nil, fmt.Errorf("bloomkit: error while creating redis backed bloom filter. error: %v", err)
	}
	return NewBloomFilterWithBitSet(size, numHashes, filter, metadataKey)
}

// NewRedisBloomFilterFromBitSet creates and returns a new redis backed
// BloomFilter from the bitset words passed in the parameter _data_
// _numHashes_ parameter is needed for the number of hash functions
func NewRedisBloomFilterFromBitSet(data []uint64, numHashes uint) (*BloomFilter, error) {
	size := util.Max(uint(len(data)*wordSize), 1)
	numHashes = util.Max(numHashes, 1)
	metadataKey := util.GenerateRandomString(16)
	bitSetRedis, err := fromDataRedis(data)
	if err != nil {
		return nil, err
	}
	metadata := map[string]interface{}{"size": size, "numHashes": numHashes, "bitsetKey": bitSetRedis.getKey()}
	err = getRedisClient().HSet(context.Background(), metadataKey, metadata).Err()
	if err != nil {
		return nil, fmt.Errorf("bloomkit: error while creating redis backed bloom filter. error: %v", err)
	}
	return &BloomFilter{
		size:        size,
		numHashes:   numHashes,
		filter:      bitSetRedis,
		metadataKey: metadataKey,
	}, nil
}

// NewMemBloomFilterFromBitSet creates and returns a new in-memory BloomFilter
// from the bitset words passed in the parameter _data_
// _numHashes_ parameter is needed for the number of hash functions
func NewMemBloomFilterFromBitSet(data []uint64, numHashes uint) *BloomFilter {
	size := uint(len(data) * wordSize)
	return &BloomFilter{
		size:      util.Max(size, 1),
		numHashes: util.Max(numHashes, 1),
		filter:    fromDataMem(data),
	}
}

// NewRedisBloomFilterFromKey is used to create a new redis backed BloomFilter
// from the _metadataKey_ (the redis key used to store the metadata about the
// bloom filter) passed. For this to work, value should be present in redis
// at _metadataKey_
func NewRedisBloomFilterFromKey(metadataKey string) (*BloomFilter, error) {
	values, err := getRedisClient().HGetAll(context.Background(), metadataKey).Result()
	if err != nil {
		return nil, fmt.Errorf("bloomkit: error while fetching hash from redis, error: %v", err)
	}
	size, _ := strconv.Atoi(values["size"])
	numHashes, _ := strconv.Atoi(values["numHashes"])
	filter, err := fromRedisKey(values["bitsetKey"])
	if err != nil {
		return nil, fmt.Errorf("bloomkit: error while fetching bitset from redis, error: %v", err)
	}
	bloomFilter := &BloomFilter{}
	bloomFilter.size = uint(size)
	bloomFilter.numHashes = uint(numHashes)
	bloomFilter.metadataKey = metadataKey
	bloomFilter.filter = filter
	return bloomFilter, nil
}

// Insert writes new _data_ in the bloom filter. Inserting the same data
// again is a no-op beyond the first insertion; bits are never cleared.
// Inserting more distinct items than the filter was sized for silently
// raises the false positive rate instead of failing.
func (bloomFilter *BloomFilter) Insert(data []byte) *BloomFilter {
	hashes := getHashes(data)
	if isBitSetMem(bloomFilter.filter) {
		bloomFilter.lock.Lock()
		defer bloomFilter.lock.Unlock()

		for i := uint(0); i < bloomFilter.numHashes; i++ {
			bloomFilter.filter.insert(bloomFilter.getIndex(hashes, i))
		}
	} else {
		indexes := make([]uint, bloomFilter.numHashes)
		for i := uint(0); i < bloomFilter.numHashes; i++ {
			indexes[i] = bloomFilter.getIndex(hashes, i)
		}
		bloomFilter.filter.insertMulti(indexes)
	}
	return bloomFilter
}

// Lookup returns true if all the bits in the bitset corresponding to _data_
// are set, otherwise false. A true return means the data is possibly present,
// a false return means it's definitely absent.
func (bloomFilter *BloomFilter) Lookup(data []byte) bool {
	hashes := getHashes(data)
	if isBitSetMem(bloomFilter.filter) {
		bloomFilter.lock.RLock()
		defer bloomFilter.lock.RUnlock()

		for i := uint(0); i < bloomFilter.numHashes; i++ {
			if ok, _ := bloomFilter.filter.has(bloomFilter.getIndex(hashes, i)); !ok {
				return false
			}
		}
		return true
	}
	indexes := make([]uint, bloomFilter.numHashes)
	for i := uint(0); i < bloomFilter.numHashes; i++ {
		indexes[i] = bloomFilter.getIndex(hashes, i)
	}
	result, err := bloomFilter.filter.hasMulti(indexes)
	if err != nil {
		return false
	}
	for i := range result {
		if !result[i] {
			return false
		}
	}
	return true
}

// InsertString accepts string value as _data_ for inserting into the bloom filter
func (bloomFilter *BloomFilter) InsertString(data string) *BloomFilter {
	return bloomFilter.Insert([]byte(data))
}

// LookupString accepts string value as _data_ to lookup the bloom filter
func (bloomFilter *BloomFilter) LookupString(data string) bool {
	return bloomFilter.Lookup([]byte(data))
}

// GetCap returns the size of the bloom filter
func (bloomFilter *BloomFilter) GetCap() uint {
	return bloomFilter.size
}

// GetNumHashes returns the number of hash functions used in the bloom filter
func (bloomFilter *BloomFilter) GetNumHashes() uint {
	return bloomFilter.numHashes
}

// GetBitSet returns the internal bitset. It would be a BitSetMem in case of an
// in-memory bloom filter while it would be a BitSetRedis for a redis backed
// bloom filter.
func (bloomFilter *BloomFilter) GetBitSet() *IBitSet {
	return &bloomFilter.filter
}

// GetMetadataKey returns the redis key used to store the metadata about the
// redis backed bloom filter
func (bloomFilter *BloomFilter) GetMetadataKey() string {
	return bloomFilter.metadataKey
}

// PositiveRate returns the estimated false positive rate of the filter at
// its current fill
func (bloomFilter *BloomFilter) PositiveRate() float64 {
	length, _ := bloomFilter.filter.bitCount()
	return math.Pow(1-math.Exp(-float64(length)/float64(bloomFilter.size)), float64(bloomFilter.numHashes))
}

// Equals checks if two BloomFilter's are equal
func (bloomFilter *BloomFilter) Equals(otherFilter *BloomFilter) (bool, error) {
	if bloomFilter.size != otherFilter.size || bloomFilter.numHashes != otherFilter.numHashes {
		return false, nil
	}
	ok, err := bloomFilter.filter.equals(otherFilter.filter)
	if err != nil {
		return false, err
	}
	return ok, nil
}

// internal type used to marshal/unmarshal BloomFilter
type bloomFilterType struct {
	M uint   `json:"m"`
	K uint   `json:"k"`
	B []byte `json:"b"`
}

// Export JSON marshals the BloomFilter and returns a byte slice containing the data
func (bloomFilter *BloomFilter) Export() ([]byte, error) {
	_, bitset, err := bloomFilter.filter.marshal()
	if err != nil {
		return nil, err
	}
	return json.Marshal(bloomFilterType{bloomFilter.size, bloomFilter.numHashes, bitset})
}

// Import JSON unmarshals the _data_ into the BloomFilter
func (bloomFilter *BloomFilter) Import(data []byte) error {
	var f bloomFilterType
	err := json.Unmarshal(data, &f)
	if err != nil {
		return err
	}
	bloomFilter.size = f.M
	bloomFilter.numHashes = f.K
	if bloomFilter.filter == nil {
		bloomFilter.filter = NewBitSetMem(0)
	}
	_, err = bloomFilter.filter.unmarshal(f.B)
	return err
}

// WriteTo writes the BloomFilter onto the specified _stream_ and returns the
// number of bytes written.
// It can be used to write to disk (using a file stream) or to network.
// It's not implemented for redis backed bloom filter (BitSetRedis) as data for
// a redis backed bloom filter is already there in redis.
func (bloomFilter *BloomFilter) WriteTo(stream io.Writer) (int64, error) {
	if !isBitSetMem(bloomFilter.filter) {
		return 0, fmt.Errorf("bloomkit: stream write doesn't support bitset redis")
	}
	err := binary.Write(stream, binary.BigEndian, uint64(bloomFilter.size))
	if err != nil {
		return 0, err
	}
	err = binary.Write(stream, binary.BigEndian, uint64(bloomFilter.numHashes))
	if err != nil {
		return 0, err
	}
	numBytes, err := bloomFilter.filter.writeTo(stream)
	return numBytes + int64(2*binary.Size(uint64(0))), err
}

// ReadFrom reads the BloomFilter from the specified _stream_ and returns the
// number of bytes read.
// It can be used to read from disk (using a file stream) or from network.
// It's not implemented for redis backed bloom filter (BitSetRedis) as data for
// a redis backed bloom filter is already there in redis.
// NewRedisBloomFilterFromKey can be used to import a redis backed BloomFilter
// instead.
func (bloomFilter *BloomFilter) ReadFrom(stream io.Reader) (int64, error) {
	var size, numHashes uint64
	err := binary.Read(stream, binary.BigEndian, &size)
	if err != nil {
		return 0, err
	}
	err = binary.Read(stream, binary.BigEndian, &numHashes)
	if err != nil {
		return 0, err
	}
	bitSet := &BitSetMem{}
	numBytes, err := bitSet.readFrom(stream)
	if err != nil {
		return 0, err
	}
	bloomFilter.size = uint(size)
	bloomFilter.numHashes = uint(numHashes)
	bloomFilter.filter = bitSet
	return numBytes + int64(2*binary.Size(uint64(0))), nil
}

// getHashes computes the pair of base hashes every bit index for _data_
// is derived from
func getHashes(data []byte) [2]uint64 {
	hash1, hash2 := metro.Hash128(data, hashSeed)
	return [2]uint64{hash1, hash2}
}

// getIndex derives the i-th bit index for an element from its two base
// hashes using enhanced double hashing:
// index_i = (h1 + i*h2 + (i^3 - i)/6) mod size
// The same element always maps to the same set of indices within a filter.
func (bloomFilter *BloomFilter) getIndex(hashes [2]uint64, i uint) uint {
	j := uint64(i)
	return uint((hashes[0] + j*hashes[1] + (j*j*j-j)/6) % uint64(bloomFilter.size))
}
