/*
Package bloomkit implements a Bloom filter for probabilistic set-membership
tests: given a stream of items it answers "possibly present" or "definitely
absent" using far less memory than storing the items themselves.

A Bloom filter is a space-efficient probabilistic data structure that is used
to test whether an element is a member of a set. It provides a way to check
for the presence of an element in a set without actually storing the entire
set. False positives are possible at a configurable rate; false negatives
never occur. Bloom filters are particularly useful when a large backing data
set (on disk, over network, or otherwise expensive to query) is guarded by a
compact in-memory filter.
Refer: https://web.stanford.edu/~balaji/papers/bloom.pdf

The filter size and the number of hash functions are derived from the
expected number of items and the acceptable false positive rate. The bitset
backing the filter is either in-memory (BitSetMem, built on
https://github.com/bits-and-blooms/bitset) or stored as a Redis bitmap
(BitSetRedis), letting several processes share one filter or a filter
outlive the process that built it.
*/
package bloomkit
