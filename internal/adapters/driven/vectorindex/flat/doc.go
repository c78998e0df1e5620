// Package flat implements driven.VectorIndex as an exact, brute-force index.
//
// Every query is compared against every stored vector by squared Euclidean
// distance. The index is kept in two files in its directory:
//
//	index.bin      header (magic, version, dimension, count) + little-endian float32 rows
//	metadata.json  document metadata in doc ID order
//
// Both files are rewritten after each successful Add.
package flat
