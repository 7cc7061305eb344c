// Package interfaces defines the core types and interfaces shared by the
// share-recovery packages, separating contracts from implementations.
//
// # Share Types
//
//   - Share: one (label, value) point of a threshold secret sharing, the label
//     being the polynomial x-coordinate and the value the y-coordinate
//   - SharePayload: the decoded share list together with the declared share
//     count n and the reconstruction threshold k
//
// # Storage Interfaces
//
//   - StorageBackend: content-addressed storage for share payloads and
//     reconstruction reports (file, S3, IPFS, Vault, GitHub, Badger)
//   - StorageBackendFactory: creates storage backends from URI strings and
//     aggregates several backends for redundancy
//
// # Content Addressing
//
//   - ContentID: 32-byte SHA-256 hash identifying stored content
//   - ContentType: namespace of stored content (payloads or reports)
package interfaces
