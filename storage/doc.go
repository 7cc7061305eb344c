// Package storage archives share payloads and reconstruction reports under
// their SHA-256 content identifier.
//
// Backends are selected with a location URI:
//
//	file:///var/lib/shamir/archive
//	s3://[ACCESS_KEY:SECRET_KEY@]bucket/prefix?region=eu-west-1&endpoint=minio.local:9000
//	ipfs://127.0.0.1:5001/shamir?timeout=30s
//	vault://vault.example.com:8200/secret/shamir?token=...&tls=true
//	github://owner/repo/archive?ref=main   (read-only)
//	badger:///var/lib/shamir/badger        (badger://?inmemory=true for tests)
//
// Every backend namespaces objects by content type ("payload" or "report"),
// so a payload and a report with identical bytes never collide. Fetch
// verifies that returned bytes hash to the requested identifier.
//
// Several locations can be combined with StorageBackendFactory.CreateMultiBackend:
// Store writes to every available backend, Fetch returns the first hit.
package storage
