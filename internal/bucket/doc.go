// Package bucket fetches asset payloads from object storage through
// gocloud.dev/blob.
//
// Asset URLs use the bucket driver's scheme with the object key as path:
//
//	s3://avatars/players/42.png?region=us-east-1
//	gs://avatars/players/42.png
//	file:///var/lib/lobby/avatars/42.png
//	mem://avatars/42.png            (attached buckets only, for tests)
//
// Drivers are linked by the binary with blank imports (s3blob, gcsblob,
// fileblob). The same timeout and failure taxonomy as the HTTP fetcher
// applies: a missing object is a request failure, a slow read a timeout.
package bucket
