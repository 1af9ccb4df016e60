// Package images moves face images between the outside world and the
// embedding service.
//
// Fetcher downloads an image URL and inlines it as a base64 data URI, which
// is the form the represent service accepts without reaching out itself.
// Uploader stores raw image bytes in object storage and returns a presigned
// URL that can be indexed like any other image URL.
package images
