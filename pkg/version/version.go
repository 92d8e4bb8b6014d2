// Package version carries the release version reported by the server
// header and the /version endpoint.
package version

const Version = "0.6.2"
