// Package version holds the release version shared by the CLI and the server.
package version

// Version is the motor-supplychain release
const Version = "0.1.0"
