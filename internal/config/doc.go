// Package config provides configuration loading, merging, and validation
// facilities for the ledger server.
//
// Configuration is assembled from multiple sources in the following priority
// order (later sources override earlier non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON config file
//
// Unset fields receive defaults before validation. The package catalog can
// only be provided through the JSON file.
package config
