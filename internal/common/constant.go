// Package common contains shared constants and sentinel errors used across
// the assetgate client and directory server.
package common

// AppName is used for the per-user data directory and log attributes.
const AppName = "assetgate"

// AuthorizationHeaderName carries the admin bearer token on directory
// server requests.
const AuthorizationHeaderName = "Authorization"

// DirectoryDocumentPath is the path under which the directory server
// publishes the user list.
const DirectoryDocumentPath = "/users.json"
