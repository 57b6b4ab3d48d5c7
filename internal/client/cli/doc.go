// Package cli provides the interactive assetgate command-line client.
//
// It wires configuration, local storage, the directory transport and the
// access gate. Typical flow: run the gate (cached token or login prompt),
// print the outcome, and on success open a small REPL.
//
// Commands: whoami, status, refresh, logout, exit.
//
// The entry point is App.Run(ctx), which blocks until the user exits.
// See App, TerminalPrompter and runREPL for details.
package cli
