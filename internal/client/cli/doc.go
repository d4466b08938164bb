// Package cli provides the interactive Plant Disease Detector command-line
// client.
//
// It wires configuration, the local session database, the HTTP API client,
// services and flows, and runs a REPL on top of them. A background watcher
// pings the API and shows online/offline in the prompt.
//
// Commands:
//   - signup / signin / logout / whoami
//   - detect <path>: upload a leaf photo and show the diagnosis
//   - history: past analyses of the signed-in user
//   - diseases: diseases the detector knows
//   - home / about: static pages
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// Ctrl-C cancels the running command, not the program.
package cli
