// Package session holds the local player and applies launch configuration to
// it.
//
// Avatar assets live in Slots. Each slot accepts loads on a last-issued-wins
// basis: starting a new load cancels the one in flight, and an outcome that
// arrives after it was superseded never touches the slot. Failed loads keep
// whatever the slot held before, which starts out as a built-in default.
//
// Bootstrap runs the startup sequence: join the session, set the player
// name, then load the avatar model and image concurrently.
package session
