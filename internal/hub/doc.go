// Package hub manages the WebSocket push channel.
//
// Each registered connection owns an independent push loop: one snapshot
// immediately on connect, then one every configured interval (4s by default).
// Per-connection state machine: Connecting -> Active on handshake; Active ->
// Closing on transport error or shutdown; Closing -> Terminated once the
// loop's ticker is stopped and the transport closed. Stopping the ticker is
// the first teardown step, so a connection that has begun closing never
// assembles or sends again.
package hub
