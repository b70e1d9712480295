// Package models defines the data shapes shared by the retrieval services, HTTP handlers, CLI and TUI.
//
// Two kinds of types live here:
//
//  1. Transient values recomputed on every request
//     - [Video] : a playable item from Google Photos, never cached or stored
//
//  2. Persistent entities
//     - [User] : a Google account that completed sign-in, recorded by the users repository
//
// Session tokens are deliberately absent: they only ever live in the browser's cookie jar (see the server package).
package models
