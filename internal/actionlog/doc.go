// Package actionlog is the append-only record of user-level actions that
// the correlator attributes network requests to.
package actionlog
