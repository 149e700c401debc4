// Package command exposes go-command compatible command handlers implementing
// go-gameprofile business logic (profile writes, identifier linking, the
// sticky reconciliation opt-out). Commands are wired by the service layer and
// can be invoked by any transport.
package command
