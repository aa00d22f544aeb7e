// Package checklist holds the checklist state machine: resolving which list
// applies to a date, reacting to chat commands and toggle presses, and
// sending the daily checklist message.
//
// Nothing is kept in memory between events. All state lives in the checklist
// and completion stores, so each event can be handled in isolation.
package checklist
