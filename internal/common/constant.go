// Package common contains shared constants and sentinel errors used across
// hebsync components.
package common

// EventTagKey is the private extended-property key that marks a Google
// Calendar event as written by this service. Its value is the owning
// event's id; together with the event's day it identifies one occurrence,
// which makes remote duplicate detection possible.
const EventTagKey = "hebsyncEventId"
