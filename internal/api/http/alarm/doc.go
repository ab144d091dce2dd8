// Package alarm exposes the alarm clock over HTTP with a chi router.
//
// Bodies use the same JSON messages as the gRPC transport. Requests without
// an actor are attributed to the remote address.
package alarm
