// Package alarm implements the gRPC transport for the alarm clock daemon.
//
// Messages are plain Go structs carried with a JSON codec registered under
// the "json" content subtype, so no generated stubs are needed. The package
// holds the service descriptor, the server adapter, a client stub and a
// request-id logging interceptor.
package alarm
