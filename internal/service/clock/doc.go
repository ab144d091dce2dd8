// Package clock runs the alarm clock daemon.
//
// Service glues the scheduler to the settings store and the preset table and
// resolves raw commands into alarm requests. Run wires everything together
// and serves the gRPC and HTTP control surfaces until the context ends.
package clock
