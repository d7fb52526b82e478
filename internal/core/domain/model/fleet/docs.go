// Package fleet holds the Resource Registry records: trucks and drivers.
//
// A Truck or Driver is a plain record owned by one tenant. It keeps the
// resource's status and the last coordinate reported for it. The registry
// does not know which load holds a resource. The rule that a resource has at
// most one active load is enforced by the load state machine, so manual status
// edits (maintenance, leave) stay possible without touching any load.
//
// Status changes caused by dispatching go through Assign and Release. Manual
// edits go through SetStatus.
package fleet
