// Package payload builds the request bodies sent by the load generator.
//
// Each work item becomes one LiftRide: the skier id is the work item id and
// the remaining fields are drawn from a seeded generator, so a fixed seed
// reproduces the same sequence of bodies for the same issue order.
package payload
