/*
Package server assembles the address-space stack into one long-lived
Server: the bolt-backed store, the lifecycle registry, the type
resolver, the instantiator, the node-management service, and namespace
0. It owns the single sync.RWMutex that gives the rest of the stack its
reader-writer concurrency discipline — every collaborator below it
assumes single-call atomicity and leaves cross-call serialization to
its caller, which here is Server.

Grounded on the teacher's pkg/manager.Manager: a struct built once by a
constructor from a small Config, holding every collaborator as a
field, exposing the cluster's public operations as its own methods.
*/
package server
