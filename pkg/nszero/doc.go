/*
Package nszero populates a freshly opened address space with the
slice of OPC UA namespace 0 that the rest of this module depends on:
the base reference types, the base object/variable types, the three
root folders, and the four modelling rule markers (Mandatory, Optional
and their two Placeholder variants). Every node is
inserted at the fixed numeric identifier OPC UA Part 6 assigns it, the
same identifiers pkg/ids/wellknown.go names as Go values.
*/
package nszero
