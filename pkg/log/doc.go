/*
Package log provides structured logging for the address-space core using
zerolog.

Init configures the global Logger once at process startup (level, JSON vs
console output). WithComponent/WithNodeID/WithTypeID return child loggers
with a field pre-attached, the way pkg/addrspace tags every log line with
its node id and pkg/instantiate tags every line with the type it is
materializing.
*/
package log
