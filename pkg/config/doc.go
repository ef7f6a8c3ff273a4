/*
Package config holds the small set of settings cmd/opcuad needs to
build a pkg/server.Server and initialize pkg/log: the server's
namespace-1 seed file, the bolt temp-dir prefix its store opens under,
and the log level/format. FromFlags reads these off a *cobra.Command's
persistent and local flags the same way the teacher's cmd/warren/main.go
builds a manager.Config from cobra flags directly in its RunE
functions — no viper, no environment-variable parsing library, because
the teacher itself never reaches for one either.
*/
package config
