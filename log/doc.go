// Package log contains the leveled logger used by all packages of the module.
//
// The package wraps loggers implementing the uni-logger interfaces. By default no logger
// is set and all logs are discarded. Call Default or SetLogger to enable logging.
// Packages create their own ModuleLogger which may have a separate level.
package log
