// Package pkgrouter is the HTTP layer on top of httprouter.
//
// Handlers return (response, error); the router encodes the response in the
// {"message","data","meta"} envelope or maps a pkgerror.Error to its status.
// Every route runs behind panic recovery, correlation ID propagation and
// request/response logging with sensitive-field masking.
package pkgrouter
