// Package pkgerror holds the structured error used from the usecase layer up
// to the HTTP edge.
//
// An Error carries a user-facing message, a Type (server, business,
// validation) and a Code that the router maps to an HTTP status. ErrNotFound
// is the sentinel storage returns for unknown keys.
package pkgerror
