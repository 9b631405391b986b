// Package pkgroutine runs background work, such as simulation timer loops and
// the session janitor, on a bounded pool of goroutines.
//
// Manager caps concurrency, refuses work whose context is already done,
// recovers panics and collects returned errors for Wait.
package pkgroutine
