// Package pkguid hides the ID strategies behind two small interfaces.
//
// StringID (UUIDv7) names dashboard sessions and correlates requests;
// NumberID (Snowflake) stamps lifecycle events so consumers can drop
// duplicates.
package pkguid
