// Package api is the REST backend client. Each method is one backend call and
// is registered as an effect by the app package.
//
// All calls send and accept JSON, carry the session cookie from a shared jar
// and treat any non-2xx response as a *StatusError whose message is the HTTP
// status text, so callers can branch on "Unauthorized" or "Bad Request".
package api
