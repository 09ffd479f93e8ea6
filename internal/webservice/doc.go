// Package webservice implements the wallet web service protocol: device
// registration, registration enumeration, conditional pass retrieval and
// the client log relay, mounted under /v1.
//
// Responses follow the client platform's expectations: bare status codes
// for authorization failures (401 never distinguishes "wrong credential"
// from "no such pass"), numeric Last-Modified / If-Modified-Since stamps,
// and 204 for "nothing changed".
package webservice
