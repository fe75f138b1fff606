// Package http implements the REST transport of the quest ledger.
//
// It wires routes with chi, authenticates users by bearer token and admins
// by the X-Admin-Key header, and maps service and storage errors to HTTP
// status codes. Request tracing, access logging and request metrics are
// middleware applied before requests reach the service layer.
package http
