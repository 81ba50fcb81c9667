// Package panel is the typed boundary to the hosting panel's application
// API (Pterodactyl compatible).
//
// # Overview
//
// API is the transport-agnostic contract used by the provisioning workflow:
// CreateAccount, ListServers, ListNodeAllocations and CreateServer. Client
// implements it over HTTP with bearer authentication and JSON bodies. The
// panel's nested {"attributes": {...}} envelopes and paginated
// {"data": [...], "meta": {...}} lists are decoded once here into the plain
// structs Server, Allocation and friends, so nothing above this package
// inspects untyped JSON.
//
// # Error Handling
//
// Every transport failure, non-2xx status (anything but 200/201) or
// undecodable success body is returned as a *PanelError carrying the HTTP
// status (0 for transport failures) and the response body, compacted when
// it is JSON. Use errors.As to obtain it. The client never retries.
package panel
