// Package client contains the client-side building blocks of the FreePanel
// reference front end.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) for the
//     two chat commands: Register and CreateFree.
//  2. A concrete gRPC implementation (see GRPCClient) that manages a
//     connection, mints and injects an access token via an interceptor,
//     re-mints it once when the server reports it expired, and maps gRPC
//     status codes to errors.
//
// # Error Handling
//
// Rejections carry the server's user-facing notice in a *CommandError.
// ErrUnauthorized and ErrUnavailable can be matched with errors.Is.
package client
