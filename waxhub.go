// Package waxhub provides a client for the Waxhub music catalog API:
// https://api.waxhub.fm/docs
//
// The API speaks the JSON:API convention (application/vnd.api+json) and
// authenticates with bearer tokens.
//
// Features:
// - Transparent access-token refresh with bounded single-retry semantics.
// - A JSON:API resource document builder for create and update calls.
// - Strongly typed helpers for catalog resources, pagination metadata, and iterator-based traversal.
package waxhub
