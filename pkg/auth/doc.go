// Package auth provides pluggable authentication for the campus API.
//
// Authentication uses a chain-of-responsibility pattern with three-outcome
// voting: each authenticator returns Yes (identity found), No (credentials
// invalid), or Abstain (can't handle). A configurable default voter decides
// when all authenticators abstain.
//
// Auth is implemented as HTTP middleware, keeping it decoupled from the
// catalog and GenAI handlers. The student-facing endpoints run open by
// default; the chain and rate limiter are opt-in via configuration.
package auth
