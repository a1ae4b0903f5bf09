// Package session owns the account/session state of an exam-paper browsing
// app: one process-wide Manager mediates register, sign-in, sign-out, and
// password-reset against a remote identity service, classifies every
// failure into a fixed set of user-facing categories, and hydrates a local
// profile projection from a remote document store after authentication.
//
// Lifecycle:
//   - Construct the Manager once at process start and call Restore to pick
//     up a pre-existing remote session without prompting for credentials.
//   - All persistence and identity verification are delegated to the
//     remote services behind IdentityService and ProfileStore; the package
//     carries no storage engine and no retry machinery beyond a bounded
//     hydration retry.
//
// Concurrency:
//   - At most one identity operation runs at a time. A second call while
//     one is in flight is rejected with ErrOperationInFlight; the Busy
//     flag in Snapshot mirrors the in-flight window for UI gating.
//   - State changes are pushed to a single cooperative Listener, outside
//     the manager lock.
//
// The duplicate pre-check during registration is advisory only: the
// identity service's create call enforces email uniqueness
// authoritatively, so a failed pre-check never blocks registration.
package session
