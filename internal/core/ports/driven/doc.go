// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - RequestAPI: Fetches request records from the reporting API
//   - CredentialProvider: Supplies basic-auth credentials
//   - RecordStore: Dated daily record-set persistence
//   - BaselineStore: Open-identifier baseline persistence
//
// # Optional Interfaces
//
//   - RunHistoryStore: Durable log of run outcomes. May be nil; the
//     reconciler then skips history recording.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
