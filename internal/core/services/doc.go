// Package services implements the core reconciliation logic.
//
// Services depend only on domain types and driven ports, and implement
// the driving ports the CLI adapter calls. All remote iteration is
// sequential: the unit of failure isolation is one template (bulk
// fetch) or one request identifier (closed refetch).
package services
