// Package services implements the driving ports on top of the driven ones.
//
// The aggregation functions in trends.go, recurrence.go and summary.go are
// pure reads over a record slice and need no service.
package services
