// Package dao defines the generic storage contract used for the process
// table and the task accounting journal, together with its sentinel errors
// and list filter parameters.
package dao
