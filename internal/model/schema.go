// Package model defines the core data types that flow through the analysis
// pipeline: datasets, transformed matrices, and cluster assignments.
package model

// IDColumn is the name of the account identifier column.
const IDColumn = "CUST_ID"

// NumericColumns enumerates the 17 numeric measures, in canonical order.
// Frequencies lie in [0,1] by construction; monetary amounts and counts are
// non-negative. Real data may violate this and is treated as-is.
var NumericColumns = []string{
	"BALANCE",
	"BALANCE_FREQUENCY",
	"PURCHASES",
	"ONEOFF_PURCHASES",
	"INSTALLMENTS_PURCHASES",
	"CASH_ADVANCE",
	"PURCHASES_FREQUENCY",
	"ONEOFF_PURCHASES_FREQUENCY",
	"PURCHASES_INSTALLMENTS_FREQUENCY",
	"CASH_ADVANCE_FREQUENCY",
	"CASH_ADVANCE_TRX",
	"PURCHASES_TRX",
	"CREDIT_LIMIT",
	"PAYMENTS",
	"MINIMUM_PAYMENTS",
	"PRC_FULL_PAYMENT",
	"TENURE",
}
