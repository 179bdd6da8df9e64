package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	expensesAdded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ledger_expenses_added_total",
		Help: "Expenses recorded.",
	})

	expensesDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ledger_expenses_deleted_total",
		Help: "Expenses removed, individually or by clearing the ledger.",
	})

	pendingTransfers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ledger_pending_transfers",
		Help: "Transfers needed to settle the ledger at the last balance computation.",
	})

	outstandingDebt = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ledger_outstanding_debt",
		Help: "Sum owed by debtors at the last balance computation.",
	})
)
