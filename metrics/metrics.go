package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LoansCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rental_loans_created_total",
		Help: "Total number of loans successfully created.",
	})

	LoansReturnedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rental_loans_returned_total",
		Help: "Total number of loans returned, by loan outcome and device condition.",
	},
		[]string{"status", "damaged"},
	)

	ReservationsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rental_reservations_created_total",
		Help: "Total number of reservations successfully created.",
	})

	ReservationsCanceledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rental_reservations_canceled_total",
		Help: "Total number of reservations canceled.",
	})

	RejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rental_rejections_total",
		Help: "Total number of booking operations rejected by a business rule.",
	},
		[]string{"operation", "reason"},
	)

	RemindersSentTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rental_reminders_sent_total",
		Help: "Total number of due-date reminders handed to the notification sink.",
	})

	ReminderErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rental_reminder_errors_total",
		Help: "Total number of errors during reminder sweeps.",
	},
		[]string{"stage"},
	)
)
