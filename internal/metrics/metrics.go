// Package metrics exposes Prometheus counters for booking activity.
package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	BookingsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rental_bookings_created_total",
		Help: "Bookings persisted.",
	})
	BookingsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rental_bookings_deleted_total",
		Help: "Bookings removed by an administrator.",
	})
	BookingRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rental_booking_rejections_total",
		Help: "Booking attempts rejected, by reason.",
	}, []string{"reason"})
	MachinesDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rental_machines_deleted_total",
		Help: "Machines deleted together with their bookings.",
	})
)

// Handler serves the default registry.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
