package routes

import (
	"servicehub/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathBookings = "/bookings"
	PathPayments = "/payments"
	PathWallet   = "/wallet"
)

func addBookingRoutes(rg *gin.RouterGroup, bookingHandler *handlers.BookingHandler, paymentHandler *handlers.PaymentHandler) {
	bookings := rg.Group(PathBookings)
	{
		bookings.POST("", bookingHandler.Create)
		bookings.GET("/:code", bookingHandler.Get)
		bookings.POST("/:code/accept", bookingHandler.Accept)
		bookings.POST("/:code/reject", bookingHandler.Reject)
		bookings.POST("/:code/start", bookingHandler.Start)
		bookings.POST("/:code/complete", bookingHandler.Complete)
		bookings.POST("/:code/confirm", bookingHandler.Confirm)
		bookings.POST("/:code/cancel", bookingHandler.Cancel)
		bookings.POST("/:code/dispute", bookingHandler.Dispute)
		bookings.POST("/:code/resolve", bookingHandler.ResolveDispute)

		bookings.GET("/:code/payments", paymentHandler.ListByBooking)
	}
}

func addPaymentRoutes(rg *gin.RouterGroup, paymentHandler *handlers.PaymentHandler, walletHandler *handlers.WalletHandler) {
	payments := rg.Group(PathPayments)
	{
		payments.POST("", paymentHandler.Pay)
		payments.POST("/withdrawals", paymentHandler.Withdraw)
		payments.GET("/:reference", paymentHandler.Get)
	}

	rg.GET(PathWallet, walletHandler.Get)
}
