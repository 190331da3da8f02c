package http

import (
	"net/http"

	"clinic-scheduling/internal/delivery/http/handler"
	"clinic-scheduling/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router           *mux.Router
	slotHandler      *handler.SlotHandler
	bookingHandler   *handler.BookingHandler
	scheduleHandler  *handler.ScheduleHandler
	exceptionHandler *handler.ExceptionHandler
	queueHandler     *handler.QueueHandler
	tokenHandler     *handler.TokenHandler
	authMiddleware   *middleware.AuthMiddleware
	corsMiddleware   *middleware.CORSMiddleware
}

func NewRouter(
	slotHandler *handler.SlotHandler,
	bookingHandler *handler.BookingHandler,
	scheduleHandler *handler.ScheduleHandler,
	exceptionHandler *handler.ExceptionHandler,
	queueHandler *handler.QueueHandler,
	tokenHandler *handler.TokenHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:           mux.NewRouter(),
		slotHandler:      slotHandler,
		bookingHandler:   bookingHandler,
		scheduleHandler:  scheduleHandler,
		exceptionHandler: exceptionHandler,
		queueHandler:     queueHandler,
		tokenHandler:     tokenHandler,
		authMiddleware:   authMiddleware,
		corsMiddleware:   corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Everything below is scoped to a facility and requires authentication
	facility := api.PathPrefix("/facilities/{facilityId}").Subrouter()
	facility.Use(r.authMiddleware.Authenticate)

	// Slots (materialized on read)
	facility.HandleFunc("/slots", r.slotHandler.GetSlotsForDay).Methods(http.MethodPost)
	facility.HandleFunc("/slots/stats", r.slotHandler.AvailabilityStats).Methods(http.MethodPost)

	// Bookings
	facility.HandleFunc("/slots/{slotId}/bookings", r.bookingHandler.CreateBooking).Methods(http.MethodPost)
	facility.HandleFunc("/bookings/search", r.bookingHandler.ListBookings).Methods(http.MethodPost)
	facility.HandleFunc("/bookings/{id}", r.bookingHandler.GetBooking).Methods(http.MethodGet)
	facility.HandleFunc("/bookings/{id}/cancel", r.bookingHandler.CancelBooking).Methods(http.MethodPost)
	facility.HandleFunc("/bookings/{id}/reschedule", r.bookingHandler.RescheduleBooking).Methods(http.MethodPost)

	// Schedule management (staff and admins only)
	manage := facility.NewRoute().Subrouter()
	manage.Use(middleware.RequireStaff)
	manage.HandleFunc("/schedules", r.scheduleHandler.CreateSchedule).Methods(http.MethodPost)
	manage.HandleFunc("/schedules/{id}", r.scheduleHandler.UpdateSchedule).Methods(http.MethodPut)
	manage.HandleFunc("/schedules/{id}", r.scheduleHandler.DeleteSchedule).Methods(http.MethodDelete)
	manage.HandleFunc("/schedules/{scheduleId}/availabilities", r.scheduleHandler.CreateAvailability).Methods(http.MethodPost)
	manage.HandleFunc("/schedules/{scheduleId}/availabilities/{id}", r.scheduleHandler.DeleteAvailability).Methods(http.MethodDelete)
	manage.HandleFunc("/exceptions", r.exceptionHandler.CreateException).Methods(http.MethodPost)
	manage.HandleFunc("/exceptions/{id}", r.exceptionHandler.DeleteException).Methods(http.MethodDelete)

	facility.HandleFunc("/schedules", r.scheduleHandler.ListSchedules).Methods(http.MethodGet)
	facility.HandleFunc("/schedules/{id}", r.scheduleHandler.GetSchedule).Methods(http.MethodGet)
	facility.HandleFunc("/practitioners", r.scheduleHandler.ListPractitioners).Methods(http.MethodGet)
	facility.HandleFunc("/exceptions", r.exceptionHandler.ListExceptions).Methods(http.MethodGet)

	// Walk-in queues
	facility.HandleFunc("/queues", r.queueHandler.CreateQueue).Methods(http.MethodPost)
	facility.HandleFunc("/queues", r.queueHandler.ListQueues).Methods(http.MethodGet)
	facility.HandleFunc("/queues/{id}", r.queueHandler.GetQueue).Methods(http.MethodGet)
	facility.HandleFunc("/queues/{id}/set-primary", r.queueHandler.SetPrimaryQueue).Methods(http.MethodPost)
	facility.HandleFunc("/queues/{id}/summary", r.queueHandler.QueueSummary).Methods(http.MethodGet)
	facility.HandleFunc("/queues/{id}/tokens", r.queueHandler.ListQueueTokens).Methods(http.MethodGet)

	// Sub-queues (lanes inside a queue)
	facility.HandleFunc("/sub-queues", r.queueHandler.CreateSubQueue).Methods(http.MethodPost)
	facility.HandleFunc("/sub-queues", r.queueHandler.ListSubQueues).Methods(http.MethodGet)
	facility.HandleFunc("/sub-queues/{id}", r.queueHandler.UpdateSubQueue).Methods(http.MethodPut)
	facility.HandleFunc("/sub-queues/{id}/set-next", r.tokenHandler.SetNextToken).Methods(http.MethodPost)
	facility.HandleFunc("/sub-queues/{id}/call-next", r.tokenHandler.CallNextToken).Methods(http.MethodPost)

	// Tokens
	facility.HandleFunc("/tokens", r.tokenHandler.GenerateToken).Methods(http.MethodPost)
	facility.HandleFunc("/tokens/{id}", r.tokenHandler.GetToken).Methods(http.MethodGet)
	facility.HandleFunc("/tokens/{id}", r.tokenHandler.UpdateToken).Methods(http.MethodPut)
	facility.HandleFunc("/tokens/{id}", r.tokenHandler.DestroyToken).Methods(http.MethodDelete)

	// Token categories
	facility.HandleFunc("/token-categories", r.queueHandler.CreateCategory).Methods(http.MethodPost)
	facility.HandleFunc("/token-categories", r.queueHandler.ListCategories).Methods(http.MethodGet)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
