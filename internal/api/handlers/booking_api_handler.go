package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ayush99566-sketch/village-machaan-backend/internal/config"
	"github.com/ayush99566-sketch/village-machaan-backend/internal/models"
	"github.com/ayush99566-sketch/village-machaan-backend/internal/services"
	"github.com/ayush99566-sketch/village-machaan-backend/internal/tasks"
	"github.com/ayush99566-sketch/village-machaan-backend/internal/utils"
)

// dateLayout is the wire format for all dates accepted and returned by the
// API. Times of day are never part of a stay date.
const dateLayout = "2006-01-02"

// IAsynqClient defines the interface for the Asynq client methods used by the
// handler. This allows easier mocking than using the concrete asynq.Client.
type IAsynqClient interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// JsonApiRequest defines the expected structure for JSON API requests.
type JsonApiRequest struct {
	Method    string          `json:"method"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// JsonApiResponse defines the structure for JSON API responses.
type JsonApiResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ApiError carries the client-facing message plus the HTTP status the
// envelope is sent with.
type ApiError struct {
	Status  int
	Message string
}

func (e *ApiError) Error() string {
	return e.Message
}

func NewApiError(message string) *ApiError {
	return &ApiError{Status: http.StatusBadRequest, Message: message}
}

func NewApiErrorWithStatus(status int, message string) *ApiError {
	return &ApiError{Status: status, Message: message}
}

// serviceApiError maps service-layer errors onto API errors: validation
// failures are 400, missing entities 404, date conflicts 409, everything
// else is a 500 with a generic message (the cause goes to the log).
func serviceApiError(err error) *ApiError {
	switch {
	case services.IsValidationError(err):
		return NewApiError(err.Error())
	case errors.Is(err, services.ErrNotFound), errors.Is(err, mongo.ErrNoDocuments):
		return NewApiErrorWithStatus(http.StatusNotFound, "not found")
	case errors.Is(err, services.ErrDatesUnavailable):
		return NewApiErrorWithStatus(http.StatusConflict, services.ErrDatesUnavailable.Error())
	}
	log.Printf("ERROR: internal service error: %v", err)
	return NewApiErrorWithStatus(http.StatusInternalServerError, "internal error")
}

// apiMethodFunc defines the signature for handler methods.
type apiMethodFunc func(c *gin.Context, args json.RawMessage) (interface{}, *ApiError)

// JsonApiHandler holds dependencies for handling JSON API requests.
type JsonApiHandler struct {
	cfg          *config.Config
	db           *mongo.Database
	rdb          *redis.Client
	catalog      services.ICatalogService
	availability services.IAvailabilityService
	bookings     services.IBookingService
	safaris      services.ISafariService
	taskClient   IAsynqClient
	methods      map[string]apiMethodFunc
}

// NewJsonApiHandler creates a new handler for the JSON API endpoint.
// Accepts interfaces for dependencies.
func NewJsonApiHandler(
	cfg *config.Config,
	db *mongo.Database,
	rdb *redis.Client,
	taskClient IAsynqClient,
	catalog services.ICatalogService,
	availability services.IAvailabilityService,
	bookings services.IBookingService,
	safaris services.ISafariService,
) *JsonApiHandler {
	h := &JsonApiHandler{
		cfg:          cfg,
		db:           db,
		rdb:          rdb,
		taskClient:   taskClient,
		catalog:      catalog,
		availability: availability,
		bookings:     bookings,
		safaris:      safaris,
	}
	h.methods = map[string]apiMethodFunc{
		"ping":                     h.ping,
		"getAllCottages":           h.getAllCottages,
		"getAvailablePackages":     h.getAvailablePackages,
		"getPackageById":           h.getPackageById,
		"checkCottageAvailability": h.checkCottageAvailability,
		"calculateBookingCost":     h.calculateBookingCost,
		"createBooking":            h.createBooking,
		"getBookingDetails":        h.getBookingDetails,
		"updateBookingStatus":      h.updateBookingStatus,
		"createSafariBookings":     h.createSafariBookings,
		"updateSafariStatus":       h.updateSafariStatus,
		"createSafariInquiry":      h.createSafariInquiry,
	}
	return h
}

// HandleRequest is the main entry point for POST /v1/api
func (h *JsonApiHandler) HandleRequest(c *gin.Context) {
	bodyBytes, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.sendErrorResponse(c, NewApiError("Failed to read request body"))
		return
	}

	var req JsonApiRequest
	if err := json.Unmarshal(bodyBytes, &req); err != nil {
		h.sendErrorResponse(c, NewApiError("Invalid JSON request format"))
		return
	}

	handlerFunc, ok := h.methods[req.Method]
	if !ok {
		h.sendErrorResponse(c, NewApiError(fmt.Sprintf("Unknown method: %s", req.Method)))
		return
	}

	result, apiErr := handlerFunc(c, req.Arguments)
	if apiErr != nil {
		h.sendErrorResponse(c, apiErr)
		return
	}

	h.sendSuccessResponse(c, result)
}

func (h *JsonApiHandler) sendSuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, JsonApiResponse{Success: true, Data: data})
}

func (h *JsonApiHandler) sendErrorResponse(c *gin.Context, apiErr *ApiError) {
	c.JSON(apiErr.Status, JsonApiResponse{Success: false, Error: apiErr.Message})
}

// parseRequiredSingleArgFromArray unmarshals the first element of the
// 'arguments' array into targetVarPtr.
func (h *JsonApiHandler) parseRequiredSingleArgFromArray(rawArgPayload json.RawMessage, targetVarPtr interface{}) *ApiError {
	var argArray []json.RawMessage
	if rawArgPayload == nil {
		return NewApiError("Missing 'arguments' field; expected a JSON array with one argument.")
	}

	if err := json.Unmarshal(rawArgPayload, &argArray); err != nil {
		return NewApiError("Invalid 'arguments': expected a JSON array.")
	}

	if len(argArray) == 0 {
		return NewApiError("Invalid 'arguments': array is empty, but one argument is expected.")
	}

	if err := json.Unmarshal(argArray[0], targetVarPtr); err != nil {
		return NewApiError("Invalid format for argument: the first element in 'arguments' array has unexpected structure.")
	}
	return nil
}

func parseObjectID(hex, field string) (primitive.ObjectID, *ApiError) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, NewApiError(fmt.Sprintf("invalid %s: %q", field, hex))
	}
	return id, nil
}

func parseDate(value, field string) (time.Time, *ApiError) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, NewApiError(fmt.Sprintf("invalid %s: expected YYYY-MM-DD, got %q", field, value))
	}
	return utils.NormalizeDate(t), nil
}

// --- API Method Implementations ---

func (h *JsonApiHandler) ping(c *gin.Context, args json.RawMessage) (interface{}, *ApiError) {
	_ = args
	return "pong", nil
}

func (h *JsonApiHandler) getAllCottages(c *gin.Context, args json.RawMessage) (interface{}, *ApiError) {
	_ = args
	cottages, err := h.catalog.ListActiveCottages(c.Request.Context())
	if err != nil {
		return nil, serviceApiError(err)
	}
	return cottages, nil
}

func (h *JsonApiHandler) getAvailablePackages(c *gin.Context, args json.RawMessage) (interface{}, *ApiError) {
	_ = args
	packages, err := h.catalog.ListActivePackages(c.Request.Context())
	if err != nil {
		return nil, serviceApiError(err)
	}
	return packages, nil
}

func (h *JsonApiHandler) getPackageById(c *gin.Context, args json.RawMessage) (interface{}, *ApiError) {
	var idHex string
	if apiErr := h.parseRequiredSingleArgFromArray(args, &idHex); apiErr != nil {
		return nil, apiErr
	}
	id, apiErr := parseObjectID(idHex, "package id")
	if apiErr != nil {
		return nil, apiErr
	}

	pkg, err := h.catalog.GetPackage(c.Request.Context(), id)
	if err != nil {
		return nil, serviceApiError(err)
	}
	return pkg, nil
}

// StayQueryArgs identifies a cottage and a stay window.
type StayQueryArgs struct {
	CottageID    string `json:"cottageId"`
	CheckInDate  string `json:"checkInDate"`
	CheckOutDate string `json:"checkOutDate"`
}

func (h *JsonApiHandler) checkCottageAvailability(c *gin.Context, args json.RawMessage) (interface{}, *ApiError) {
	var reqArgs StayQueryArgs
	if apiErr := h.parseRequiredSingleArgFromArray(args, &reqArgs); apiErr != nil {
		return nil, apiErr
	}

	cottageID, apiErr := parseObjectID(reqArgs.CottageID, "cottage id")
	if apiErr != nil {
		return nil, apiErr
	}
	checkIn, apiErr := parseDate(reqArgs.CheckInDate, "checkInDate")
	if apiErr != nil {
		return nil, apiErr
	}
	checkOut, apiErr := parseDate(reqArgs.CheckOutDate, "checkOutDate")
	if apiErr != nil {
		return nil, apiErr
	}
	if services.Nights(checkIn, checkOut) < 1 {
		return nil, NewApiError("checkOutDate must be after checkInDate")
	}

	ctx := c.Request.Context()
	cottage, err := h.catalog.GetCottage(ctx, cottageID)
	if err != nil {
		return nil, serviceApiError(err)
	}
	available, err := h.availability.IsRangeAvailable(ctx, cottageID, checkIn, checkOut)
	if err != nil {
		return nil, serviceApiError(err)
	}
	message := "Selected dates are available"
	if !available {
		message = services.ErrDatesUnavailable.Error()
	}
	return gin.H{"isAvailable": available, "message": message, "cottage": cottage}, nil
}

// CostQueryArgs extends the stay window with a package selection.
type CostQueryArgs struct {
	StayQueryArgs
	PackageID string `json:"packageId"`
}

func (h *JsonApiHandler) calculateBookingCost(c *gin.Context, args json.RawMessage) (interface{}, *ApiError) {
	var reqArgs CostQueryArgs
	if apiErr := h.parseRequiredSingleArgFromArray(args, &reqArgs); apiErr != nil {
		return nil, apiErr
	}

	cottageID, apiErr := parseObjectID(reqArgs.CottageID, "cottage id")
	if apiErr != nil {
		return nil, apiErr
	}
	packageID, apiErr := parseObjectID(reqArgs.PackageID, "package id")
	if apiErr != nil {
		return nil, apiErr
	}
	checkIn, apiErr := parseDate(reqArgs.CheckInDate, "checkInDate")
	if apiErr != nil {
		return nil, apiErr
	}
	checkOut, apiErr := parseDate(reqArgs.CheckOutDate, "checkOutDate")
	if apiErr != nil {
		return nil, apiErr
	}
	if services.Nights(checkIn, checkOut) < 1 {
		return nil, NewApiError("checkOutDate must be after checkInDate")
	}

	ctx := c.Request.Context()
	cottage, err := h.catalog.GetCottage(ctx, cottageID)
	if err != nil {
		return nil, serviceApiError(err)
	}
	pkg, err := h.catalog.GetPackage(ctx, packageID)
	if err != nil {
		return nil, serviceApiError(err)
	}

	quote := services.PriceStay(cottage, pkg, checkIn, checkOut)
	return quote, nil
}

// CreateBookingArgs is the createBooking payload.
type CreateBookingArgs struct {
	CottageID       string              `json:"cottageId"`
	PackageID       string              `json:"packageId"`
	CheckInDate     string              `json:"checkInDate"`
	CheckOutDate    string              `json:"checkOutDate"`
	Adults          int                 `json:"adults"`
	Children        int                 `json:"children"`
	CustomerInfo    models.CustomerInfo `json:"customerInfo"`
	SpecialRequests string              `json:"specialRequests"`
}

func (h *JsonApiHandler) createBooking(c *gin.Context, args json.RawMessage) (interface{}, *ApiError) {
	var reqArgs CreateBookingArgs
	if apiErr := h.parseRequiredSingleArgFromArray(args, &reqArgs); apiErr != nil {
		return nil, apiErr
	}

	cottageID, apiErr := parseObjectID(reqArgs.CottageID, "cottage id")
	if apiErr != nil {
		return nil, apiErr
	}
	packageID, apiErr := parseObjectID(reqArgs.PackageID, "package id")
	if apiErr != nil {
		return nil, apiErr
	}
	checkIn, apiErr := parseDate(reqArgs.CheckInDate, "checkInDate")
	if apiErr != nil {
		return nil, apiErr
	}
	checkOut, apiErr := parseDate(reqArgs.CheckOutDate, "checkOutDate")
	if apiErr != nil {
		return nil, apiErr
	}

	ctx := c.Request.Context()
	booking, err := h.bookings.CreateBooking(ctx, services.CreateBookingInput{
		CottageID:       cottageID,
		PackageID:       packageID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Adults:          reqArgs.Adults,
		Children:        reqArgs.Children,
		Customer:        reqArgs.CustomerInfo,
		SpecialRequests: reqArgs.SpecialRequests,
	})
	if err != nil {
		return nil, serviceApiError(err)
	}

	h.enqueueBookingNotify(ctx, booking, "received")
	return booking, nil
}

// enqueueBookingNotify queues the guest notification email. Failures are
// logged, never surfaced; the booking already exists.
func (h *JsonApiHandler) enqueueBookingNotify(ctx context.Context, booking *models.Booking, event string) {
	if h.taskClient == nil {
		return
	}
	payloadBytes, _ := json.Marshal(tasks.BookingNotifyPayload{
		BookingID: booking.ID.Hex(),
		Reference: booking.Reference,
		To:        booking.Customer.Email,
		Name:      booking.Customer.Name,
		Event:     event,
	})
	task := asynq.NewTask(tasks.TypeBookingNotify, payloadBytes)
	if _, err := h.taskClient.EnqueueContext(ctx, task); err != nil {
		log.Printf("ERROR enqueuing %s notification for booking %s: %v", event, booking.ID.Hex(), err)
	}
}

func (h *JsonApiHandler) getBookingDetails(c *gin.Context, args json.RawMessage) (interface{}, *ApiError) {
	var idHex string
	if apiErr := h.parseRequiredSingleArgFromArray(args, &idHex); apiErr != nil {
		return nil, apiErr
	}
	id, apiErr := parseObjectID(idHex, "booking id")
	if apiErr != nil {
		return nil, apiErr
	}

	details, err := h.bookings.GetBookingDetails(c.Request.Context(), id)
	if err != nil {
		return nil, serviceApiError(err)
	}
	return details, nil
}

// UpdateBookingStatusArgs carries a booking id and its requested status.
type UpdateBookingStatusArgs struct {
	BookingID string `json:"bookingId"`
	Status    string `json:"status"`
}

func (h *JsonApiHandler) updateBookingStatus(c *gin.Context, args json.RawMessage) (interface{}, *ApiError) {
	var reqArgs UpdateBookingStatusArgs
	if apiErr := h.parseRequiredSingleArgFromArray(args, &reqArgs); apiErr != nil {
		return nil, apiErr
	}
	id, apiErr := parseObjectID(reqArgs.BookingID, "booking id")
	if apiErr != nil {
		return nil, apiErr
	}
	status, err := models.ParseBookingStatus(reqArgs.Status)
	if err != nil {
		return nil, NewApiError(err.Error())
	}

	ctx := c.Request.Context()
	booking, err := h.bookings.UpdateBookingStatus(ctx, id, status)
	if err != nil {
		return nil, serviceApiError(err)
	}

	switch booking.Status {
	case models.BookingConfirmed:
		h.enqueueBookingNotify(ctx, booking, "confirmed")
	case models.BookingCancelled:
		h.enqueueBookingNotify(ctx, booking, "cancelled")
	}
	return booking, nil
}

// SafariEntryArgs is one requested safari slot.
type SafariEntryArgs struct {
	SafariDate string `json:"safariDate"`
	SafariTime string `json:"safariTime"`
	SafariType string `json:"safariType"`
}

// CreateSafariBookingsArgs attaches safari slots to an existing booking.
type CreateSafariBookingsArgs struct {
	BookingID  string            `json:"bookingId"`
	SafariData []SafariEntryArgs `json:"safariData"`
}

func (h *JsonApiHandler) createSafariBookings(c *gin.Context, args json.RawMessage) (interface{}, *ApiError) {
	var reqArgs CreateSafariBookingsArgs
	if apiErr := h.parseRequiredSingleArgFromArray(args, &reqArgs); apiErr != nil {
		return nil, apiErr
	}
	bookingID, apiErr := parseObjectID(reqArgs.BookingID, "booking id")
	if apiErr != nil {
		return nil, apiErr
	}

	entries := make([]services.SafariEntry, 0, len(reqArgs.SafariData))
	for i, e := range reqArgs.SafariData {
		date, apiErr := parseDate(e.SafariDate, fmt.Sprintf("safariData[%d].safariDate", i))
		if apiErr != nil {
			return nil, apiErr
		}
		entries = append(entries, services.SafariEntry{
			Date: date,
			Time: e.SafariTime,
			Type: e.SafariType,
		})
	}

	created, err := h.safaris.CreateSafariBookings(c.Request.Context(), bookingID, entries)
	if err != nil {
		return nil, serviceApiError(err)
	}
	return created, nil
}

// UpdateSafariStatusArgs carries a safari booking id and its requested status.
type UpdateSafariStatusArgs struct {
	SafariID string `json:"safariId"`
	Status   string `json:"status"`
}

func (h *JsonApiHandler) updateSafariStatus(c *gin.Context, args json.RawMessage) (interface{}, *ApiError) {
	var reqArgs UpdateSafariStatusArgs
	if apiErr := h.parseRequiredSingleArgFromArray(args, &reqArgs); apiErr != nil {
		return nil, apiErr
	}
	id, apiErr := parseObjectID(reqArgs.SafariID, "safari booking id")
	if apiErr != nil {
		return nil, apiErr
	}
	status, err := models.ParseSafariStatus(reqArgs.Status)
	if err != nil {
		return nil, NewApiError(err.Error())
	}

	safari, err := h.safaris.UpdateSafariStatus(c.Request.Context(), id, status)
	if err != nil {
		return nil, serviceApiError(err)
	}
	return safari, nil
}

// SafariInquiryArgs is the lead-capture payload for createSafariInquiry.
type SafariInquiryArgs struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	PreferredDate string `json:"preferredDate"`
	PreferredTime string `json:"preferredTime"`
	Notes         string `json:"notes"`
	Source        string `json:"source"`
}

func (h *JsonApiHandler) createSafariInquiry(c *gin.Context, args json.RawMessage) (interface{}, *ApiError) {
	var reqArgs SafariInquiryArgs
	if apiErr := h.parseRequiredSingleArgFromArray(args, &reqArgs); apiErr != nil {
		return nil, apiErr
	}

	input := services.SafariInquiryInput{
		Name:          reqArgs.Name,
		Email:         reqArgs.Email,
		Phone:         reqArgs.Phone,
		PreferredTime: reqArgs.PreferredTime,
		Notes:         reqArgs.Notes,
		Source:        reqArgs.Source,
	}
	if reqArgs.PreferredDate != "" {
		date, apiErr := parseDate(reqArgs.PreferredDate, "preferredDate")
		if apiErr != nil {
			return nil, apiErr
		}
		input.PreferredDate = date
	}

	inquiry, err := h.safaris.CreateInquiry(c.Request.Context(), input)
	if err != nil {
		return nil, serviceApiError(err)
	}
	return inquiry, nil
}
