package api

import (
	"database/sql"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"roamstay/server/config"
	"roamstay/server/internal/booking"
	"roamstay/server/internal/database"
	"roamstay/server/internal/geo"
	"roamstay/server/internal/geocoding"
	"roamstay/server/internal/ingest"
	"roamstay/server/internal/models"
	"roamstay/server/internal/notify"
	"roamstay/server/internal/pricing"
)

type Handler struct {
	db       *database.Database
	logger   *logrus.Logger
	cfg      *config.Config
	geocoder *geocoding.Geocoder
	queue    *ingest.ListingQueue
	notifier *notify.Service

	// Nominatim allows one request per second; the proxy enforces it
	geocodeMu   sync.Mutex
	lastGeocode time.Time
}

// SearchQuery carries the map search parameters. Missing values fall back
// to the configured defaults.
type SearchQuery struct {
	Latitude      *float64 `form:"lat"`
	Longitude     *float64 `form:"lng"`
	RadiusMiles   *float64 `form:"radius_miles"`
	ClusterRadius *float64 `form:"cluster_radius_m"`
	Location      string   `form:"location"`
}

func NewHandler(db *database.Database, cfg *config.Config, queue *ingest.ListingQueue, notifier *notify.Service, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	cacheDir := filepath.Join(os.TempDir(), "roamstay", "geocode_cache")

	return &Handler{
		db:       db,
		logger:   logger,
		cfg:      cfg,
		geocoder: geocoding.NewGeocoder(logger, cacheDir),
		queue:    queue,
		notifier: notifier,
	}
}

// listingView is a listing with its derived display price attached.
// PriceSummary is null when the listing has no price data anywhere; the
// client renders that as "Call for price".
type listingView struct {
	models.Listing
	PriceSummary *models.PriceSummary `json:"price_summary"`
}

func withPriceSummaries(listings []models.Listing) []listingView {
	views := make([]listingView, len(listings))
	for i, l := range listings {
		views[i] = listingView{Listing: l}
		if summary, ok := pricing.Summarize(l); ok {
			s := summary
			views[i].PriceSummary = &s
		}
	}
	return views
}

// GetAllListings returns every active listing with its price summary.
func (h *Handler) GetAllListings(c *gin.Context) {
	listings, err := h.db.GetActiveListings()
	if err != nil {
		h.logger.WithError(err).Error("Failed to get listings")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get listings"})
		return
	}

	c.JSON(http.StatusOK, withPriceSummaries(listings))
}

// SearchListings filters active listings by distance from the search
// center, groups them into map clusters, and returns the clusters as a
// GeoJSON FeatureCollection with obfuscated marker positions.
func (h *Handler) SearchListings(c *gin.Context) {
	var q SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.logger.WithError(err).Error("Failed to parse search query")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid search parameters"})
		return
	}

	center, ok := h.resolveCenter(q)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown location and no coordinates given"})
		return
	}
	if !center.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Search center out of range"})
		return
	}

	radiusMiles := h.cfg.Search.RadiusMiles
	if q.RadiusMiles != nil && *q.RadiusMiles > 0 {
		radiusMiles = *q.RadiusMiles
	}
	clusterRadius := h.cfg.Search.ClusterRadiusMeters
	if q.ClusterRadius != nil {
		clusterRadius = *q.ClusterRadius
	}

	listings, err := h.db.GetActiveListings()
	if err != nil {
		h.logger.WithError(err).Error("Failed to get listings")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get listings"})
		return
	}

	nearby := geo.FilterByRadius(listings, center, radiusMiles)
	clusters := geo.Cluster(nearby, clusterRadius)

	h.logger.WithFields(logrus.Fields{
		"center_lat":   center.Latitude,
		"center_lng":   center.Longitude,
		"radius_miles": radiusMiles,
		"matched":      len(nearby),
		"clusters":     len(clusters),
	}).Info("Listing search completed")

	c.JSON(http.StatusOK, h.renderClusters(clusters))
}

// resolveCenter picks the search center from explicit coordinates, then a
// named location, then the default (first) supported location.
func (h *Handler) resolveCenter(q SearchQuery) (models.Coordinate, bool) {
	if q.Latitude != nil && q.Longitude != nil {
		return models.Coordinate{Latitude: *q.Latitude, Longitude: *q.Longitude}, true
	}
	if q.Location != "" {
		loc := config.GetLocationByName(q.Location)
		if loc == nil || len(loc.Center) != 2 {
			return models.Coordinate{}, false
		}
		return models.Coordinate{Latitude: loc.Center[0], Longitude: loc.Center[1]}, true
	}
	fallback := config.SupportedLocations[0]
	return models.Coordinate{Latitude: fallback.Center[0], Longitude: fallback.Center[1]}, true
}

// CreateListing accepts a host listing submission and queues it for the
// batch processor. Listings start inactive until rooms are configured.
func (h *Handler) CreateListing(c *gin.Context) {
	var listing models.Listing
	if err := c.ShouldBindJSON(&listing); err != nil {
		h.logger.WithError(err).Error("Failed to parse listing")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing payload"})
		return
	}

	if listing.ID == "" {
		listing.ID = uuid.NewString()
	}
	if listing.HostID == "" || listing.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "host_id and title are required"})
		return
	}

	if err := h.queue.Push([]*models.Listing{&listing}); err != nil {
		h.logger.WithError(err).Error("Failed to queue listing")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Listing ingest is unavailable, try again"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"id": listing.ID, "status": "queued"})
}

// CreateBooking checks availability for the requested date range and, if
// free, books it at the listing's nightly rate. The store re-runs the
// conflict check inside its insert transaction, so a race between two
// requests resolves to a single confirmed booking.
func (h *Handler) CreateBooking(c *gin.Context) {
	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Failed to parse booking request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking payload"})
		return
	}

	listing, err := h.db.GetListing(req.PropertyID)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to load listing")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Booking failed"})
		return
	}

	if listing.NightlyPrice == nil || *listing.NightlyPrice <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Property has no nightly rate"})
		return
	}

	existing, err := h.db.GetConfirmedBookings(req.PropertyID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load bookings")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Booking failed"})
		return
	}

	newBooking, err := booking.TryBook(req, existing, listing.HostID, *listing.NightlyPrice)
	if err != nil {
		h.rejectBooking(c, err)
		return
	}

	if err := h.db.CreateBookingIfAvailable(newBooking); err != nil {
		h.rejectBooking(c, err)
		return
	}

	// Notification failures never block the booking
	go func() {
		if err := h.notifier.NotifyNewBooking(newBooking, listing); err != nil {
			h.logger.WithError(err).Warn("Booking notification failed")
		}
	}()

	c.JSON(http.StatusCreated, newBooking)
}

func (h *Handler) rejectBooking(c *gin.Context, err error) {
	var conflict *booking.ConflictError
	switch {
	case errors.Is(err, booking.ErrInvalidRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date range"})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{
			"error":          "Property already booked for those dates",
			"conflict_start": conflict.StartDate.Format("2006-01-02"),
			"conflict_end":   conflict.EndDate.Format("2006-01-02"),
		})
	default:
		h.logger.WithError(err).Error("Failed to create booking")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Booking failed"})
	}
}

// GetGuestBookings returns the trip list for a guest.
func (h *Handler) GetGuestBookings(c *gin.Context) {
	guestID := c.Query("guest_id")
	if guestID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "guest_id is required"})
		return
	}

	bookings, err := h.db.GetGuestBookings(guestID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get guest bookings")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get bookings"})
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// GetHostBookings returns the reservations across a host's properties.
func (h *Handler) GetHostBookings(c *gin.Context) {
	hostID := c.Query("host_id")
	if hostID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "host_id is required"})
		return
	}

	bookings, err := h.db.GetHostBookings(hostID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get host bookings")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get bookings"})
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// CancelBooking transitions a booking to cancelled.
func (h *Handler) CancelBooking(c *gin.Context) {
	id := c.Param("id")

	cancelled, err := h.db.GetBooking(id)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to load booking")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cancellation failed"})
		return
	}

	if err := h.db.CancelBooking(id); err != nil {
		h.logger.WithError(err).Error("Failed to cancel booking")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cancellation failed"})
		return
	}

	go func() {
		if err := h.notifier.NotifyCancellation(cancelled); err != nil {
			h.logger.WithError(err).Warn("Cancellation notification failed")
		}
	}()

	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

// GetTelegramSettings returns the stored notification configuration with
// the bot token masked.
func (h *Handler) GetTelegramSettings(c *gin.Context) {
	cfg, err := h.db.GetTelegramConfig()
	if err != nil {
		h.logger.WithError(err).Error("Failed to load telegram config")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load settings"})
		return
	}
	if cfg == nil {
		c.JSON(http.StatusOK, gin.H{"is_enabled": false, "configured": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"is_enabled": cfg.IsEnabled,
		"configured": cfg.BotToken != "",
		"chat_id":    cfg.ChatID,
	})
}

// UpdateTelegramSettings stores a new notification configuration and
// applies it to the running notifier.
func (h *Handler) UpdateTelegramSettings(c *gin.Context) {
	var req models.TelegramConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid settings payload"})
		return
	}

	if req.IsEnabled && (req.BotToken == "" || req.ChatID == "") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bot_token and chat_id are required when enabling notifications"})
		return
	}

	if err := h.db.UpdateTelegramConfig(&req); err != nil {
		h.logger.WithError(err).Error("Failed to save telegram config")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save settings"})
		return
	}

	cfg, err := h.db.GetTelegramConfig()
	if err == nil && cfg != nil {
		h.notifier.UpdateConfig(cfg)
	}

	c.JSON(http.StatusOK, gin.H{"status": "saved"})
}

// GeocodeSearch proxies a free-text address lookup, enforcing the
// upstream one-request-per-second limit.
func (h *Handler) GeocodeSearch(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing query parameter"})
		return
	}

	h.geocodeMu.Lock()
	since := time.Since(h.lastGeocode)
	if since < time.Second {
		h.geocodeMu.Unlock()
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded. Please wait before making another request."})
		return
	}
	h.lastGeocode = time.Now()
	h.geocodeMu.Unlock()

	lat, lon, err := h.geocoder.Search(query)
	if err == geocoding.ErrNoResults {
		c.JSON(http.StatusNotFound, gin.H{"error": "No results found"})
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Geocoding failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Geocoding failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"lat": strconv.FormatFloat(lat, 'f', -1, 64),
		"lon": strconv.FormatFloat(lon, 'f', -1, 64),
	})
}
