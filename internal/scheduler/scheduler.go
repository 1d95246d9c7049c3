package scheduler

import (
	"errors"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"roamstay/server/config"
	"roamstay/server/internal/database"
	"roamstay/server/internal/geocoding"
)

// Scheduler periodically geocodes active listings that were submitted
// without coordinates so they become visible on the map.
type Scheduler struct {
	db       *database.Database
	geocoder *geocoding.Geocoder
	config   *config.Config
	logger   *logrus.Logger
	stopChan chan struct{}
	wg       sync.WaitGroup
	jobMutex sync.Mutex // Ensures sequential refresh passes
}

// NewScheduler creates a new scheduler
func NewScheduler(db *database.Database, geocoder *geocoding.Geocoder, cfg *config.Config, logger *logrus.Logger) *Scheduler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
		logger.SetLevel(logrus.InfoLevel)
	}

	return &Scheduler{
		db:       db,
		geocoder: geocoder,
		config:   cfg,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start begins the scheduled refresh passes, including one at startup.
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.run()
}

func (s *Scheduler) run() {
	defer s.wg.Done()

	// Startup pass picks up anything submitted while the server was down
	go s.refreshCoordinates()

	interval := time.Duration(s.config.Geocoding.RefreshIntervalMinutes) * time.Minute
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.refreshCoordinates()
		}
	}
}

// refreshCoordinates geocodes one batch of listings missing coordinates.
// Failures are recorded per listing so a bad address is not retried on
// every pass.
func (s *Scheduler) refreshCoordinates() {
	s.jobMutex.Lock()
	defer s.jobMutex.Unlock()

	listings, err := s.db.ListingsNeedingCoordinates(s.config.Geocoding.BatchSize)
	if err != nil {
		s.logger.WithError(err).Error("Failed to load listings for geocoding")
		return
	}
	if len(listings) == 0 {
		s.logger.Debug("No listings need geocoding")
		return
	}

	s.logger.WithField("count", len(listings)).Info("Geocoding listings without coordinates")

	var updated, failed int
	for _, l := range listings {
		lat, lon, err := s.geocoder.GeocodeAddress(l.Address, l.City, l.Country)
		if err != nil {
			if !errors.Is(err, geocoding.ErrNoResults) {
				s.logger.WithError(err).WithField("listing_id", l.ID).Error("Geocoding failed")
			}
			if err := s.db.MarkGeocodeAttempted(l.ID); err != nil {
				s.logger.WithError(err).WithField("listing_id", l.ID).Error("Failed to mark geocode attempt")
			}
			failed++
			continue
		}

		if err := s.db.UpdateListingCoordinates(l.ID, lat, lon); err != nil {
			s.logger.WithError(err).WithField("listing_id", l.ID).Error("Failed to store coordinates")
			failed++
			continue
		}
		updated++
	}

	s.logger.WithFields(logrus.Fields{
		"updated": updated,
		"failed":  failed,
	}).Info("Coordinate refresh pass completed")
}

// Stop halts the scheduler and waits for the running pass to finish.
func (s *Scheduler) Stop() {
	close(s.stopChan)
	s.wg.Wait()
}
