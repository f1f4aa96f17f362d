package feed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/rmagbanua/nanaycare-api/internal/model"
	"github.com/rmagbanua/nanaycare-api/internal/repository"
	"github.com/rmagbanua/nanaycare-api/pkg/logger"
)

// Evergreen tips appended to every feed, timestamped at compile time.
var systemTips = []struct {
	title   string
	message string
}{
	{"Hydration", "Drink at least 8 glasses of water a day."},
	{"Prenatal vitamins", "Take your prenatal vitamins daily, with food if they upset your stomach."},
	{"Danger signs", "Go to the health center right away for severe headache, blurry vision, or bleeding."},
}

type Config struct {
	AppointmentWindowDays int
	RecentMaterials       int
}

// Service compiles a mother's notification feed on demand. Items are never
// persisted; each view gets a fresh compilation.
type Service struct {
	appointmentRepo repository.AppointmentRepository
	materialRepo    repository.MaterialRepository
	recordRepo      repository.HealthRecordRepository
	cfg             Config
	logger          *logger.Logger
	now             func() time.Time
}

func NewService(
	appointmentRepo repository.AppointmentRepository,
	materialRepo repository.MaterialRepository,
	recordRepo repository.HealthRecordRepository,
	cfg Config,
	log *logger.Logger,
) *Service {
	if cfg.AppointmentWindowDays <= 0 {
		cfg.AppointmentWindowDays = 3
	}
	if cfg.RecentMaterials <= 0 {
		cfg.RecentMaterials = 3
	}
	return &Service{
		appointmentRepo: appointmentRepo,
		materialRepo:    materialRepo,
		recordRepo:      recordRepo,
		cfg:             cfg,
		logger:          log,
		now:             time.Now,
	}
}

// Compile builds the time-descending feed for one mother. A nil mother id
// short-circuits to an empty feed: the feed is informational and a missing
// session is not an error.
func (s *Service) Compile(ctx context.Context, motherID uuid.UUID) ([]*model.FeedItem, error) {
	if motherID == uuid.Nil {
		return []*model.FeedItem{}, nil
	}

	now := s.now()
	items := []*model.FeedItem{}

	appointments, err := s.upcomingAppointments(ctx, motherID, now)
	if err != nil {
		return nil, err
	}
	items = append(items, appointments...)

	materials, err := s.recentMaterials(ctx)
	if err != nil {
		return nil, err
	}
	items = append(items, materials...)

	if item := s.latestRecordItem(ctx, motherID); item != nil {
		items = append(items, item)
	}

	for _, tip := range systemTips {
		items = append(items, &model.FeedItem{
			ID:        uuid.New(),
			Title:     tip.title,
			Message:   tip.message,
			Source:    model.SourceSystem,
			Timestamp: now,
		})
	}

	// Descending by timestamp; stable keeps same-instant items in insertion
	// order.
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Timestamp.After(items[j].Timestamp)
	})
	return items, nil
}

func (s *Service) upcomingAppointments(ctx context.Context, motherID uuid.UUID, now time.Time) ([]*model.FeedItem, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	windowEnd := dayStart.AddDate(0, 0, s.cfg.AppointmentWindowDays+1)

	appointments, err := s.appointmentRepo.ListUpcoming(ctx, motherID, dayStart, windowEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming appointments: %w", err)
	}

	items := make([]*model.FeedItem, 0, len(appointments))
	for _, appt := range appointments {
		var message string
		if sameDay(appt.ScheduledAt, now) {
			message = fmt.Sprintf("You have a checkup today at %s.", appt.ScheduledAt.Format("15:04"))
		} else {
			days := int(appt.ScheduledAt.Sub(dayStart).Hours() / 24)
			message = fmt.Sprintf("Checkup in %d day(s) at %s.", days, appt.Location)
		}
		items = append(items, &model.FeedItem{
			ID:        appt.ID,
			Title:     "Upcoming appointment",
			Message:   message,
			Source:    model.SourceAppointment,
			Timestamp: appt.ScheduledAt,
		})
	}
	return items, nil
}

func (s *Service) recentMaterials(ctx context.Context) ([]*model.FeedItem, error) {
	materials, err := s.materialRepo.ListRecentPublished(ctx, s.cfg.RecentMaterials)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent materials: %w", err)
	}

	items := make([]*model.FeedItem, 0, len(materials))
	for _, mat := range materials {
		items = append(items, &model.FeedItem{
			ID:        mat.ID,
			Title:     "New health material",
			Message:   fmt.Sprintf("%q was posted under %s.", mat.Title, mat.Category),
			Source:    model.SourceMaterial,
			Timestamp: mat.CreatedAt,
		})
	}
	return items, nil
}

// latestRecordItem is best-effort: a mother with no records simply
// contributes nothing to the feed. Lookup failures that are not the
// no-rows case are logged before the item is dropped.
func (s *Service) latestRecordItem(ctx context.Context, motherID uuid.UUID) *model.FeedItem {
	record, err := s.recordRepo.GetLatestByMother(ctx, motherID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Error(err, "failed to load latest record for feed", "mother_id", motherID.String())
		}
		return nil
	}
	if record == nil {
		return nil
	}

	message := fmt.Sprintf("Your health record from %s was updated.", record.EncounterDate.Format("January 2, 2006"))
	if record.Notes != "" {
		message += " Notes: " + record.Notes
	}
	return &model.FeedItem{
		ID:        record.ID,
		Title:     "Health record update",
		Message:   message,
		Source:    model.SourceHealth,
		Timestamp: record.EncounterDate,
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
