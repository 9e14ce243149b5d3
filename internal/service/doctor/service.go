// Package doctor serves the static roster and enumerates bookable slots
// from each doctor's weekly availability window.
package doctor

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/wexxqt/ecatsulta-api/internal/model"
	"github.com/wexxqt/ecatsulta-api/internal/repository"
	apperrors "github.com/wexxqt/ecatsulta-api/pkg/errors"
)

const (
	defaultSlotMinutes = 30

	slotCacheTTL   = 30 * time.Second
	slotCacheSweep = 5 * time.Minute
)

type Service struct {
	roster    []model.Doctor
	byName    map[string]*model.Doctor
	appts     repository.AppointmentRepository
	slotCache *gocache.Cache
}

func NewService(roster []model.Doctor, appts repository.AppointmentRepository) *Service {
	s := &Service{
		roster:    roster,
		byName:    make(map[string]*model.Doctor, len(roster)),
		appts:     appts,
		slotCache: gocache.New(slotCacheTTL, slotCacheSweep),
	}
	for i := range s.roster {
		s.byName[s.roster[i].Name] = &s.roster[i]
	}
	return s
}

func (s *Service) List() []model.Doctor {
	return s.roster
}

func (s *Service) GetByID(id string) (*model.Doctor, error) {
	for i := range s.roster {
		if s.roster[i].ID == id {
			return &s.roster[i], nil
		}
	}
	return nil, apperrors.NotFound("doctor", nil)
}

func (s *Service) GetByName(name string) (*model.Doctor, error) {
	if doc, ok := s.byName[name]; ok {
		return doc, nil
	}
	return nil, apperrors.NotFound("doctor", nil)
}

// AvailableSlots enumerates the doctor's open slots on one calendar day:
// the weekly window chopped into slot-sized intervals, minus holidays,
// blocked slots and already-booked appointments. Results are cached
// briefly since dashboards poll this endpoint.
func (s *Service) AvailableSlots(ctx context.Context, doctorID string, date time.Time) ([]model.TimeSlot, error) {
	doc, err := s.GetByID(doctorID)
	if err != nil {
		return nil, err
	}

	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	cacheKey := fmt.Sprintf("%s:%s", doc.ID, day.Format("2006-01-02"))
	if cached, ok := s.slotCache.Get(cacheKey); ok {
		return cached.([]model.TimeSlot), nil
	}

	if !s.consultsOn(doc, day) {
		return []model.TimeSlot{}, nil
	}

	booked, err := s.appts.ListByDoctorBetween(ctx, doc.Name, day, day.Add(24*time.Hour))
	if err != nil {
		return nil, apperrors.Upstream("doctor schedule lookup", err)
	}

	slots := s.enumerateSlots(doc, day, booked)
	s.slotCache.Set(cacheKey, slots, gocache.DefaultExpiration)
	return slots, nil
}

func (s *Service) consultsOn(doc *model.Doctor, day time.Time) bool {
	for _, holiday := range doc.Holidays {
		if holiday == day.Format("2006-01-02") {
			return false
		}
	}
	for _, wd := range doc.Availability.Days {
		if wd == day.Weekday() {
			return true
		}
	}
	return false
}

func (s *Service) enumerateSlots(doc *model.Doctor, day time.Time, booked []*model.Appointment) []model.TimeSlot {
	slotMinutes := doc.SlotMinutes
	if slotMinutes <= 0 {
		slotMinutes = defaultSlotMinutes
	}
	duration := time.Duration(slotMinutes) * time.Minute

	start := day.Add(time.Duration(doc.Availability.StartHour) * time.Hour)
	end := day.Add(time.Duration(doc.Availability.EndHour) * time.Hour)

	slots := []model.TimeSlot{}
	for t := start; !t.Add(duration).After(end); t = t.Add(duration) {
		slot := model.TimeSlot{Start: t, End: t.Add(duration)}
		if s.slotBlocked(doc, slot) || slotTaken(slot, booked) {
			continue
		}
		slots = append(slots, slot)
	}
	return slots
}

func (s *Service) slotBlocked(doc *model.Doctor, slot model.TimeSlot) bool {
	date := slot.Start.Format("2006-01-02")
	for _, blocked := range doc.BlockedSlots {
		if blocked.Date != date {
			continue
		}
		blockStart, err1 := time.ParseInLocation("2006-01-02 15:04", date+" "+blocked.Start, slot.Start.Location())
		blockEnd, err2 := time.ParseInLocation("2006-01-02 15:04", date+" "+blocked.End, slot.Start.Location())
		if err1 != nil || err2 != nil {
			continue
		}
		if slot.Start.Before(blockEnd) && blockStart.Before(slot.End) {
			return true
		}
	}
	return false
}

func slotTaken(slot model.TimeSlot, booked []*model.Appointment) bool {
	for _, apt := range booked {
		if !apt.Schedule.Before(slot.Start) && apt.Schedule.Before(slot.End) {
			return true
		}
	}
	return false
}
