package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/coworkhub/backend/internal/catalog"
	"github.com/coworkhub/backend/internal/database"
	"github.com/coworkhub/backend/internal/dto"
	"github.com/coworkhub/backend/internal/events"
	"github.com/coworkhub/backend/internal/metrics"
	"github.com/coworkhub/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	dateLayout        = "2006-01-02"
	conflictSavepoint = "conflict_check"
)

var (
	ErrBookingConflict      = errors.New("this time slot is already booked")
	ErrAvailabilityUnknown  = errors.New("unable to verify availability, please try again")
	ErrInvalidBookingTime   = errors.New("times must be whole hours in HH:00 format")
	ErrInvalidBookingRange  = errors.New("end time must be after start time")
	ErrInvalidBookingDate   = errors.New("booking date must be in YYYY-MM-DD format")
	ErrBookingInPast        = errors.New("booking date is in the past")
	ErrSpaceUnavailable     = errors.New("space is not available for booking")
	ErrBookingNotFound      = errors.New("booking not found")
	ErrBookingNotCancelable = errors.New("only active bookings can be cancelled")
	ErrInvalidBookingStatus = errors.New("invalid booking status")
)

// Overlaps reports whether the half-open hour ranges [aStart,aEnd) and
// [bStart,bEnd) intersect. Touching endpoints do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && aEnd > bStart
}

// ParseHour parses an "HH:00" wall-clock value. 24:00 is accepted as an end
// of day.
func ParseHour(s string) (int, error) {
	if len(s) != 5 || !isDigit(s[0]) || !isDigit(s[1]) || s[2] != ':' || s[3:] != "00" {
		return 0, ErrInvalidBookingTime
	}
	h, err := strconv.Atoi(s[:2])
	if err != nil || h < 0 || h > 24 {
		return 0, ErrInvalidBookingTime
	}
	return h, nil
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func FormatHour(h int) string {
	return fmt.Sprintf("%02d:00", h)
}

type hourRange struct {
	start, end int
}

func parseRange(date, start, end string) (hourRange, error) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return hourRange{}, ErrInvalidBookingDate
	}
	s, err := ParseHour(start)
	if err != nil {
		return hourRange{}, err
	}
	e, err := ParseHour(end)
	if err != nil {
		return hourRange{}, err
	}
	if e <= s {
		return hourRange{}, ErrInvalidBookingRange
	}
	return hourRange{start: s, end: e}, nil
}

type BookingService struct {
	db            *gorm.DB
	catalog       catalog.Reader
	events        events.Publisher
	notifications *NotificationService
	failOpen      bool
	now           func() time.Time
}

func NewBookingService(db *gorm.DB, reader catalog.Reader, publisher events.Publisher, notifications *NotificationService, failOpen bool) *BookingService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &BookingService{
		db:            db,
		catalog:       reader,
		events:        publisher,
		notifications: notifications,
		failOpen:      failOpen,
		now:           time.Now,
	}
}

// HasConflict reports whether [start,end) on date overlaps a confirmed
// booking of the space. A failed read is returned as ErrAvailabilityUnknown
// unless fail-open mode is configured.
func (s *BookingService) HasConflict(ctx context.Context, spaceID uuid.UUID, date, start, end string) (bool, error) {
	r, err := parseRange(date, start, end)
	if err != nil {
		return false, err
	}
	return s.conflicts(s.db.WithContext(ctx), spaceID, date, r, uuid.Nil)
}

func (s *BookingService) conflicts(tx *gorm.DB, spaceID uuid.UUID, date string, r hourRange, exclude uuid.UUID) (bool, error) {
	found, err := s.findConflict(tx, spaceID, date, r, exclude)
	return s.judge(found, err, spaceID, date)
}

// conflictsInTx runs the check inside an open transaction. In fail-open mode
// the read is wrapped in a savepoint so a failed SELECT does not poison the
// transaction on PostgreSQL.
func (s *BookingService) conflictsInTx(tx *gorm.DB, spaceID uuid.UUID, date string, r hourRange, exclude uuid.UUID) (bool, error) {
	if !s.failOpen {
		return s.conflicts(tx, spaceID, date, r, exclude)
	}
	if err := tx.SavePoint(conflictSavepoint).Error; err != nil {
		return false, fmt.Errorf("%w: %w", ErrAvailabilityUnknown, err)
	}
	found, err := s.findConflict(tx, spaceID, date, r, exclude)
	if err != nil {
		if rbErr := tx.RollbackTo(conflictSavepoint).Error; rbErr != nil {
			return false, fmt.Errorf("%w: %w", ErrAvailabilityUnknown, rbErr)
		}
	}
	return s.judge(found, err, spaceID, date)
}

func (s *BookingService) judge(found bool, err error, spaceID uuid.UUID, date string) (bool, error) {
	if err != nil {
		if s.failOpen {
			metrics.ConflictCheck("fail_open")
			slog.Warn("conflict check failed, allowing booking (fail-open)",
				"space_id", spaceID.String(), "date", date, "error", err)
			return false, nil
		}
		metrics.ConflictCheck("error")
		return false, fmt.Errorf("%w: %w", ErrAvailabilityUnknown, err)
	}
	if found {
		metrics.ConflictCheck("conflict")
	} else {
		metrics.ConflictCheck("clear")
	}
	return found, nil
}

func (s *BookingService) findConflict(tx *gorm.DB, spaceID uuid.UUID, date string, r hourRange, exclude uuid.UUID) (bool, error) {
	q := tx.Model(&models.Booking{}).
		Select("id", "start_time", "end_time").
		Where("space_id = ? AND booking_date = ? AND status = ?", spaceID, date, models.BookingConfirmed)
	if exclude != uuid.Nil {
		q = q.Where("id <> ?", exclude)
	}
	if database.IsPostgres(tx) {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var existing []models.Booking
	if err := q.Find(&existing).Error; err != nil {
		return false, err
	}
	for _, b := range existing {
		exStart, err1 := ParseHour(b.StartTime)
		exEnd, err2 := ParseHour(b.EndTime)
		if err1 != nil || err2 != nil {
			// An unreadable row cannot be proven disjoint.
			slog.Warn("malformed booking times", "booking_id", b.ID.String(),
				"start_time", b.StartTime, "end_time", b.EndTime)
			return true, nil
		}
		if Overlaps(r.start, r.end, exStart, exEnd) {
			return true, nil
		}
	}
	return false, nil
}

// lockSlot serialises writers for one (space, date) until the transaction ends.
func lockSlot(tx *gorm.DB, spaceID uuid.UUID, date string) error {
	if !database.IsPostgres(tx) {
		return nil
	}
	return tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", spaceID.String()+"|"+date).Error
}

// Create books a space. The conflict check and the insert share one
// transaction serialised per (space, date).
func (s *BookingService) Create(ctx context.Context, userID uuid.UUID, req *dto.CreateBookingRequest) (*models.Booking, error) {
	end := req.EndTime
	if end == "" && req.DurationHours > 0 {
		if h, err := ParseHour(req.StartTime); err == nil {
			end = FormatHour(h + req.DurationHours)
		}
	}
	r, err := parseRange(req.BookingDate, req.StartTime, end)
	if err != nil {
		metrics.BookingOutcome("invalid")
		return nil, err
	}
	if req.BookingDate < s.now().Format(dateLayout) {
		metrics.BookingOutcome("invalid")
		return nil, ErrBookingInPast
	}

	space, err := s.catalog.GetSpace(ctx, req.SpaceID)
	if err != nil {
		metrics.BookingOutcome("invalid")
		return nil, err
	}
	if !space.Available {
		metrics.BookingOutcome("unavailable")
		return nil, ErrSpaceUnavailable
	}

	booking := &models.Booking{
		UserID:      userID,
		SpaceID:     space.ID,
		SpaceName:   space.Name,
		BookingDate: req.BookingDate,
		StartTime:   FormatHour(r.start),
		EndTime:     FormatHour(r.end),
		Status:      models.BookingConfirmed,
		CreditsUsed: r.end - r.start,
		Notes:       req.Notes,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockSlot(tx, space.ID, req.BookingDate); err != nil {
			return fmt.Errorf("%w: %w", ErrAvailabilityUnknown, err)
		}
		conflict, err := s.conflictsInTx(tx, space.ID, req.BookingDate, r, uuid.Nil)
		if err != nil {
			return err
		}
		if conflict {
			return ErrBookingConflict
		}
		return tx.Create(booking).Error
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingConflict):
			metrics.BookingOutcome("conflict")
		case errors.Is(err, ErrAvailabilityUnknown):
			metrics.BookingOutcome("unverified")
		default:
			metrics.BookingOutcome("error")
			return nil, fmt.Errorf("create booking: %w", err)
		}
		return nil, err
	}

	metrics.BookingOutcome("created")
	s.publish(ctx, events.BookingCreated, booking)
	s.notify(ctx, booking.UserID, "Booking Confirmed",
		fmt.Sprintf("Your booking for %s on %s at %s is confirmed.", booking.SpaceName, booking.BookingDate, booking.StartTime))
	return booking, nil
}

// ListForSpaceDate returns the confirmed bookings of a space on one date,
// ordered by start time.
func (s *BookingService) ListForSpaceDate(ctx context.Context, spaceID uuid.UUID, date string) ([]models.Booking, error) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, ErrInvalidBookingDate
	}
	var bookings []models.Booking
	err := s.db.WithContext(ctx).
		Where("space_id = ? AND booking_date = ? AND status = ?", spaceID, date, models.BookingConfirmed).
		Order("start_time ASC").
		Find(&bookings).Error
	return bookings, err
}

// BookedSlots lists the taken hour ranges for the slot picker.
func (s *BookingService) BookedSlots(ctx context.Context, spaceID uuid.UUID, date string) (*dto.BookedSlotsResponse, error) {
	bookings, err := s.ListForSpaceDate(ctx, spaceID, date)
	if err != nil {
		return nil, err
	}
	resp := &dto.BookedSlotsResponse{SpaceID: spaceID, BookingDate: date, Slots: make([]dto.TimeSlot, 0, len(bookings))}
	for _, b := range bookings {
		resp.Slots = append(resp.Slots, dto.TimeSlot{StartTime: b.StartTime, EndTime: b.EndTime})
	}
	return resp, nil
}

// ListForUser splits the member's bookings into upcoming (today onward and
// still active) and past.
func (s *BookingService) ListForUser(ctx context.Context, userID uuid.UUID) (*dto.BookingListResponse, error) {
	var bookings []models.Booking
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("booking_date ASC, start_time ASC").
		Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	today := s.now().Format(dateLayout)
	resp := &dto.BookingListResponse{Upcoming: []models.Booking{}, Past: []models.Booking{}}
	for _, b := range bookings {
		active := b.Status == models.BookingConfirmed || b.Status == models.BookingPending
		if active && b.BookingDate >= today {
			resp.Upcoming = append(resp.Upcoming, b)
		} else {
			resp.Past = append([]models.Booking{b}, resp.Past...)
		}
	}
	return resp, nil
}

// Cancel cancels one of the member's own confirmed or pending bookings.
func (s *BookingService) Cancel(ctx context.Context, userID, bookingID uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", bookingID, userID).First(&booking).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if booking.Status != models.BookingConfirmed && booking.Status != models.BookingPending {
		return nil, ErrBookingNotCancelable
	}

	if err := s.db.WithContext(ctx).Model(&booking).Update("status", models.BookingCancelled).Error; err != nil {
		return nil, fmt.Errorf("cancel booking: %w", err)
	}
	booking.Status = models.BookingCancelled
	s.publish(ctx, events.BookingCancelled, &booking)
	return &booking, nil
}

// ListAll is the admin view of every booking, optionally filtered by status.
func (s *BookingService) ListAll(ctx context.Context, status string) ([]models.Booking, error) {
	q := s.db.WithContext(ctx).Order("booking_date DESC, start_time DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var bookings []models.Booking
	return bookings, q.Find(&bookings).Error
}

// SetStatus applies an admin status override. Moving a booking to confirmed
// re-runs the conflict check against the other confirmed bookings.
func (s *BookingService) SetStatus(ctx context.Context, bookingID uuid.UUID, status string) (*models.Booking, error) {
	switch status {
	case models.BookingPending, models.BookingConfirmed, models.BookingCancelled, models.BookingCompleted:
	default:
		return nil, ErrInvalidBookingStatus
	}

	var booking models.Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&booking, "id = ?", bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		if booking.Status == status {
			return nil
		}
		if status == models.BookingConfirmed {
			r, err := parseRange(booking.BookingDate, booking.StartTime, booking.EndTime)
			if err != nil {
				return err
			}
			if err := lockSlot(tx, booking.SpaceID, booking.BookingDate); err != nil {
				return fmt.Errorf("%w: %w", ErrAvailabilityUnknown, err)
			}
			conflict, err := s.conflictsInTx(tx, booking.SpaceID, booking.BookingDate, r, booking.ID)
			if err != nil {
				return err
			}
			if conflict {
				return ErrBookingConflict
			}
		}
		if err := tx.Model(&booking).Update("status", status).Error; err != nil {
			return err
		}
		booking.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}

	switch status {
	case models.BookingConfirmed:
		s.publish(ctx, events.BookingConfirmed, &booking)
	case models.BookingCancelled:
		s.publish(ctx, events.BookingCancelled, &booking)
	}
	return &booking, nil
}

func (s *BookingService) Delete(ctx context.Context, bookingID uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&models.Booking{}, "id = ?", bookingID)
	if result.Error != nil {
		return fmt.Errorf("delete booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func (s *BookingService) publish(ctx context.Context, key string, b *models.Booking) {
	events.Emit(ctx, s.events, key, events.BookingEvent{
		BookingID:   b.ID,
		UserID:      b.UserID,
		SpaceID:     b.SpaceID,
		BookingDate: b.BookingDate,
		StartTime:   b.StartTime,
		EndTime:     b.EndTime,
		Status:      b.Status,
		OccurredAt:  s.now().UTC(),
	})
}

func (s *BookingService) notify(ctx context.Context, userID uuid.UUID, title, message string) {
	if s.notifications == nil {
		return
	}
	n := &models.Notification{
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      models.NotificationBooking,
		ActionURL: "/bookings",
	}
	if err := s.notifications.Notify(ctx, n); err != nil {
		slog.Error("booking notification failed", "user_id", userID.String(), "error", err)
	}
}
