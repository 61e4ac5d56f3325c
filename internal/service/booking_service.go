package service

import (
	"context"
	"strconv"
	"time"

	"github.com/glambook/glambook-api/internal/availability"
	"github.com/glambook/glambook-api/internal/domain"
	"github.com/glambook/glambook-api/internal/platform/mailer"
	"github.com/glambook/glambook-api/internal/repo/postgres"
	"github.com/glambook/glambook-api/pkg/events"
	"github.com/glambook/glambook-api/pkg/logger"
)

// BookingService coordinates the booking path: availability check against
// business hours and live appointments, idempotent replay, the constrained
// insert, and the non-fatal side effects (events, mail).
type BookingService struct {
	appts    postgres.AppointmentRepository
	hours    postgres.HoursRepository
	users    postgres.UserRepository
	services postgres.ServiceRepository
	idem     postgres.IdempotencyRepository
	bus      events.Publisher
	mail     mailer.Mailer
}

func NewBookingService(
	appts postgres.AppointmentRepository,
	hours postgres.HoursRepository,
	users postgres.UserRepository,
	services postgres.ServiceRepository,
	idem postgres.IdempotencyRepository,
	bus events.Publisher,
	mail mailer.Mailer,
) *BookingService {
	return &BookingService{
		appts:    appts,
		hours:    hours,
		users:    users,
		services: services,
		idem:     idem,
		bus:      bus,
		mail:     mail,
	}
}

// Book runs the full booking flow. Returned errors are either
// *domain.ValidationError, one of the domain sentinels
// (ErrOutsideBusinessHours, ErrSlotConflict, ErrSlotTaken), or a storage
// error; the handler maps each to its status code.
//
// The availability check here is advisory: it produces the friendly
// rejections. The guarantee against double booking is the exclusion
// constraint the insert runs into, surfaced as ErrSlotTaken.
func (s *BookingService) Book(ctx context.Context, req *domain.CreateAppointmentRequest, idemKey string) (*domain.Appointment, error) {
	req.Normalize()

	if idemKey != "" {
		idemKey = scopeIdemKey(req.CustomerID, idemKey)
		id, ok, err := s.idem.Lookup(ctx, idemKey)
		if err != nil {
			return nil, err
		}
		if ok {
			appt, err := s.appts.GetByID(ctx, id)
			if err != nil {
				return nil, err
			}
			if appt != nil && appt.CustomerID == req.CustomerID {
				return appt, nil
			}
		}
	}

	// A service_id without an explicit end derives the end from the
	// service duration.
	if req.ServiceID != nil {
		svc, err := s.services.GetByID(ctx, *req.ServiceID)
		if err != nil {
			return nil, err
		}
		if svc == nil {
			return nil, domain.Invalid("service not found")
		}
		if svc.SpecialistID != req.SpecialistID {
			return nil, domain.Invalid("service does not belong to this specialist")
		}
		if req.EndTime.IsZero() {
			req.EndTime = req.StartTime.Add(time.Duration(svc.DurationMin) * time.Minute)
		}
	}

	if err := req.Validate(); err != nil {
		return nil, domain.Invalid(err.Error())
	}

	specialist, err := s.users.FindByID(ctx, req.SpecialistID)
	if err != nil {
		return nil, err
	}
	if specialist == nil || specialist.Role != domain.RoleSpecialist {
		return nil, domain.Invalid("specialist not found")
	}

	windows, err := s.hours.ListBySpecialist(ctx, req.SpecialistID)
	if err != nil {
		return nil, err
	}
	existing, err := s.appts.ListOverlapping(ctx, req.SpecialistID, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	if err := availability.Check(windows, existing, req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	appt, err := s.appts.Create(ctx, req, domain.AppointmentBooked)
	if err != nil {
		return nil, err
	}

	if idemKey != "" {
		if err := s.idem.Remember(ctx, idemKey, appt.ID); err != nil {
			logger.ErrorContext(ctx, "failed to record idempotency key", "error", err, "appointment_id", appt.ID)
		}
	}

	s.publishCreated(ctx, appt)
	s.sendConfirmation(ctx, appt)

	return appt, nil
}

// Cancel applies the actor's cancellation rules and flips the row.
// Customers are bound by the cutoff; specialists and admins are not.
func (s *BookingService) Cancel(ctx context.Context, id int64, actorID int64, role string) (*domain.Appointment, error) {
	appt, err := s.appts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt == nil {
		return nil, domain.ErrNotFound
	}

	switch role {
	case domain.RoleAdmin:
	case domain.RoleSpecialist:
		if appt.SpecialistID != actorID {
			return nil, domain.ErrNotFound
		}
	default:
		if appt.CustomerID != actorID {
			return nil, domain.ErrNotFound
		}
		if !appt.CanCancel() {
			return nil, domain.Invalid("appointments can only be cancelled more than 24 hours before the start time")
		}
	}
	if appt.IsTerminal() {
		return nil, domain.Invalid("appointment is already finished or cancelled")
	}

	ok, err := s.appts.Cancel(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrNotFound
	}

	appt.Status = domain.AppointmentCancelled
	s.publishCanceled(ctx, appt)
	s.sendCancellation(ctx, appt)
	return appt, nil
}

// UpdateStatus moves the appointment along its lifecycle. Only the owning
// specialist or an admin may change status; allowed edges come from
// CanTransitionTo.
func (s *BookingService) UpdateStatus(ctx context.Context, id int64, actorID int64, role string, next domain.AppointmentStatus) (*domain.Appointment, error) {
	appt, err := s.appts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt == nil {
		return nil, domain.ErrNotFound
	}
	if role != domain.RoleAdmin && (role != domain.RoleSpecialist || appt.SpecialistID != actorID) {
		return nil, domain.ErrNotFound
	}
	if !appt.CanTransitionTo(next) {
		return nil, domain.Invalid("cannot change status from " + string(appt.Status) + " to " + string(next))
	}

	updated, err := s.appts.UpdateStatus(ctx, id, next)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, domain.ErrNotFound
	}

	if err := s.bus.Publish(ctx, events.AppointmentUpdated, events.AppointmentUpdatedEvent{
		AppointmentID: updated.ID,
		SpecialistID:  updated.SpecialistID,
		CustomerID:    updated.CustomerID,
		Status:        string(updated.Status),
		UpdatedAt:     updated.UpdatedAt,
	}); err != nil {
		logger.ErrorContext(ctx, "failed to publish appointment.updated", "error", err, "appointment_id", updated.ID)
	}
	return updated, nil
}

// scopeIdemKey namespaces the client-supplied key by customer so one
// customer's retry key can never replay another customer's booking.
func scopeIdemKey(customerID int64, key string) string {
	return strconv.FormatInt(customerID, 10) + ":" + key
}

func (s *BookingService) publishCreated(ctx context.Context, appt *domain.Appointment) {
	err := s.bus.Publish(ctx, events.AppointmentCreated, events.AppointmentCreatedEvent{
		AppointmentID: appt.ID,
		SpecialistID:  appt.SpecialistID,
		CustomerID:    appt.CustomerID,
		ServiceID:     appt.ServiceID,
		StartTime:     appt.StartTime,
		EndTime:       appt.EndTime,
		Status:        string(appt.Status),
		CreatedAt:     appt.CreatedAt,
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to publish appointment.created", "error", err, "appointment_id", appt.ID)
	}
}

func (s *BookingService) publishCanceled(ctx context.Context, appt *domain.Appointment) {
	err := s.bus.Publish(ctx, events.AppointmentCanceled, events.AppointmentCanceledEvent{
		AppointmentID: appt.ID,
		SpecialistID:  appt.SpecialistID,
		CustomerID:    appt.CustomerID,
		CanceledAt:    time.Now().UTC(),
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to publish appointment.canceled", "error", err, "appointment_id", appt.ID)
	}
}

func (s *BookingService) sendConfirmation(ctx context.Context, appt *domain.Appointment) {
	customer, err := s.users.FindByID(ctx, appt.CustomerID)
	if err != nil || customer == nil {
		return
	}
	if err := s.mail.SendBookingConfirmation(customer.Email, customer.Name, appt); err != nil {
		logger.ErrorContext(ctx, "failed to send booking confirmation", "error", err, "appointment_id", appt.ID)
	}
	s.publishNotify(ctx, "booking_confirmation", "Your appointment is booked", customer, appt)
}

func (s *BookingService) sendCancellation(ctx context.Context, appt *domain.Appointment) {
	customer, err := s.users.FindByID(ctx, appt.CustomerID)
	if err != nil || customer == nil {
		return
	}
	if err := s.mail.SendCancellationNotice(customer.Email, customer.Name, appt); err != nil {
		logger.ErrorContext(ctx, "failed to send cancellation notice", "error", err, "appointment_id", appt.ID)
	}
	s.publishNotify(ctx, "booking_cancellation", "Your appointment was cancelled", customer, appt)
}

// publishNotify feeds the notification worker queue. Like the direct mail
// send, a publish failure never fails the booking operation itself.
func (s *BookingService) publishNotify(ctx context.Context, kind, subject string, customer *domain.User, appt *domain.Appointment) {
	err := s.bus.Publish(ctx, events.NotifySend, events.NotificationEvent{
		Type:      kind,
		Recipient: customer.Email,
		Subject:   subject,
		Data: map[string]interface{}{
			"appointment_id": appt.ID,
			"specialist_id":  appt.SpecialistID,
			"start_time":     appt.StartTime,
			"end_time":       appt.EndTime,
		},
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to publish notify.send", "error", err, "appointment_id", appt.ID)
	}
}
