package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glambook/glambook-api/internal/domain"
	"github.com/glambook/glambook-api/internal/service"
)

// ---------- Mocks ----------

type memApptRepo struct {
	existing  []domain.Appointment
	createErr error
	created   *domain.CreateAppointmentRequest
	byID      map[int64]*domain.Appointment
	nextID    int64
}

func newMemApptRepo() *memApptRepo {
	return &memApptRepo{byID: make(map[int64]*domain.Appointment), nextID: 100}
}

func (m *memApptRepo) Create(_ context.Context, req *domain.CreateAppointmentRequest, status domain.AppointmentStatus) (*domain.Appointment, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.created = req
	m.nextID++
	appt := &domain.Appointment{
		ID:           m.nextID,
		SpecialistID: req.SpecialistID,
		CustomerID:   req.CustomerID,
		ServiceID:    req.ServiceID,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Status:       status,
		CreatedAt:    time.Now().UTC(),
	}
	m.byID[appt.ID] = appt
	return appt, nil
}

func (m *memApptRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	return m.byID[id], nil
}

func (m *memApptRepo) ListBySpecialist(context.Context, int64, int, int) ([]domain.Appointment, error) {
	return nil, nil
}

func (m *memApptRepo) ListOverlapping(context.Context, int64, time.Time, time.Time) ([]domain.Appointment, error) {
	return m.existing, nil
}

func (m *memApptRepo) ListByCustomer(context.Context, int64, int, int, *domain.AppointmentStatus) ([]domain.Appointment, error) {
	return nil, nil
}

func (m *memApptRepo) UpdateStatus(_ context.Context, id int64, status domain.AppointmentStatus) (*domain.Appointment, error) {
	appt := m.byID[id]
	if appt == nil {
		return nil, nil
	}
	appt.Status = status
	return appt, nil
}

func (m *memApptRepo) Cancel(_ context.Context, id int64) (bool, error) {
	appt := m.byID[id]
	if appt == nil || appt.Status == domain.AppointmentCancelled {
		return false, nil
	}
	appt.Status = domain.AppointmentCancelled
	return true, nil
}

type memHoursRepo struct {
	windows []domain.BusinessHours
}

func (m *memHoursRepo) ListBySpecialist(context.Context, int64) ([]domain.BusinessHours, error) {
	return m.windows, nil
}

func (m *memHoursRepo) ReplaceAll(context.Context, int64, []domain.BusinessHours) error {
	return nil
}

type memUserRepo struct {
	users map[int64]*domain.User
}

func (m *memUserRepo) Create(context.Context, *domain.CreateUserRequest, string) (*domain.User, error) {
	return nil, nil
}
func (m *memUserRepo) FindByEmail(context.Context, string) (*domain.User, error) { return nil, nil }
func (m *memUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	return m.users[id], nil
}
func (m *memUserRepo) Update(context.Context, int64, *domain.UpdateUserRequest) (*domain.User, error) {
	return nil, nil
}
func (m *memUserRepo) Delete(context.Context, int64) (bool, error) { return false, nil }
func (m *memUserRepo) ListSpecialists(context.Context, string, string, int, int) ([]domain.User, error) {
	return nil, nil
}

type memServiceRepo struct {
	services map[int64]*domain.Service
}

func (m *memServiceRepo) Create(context.Context, int64, *domain.CreateServiceRequest) (*domain.Service, error) {
	return nil, nil
}
func (m *memServiceRepo) GetByID(_ context.Context, id int64) (*domain.Service, error) {
	return m.services[id], nil
}
func (m *memServiceRepo) ListBySpecialist(context.Context, int64) ([]domain.Service, error) {
	return nil, nil
}
func (m *memServiceRepo) Update(context.Context, int64, *domain.UpdateServiceRequest) (*domain.Service, error) {
	return nil, nil
}
func (m *memServiceRepo) Delete(context.Context, int64) (bool, error) { return false, nil }

type memIdemRepo struct {
	keys map[string]int64
}

func newMemIdemRepo() *memIdemRepo { return &memIdemRepo{keys: make(map[string]int64)} }

func (m *memIdemRepo) Lookup(_ context.Context, key string) (int64, bool, error) {
	id, ok := m.keys[key]
	return id, ok, nil
}

func (m *memIdemRepo) Remember(_ context.Context, key string, appointmentID int64) error {
	m.keys[key] = appointmentID
	return nil
}

type memBus struct {
	published []string
}

func (m *memBus) Publish(_ context.Context, subject string, _ interface{}) error {
	m.published = append(m.published, subject)
	return nil
}

func (m *memBus) Close() error { return nil }

type memMailer struct {
	confirmations int
	cancellations int
	lastTo        string
}

func (m *memMailer) SendBookingConfirmation(toEmail, _ string, _ *domain.Appointment) error {
	m.confirmations++
	m.lastTo = toEmail
	return nil
}

func (m *memMailer) SendCancellationNotice(toEmail, _ string, _ *domain.Appointment) error {
	m.cancellations++
	m.lastTo = toEmail
	return nil
}

// ---------- Fixture ----------

type fixture struct {
	svc   *service.BookingService
	appts *memApptRepo
	bus   *memBus
	mail  *memMailer
	idem  *memIdemRepo
}

// newFixture sets up a specialist (id 7) open Mon-Fri 09:00-17:00 UTC and a
// customer (id 3).
func newFixture() *fixture {
	appts := newMemApptRepo()
	idem := newMemIdemRepo()
	bus := &memBus{}
	mail := &memMailer{}

	var windows []domain.BusinessHours
	for wd := 1; wd <= 5; wd++ {
		windows = append(windows, domain.BusinessHours{
			SpecialistID: 7, Weekday: wd, OpenMinute: 9 * 60, CloseMinute: 17 * 60,
		})
	}

	users := &memUserRepo{users: map[int64]*domain.User{
		3: {ID: 3, Role: domain.RoleCustomer, Email: "kim@test.local", Name: "Kim"},
		7: {ID: 7, Role: domain.RoleSpecialist, Email: "ana@test.local", Name: "Ana"},
	}}
	services := &memServiceRepo{services: map[int64]*domain.Service{
		20: {ID: 20, SpecialistID: 7, Name: "Cut", DurationMin: 45, PriceCents: 5000, Currency: "usd"},
	}}

	svc := service.NewBookingService(appts, &memHoursRepo{windows: windows}, users, services, idem, bus, mail)
	return &fixture{svc: svc, appts: appts, bus: bus, mail: mail, idem: idem}
}

// nextWeekday returns the next future occurrence of the weekday at the given
// UTC minute of day, at least 48h out so the cancel cutoff never interferes.
func nextWeekday(weekday time.Weekday, hour, min int) time.Time {
	t := time.Now().UTC().AddDate(0, 0, 2)
	for t.Weekday() != weekday {
		t = t.AddDate(0, 0, 1)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), hour, min, 0, 0, time.UTC)
}

func bookReq(start, end time.Time) *domain.CreateAppointmentRequest {
	return &domain.CreateAppointmentRequest{
		SpecialistID: 7,
		CustomerID:   3,
		StartTime:    start,
		EndTime:      end,
	}
}

// ---------- Book ----------

func TestBook_Success(t *testing.T) {
	f := newFixture()
	start := nextWeekday(time.Tuesday, 10, 0)

	appt, err := f.svc.Book(context.Background(), bookReq(start, start.Add(time.Hour)), "")
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	if appt.Status != domain.AppointmentBooked {
		t.Errorf("status = %q, want booked", appt.Status)
	}
	if got := f.bus.published; len(got) != 2 || got[0] != "appointment.created" || got[1] != "notify.send" {
		t.Errorf("published = %v, want [appointment.created notify.send]", got)
	}
	if f.mail.confirmations != 1 || f.mail.lastTo != "kim@test.local" {
		t.Errorf("confirmation mail not sent to customer: %+v", f.mail)
	}
}

func TestBook_OutsideBusinessHours(t *testing.T) {
	f := newFixture()
	start := nextWeekday(time.Tuesday, 8, 0) // before open

	_, err := f.svc.Book(context.Background(), bookReq(start, start.Add(time.Hour)), "")
	if !errors.Is(err, domain.ErrOutsideBusinessHours) {
		t.Fatalf("err = %v, want ErrOutsideBusinessHours", err)
	}
	if f.appts.created != nil {
		t.Error("insert attempted despite hours rejection")
	}
}

func TestBook_OverlapConflict(t *testing.T) {
	f := newFixture()
	start := nextWeekday(time.Tuesday, 10, 0)
	f.appts.existing = []domain.Appointment{{
		ID: 1, SpecialistID: 7,
		StartTime: start.Add(-30 * time.Minute),
		EndTime:   start.Add(30 * time.Minute),
		Status:    domain.AppointmentBooked,
	}}

	_, err := f.svc.Book(context.Background(), bookReq(start, start.Add(time.Hour)), "")
	if !errors.Is(err, domain.ErrSlotConflict) {
		t.Fatalf("err = %v, want ErrSlotConflict", err)
	}
}

func TestBook_RaceLossSurfacesSlotTaken(t *testing.T) {
	f := newFixture()
	f.appts.createErr = domain.ErrSlotTaken
	start := nextWeekday(time.Tuesday, 10, 0)

	_, err := f.svc.Book(context.Background(), bookReq(start, start.Add(time.Hour)), "")
	if !errors.Is(err, domain.ErrSlotTaken) {
		t.Fatalf("err = %v, want ErrSlotTaken", err)
	}
	if len(f.bus.published) != 0 {
		t.Errorf("events published on failed booking: %v", f.bus.published)
	}
	if f.mail.confirmations != 0 {
		t.Error("mail sent on failed booking")
	}
}

func TestBook_IdempotentReplayReturnsOriginal(t *testing.T) {
	f := newFixture()
	start := nextWeekday(time.Tuesday, 10, 0)

	first, err := f.svc.Book(context.Background(), bookReq(start, start.Add(time.Hour)), "key-1")
	if err != nil {
		t.Fatalf("first Book: %v", err)
	}

	// Same key again, even with a now-conflicting slot, replays the row.
	f.appts.existing = []domain.Appointment{*first}
	second, err := f.svc.Book(context.Background(), bookReq(start, start.Add(time.Hour)), "key-1")
	if err != nil {
		t.Fatalf("replay Book: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("replay returned id %d, want %d", second.ID, first.ID)
	}
	if f.mail.confirmations != 1 {
		t.Errorf("confirmations = %d, want 1 (no resend on replay)", f.mail.confirmations)
	}
}

func TestBook_KeyScopedPerCustomer(t *testing.T) {
	f := newFixture()
	start := nextWeekday(time.Tuesday, 10, 0)

	first, err := f.svc.Book(context.Background(), bookReq(start, start.Add(time.Hour)), "retry-1")
	if err != nil {
		t.Fatalf("first Book: %v", err)
	}

	// A different customer reusing the same key books fresh instead of
	// receiving the first customer's record.
	req := bookReq(start.Add(2*time.Hour), start.Add(3*time.Hour))
	req.CustomerID = 4
	second, err := f.svc.Book(context.Background(), req, "retry-1")
	if err != nil {
		t.Fatalf("second Book: %v", err)
	}
	if second.ID == first.ID {
		t.Fatalf("key replayed customer %d's appointment to customer 4", first.CustomerID)
	}
	if second.CustomerID != 4 {
		t.Errorf("customer_id = %d, want 4", second.CustomerID)
	}
}

func TestBook_DerivesEndFromServiceDuration(t *testing.T) {
	f := newFixture()
	start := nextWeekday(time.Tuesday, 10, 0)
	serviceID := int64(20)

	req := bookReq(start, time.Time{})
	req.ServiceID = &serviceID

	appt, err := f.svc.Book(context.Background(), req, "")
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	want := start.Add(45 * time.Minute)
	if !appt.EndTime.Equal(want) {
		t.Errorf("end = %v, want %v", appt.EndTime, want)
	}
}

func TestBook_ForeignServiceRejected(t *testing.T) {
	f := newFixture()
	start := nextWeekday(time.Tuesday, 10, 0)
	serviceID := int64(20)

	req := bookReq(start, start.Add(time.Hour))
	req.ServiceID = &serviceID
	req.SpecialistID = 3 // service 20 belongs to specialist 7

	_, err := f.svc.Book(context.Background(), req, "")
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}

func TestBook_UnknownSpecialist(t *testing.T) {
	f := newFixture()
	start := nextWeekday(time.Tuesday, 10, 0)

	req := bookReq(start, start.Add(time.Hour))
	req.SpecialistID = 999

	_, err := f.svc.Book(context.Background(), req, "")
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}

// ---------- Cancel ----------

func TestCancel_CustomerBeforeCutoff(t *testing.T) {
	f := newFixture()
	start := nextWeekday(time.Tuesday, 10, 0)
	appt, err := f.svc.Book(context.Background(), bookReq(start, start.Add(time.Hour)), "")
	if err != nil {
		t.Fatalf("Book: %v", err)
	}

	cancelled, err := f.svc.Cancel(context.Background(), appt.ID, 3, domain.RoleCustomer)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if cancelled.Status != domain.AppointmentCancelled {
		t.Errorf("status = %q, want cancelled", cancelled.Status)
	}
	if f.mail.cancellations != 1 {
		t.Errorf("cancellations = %d, want 1", f.mail.cancellations)
	}
	got := f.bus.published
	if len(got) < 2 || got[len(got)-2] != "appointment.canceled" || got[len(got)-1] != "notify.send" {
		t.Errorf("published = %v, want ... appointment.canceled notify.send", got)
	}
}

func TestCancel_CustomerInsideCutoff(t *testing.T) {
	f := newFixture()
	soon := time.Now().UTC().Add(2 * time.Hour)
	f.appts.byID[50] = &domain.Appointment{
		ID: 50, SpecialistID: 7, CustomerID: 3,
		StartTime: soon, EndTime: soon.Add(time.Hour),
		Status: domain.AppointmentBooked,
	}

	_, err := f.svc.Cancel(context.Background(), 50, 3, domain.RoleCustomer)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError (cutoff)", err)
	}
}

func TestCancel_SpecialistIgnoresCutoff(t *testing.T) {
	f := newFixture()
	soon := time.Now().UTC().Add(2 * time.Hour)
	f.appts.byID[50] = &domain.Appointment{
		ID: 50, SpecialistID: 7, CustomerID: 3,
		StartTime: soon, EndTime: soon.Add(time.Hour),
		Status: domain.AppointmentBooked,
	}

	cancelled, err := f.svc.Cancel(context.Background(), 50, 7, domain.RoleSpecialist)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if cancelled.Status != domain.AppointmentCancelled {
		t.Errorf("status = %q, want cancelled", cancelled.Status)
	}
}

func TestCancel_StrangerSeesNotFound(t *testing.T) {
	f := newFixture()
	start := nextWeekday(time.Tuesday, 10, 0)
	appt, err := f.svc.Book(context.Background(), bookReq(start, start.Add(time.Hour)), "")
	if err != nil {
		t.Fatalf("Book: %v", err)
	}

	_, err = f.svc.Cancel(context.Background(), appt.ID, 99, domain.RoleCustomer)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

// ---------- Status transitions ----------

func TestUpdateStatus_ForwardEdgeAllowed(t *testing.T) {
	f := newFixture()
	start := nextWeekday(time.Tuesday, 10, 0)
	appt, err := f.svc.Book(context.Background(), bookReq(start, start.Add(time.Hour)), "")
	if err != nil {
		t.Fatalf("Book: %v", err)
	}

	updated, err := f.svc.UpdateStatus(context.Background(), appt.ID, 7, domain.RoleSpecialist, domain.AppointmentConfirmed)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if updated.Status != domain.AppointmentConfirmed {
		t.Errorf("status = %q, want confirmed", updated.Status)
	}
}

func TestUpdateStatus_TerminalStateFrozen(t *testing.T) {
	f := newFixture()
	f.appts.byID[60] = &domain.Appointment{
		ID: 60, SpecialistID: 7, CustomerID: 3,
		Status: domain.AppointmentCompleted,
	}

	_, err := f.svc.UpdateStatus(context.Background(), 60, 7, domain.RoleSpecialist, domain.AppointmentConfirmed)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}
