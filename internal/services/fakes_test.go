package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"societyattendance/internal/domain"
)

// fakeUserRepo implements domain.UserRepository for tests.
type fakeUserRepo struct {
	byID      map[string]*domain.User
	byEmail   map[string]*domain.User
	rolls     map[string]bool
	nextID    int
	created   []*domain.User
	deleted   []string
	createErr error
	getErr    error
	updateErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]*domain.User),
		rolls:   make(map[string]bool),
	}
}

func (f *fakeUserRepo) add(u *domain.User) *domain.User {
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
	if u.Roll != "" {
		f.rolls[u.Roll] = true
	}
	return u
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	u.ID = fmt.Sprintf("user-%d", f.nextID)
	f.add(u)
	f.created = append(f.created, u)
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) ExistsByAnyEmail(ctx context.Context, email string) (bool, error) {
	_, ok := f.byEmail[email]
	return ok, nil
}

func (f *fakeUserRepo) ExistsByRoll(ctx context.Context, roll string) (bool, error) {
	return f.rolls[roll], nil
}

func (f *fakeUserRepo) List(ctx context.Context, filter domain.UserFilter) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range f.byID {
		if filter.DomainID != nil && (u.DomainID == nil || *u.DomainID != *filter.DomainID) {
			continue
		}
		if filter.Role != nil && u.Role != *filter.Role {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUserRepo) ListByDomainID(ctx context.Context, domainID string, excludeSuperAdmins bool) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range f.byID {
		if u.DomainID == nil || *u.DomainID != domainID {
			continue
		}
		if excludeSuperAdmins && u.Role == domain.RoleSuperAdmin {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, u *domain.User) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.byID[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	f.add(u)
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id string) error {
	u, ok := f.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	delete(f.byID, id)
	delete(f.byEmail, u.Email)
	f.deleted = append(f.deleted, id)
	return nil
}

// fakeDomainRepo implements domain.DomainRepository for tests.
type fakeDomainRepo struct {
	byID      map[string]*domain.Domain
	owned     map[string][2]int // id -> {users, events}
	nextID    int
	deleted   []string
	createErr error
}

func newFakeDomainRepo() *fakeDomainRepo {
	return &fakeDomainRepo{
		byID:  make(map[string]*domain.Domain),
		owned: make(map[string][2]int),
	}
}

func (f *fakeDomainRepo) add(d *domain.Domain) *domain.Domain {
	f.byID[d.ID] = d
	return d
}

func (f *fakeDomainRepo) Create(ctx context.Context, d *domain.Domain) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.byID {
		if existing.Name == d.Name {
			return domain.ErrDuplicateDomain
		}
	}
	f.nextID++
	d.ID = fmt.Sprintf("domain-%d", f.nextID)
	f.add(d)
	return nil
}

func (f *fakeDomainRepo) GetByID(ctx context.Context, id string) (*domain.Domain, error) {
	if d, ok := f.byID[id]; ok {
		return d, nil
	}
	return nil, domain.ErrDomainNotFound
}

func (f *fakeDomainRepo) GetByName(ctx context.Context, name string) (*domain.Domain, error) {
	for _, d := range f.byID {
		if d.Name == name {
			return d, nil
		}
	}
	return nil, domain.ErrDomainNotFound
}

func (f *fakeDomainRepo) List(ctx context.Context) ([]*domain.Domain, error) {
	var out []*domain.Domain
	for _, d := range f.byID {
		out = append(out, d)
	}
	return out, nil
}

func (f *fakeDomainRepo) ListWithMemberCounts(ctx context.Context) ([]*domain.DomainSummary, error) {
	var out []*domain.DomainSummary
	for _, d := range f.byID {
		out = append(out, &domain.DomainSummary{ID: d.ID, Name: d.Name, CreatedAt: d.CreatedAt})
	}
	return out, nil
}

func (f *fakeDomainRepo) CountOwned(ctx context.Context, id string) (int, int, error) {
	counts := f.owned[id]
	return counts[0], counts[1], nil
}

func (f *fakeDomainRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrDomainNotFound
	}
	delete(f.byID, id)
	f.deleted = append(f.deleted, id)
	return nil
}

// fakeEventRepo implements domain.EventRepository for tests.
type fakeEventRepo struct {
	byID      map[string]*domain.Event
	nextID    int
	createErr error
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{byID: make(map[string]*domain.Event)}
}

func (f *fakeEventRepo) add(e *domain.Event) *domain.Event {
	f.byID[e.ID] = e
	return e
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	e.ID = fmt.Sprintf("event-%d", f.nextID)
	f.add(e)
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if e, ok := f.byID[id]; ok {
		copied := *e
		return &copied, nil
	}
	return nil, domain.ErrEventNotFound
}

func (f *fakeEventRepo) List(ctx context.Context, filter domain.EventFilter) ([]*domain.Event, error) {
	var out []*domain.Event
	for _, e := range f.byID {
		if filter.Status != nil && e.Status != *filter.Status {
			continue
		}
		if !filter.Unscoped && len(filter.DomainIDs) > 0 && !matchesDomain(e.DomainID, filter.DomainIDs) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func matchesDomain(domainID *string, wanted []*string) bool {
	for _, w := range wanted {
		if w == nil && domainID == nil {
			return true
		}
		if w != nil && domainID != nil && *w == *domainID {
			return true
		}
	}
	return false
}

func (f *fakeEventRepo) ListByDomainID(ctx context.Context, domainID string) ([]*domain.Event, error) {
	var out []*domain.Event
	for _, e := range f.byID {
		if e.DomainID != nil && *e.DomainID == domainID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) Update(ctx context.Context, e *domain.Event) error {
	if _, ok := f.byID[e.ID]; !ok {
		return domain.ErrEventNotFound
	}
	copied := *e
	f.byID[e.ID] = &copied
	return nil
}

func (f *fakeEventRepo) SetStatus(ctx context.Context, id string, status domain.EventStatus) (*domain.Event, error) {
	e, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	e.Status = status
	e.UpdatedAt = time.Now()
	copied := *e
	return &copied, nil
}

// fakeAttendanceRepo implements domain.AttendanceRepository for tests.
type fakeAttendanceRepo struct {
	byID      map[string]*domain.Attendance
	nextID    int
	upsertErr error
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{byID: make(map[string]*domain.Attendance)}
}

func (f *fakeAttendanceRepo) Upsert(ctx context.Context, a *domain.Attendance) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	for _, existing := range f.byID {
		if existing.EventID == a.EventID && existing.UserID == a.UserID {
			existing.Status = a.Status
			existing.MarkedByID = a.MarkedByID
			existing.UpdatedAt = time.Now()
			*a = *existing
			return nil
		}
	}
	f.nextID++
	a.ID = fmt.Sprintf("att-%d", f.nextID)
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	copied := *a
	f.byID[a.ID] = &copied
	return nil
}

func (f *fakeAttendanceRepo) GetByID(ctx context.Context, id string) (*domain.Attendance, error) {
	if a, ok := f.byID[id]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, domain.ErrAttendanceNotFound
}

func (f *fakeAttendanceRepo) List(ctx context.Context, filter domain.AttendanceFilter) ([]*domain.Attendance, error) {
	var out []*domain.Attendance
	for _, a := range f.byID {
		if filter.EventID != nil && a.EventID != *filter.EventID {
			continue
		}
		if filter.UserID != nil && a.UserID != *filter.UserID {
			continue
		}
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeAttendanceRepo) ListByEventID(ctx context.Context, eventID string) ([]*domain.Attendance, error) {
	var out []*domain.Attendance
	for _, a := range f.byID {
		if a.EventID == eventID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAttendanceRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.Attendance, error) {
	var out []*domain.Attendance
	for _, a := range f.byID {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAttendanceRepo) UpdateStatus(ctx context.Context, id string, status domain.AttendanceStatus, markedByID string) (*domain.Attendance, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrAttendanceNotFound
	}
	a.Status = status
	a.MarkedByID = markedByID
	a.UpdatedAt = time.Now()
	copied := *a
	return &copied, nil
}

func (f *fakeAttendanceRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrAttendanceNotFound
	}
	delete(f.byID, id)
	return nil
}

// fakeOtpRepo implements domain.OtpRepository for tests.
type fakeOtpRepo struct {
	rows   map[string]*domain.Otp
	nextID int
}

func newFakeOtpRepo() *fakeOtpRepo {
	return &fakeOtpRepo{rows: make(map[string]*domain.Otp)}
}

func (f *fakeOtpRepo) Create(ctx context.Context, o *domain.Otp) error {
	f.nextID++
	o.ID = fmt.Sprintf("otp-%d", f.nextID)
	o.CreatedAt = time.Now()
	copied := *o
	f.rows[o.ID] = &copied
	return nil
}

func (f *fakeOtpRepo) GetLatestUnverified(ctx context.Context, email, code string) (*domain.Otp, error) {
	var latest *domain.Otp
	for _, o := range f.rows {
		if o.Email != email || o.Code != code || o.Verified {
			continue
		}
		if latest == nil || o.CreatedAt.After(latest.CreatedAt) {
			latest = o
		}
	}
	if latest == nil {
		return nil, domain.ErrOtpInvalid
	}
	copied := *latest
	return &copied, nil
}

func (f *fakeOtpRepo) MarkVerified(ctx context.Context, id string) error {
	o, ok := f.rows[id]
	if !ok {
		return domain.ErrOtpInvalid
	}
	o.Verified = true
	return nil
}

func (f *fakeOtpRepo) HasVerified(ctx context.Context, email string) (bool, error) {
	for _, o := range f.rows {
		if o.Email == email && o.Verified {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeOtpRepo) HasRecent(ctx context.Context, email string, since time.Time) (bool, error) {
	for _, o := range f.rows {
		if o.Email == email && o.CreatedAt.After(since) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeOtpRepo) DeleteUnverified(ctx context.Context, email string) error {
	for id, o := range f.rows {
		if o.Email == email && !o.Verified {
			delete(f.rows, id)
		}
	}
	return nil
}

func (f *fakeOtpRepo) DeleteVerified(ctx context.Context, email string) error {
	for id, o := range f.rows {
		if o.Email == email && o.Verified {
			delete(f.rows, id)
		}
	}
	return nil
}

func (f *fakeOtpRepo) DeleteByID(ctx context.Context, id string) error {
	delete(f.rows, id)
	return nil
}

func (f *fakeOtpRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	for id, o := range f.rows {
		if now.After(o.ExpiresAt) {
			delete(f.rows, id)
			n++
		}
	}
	return n, nil
}

// fakeEmailService implements domain.EmailService for tests.
type fakeEmailService struct {
	otps     []*domain.OtpEmailData
	welcomes []*domain.WelcomeEmailData
	sendErr  error
}

func (f *fakeEmailService) SendOtp(ctx context.Context, data *domain.OtpEmailData) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.otps = append(f.otps, data)
	return nil
}

func (f *fakeEmailService) SendWelcome(ctx context.Context, data *domain.WelcomeEmailData) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.welcomes = append(f.welcomes, data)
	return nil
}

// fakeOtpService implements domain.OtpService for tests.
type fakeOtpService struct {
	verified map[string]bool
	consumed []string
}

func newFakeOtpService() *fakeOtpService {
	return &fakeOtpService{verified: make(map[string]bool)}
}

func (f *fakeOtpService) Send(ctx context.Context, email, name string) error   { return nil }
func (f *fakeOtpService) Resend(ctx context.Context, email, name string) error { return nil }
func (f *fakeOtpService) Verify(ctx context.Context, email, code string) error { return nil }

func (f *fakeOtpService) HasVerified(ctx context.Context, email string) (bool, error) {
	return f.verified[email], nil
}

func (f *fakeOtpService) Consume(ctx context.Context, email string) error {
	f.consumed = append(f.consumed, email)
	delete(f.verified, email)
	return nil
}

func (f *fakeOtpService) CleanupExpired(ctx context.Context) (int64, error) { return 0, nil }

// fakePasswordHasher implements domain.PasswordHasher for tests.
type fakePasswordHasher struct{}

func (f *fakePasswordHasher) GenerateSalt() (string, error) { return "salt", nil }
func (f *fakePasswordHasher) Hash(salt, password string) (string, error) {
	return "hash-" + password, nil
}
func (f *fakePasswordHasher) Compare(hash, salt, password string) error {
	if hash != "hash-"+password {
		return errors.New("mismatch")
	}
	return nil
}

// fakeTokenIssuer implements domain.TokenIssuer for tests.
type fakeTokenIssuer struct {
	err error
}

func (f *fakeTokenIssuer) Issue(userID string, expiry time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "token-" + userID, nil
}

func strPtr(s string) *string { return &s }

func member(id string, domainID *string) *domain.User {
	return &domain.User{ID: id, Name: "Member " + id, Role: domain.RoleMember, DomainID: domainID}
}

func admin(id string, domainID *string) *domain.User {
	return &domain.User{ID: id, Name: "Admin " + id, Role: domain.RoleAdmin, DomainID: domainID}
}

func superAdmin(id string) *domain.User {
	return &domain.User{ID: id, Name: "Super " + id, Role: domain.RoleSuperAdmin}
}
