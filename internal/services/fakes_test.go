package services

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/GregMSThompson/dadhelper-backend/internal/errs"
	"github.com/GregMSThompson/dadhelper-backend/internal/models"
)

// --- Fakes ---

type fakeUserStore struct {
	users     map[string]*models.User
	createErr error
	getErr    error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*models.User)}
}

func (f *fakeUserStore) CreateUser(_ context.Context, u *models.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.users[u.UID]; ok {
		return errs.NewAlreadyExistsError("user already registered")
	}
	now := time.Now()
	u.CreatedAt, u.UpdatedAt = now, now
	cp := *u
	f.users[u.UID] = &cp
	return nil
}

func (f *fakeUserStore) GetUser(_ context.Context, uid string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.users[uid]
	if !ok {
		return nil, errs.NewNotFoundError("user not found")
	}
	cp := *u
	return &cp, nil
}

type fakeDadStore struct {
	dads        map[string]*models.Dad
	createErr   error
	setPhotoErr error
	setCalls    int
	listErr     error
}

func newFakeDadStore() *fakeDadStore {
	return &fakeDadStore{dads: make(map[string]*models.Dad)}
}

func (f *fakeDadStore) CreateDad(_ context.Context, d *models.Dad) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.dads[d.UID]; ok {
		return errs.NewAlreadyExistsError("dad profile already exists")
	}
	cp := *d
	cp.CreatedAt = time.Now()
	f.dads[d.UID] = &cp
	return nil
}

func (f *fakeDadStore) GetDad(_ context.Context, uid string) (*models.Dad, error) {
	d, ok := f.dads[uid]
	if !ok {
		return nil, errs.NewNotFoundError("dad not found")
	}
	cp := *d
	return &cp, nil
}

func (f *fakeDadStore) ListDads(_ context.Context) ([]*models.Dad, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*models.Dad, 0, len(f.dads))
	for _, d := range f.dads {
		cp := *d
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeDadStore) UpdateProfile(_ context.Context, uid string, displayName, bio *string) error {
	d, ok := f.dads[uid]
	if !ok {
		return errs.NewNotFoundError("dad not found")
	}
	if displayName != nil {
		d.DisplayName = *displayName
	}
	if bio != nil {
		d.Bio = *bio
	}
	return nil
}

func (f *fakeDadStore) SetStatus(_ context.Context, uid, status string) error {
	d, ok := f.dads[uid]
	if !ok {
		return errs.NewNotFoundError("dad not found")
	}
	f.setCalls++
	d.Status = status
	return nil
}

func (f *fakeDadStore) SetPhoto(_ context.Context, uid, url, path string) error {
	if f.setPhotoErr != nil {
		return f.setPhotoErr
	}
	d, ok := f.dads[uid]
	if !ok {
		return errs.NewNotFoundError("dad not found")
	}
	d.PhotoURL, d.PhotoPath = url, path
	return nil
}

type fakeBookingStore struct {
	bookings  map[string]*models.Booking
	createErr error
	setCalls  int
}

func newFakeBookingStore() *fakeBookingStore {
	return &fakeBookingStore{bookings: make(map[string]*models.Booking)}
}

func (f *fakeBookingStore) add(b *models.Booking) {
	cp := *b
	f.bookings[b.BookingID] = &cp
}

func (f *fakeBookingStore) CreateBooking(_ context.Context, b *models.Booking) error {
	if f.createErr != nil {
		return f.createErr
	}
	b.CreatedAt = time.Now()
	f.add(b)
	return nil
}

func (f *fakeBookingStore) GetBooking(_ context.Context, id string) (*models.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, errs.NewNotFoundError("booking not found")
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookingStore) ListBookings(_ context.Context) ([]*models.Booking, error) {
	return f.where(func(*models.Booking) bool { return true }), nil
}

func (f *fakeBookingStore) ListByParent(_ context.Context, parentUID string) ([]*models.Booking, error) {
	return f.where(func(b *models.Booking) bool { return b.ParentUID == parentUID }), nil
}

func (f *fakeBookingStore) ListByDad(_ context.Context, dadUID string) ([]*models.Booking, error) {
	return f.where(func(b *models.Booking) bool { return b.DadUID == dadUID }), nil
}

func (f *fakeBookingStore) SetStatus(_ context.Context, id, status string) error {
	b, ok := f.bookings[id]
	if !ok {
		return errs.NewNotFoundError("booking not found")
	}
	f.setCalls++
	b.Status = status
	return nil
}

func (f *fakeBookingStore) where(keep func(*models.Booking) bool) []*models.Booking {
	out := make([]*models.Booking, 0)
	for _, b := range f.bookings {
		if keep(b) {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out
}

type fakePhotos struct {
	uploaded  map[string][]byte
	deleted   []string
	uploadErr error
	deleteErr error
}

func newFakePhotos() *fakePhotos {
	return &fakePhotos{uploaded: make(map[string][]byte)}
}

func (f *fakePhotos) Upload(_ context.Context, path, _ string, body io.Reader) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return "", err
	}
	f.uploaded[path] = buf.Bytes()
	return "https://storage.googleapis.com/photos/" + path, nil
}

func (f *fakePhotos) Delete(_ context.Context, path string) error {
	f.deleted = append(f.deleted, path)
	return f.deleteErr
}

type fakeClaims struct {
	claims map[string]map[string]interface{}
	err    error
}

func (f *fakeClaims) SetCustomUserClaims(_ context.Context, uid string, claims map[string]interface{}) error {
	if f.err != nil {
		return f.err
	}
	if f.claims == nil {
		f.claims = make(map[string]map[string]interface{})
	}
	f.claims[uid] = claims
	return nil
}

type fakeRecorder struct {
	submitted int
	changes   []string
}

func (f *fakeRecorder) BookingSubmitted() { f.submitted++ }

func (f *fakeRecorder) StatusChanged(entity, status string) {
	f.changes = append(f.changes, entity+":"+status)
}
